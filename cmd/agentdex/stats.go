package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentdex/agentdex/pkg/presenter"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	Long:  `Show agent counts per category and tool permission frequency across the corpus.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_, c, err := loadCorpus(cmd.Context())
		if err != nil {
			presenter.Error(err, "Failed to load corpus")
			os.Exit(1)
		}

		presenter.Section("Corpus")
		presenter.Info(fmt.Sprintf("Agents:         %d", c.Len()))
		presenter.Info(fmt.Sprintf("Categories:     %d", len(c.Categories())))
		presenter.Info(fmt.Sprintf("Unparsed files: %d", len(c.Invalid)))

		byCategory := make(map[string]int)
		toolFreq := make(map[string]int)
		for _, a := range c.Agents {
			category := a.Category
			if category == "" {
				category = "(root)"
			}
			byCategory[category]++
			for _, tool := range a.Metadata.Tools {
				toolFreq[tool]++
			}
		}

		presenter.Section("Agents per category")
		printCountTable(byCategory, "CATEGORY")

		if len(toolFreq) > 0 {
			presenter.Section("Tool frequency")
			printCountTable(toolFreq, "TOOL")
		}
	},
}

// printCountTable prints a name/count map sorted by count descending, then
// name.
func printCountTable(counts map[string]int, header string) {
	type row struct {
		name  string
		count int
	}
	rows := make([]row, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, row{name, count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tCOUNT\n", header)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\n", r.name, r.count)
	}
	tw.Flush()
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
