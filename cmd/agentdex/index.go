package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentdex/agentdex/pkg/catalog"
	"github.com/agentdex/agentdex/pkg/presenter"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the catalog index from the corpus",
	Long: `Scan the corpus roots and rebuild the SQLite catalog used by search and
install receipts. The catalog lives at ~/.agentdex/catalog.db (override with
AGENTDEX_BASE_PATH).`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		_, c, err := loadCorpus(ctx)
		if err != nil {
			presenter.Error(err, "Failed to load corpus")
			os.Exit(1)
		}

		store, err := catalog.NewStore(ctx, "")
		if err != nil {
			presenter.Error(err, "Failed to open catalog")
			os.Exit(1)
		}
		defer store.Close()

		indexed, err := store.Reindex(ctx, c)
		if err != nil {
			presenter.Error(err, "Reindex failed")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Indexed %d agent(s)", indexed))
		if len(c.Invalid) > 0 {
			presenter.Warning(fmt.Sprintf("%d file(s) failed to parse and were not indexed; run 'agentdex lint'", len(c.Invalid)))
		}
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the agent catalog",
	Long: `Search indexed agents by name, description, or tools. Run 'agentdex
reindex' first to populate the catalog.

Examples:
  agentdex search rust
  agentdex search "code review"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		store, err := catalog.NewStore(ctx, "")
		if err != nil {
			presenter.Error(err, "Failed to open catalog")
			os.Exit(1)
		}
		defer store.Close()

		records, err := store.Search(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Search failed")
			os.Exit(1)
		}

		if len(records) == 0 {
			presenter.Info("No agents matched; try 'agentdex reindex' if the catalog is stale")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tCATEGORY\tTOOLS\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t--------\t-----\t-----------")

		for _, record := range records {
			description := record.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			toolCount := 0
			if record.Tools != "" {
				toolCount = len(strings.Split(record.Tools, ","))
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", record.Name, record.Category, toolCount, description)
		}
		tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(searchCmd)
}
