package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentdex/agentdex/pkg/presenter"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a single agent definition",
	Long: `Show an agent's frontmatter fields and body.

Examples:
  agentdex show golang-pro
  agentdex show security-auditor --raw`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		_, c, err := loadCorpus(cmd.Context())
		if err != nil {
			presenter.Error(err, "Failed to load corpus")
			os.Exit(1)
		}

		a, ok := c.Get(name)
		if !ok {
			presenter.Error(fmt.Errorf("agent '%s' not found in corpus", name), "Agent not found")
			os.Exit(1)
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			content, err := os.ReadFile(a.Path)
			if err != nil {
				presenter.Error(err, "Failed to read agent file")
				os.Exit(1)
			}
			fmt.Print(string(content))
			return
		}

		presenter.Section(a.Name())
		presenter.Info(fmt.Sprintf("Path:        %s", a.Path))
		if a.Category != "" {
			presenter.Info(fmt.Sprintf("Category:    %s", a.Category))
		}
		presenter.Info(fmt.Sprintf("Description: %s", a.Metadata.Description))
		if len(a.Metadata.Tools) > 0 {
			presenter.Info(fmt.Sprintf("Tools:       %s", strings.Join(a.Metadata.Tools, ", ")))
		}
		if a.Metadata.Model != "" {
			presenter.Info(fmt.Sprintf("Model:       %s", a.Metadata.Model))
		}
		if a.Metadata.Color != "" {
			presenter.Info(fmt.Sprintf("Color:       %s", a.Metadata.Color))
		}
		if refs := a.ReferenceNames(); len(refs) > 0 {
			presenter.Info(fmt.Sprintf("Delegates:   %s", strings.Join(refs, ", ")))
		}
		presenter.Separator()
		fmt.Println(a.Body)
	},
}

func init() {
	showCmd.Flags().Bool("raw", false, "Print the file verbatim, frontmatter included")
	rootCmd.AddCommand(showCmd)
}
