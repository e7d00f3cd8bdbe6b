package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/agentdex/agentdex/pkg/graph"
	"github.com/agentdex/agentdex/pkg/presenter"
)

// GraphConfig holds configuration for the graph command
type GraphConfig struct {
	Format string
}

// NewGraphConfig creates a new GraphConfig with default values
func NewGraphConfig() *GraphConfig {
	return &GraphConfig{
		Format: "text",
	}
}

// Validate validates the GraphConfig and returns an error if invalid
func (c *GraphConfig) Validate() error {
	if c.Format != "text" && c.Format != "dot" {
		return errors.Errorf("invalid format: %s, must be one of: text, dot", c.Format)
	}
	return nil
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the delegation graph of the corpus",
	Long: `Build the delegation graph from @agent-name references and print it as an
adjacency listing or Graphviz DOT. Delegation cycles and agents nobody
delegates to are reported alongside the text output.

Examples:
  agentdex graph
  agentdex graph --format dot | dot -Tsvg -o agents.svg`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getGraphConfigFromFlags(cmd)
		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid options")
			os.Exit(1)
		}

		_, c, err := loadCorpus(cmd.Context())
		if err != nil {
			presenter.Error(err, "Failed to load corpus")
			os.Exit(1)
		}

		g := graph.Build(c)

		if config.Format == "dot" {
			fmt.Print(g.DOT())
			return
		}

		fmt.Print(g.Text())

		if cycles := g.Cycles(); len(cycles) > 0 {
			presenter.Separator()
			for _, cycle := range cycles {
				presenter.Warning(fmt.Sprintf("delegation cycle: %s -> %s", strings.Join(cycle, " -> "), cycle[0]))
			}
		}

		if orphans := g.Orphans(); len(orphans) > 0 {
			presenter.Separator()
			presenter.Info(fmt.Sprintf("Not delegated to by any agent: %s", strings.Join(orphans, ", ")))
		}
	},
}

func init() {
	defaults := NewGraphConfig()
	graphCmd.Flags().StringP("format", "f", defaults.Format, "Output format (text, dot)")
	rootCmd.AddCommand(graphCmd)
}

func getGraphConfigFromFlags(cmd *cobra.Command) *GraphConfig {
	config := NewGraphConfig()
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	return config
}
