package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/agentdex/agentdex/pkg/agent"
	"github.com/agentdex/agentdex/pkg/presenter"
)

// ListConfig holds configuration for the list command
type ListConfig struct {
	Category string
	Tool     string
	NameGlob string
	Format   string
}

// NewListConfig creates a new ListConfig with default values
func NewListConfig() *ListConfig {
	return &ListConfig{
		Format: "table",
	}
}

// Validate validates the ListConfig and returns an error if invalid
func (c *ListConfig) Validate() error {
	if c.Format != "table" && c.Format != "json" {
		return errors.Errorf("invalid format: %s, must be one of: table, json", c.Format)
	}
	return nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents in the corpus",
	Long: `List all agent definitions discovered from the configured corpus roots,
with optional filtering by category, tool permission, or name glob.

Examples:
  agentdex list
  agentdex list --category language-experts
  agentdex list --tool Bash
  agentdex list --name-glob '*-pro' --format json`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getListConfigFromFlags(cmd)
		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid options")
			os.Exit(1)
		}

		_, c, err := loadCorpus(cmd.Context())
		if err != nil {
			presenter.Error(err, "Failed to load corpus")
			os.Exit(1)
		}

		var nameGlob glob.Glob
		if config.NameGlob != "" {
			nameGlob, err = glob.Compile(config.NameGlob)
			if err != nil {
				presenter.Error(err, "Invalid name glob")
				os.Exit(1)
			}
		}

		var selected []*agent.Agent
		for _, name := range c.Names() {
			a, _ := c.Get(name)
			if config.Category != "" && a.Category != config.Category {
				continue
			}
			if config.Tool != "" && !a.HasTool(config.Tool) {
				continue
			}
			if nameGlob != nil && !nameGlob.Match(name) {
				continue
			}
			selected = append(selected, a)
		}

		if config.Format == "json" {
			printAgentsJSON(selected)
			return
		}

		if len(selected) == 0 {
			presenter.Info("No agents found")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tCATEGORY\tTOOLS\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t--------\t-----\t-----------")

		for _, a := range selected {
			description := a.Metadata.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", a.Name(), a.Category, len(a.Metadata.Tools), description)
		}
		tw.Flush()
	},
}

func printAgentsJSON(agents []*agent.Agent) {
	type entry struct {
		Name        string   `json:"name"`
		Category    string   `json:"category,omitempty"`
		Description string   `json:"description"`
		Tools       []string `json:"tools,omitempty"`
		Model       string   `json:"model,omitempty"`
		Color       string   `json:"color,omitempty"`
		Path        string   `json:"path"`
	}

	entries := make([]entry, 0, len(agents))
	for _, a := range agents {
		entries = append(entries, entry{
			Name:        a.Name(),
			Category:    a.Category,
			Description: a.Metadata.Description,
			Tools:       a.Metadata.Tools,
			Model:       a.Metadata.Model,
			Color:       a.Metadata.Color,
			Path:        a.Path,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(entries)
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().StringP("category", "c", defaults.Category, "Only agents in this category folder")
	listCmd.Flags().StringP("tool", "t", defaults.Tool, "Only agents granted this tool")
	listCmd.Flags().String("name-glob", defaults.NameGlob, "Only agents whose name matches this glob")
	listCmd.Flags().StringP("format", "f", defaults.Format, "Output format (table, json)")
	rootCmd.AddCommand(listCmd)
}

func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()
	if category, err := cmd.Flags().GetString("category"); err == nil {
		config.Category = category
	}
	if tool, err := cmd.Flags().GetString("tool"); err == nil {
		config.Tool = tool
	}
	if nameGlob, err := cmd.Flags().GetString("name-glob"); err == nil {
		config.NameGlob = nameGlob
	}
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	return config
}
