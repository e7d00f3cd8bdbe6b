package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/agentdex/agentdex/pkg/presenter"
	"github.com/agentdex/agentdex/pkg/scaffold"
)

// NewAgentConfig holds configuration for the new command
type NewAgentConfig struct {
	Category    string
	Description string
	Tools       string
	Model       string
	Color       string
	Template    string
}

// NewNewAgentConfig creates a new NewAgentConfig with default values
func NewNewAgentConfig() *NewAgentConfig {
	return &NewAgentConfig{
		Template: "default",
	}
}

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a new agent definition",
	Long: `Create a new agent definition file under the first corpus root from a
builtin template. The frontmatter is generated from flags; the body comes
from the template.

Examples:
  agentdex new rust-pro --category language-experts --description "Rust specialist" --tools "Read, Write, Edit, Bash"
  agentdex new tech-lead --template orchestrator
  agentdex new code-reviewer --template reviewer --tools Read,Grep,Glob`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		config := getNewAgentConfigFromFlags(cmd)

		fileConfig, err := loadConfig()
		if err != nil {
			presenter.Error(err, "Failed to load configuration")
			os.Exit(1)
		}

		discovery, err := fileConfig.discovery()
		if err != nil {
			presenter.Error(err, "Failed to resolve corpus roots")
			os.Exit(1)
		}
		root := discovery.Roots()[0]

		params := scaffold.Params{
			Name:        name,
			Description: config.Description,
			Tools:       splitTools(config.Tools),
			Model:       config.Model,
			Color:       config.Color,
			Category:    config.Category,
		}

		path, err := scaffold.Create(root, config.Template, params)
		if err != nil {
			presenter.Error(err, "Failed to create agent")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Created '%s' at %s", name, path))
	},
}

var newListTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List builtin scaffold templates",
	Run: func(_ *cobra.Command, _ []string) {
		templates, err := scaffold.Templates()
		if err != nil {
			presenter.Error(errors.Wrap(err, "failed to list templates"), "")
			os.Exit(1)
		}
		for _, name := range templates {
			presenter.Info(name)
		}
	},
}

func splitTools(tools string) []string {
	if tools == "" {
		return nil
	}
	var result []string
	for _, tool := range strings.Split(tools, ",") {
		if trimmed := strings.TrimSpace(tool); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func init() {
	defaults := NewNewAgentConfig()
	newCmd.Flags().StringP("category", "c", defaults.Category, "Category folder for the new agent")
	newCmd.Flags().StringP("description", "d", defaults.Description, "Frontmatter description")
	newCmd.Flags().String("tools", defaults.Tools, "Comma-separated tool list")
	newCmd.Flags().String("model", defaults.Model, "Frontmatter model")
	newCmd.Flags().String("color", defaults.Color, "Frontmatter color")
	newCmd.Flags().String("template", defaults.Template, "Builtin template to use")
	newCmd.AddCommand(newListTemplatesCmd)
	rootCmd.AddCommand(newCmd)
}

func getNewAgentConfigFromFlags(cmd *cobra.Command) *NewAgentConfig {
	config := NewNewAgentConfig()
	if category, err := cmd.Flags().GetString("category"); err == nil {
		config.Category = category
	}
	if description, err := cmd.Flags().GetString("description"); err == nil {
		config.Description = description
	}
	if tools, err := cmd.Flags().GetString("tools"); err == nil {
		config.Tools = tools
	}
	if model, err := cmd.Flags().GetString("model"); err == nil {
		config.Model = model
	}
	if color, err := cmd.Flags().GetString("color"); err == nil {
		config.Color = color
	}
	if template, err := cmd.Flags().GetString("template"); err == nil {
		config.Template = template
	}
	return config
}
