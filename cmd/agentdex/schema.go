package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/agentdex/agentdex/pkg/agent"
	"github.com/agentdex/agentdex/pkg/presenter"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the agent frontmatter",
	Long: `Emit a JSON schema describing the YAML frontmatter of agent definition
files (name, description, tools, model, color), for use by editors and
host-side validation tooling.`,
	Run: func(_ *cobra.Command, _ []string) {
		reflector := jsonschema.Reflector{
			ExpandedStruct: true,
			DoNotReference: true,
		}
		schema := reflector.Reflect(&agent.Metadata{})
		schema.Title = "Agent definition frontmatter"
		schema.Description = "YAML frontmatter of an AI coding-agent persona file"

		output, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			presenter.Error(err, "Failed to marshal schema")
			os.Exit(1)
		}
		fmt.Println(string(output))
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
