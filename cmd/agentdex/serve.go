package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agentdex/agentdex/pkg/api"
	"github.com/agentdex/agentdex/pkg/lint"
	"github.com/agentdex/agentdex/pkg/presenter"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	Host string
	Port int
}

// NewServeConfig creates a new ServeConfig with default values
func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		Host: "localhost",
		Port: 8245,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the corpus catalog over HTTP",
	Long: `Start a read-only HTTP API over the loaded corpus:

  GET /healthz            server health and agent count
  GET /api/agents         agent summaries (filter with ?category=)
  GET /api/agents/{name}  full agent definition with delegation references
  GET /api/lint           lint report for the corpus

The corpus is loaded once at startup; restart the server to pick up changes.

Examples:
  agentdex serve
  agentdex serve --host 0.0.0.0 --port 9000`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getServeConfigFromFlags(cmd)
		ctx := cmd.Context()

		fileConfig, c, err := loadCorpus(ctx)
		if err != nil {
			presenter.Error(err, "Failed to load corpus")
			os.Exit(1)
		}

		server, err := api.NewServer(&api.ServerConfig{
			Host: config.Host,
			Port: config.Port,
		}, c, lint.New(fileConfig.lintConfig()))
		if err != nil {
			presenter.Error(err, "Failed to create server")
			os.Exit(1)
		}

		if err := server.Start(ctx); err != nil {
			presenter.Error(err, "Server failed")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("host", defaults.Host, "Host to bind to")
	serveCmd.Flags().IntP("port", "p", defaults.Port, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func getServeConfigFromFlags(cmd *cobra.Command) *ServeConfig {
	config := NewServeConfig()
	if host, err := cmd.Flags().GetString("host"); err == nil {
		config.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil {
		config.Port = port
	}
	return config
}
