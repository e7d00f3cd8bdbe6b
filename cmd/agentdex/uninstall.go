package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentdex/agentdex/pkg/installer"
	"github.com/agentdex/agentdex/pkg/presenter"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <name>",
	Short: "Remove an installed agent from the host configuration directory",
	Long: `Remove an agent file from the host runtime's agent directory and delete
its install receipt.

Examples:
  agentdex uninstall golang-pro
  agentdex uninstall golang-pro --target ~/.claude/agents`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		ctx := cmd.Context()

		fileConfig, err := loadConfig()
		if err != nil {
			presenter.Error(err, "Failed to load configuration")
			os.Exit(1)
		}

		flagTarget, _ := cmd.Flags().GetString("target")
		targetDir, err := resolveTargetDir(flagTarget, fileConfig)
		if err != nil {
			presenter.Error(err, "Failed to determine target directory")
			os.Exit(1)
		}

		store := openStoreBestEffort(ctx)
		if store != nil {
			defer store.Close()
		}

		if err := installer.New(targetDir, store).Uninstall(ctx, name); err != nil {
			presenter.Error(err, "Uninstall failed")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Removed '%s' from %s", name, targetDir))
	},
}

func init() {
	uninstallCmd.Flags().StringP("target", "t", "", "Install directory (default: host agent directory)")
	rootCmd.AddCommand(uninstallCmd)
}
