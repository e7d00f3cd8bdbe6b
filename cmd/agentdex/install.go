package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/agentdex/agentdex/pkg/agent"
	"github.com/agentdex/agentdex/pkg/catalog"
	"github.com/agentdex/agentdex/pkg/corpus"
	"github.com/agentdex/agentdex/pkg/installer"
	"github.com/agentdex/agentdex/pkg/logger"
	"github.com/agentdex/agentdex/pkg/presenter"
)

// InstallConfig holds configuration for the install command
type InstallConfig struct {
	Target string
	Force  bool
	Diff   bool
	DryRun bool
}

// NewInstallConfig creates a new InstallConfig with default values
func NewInstallConfig() *InstallConfig {
	return &InstallConfig{}
}

var installCmd = &cobra.Command{
	Use:   "install [names...]",
	Short: "Install agents into the host configuration directory",
	Long: `Copy agent definitions into the host runtime's agent directory (default
~/.claude/agents) so the AI coding assistant can load them. With no
arguments, the whole corpus is installed.

Targets that already exist with different content are not overwritten unless
--force is given.

Examples:
  agentdex install
  agentdex install golang-pro security-auditor
  agentdex install --diff
  agentdex install --target ~/.claude/agents --force`,
	Run: func(cmd *cobra.Command, args []string) {
		config := getInstallConfigFromFlags(cmd)
		ctx := cmd.Context()

		fileConfig, c, err := loadCorpus(ctx)
		if err != nil {
			presenter.Error(err, "Failed to load corpus")
			os.Exit(1)
		}

		selected, err := selectAgents(c, args)
		if err != nil {
			presenter.Error(err, "Unknown agent")
			os.Exit(1)
		}
		if len(selected) == 0 {
			presenter.Info("Nothing to install")
			return
		}

		targetDir, err := resolveTargetDir(config.Target, fileConfig)
		if err != nil {
			presenter.Error(err, "Failed to determine target directory")
			os.Exit(1)
		}

		store := openStoreBestEffort(ctx)
		if store != nil {
			defer store.Close()
		}

		ins := installer.New(targetDir, store)

		if config.Diff {
			showDiffs(ins, selected)
			return
		}

		if config.DryRun {
			for _, a := range selected {
				presenter.Info(fmt.Sprintf("would install %s -> %s/%s.md", a.Path, targetDir, a.Name()))
			}
			return
		}

		result, err := ins.Install(ctx, selected, config.Force)
		if result != nil {
			for _, name := range result.Installed {
				presenter.Success(fmt.Sprintf("Installed '%s'", name))
			}
			for _, name := range result.Updated {
				presenter.Success(fmt.Sprintf("Updated '%s'", name))
			}
			if len(result.Skipped) > 0 {
				presenter.Info(fmt.Sprintf("%d agent(s) already up to date", len(result.Skipped)))
			}
		}
		if err != nil {
			presenter.Error(err, "Install finished with errors")
			os.Exit(1)
		}
		if result != nil {
			presenter.Info(result.Describe())
		}
	},
}

// selectAgents resolves the positional names against the corpus, or returns
// every agent when no names are given.
func selectAgents(c *corpus.Corpus, names []string) ([]*agent.Agent, error) {
	if len(names) == 0 {
		var all []*agent.Agent
		for _, name := range c.Names() {
			a, _ := c.Get(name)
			all = append(all, a)
		}
		return all, nil
	}

	var selected []*agent.Agent
	for _, name := range names {
		a, ok := c.Get(name)
		if !ok {
			return nil, errors.Errorf("agent '%s' not found in corpus", name)
		}
		selected = append(selected, a)
	}
	return selected, nil
}

// resolveTargetDir picks the install directory: flag, then config file, then
// the host default.
func resolveTargetDir(flagTarget string, fileConfig *Config) (string, error) {
	if flagTarget != "" {
		return flagTarget, nil
	}
	if fileConfig.Target != "" {
		return fileConfig.Target, nil
	}
	return installer.DefaultTargetDir()
}

// openStoreBestEffort opens the catalog for receipt tracking. Install still
// works without it.
func openStoreBestEffort(ctx context.Context) *catalog.Store {
	store, err := catalog.NewStore(ctx, "")
	if err != nil {
		logger.G(ctx).WithError(err).Warn("Catalog unavailable; install receipts will not be recorded")
		return nil
	}
	return store
}

func showDiffs(ins *installer.Installer, agents []*agent.Agent) {
	clean := true
	for _, a := range agents {
		diff, err := ins.Diff(a)
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to diff '%s'", a.Name()))
			continue
		}
		if diff == "" {
			continue
		}
		clean = false
		presenter.Section(a.Name())
		fmt.Print(diff)
	}
	if clean {
		presenter.Success("Installed agents match the corpus")
	}
}

func init() {
	defaults := NewInstallConfig()
	installCmd.Flags().StringP("target", "t", defaults.Target, "Install directory (default: host agent directory)")
	installCmd.Flags().Bool("force", defaults.Force, "Overwrite targets that differ from the corpus")
	installCmd.Flags().Bool("diff", defaults.Diff, "Show diffs between installed copies and the corpus instead of installing")
	installCmd.Flags().Bool("dry-run", defaults.DryRun, "Show what would be installed without writing")
	rootCmd.AddCommand(installCmd)
}

func getInstallConfigFromFlags(cmd *cobra.Command) *InstallConfig {
	config := NewInstallConfig()
	if target, err := cmd.Flags().GetString("target"); err == nil {
		config.Target = target
	}
	if force, err := cmd.Flags().GetBool("force"); err == nil {
		config.Force = force
	}
	if diff, err := cmd.Flags().GetBool("diff"); err == nil {
		config.Diff = diff
	}
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
		config.DryRun = dryRun
	}
	return config
}
