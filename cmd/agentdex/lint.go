package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/agentdex/agentdex/pkg/lint"
	"github.com/agentdex/agentdex/pkg/logger"
	"github.com/agentdex/agentdex/pkg/presenter"
)

// LintConfig holds configuration for the lint command
type LintConfig struct {
	Format     string
	FailOnWarn bool
	Watch      bool
	Debounce   int // milliseconds
	Disable    []string
}

// NewLintConfig creates a new LintConfig with default values
func NewLintConfig() *LintConfig {
	return &LintConfig{
		Format:   "text",
		Debounce: 500,
	}
}

// Validate validates the LintConfig and returns an error if invalid
func (c *LintConfig) Validate() error {
	if c.Format != "text" && c.Format != "json" {
		return errors.Errorf("invalid format: %s, must be one of: text, json", c.Format)
	}
	if c.Debounce < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.Debounce)
	}
	for _, rule := range c.Disable {
		if !isKnownRule(rule) {
			return errors.Errorf("unknown lint rule: %s, known rules: %s", rule, strings.Join(lint.RuleNames(), ", "))
		}
	}
	return nil
}

func isKnownRule(name string) bool {
	for _, rule := range lint.RuleNames() {
		if rule == name {
			return true
		}
	}
	return false
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the corpus for consistency problems",
	Long: `Run documentation-consistency checks over the corpus: frontmatter
validity, unique and well-formed names, known tool permissions, resolvable
@agent-name delegations, and file size guidelines.

Exits non-zero when error-severity issues are found (or any issue with
--fail-on-warn).

Examples:
  agentdex lint
  agentdex lint --format json
  agentdex lint --disable max-file-size --disable tools-known
  agentdex lint --watch`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getLintConfigFromFlags(cmd)
		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid options")
			os.Exit(1)
		}

		ctx := cmd.Context()

		if config.Watch {
			if err := watchLint(ctx, config); err != nil {
				presenter.Error(err, "Watch failed")
				os.Exit(1)
			}
			return
		}

		failed, err := runLint(ctx, config)
		if err != nil {
			presenter.Error(err, "Lint failed")
			os.Exit(1)
		}
		if failed {
			os.Exit(1)
		}
	},
}

// runLint loads the corpus, runs the linter, and prints the report. The
// returned bool indicates whether the run should fail the command.
func runLint(ctx context.Context, config *LintConfig) (bool, error) {
	fileConfig, c, err := loadCorpus(ctx)
	if err != nil {
		return false, err
	}

	lintConfig := fileConfig.lintConfig()
	lintConfig.DisabledRules = append(lintConfig.DisabledRules, config.Disable...)

	report := lint.New(lintConfig).Run(ctx, c)

	if config.Format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return false, errors.Wrap(err, "failed to encode report")
		}
	} else {
		for _, issue := range report.Issues {
			presenter.Info(issue.String())
		}
		summary := fmt.Sprintf("%d agents checked: %d errors, %d warnings",
			c.Len(), len(report.Errors()), len(report.Warnings()))
		if report.HasErrors() {
			presenter.Warning(summary)
		} else {
			presenter.Success(summary)
		}
	}

	if report.HasErrors() {
		return true, nil
	}
	if config.FailOnWarn && len(report.Warnings()) > 0 {
		return true, nil
	}
	return false, nil
}

// watchLint re-runs lint whenever a markdown file under a corpus root
// changes, debouncing bursts of events.
func watchLint(ctx context.Context, config *LintConfig) error {
	fileConfig, err := loadConfig()
	if err != nil {
		return err
	}

	discovery, err := fileConfig.discovery()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	watched := 0
	for _, root := range discovery.Roots() {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		if err := addWatchRecursive(watcher, root); err != nil {
			return err
		}
		watched++
	}
	if watched == 0 {
		return errors.New("no corpus roots exist to watch")
	}

	presenter.Info("Watching corpus for changes (ctrl-c to stop)")
	if _, err := runLint(ctx, config); err != nil {
		return err
	}

	debounce := time.Duration(config.Debounce) * time.Millisecond
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".md") {
				// New category folders need watching too
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				continue
			}
			logger.G(ctx).WithField("file", event.Name).WithField("op", event.Op.String()).Debug("Corpus file changed")
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerCh = timer.C
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Warn("Watcher error")
		case <-timerCh:
			timer = nil
			timerCh = nil
			presenter.Separator()
			if _, err := runLint(ctx, config); err != nil {
				presenter.Error(err, "Lint failed")
			}
		}
	}
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func init() {
	defaults := NewLintConfig()
	lintCmd.Flags().StringP("format", "f", defaults.Format, "Output format (text, json)")
	lintCmd.Flags().Bool("fail-on-warn", defaults.FailOnWarn, "Exit non-zero on warnings as well as errors")
	lintCmd.Flags().BoolP("watch", "w", defaults.Watch, "Re-run lint when corpus files change")
	lintCmd.Flags().Int("debounce", defaults.Debounce, "Debounce time in milliseconds for watch mode")
	lintCmd.Flags().StringSlice("disable", defaults.Disable, "Disable a lint rule by name (repeatable)")
	rootCmd.AddCommand(lintCmd)
}

func getLintConfigFromFlags(cmd *cobra.Command) *LintConfig {
	config := NewLintConfig()
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	if failOnWarn, err := cmd.Flags().GetBool("fail-on-warn"); err == nil {
		config.FailOnWarn = failOnWarn
	}
	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		config.Watch = watch
	}
	if debounce, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.Debounce = debounce
	}
	if disable, err := cmd.Flags().GetStringSlice("disable"); err == nil {
		config.Disable = disable
	}
	return config
}
