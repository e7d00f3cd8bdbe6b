package main

import (
	"context"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/agentdex/agentdex/pkg/corpus"
	"github.com/agentdex/agentdex/pkg/lint"
)

// Config is the agentdex configuration, loaded from agentdex.yaml (or
// ~/.agentdex/agentdex.yaml), environment variables with the AGENTDEX
// prefix, and flags.
type Config struct {
	// Roots are the corpus roots in precedence order. Empty means the
	// built-in defaults (./agents, ~/.agentdex/agents).
	Roots []string `mapstructure:"roots"`
	// Target is the host install directory. Empty means ~/.claude/agents.
	Target string `mapstructure:"target"`
	// Profile selects a named profile from Profiles.
	Profile string `mapstructure:"profile"`
	// Profiles are named overrides, e.g. separate corpora for work and
	// personal agents.
	Profiles map[string]ProfileConfig `mapstructure:"profiles"`

	Lint LintRulesConfig `mapstructure:"lint"`
}

// ProfileConfig is a named override set applied on top of the base config
type ProfileConfig struct {
	Roots  []string `mapstructure:"roots"`
	Target string   `mapstructure:"target"`
}

// LintRulesConfig mirrors lint.Config in the configuration file
type LintRulesConfig struct {
	MaxFileSize          int64    `mapstructure:"max_file_size"`
	MaxDescriptionLength int      `mapstructure:"max_description_length"`
	ExtraTools           []string `mapstructure:"extra_tools"`
	Categories           []string `mapstructure:"categories"`
	DisabledRules        []string `mapstructure:"disabled_rules"`
}

// loadConfig unmarshals the viper state and applies the active profile.
func loadConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if config.Profile != "" && config.Profile != "default" {
		profile, exists := config.Profiles[config.Profile]
		if !exists {
			return nil, errors.Errorf("profile '%s' not found in configuration", config.Profile)
		}
		if err := applyProfile(&config, profile); err != nil {
			return nil, err
		}
	}

	return &config, nil
}

// applyProfile merges a profile into the config without zeroing unset fields
func applyProfile(config *Config, profile ProfileConfig) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           config,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	if err := decoder.Decode(profile); err != nil {
		return errors.Wrap(err, "failed to apply profile configuration")
	}

	return nil
}

// lintConfig converts the file representation to the linter's config.
func (c *Config) lintConfig() *lint.Config {
	config := lint.DefaultConfig()
	if c.Lint.MaxFileSize != 0 {
		config.MaxFileSize = c.Lint.MaxFileSize
	}
	if c.Lint.MaxDescriptionLength != 0 {
		config.MaxDescriptionLength = c.Lint.MaxDescriptionLength
	}
	config.ExtraTools = c.Lint.ExtraTools
	config.Categories = c.Lint.Categories
	config.DisabledRules = c.Lint.DisabledRules
	return config
}

// discovery builds a corpus discovery from the configured roots.
func (c *Config) discovery() (*corpus.Discovery, error) {
	if len(c.Roots) == 0 {
		return corpus.NewDiscovery()
	}
	return corpus.NewDiscovery(corpus.WithRoots(c.Roots...))
}

// loadCorpus is the common entry point for commands that read the corpus.
func loadCorpus(ctx context.Context) (*Config, *corpus.Corpus, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	discovery, err := config.discovery()
	if err != nil {
		return nil, nil, err
	}

	c, err := discovery.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	return config, c, nil
}
