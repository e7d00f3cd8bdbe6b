// Package lint implements documentation-consistency checks over an agent
// corpus: frontmatter validity, name uniqueness and format, tool vocabulary,
// delegation reference resolution, and size guidelines.
package lint

import (
	"context"
	"fmt"
	"sort"

	"github.com/agentdex/agentdex/pkg/corpus"
	"github.com/agentdex/agentdex/pkg/logger"
)

// Severity classifies lint issues. Errors indicate a corpus the host cannot
// load correctly; warnings are quality guidance.
type Severity string

const (
	// SeverityError marks issues that make an agent unusable or ambiguous
	SeverityError Severity = "error"
	// SeverityWarning marks quality issues that do not block loading
	SeverityWarning Severity = "warning"
)

// Issue is a single lint finding
type Issue struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Agent    string   `json:"agent,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// String formats an issue in file:line style for terminal output.
func (i Issue) String() string {
	location := i.Path
	if i.Line > 0 {
		location = fmt.Sprintf("%s:%d", i.Path, i.Line)
	}
	return fmt.Sprintf("%s: %s: %s (%s)", location, i.Severity, i.Message, i.Rule)
}

// Config holds tunables for the linter
type Config struct {
	// MaxFileSize is the size guideline in bytes; larger files get a warning.
	// Zero disables the check.
	MaxFileSize int64
	// MaxDescriptionLength is the description guideline in characters; the
	// host shows descriptions in its routing picker, so very long ones are
	// usually body text that leaked into the frontmatter. Zero disables.
	MaxDescriptionLength int
	// ExtraTools extends the known tool vocabulary, e.g. for MCP tools the
	// host exposes.
	ExtraTools []string
	// Categories is an allowlist of category folders. Empty disables the
	// category-known rule.
	Categories []string
	// DisabledRules lists rule names to skip.
	DisabledRules []string
}

// DefaultConfig returns the default lint configuration
func DefaultConfig() *Config {
	return &Config{
		MaxFileSize:          20 * 1024,
		MaxDescriptionLength: 500,
	}
}

// Linter runs lint rules over a corpus
type Linter struct {
	config   *Config
	disabled map[string]bool
}

// New creates a Linter. A nil config uses defaults.
func New(config *Config) *Linter {
	if config == nil {
		config = DefaultConfig()
	}

	disabled := make(map[string]bool, len(config.DisabledRules))
	for _, rule := range config.DisabledRules {
		disabled[rule] = true
	}

	return &Linter{config: config, disabled: disabled}
}

// Run executes all enabled rules against the corpus and returns the report.
func (l *Linter) Run(ctx context.Context, c *corpus.Corpus) *Report {
	var issues []Issue

	for _, rule := range allRules {
		if l.disabled[rule.name] {
			continue
		}
		found := rule.check(l.config, c)
		issues = append(issues, found...)
		if len(found) > 0 {
			logger.G(ctx).WithField("rule", rule.name).WithField("issues", len(found)).Debug("Lint rule reported issues")
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Path != issues[j].Path {
			return issues[i].Path < issues[j].Path
		}
		return issues[i].Line < issues[j].Line
	})

	return &Report{Issues: issues}
}

// RuleNames returns the names of all registered rules, in execution order.
func RuleNames() []string {
	names := make([]string, 0, len(allRules))
	for _, rule := range allRules {
		names = append(names, rule.name)
	}
	return names
}

// Report is the outcome of a lint run
type Report struct {
	Issues []Issue `json:"issues"`
}

// Errors returns issues with error severity
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns issues with warning severity
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// HasErrors reports whether any error-severity issue was found
func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

func (r *Report) filter(severity Severity) []Issue {
	var filtered []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}
