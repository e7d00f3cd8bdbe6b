package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/agentdex/agentdex/pkg/agent"
	"github.com/agentdex/agentdex/pkg/logger"
)

// agentFilePattern matches agent definition files at the corpus root and one
// category level deep.
const agentFilePattern = "{*.md,*/*.md}"

// Discovery handles agent discovery from configured corpus roots
type Discovery struct {
	roots []string
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithRoots sets custom corpus roots
func WithRoots(roots ...string) Option {
	return func(d *Discovery) error {
		if len(roots) == 0 {
			return errors.New("at least one corpus root must be specified")
		}
		d.roots = roots
		return nil
	}
}

// WithDefaultRoots initializes with default corpus roots
func WithDefaultRoots() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.roots = []string{
			"./agents", // Repo-local (highest precedence)
			filepath.Join(homeDir, ".agentdex", "agents"), // User-global
		}
		return nil
	}
}

// NewDiscovery creates a new agent discovery instance
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		if err := WithDefaultRoots()(d); err != nil {
			return nil, err
		}
	} else {
		for _, opt := range opts {
			if err := opt(d); err != nil {
				return nil, err
			}
		}
	}

	if len(d.roots) == 0 {
		if err := WithDefaultRoots()(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Roots returns the configured corpus roots in precedence order.
func (d *Discovery) Roots() []string {
	return d.roots
}

// Load discovers and parses all agent definitions from the configured roots.
// Missing roots are skipped; parse failures are collected on the corpus
// rather than aborting the walk.
func (d *Discovery) Load(ctx context.Context) (*Corpus, error) {
	var agents []*agent.Agent
	var invalid []InvalidFile

	for _, root := range d.roots {
		if _, err := os.Stat(root); err != nil {
			logger.G(ctx).WithField("root", root).Debug("Skipping missing corpus root")
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(root), agentFilePattern)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to scan corpus root '%s'", root)
		}

		for _, rel := range matches {
			if skipEntry(rel) {
				continue
			}

			path := filepath.Join(root, filepath.FromSlash(rel))
			a, err := agent.ParseFile(path)
			if err != nil {
				invalid = append(invalid, InvalidFile{Path: path, Err: err})
				continue
			}

			a.Category = categoryOf(rel)
			agents = append(agents, a)
		}

		logger.G(ctx).WithField("root", root).WithField("agents", len(agents)).Debug("Scanned corpus root")
	}

	return New(agents, invalid), nil
}

// skipEntry filters out non-agent markdown: documentation files and anything
// under a dot directory.
func skipEntry(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") || strings.HasPrefix(part, "_") {
			return true
		}
	}

	switch strings.ToUpper(filepath.Base(rel)) {
	case "README.MD", "CONTRIBUTING.MD", "LICENSE.MD", "CHANGELOG.MD":
		return true
	}

	return false
}

// categoryOf returns the category folder for a root-relative path, or ""
// for root-level files.
func categoryOf(rel string) string {
	dir := filepath.Dir(filepath.FromSlash(rel))
	if dir == "." {
		return ""
	}
	return filepath.ToSlash(dir)
}

// LoadFS loads agents from an fs.FS corpus root. Used for embedded or test
// corpora where no real directory exists.
func LoadFS(fsys fs.FS) (*Corpus, error) {
	var agents []*agent.Agent
	var invalid []InvalidFile

	matches, err := doublestar.Glob(fsys, agentFilePattern)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan corpus")
	}

	for _, rel := range matches {
		if skipEntry(rel) {
			continue
		}

		content, err := fs.ReadFile(fsys, rel)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read '%s'", rel)
		}

		a, err := agent.Parse(rel, content)
		if err != nil {
			invalid = append(invalid, InvalidFile{Path: rel, Err: err})
			continue
		}

		a.Category = categoryOf(rel)
		agents = append(agents, a)
	}

	return New(agents, invalid), nil
}
