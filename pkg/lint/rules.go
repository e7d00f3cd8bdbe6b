package lint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agentdex/agentdex/pkg/agent"
	"github.com/agentdex/agentdex/pkg/corpus"
)

// rule pairs a stable name with its check function. Rule names are part of
// the CLI surface (--disable takes them).
type rule struct {
	name  string
	check func(*Config, *corpus.Corpus) []Issue
}

var allRules = []rule{
	{"frontmatter", checkFrontmatter},
	{"name-required", checkNameRequired},
	{"name-format", checkNameFormat},
	{"name-matches-filename", checkNameMatchesFilename},
	{"name-unique", checkNameUnique},
	{"description-required", checkDescriptionRequired},
	{"description-length", checkDescriptionLength},
	{"tools-known", checkToolsKnown},
	{"dangling-ref", checkDanglingRefs},
	{"self-ref", checkSelfRefs},
	{"max-file-size", checkMaxFileSize},
	{"category-known", checkCategoryKnown},
}

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// checkFrontmatter surfaces files that failed to parse during discovery.
func checkFrontmatter(_ *Config, c *corpus.Corpus) []Issue {
	var issues []Issue
	for _, invalid := range c.Invalid {
		issues = append(issues, Issue{
			Rule:     "frontmatter",
			Severity: SeverityError,
			Path:     invalid.Path,
			Message:  invalid.Err.Error(),
		})
	}
	return issues
}

func checkNameRequired(_ *Config, c *corpus.Corpus) []Issue {
	var issues []Issue
	for _, a := range c.Agents {
		if a.Name() == "" {
			issues = append(issues, Issue{
				Rule:     "name-required",
				Severity: SeverityError,
				Path:     a.Path,
				Message:  "frontmatter must set a non-empty name",
			})
		}
	}
	return issues
}

func checkNameFormat(_ *Config, c *corpus.Corpus) []Issue {
	var issues []Issue
	for _, a := range c.Agents {
		if a.Name() == "" {
			continue
		}
		if !namePattern.MatchString(a.Name()) {
			issues = append(issues, Issue{
				Rule:     "name-format",
				Severity: SeverityError,
				Path:     a.Path,
				Agent:    a.Name(),
				Message:  fmt.Sprintf("name %q must be lowercase alphanumerics and hyphens", a.Name()),
			})
		}
	}
	return issues
}

func checkNameMatchesFilename(_ *Config, c *corpus.Corpus) []Issue {
	var issues []Issue
	for _, a := range c.Agents {
		if a.Name() == "" {
			continue
		}
		if stem := agent.FileStem(a.Path); stem != a.Name() {
			issues = append(issues, Issue{
				Rule:     "name-matches-filename",
				Severity: SeverityWarning,
				Path:     a.Path,
				Agent:    a.Name(),
				Message:  fmt.Sprintf("name %q does not match file name %q", a.Name(), stem),
			})
		}
	}
	return issues
}

// checkNameUnique flags every definition after the first occurrence of a
// name. The first file in discovery order stays canonical.
func checkNameUnique(_ *Config, c *corpus.Corpus) []Issue {
	var issues []Issue
	for name, agents := range c.Duplicates() {
		for _, dup := range agents[1:] {
			issues = append(issues, Issue{
				Rule:     "name-unique",
				Severity: SeverityError,
				Path:     dup.Path,
				Agent:    name,
				Message:  fmt.Sprintf("name %q already defined in %s", name, agents[0].Path),
			})
		}
	}
	return issues
}

func checkDescriptionRequired(_ *Config, c *corpus.Corpus) []Issue {
	var issues []Issue
	for _, a := range c.Agents {
		if strings.TrimSpace(a.Metadata.Description) == "" {
			issues = append(issues, Issue{
				Rule:     "description-required",
				Severity: SeverityError,
				Path:     a.Path,
				Agent:    a.Name(),
				Message:  "frontmatter must set a description; the host uses it to route tasks",
			})
		}
	}
	return issues
}

func checkDescriptionLength(config *Config, c *corpus.Corpus) []Issue {
	if config.MaxDescriptionLength <= 0 {
		return nil
	}

	var issues []Issue
	for _, a := range c.Agents {
		if length := len(a.Metadata.Description); length > config.MaxDescriptionLength {
			issues = append(issues, Issue{
				Rule:     "description-length",
				Severity: SeverityWarning,
				Path:     a.Path,
				Agent:    a.Name(),
				Message:  fmt.Sprintf("description is %d characters, over the %d character guideline; move detail into the body", length, config.MaxDescriptionLength),
			})
		}
	}
	return issues
}

func checkToolsKnown(config *Config, c *corpus.Corpus) []Issue {
	var issues []Issue
	for _, a := range c.Agents {
		for _, tool := range a.Metadata.Tools {
			if agent.IsKnownTool(tool) || isExtraTool(config, tool) {
				continue
			}
			issues = append(issues, Issue{
				Rule:     "tools-known",
				Severity: SeverityWarning,
				Path:     a.Path,
				Agent:    a.Name(),
				Message:  fmt.Sprintf("unknown tool %q; the host will ignore it", tool),
			})
		}
	}
	return issues
}

func isExtraTool(config *Config, tool string) bool {
	for _, extra := range config.ExtraTools {
		if strings.EqualFold(extra, tool) {
			return true
		}
	}
	return false
}

func checkDanglingRefs(_ *Config, c *corpus.Corpus) []Issue {
	var issues []Issue
	for _, a := range c.Agents {
		for _, ref := range a.References() {
			if ref.Name == a.Name() {
				continue // self-ref has its own rule
			}
			if _, ok := c.Get(ref.Name); ok {
				continue
			}
			issues = append(issues, Issue{
				Rule:     "dangling-ref",
				Severity: SeverityError,
				Path:     a.Path,
				Agent:    a.Name(),
				Line:     a.FileLine(ref.Line),
				Message:  fmt.Sprintf("delegation target @%s does not exist in the corpus", ref.Name),
			})
		}
	}
	return issues
}

func checkSelfRefs(_ *Config, c *corpus.Corpus) []Issue {
	var issues []Issue
	for _, a := range c.Agents {
		for _, ref := range a.References() {
			if ref.Name != a.Name() || a.Name() == "" {
				continue
			}
			issues = append(issues, Issue{
				Rule:     "self-ref",
				Severity: SeverityWarning,
				Path:     a.Path,
				Agent:    a.Name(),
				Line:     a.FileLine(ref.Line),
				Message:  fmt.Sprintf("agent delegates to itself via @%s", ref.Name),
			})
		}
	}
	return issues
}

func checkMaxFileSize(config *Config, c *corpus.Corpus) []Issue {
	if config.MaxFileSize <= 0 {
		return nil
	}

	var issues []Issue
	for _, a := range c.Agents {
		if a.Size > config.MaxFileSize {
			issues = append(issues, Issue{
				Rule:     "max-file-size",
				Severity: SeverityWarning,
				Path:     a.Path,
				Agent:    a.Name(),
				Message:  fmt.Sprintf("file is %d bytes, over the %d byte guideline", a.Size, config.MaxFileSize),
			})
		}
	}
	return issues
}

func checkCategoryKnown(config *Config, c *corpus.Corpus) []Issue {
	if len(config.Categories) == 0 {
		return nil
	}

	allowed := make(map[string]bool, len(config.Categories))
	for _, category := range config.Categories {
		allowed[category] = true
	}

	var issues []Issue
	for _, a := range c.Agents {
		if a.Category == "" || allowed[a.Category] {
			continue
		}
		issues = append(issues, Issue{
			Rule:     "category-known",
			Severity: SeverityWarning,
			Path:     a.Path,
			Agent:    a.Name(),
			Message:  fmt.Sprintf("category %q is not in the configured category list", a.Category),
		})
	}
	return issues
}
