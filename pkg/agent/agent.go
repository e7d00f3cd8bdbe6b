// Package agent provides the data model for sub-agent persona definitions:
// Markdown documents with YAML frontmatter describing a named prompt for an
// AI coding-assistant host. The frontmatter carries the agent's identity and
// tool permissions; the body is the system prompt the host loads verbatim.
package agent

import "strings"

// Metadata represents the YAML frontmatter of an agent definition
type Metadata struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Tools       []string `yaml:"tools,omitempty" json:"tools,omitempty"`
	Model       string   `yaml:"model,omitempty" json:"model,omitempty"`
	Color       string   `yaml:"color,omitempty" json:"color,omitempty"`
}

// Agent represents a parsed agent definition file
type Agent struct {
	Metadata Metadata
	Body     string // markdown content after the frontmatter
	Path     string // file path the agent was loaded from
	Category string // immediate parent folder relative to the corpus root, "" for root-level files
	Size     int64  // file size in bytes
	BodyLine int    // 1-based line number in the file where the body starts
}

// FileLine converts a 1-based body line number to a file line number.
func (a *Agent) FileLine(bodyLine int) int {
	if a.BodyLine <= 0 {
		return bodyLine
	}
	return a.BodyLine + bodyLine - 1
}

// Name returns the agent name from frontmatter.
func (a *Agent) Name() string {
	return a.Metadata.Name
}

// HasTool reports whether the agent's tool list contains the given
// capability. An empty tool list means the host grants all tools.
func (a *Agent) HasTool(tool string) bool {
	for _, t := range a.Metadata.Tools {
		if strings.EqualFold(t, tool) {
			return true
		}
	}
	return false
}

// KnownTools is the capability vocabulary understood by the host runtime.
// Tool names outside this set are flagged by lint as likely typos.
var KnownTools = []string{
	"Read",
	"Write",
	"Edit",
	"MultiEdit",
	"Bash",
	"Grep",
	"Glob",
	"LS",
	"WebFetch",
	"WebSearch",
	"Task",
	"TodoWrite",
	"NotebookEdit",
}

// IsKnownTool reports whether name is in the known capability vocabulary.
// Matching is case-insensitive since hosts accept either casing.
func IsKnownTool(name string) bool {
	for _, t := range KnownTools {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}
