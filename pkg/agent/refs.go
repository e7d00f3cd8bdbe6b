package agent

import (
	"regexp"
	"strings"
)

// Reference is a mention of another agent in a definition body, written as
// @agent-name in delegation tables or prose.
type Reference struct {
	Name string
	Line int // 1-based line number within the body
}

// refPattern matches @agent-name mentions. Names are lowercase alphanumerics
// and hyphens, matching the lint name-format rule. The leading character
// class keeps email addresses from matching.
var refPattern = regexp.MustCompile(`(^|[\s|(])@([a-z0-9][a-z0-9-]*)`)

// References extracts @agent-name mentions from the agent body. Mentions
// inside fenced code blocks and inline code spans are ignored since those
// are illustrative snippets, not delegation targets.
func (a *Agent) References() []Reference {
	var refs []Reference
	inFence := false

	for i, line := range strings.Split(a.Body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		for _, match := range refPattern.FindAllStringSubmatchIndex(stripInlineCode(line), -1) {
			name := stripInlineCode(line)[match[4]:match[5]]
			refs = append(refs, Reference{Name: name, Line: i + 1})
		}
	}

	return refs
}

// ReferenceNames returns the deduplicated set of referenced agent names in
// first-mention order.
func (a *Agent) ReferenceNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, ref := range a.References() {
		if !seen[ref.Name] {
			seen[ref.Name] = true
			names = append(names, ref.Name)
		}
	}
	return names
}

// stripInlineCode blanks out `code spans` so mentions inside them are not
// treated as references. Offsets are preserved so line positions stay valid.
func stripInlineCode(line string) string {
	var b strings.Builder
	inCode := false
	for _, r := range line {
		switch {
		case r == '`':
			inCode = !inCode
			b.WriteRune(' ')
		case inCode:
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
