// Package scaffold generates new agent definition files from builtin
// templates. The frontmatter is emitted from the metadata struct rather than
// templated text, so generated files always parse.
package scaffold

import (
	"bytes"
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/agentdex/agentdex/pkg/agent"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// Params holds the fields rendered into a new agent definition
type Params struct {
	Name        string
	Description string
	Tools       []string
	Model       string
	Color       string
	Category    string
}

// Templates returns the names of the builtin templates, sorted.
func Templates() ([]string, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read builtin templates")
	}

	var names []string
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".md.tmpl"))
	}
	sort.Strings(names)
	return names, nil
}

// Render produces a complete agent definition file: YAML frontmatter from
// the params followed by the rendered template body.
func Render(templateName string, p Params) ([]byte, error) {
	if p.Name == "" {
		return nil, errors.New("agent name is required")
	}

	body, err := renderBody(templateName, p)
	if err != nil {
		return nil, err
	}

	frontmatter, err := yaml.Marshal(agent.Metadata{
		Name:        p.Name,
		Description: p.Description,
		Tools:       p.Tools,
		Model:       p.Model,
		Color:       p.Color,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal frontmatter")
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(frontmatter)
	buf.WriteString("---\n\n")
	buf.Write(body)

	return buf.Bytes(), nil
}

func renderBody(templateName string, p Params) ([]byte, error) {
	content, err := templateFS.ReadFile("templates/" + templateName + ".md.tmpl")
	if err != nil {
		available, _ := Templates()
		return nil, errors.Errorf("template '%s' not found; available: %s", templateName, strings.Join(available, ", "))
	}

	tmpl, err := template.New(templateName).Parse(string(content))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse template '%s'", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return nil, errors.Wrapf(err, "failed to render template '%s'", templateName)
	}

	return buf.Bytes(), nil
}

// Create renders a new agent definition and writes it under the corpus root,
// at <category>/<name>.md when a category is set. It refuses to overwrite an
// existing file. The written path is returned.
func Create(root, templateName string, p Params) (string, error) {
	content, err := Render(templateName, p)
	if err != nil {
		return "", err
	}

	dir := root
	if p.Category != "" {
		dir = filepath.Join(root, p.Category)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create agent directory")
	}

	path := filepath.Join(dir, p.Name+".md")
	if _, err := os.Stat(path); err == nil {
		return "", errors.Errorf("agent file already exists at %s", path)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write '%s'", path)
	}

	return path, nil
}
