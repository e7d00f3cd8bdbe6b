package agent

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// Parse parses an agent definition from raw markdown content.
// The path is recorded on the returned agent but not read from.
func Parse(path string, content []byte) (*Agent, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	var metadata Metadata
	if name, ok := metaData["name"].(string); ok {
		metadata.Name = name
	}
	if description, ok := metaData["description"].(string); ok {
		metadata.Description = description
	}
	if model, ok := metaData["model"].(string); ok {
		metadata.Model = model
	}
	if c, ok := metaData["color"].(string); ok {
		metadata.Color = c
	}
	if tools := metaData["tools"]; tools != nil {
		metadata.Tools = parseStringArrayField(tools)
	}

	body, bodyLine := extractBodyContent(string(content))

	return &Agent{
		Metadata: metadata,
		Body:     body,
		Path:     path,
		Size:     int64(len(content)),
		BodyLine: bodyLine,
	}, nil
}

// ParseFile reads and parses an agent definition from disk.
func ParseFile(path string) (*Agent, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read agent file '%s'", path)
	}
	return Parse(path, content)
}

// FileStem returns the file name without the .md extension, which lint
// expects to match the frontmatter name.
func FileStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".md")
}

// parseStringArrayField handles both []interface{} (YAML array) and string
// (comma-separated) formats for the tools field
func parseStringArrayField(field interface{}) []string {
	switch v := field.(type) {
	case []interface{}:
		var result []string
		for _, item := range v {
			if str, ok := item.(string); ok {
				if trimmed := strings.TrimSpace(str); trimmed != "" {
					result = append(result, trimmed)
				}
			}
		}
		return result
	case string:
		if v == "" {
			return []string{}
		}
		var result []string
		for _, item := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	default:
		return []string{}
	}
}

// extractBodyContent removes YAML frontmatter and returns the body along
// with the 1-based file line where the body starts.
func extractBodyContent(content string) (string, int) {
	if !strings.HasPrefix(content, "---") {
		return content, 1
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content, 1
	}

	bodyLines := lines[frontmatterEnd+1:]
	offset := frontmatterEnd + 2
	for len(bodyLines) > 0 && strings.TrimSpace(bodyLines[0]) == "" {
		bodyLines = bodyLines[1:]
		offset++
	}

	return strings.Join(bodyLines, "\n"), offset
}
