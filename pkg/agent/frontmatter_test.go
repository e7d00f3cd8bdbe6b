package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("full frontmatter", func(t *testing.T) {
		content := `---
name: golang-pro
description: Go specialist for idiomatic, concurrent code
tools: Read, Write, Edit, Bash
model: sonnet
color: cyan
---

# Golang Pro

You are a Go expert.
`
		a, err := Parse("agents/language-experts/golang-pro.md", []byte(content))
		require.NoError(t, err)

		assert.Equal(t, "golang-pro", a.Metadata.Name)
		assert.Equal(t, "Go specialist for idiomatic, concurrent code", a.Metadata.Description)
		assert.Equal(t, []string{"Read", "Write", "Edit", "Bash"}, a.Metadata.Tools)
		assert.Equal(t, "sonnet", a.Metadata.Model)
		assert.Equal(t, "cyan", a.Metadata.Color)
		assert.Contains(t, a.Body, "# Golang Pro")
		assert.NotContains(t, a.Body, "name: golang-pro")
	})

	t.Run("tools as yaml list", func(t *testing.T) {
		content := `---
name: reviewer
description: Reviews code
tools:
  - Read
  - Grep
  - Glob
---

Body.
`
		a, err := Parse("reviewer.md", []byte(content))
		require.NoError(t, err)
		assert.Equal(t, []string{"Read", "Grep", "Glob"}, a.Metadata.Tools)
	})

	t.Run("missing frontmatter", func(t *testing.T) {
		_, err := Parse("plain.md", []byte("# Just markdown\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing frontmatter")
	})

	t.Run("empty tools string", func(t *testing.T) {
		content := `---
name: minimal
description: Minimal agent
tools: ""
---

Body.
`
		a, err := Parse("minimal.md", []byte(content))
		require.NoError(t, err)
		assert.Empty(t, a.Metadata.Tools)
	})

	t.Run("body line tracks frontmatter height", func(t *testing.T) {
		content := "---\nname: x\ndescription: y\n---\n\nFirst body line.\n"
		a, err := Parse("x.md", []byte(content))
		require.NoError(t, err)
		assert.Equal(t, "First body line.\n", a.Body)
		assert.Equal(t, 6, a.BodyLine)
		assert.Equal(t, 6, a.FileLine(1))
		assert.Equal(t, 8, a.FileLine(3))
	})
}

func TestParseFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "cpp-pro.md")
	content := `---
name: cpp-pro
description: C++ specialist
---

Body.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	a, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cpp-pro", a.Metadata.Name)
	assert.Equal(t, path, a.Path)
	assert.Equal(t, int64(len(content)), a.Size)

	_, err = ParseFile(filepath.Join(tmpDir, "missing.md"))
	require.Error(t, err)
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "golang-pro", FileStem("agents/language-experts/golang-pro.md"))
	assert.Equal(t, "security-auditor", FileStem("security-auditor.md"))
	assert.Equal(t, "no-extension", FileStem("no-extension"))
}

func TestHasTool(t *testing.T) {
	a := &Agent{Metadata: Metadata{Tools: []string{"Read", "Bash"}}}
	assert.True(t, a.HasTool("Read"))
	assert.True(t, a.HasTool("bash"))
	assert.False(t, a.HasTool("Write"))
}

func TestIsKnownTool(t *testing.T) {
	assert.True(t, IsKnownTool("Read"))
	assert.True(t, IsKnownTool("grep"))
	assert.False(t, IsKnownTool("Teleport"))
}
