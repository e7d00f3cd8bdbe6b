package lint

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdex/agentdex/pkg/corpus"
)

func loadTestCorpus(t *testing.T, files map[string]string) *corpus.Corpus {
	t.Helper()
	tmpDir := t.TempDir()

	for file, content := range files {
		path := filepath.Join(tmpDir, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	discovery, err := corpus.NewDiscovery(corpus.WithRoots(tmpDir))
	require.NoError(t, err)

	c, err := discovery.Load(context.Background())
	require.NoError(t, err)
	return c
}

func rulesFired(report *Report) map[string]int {
	fired := make(map[string]int)
	for _, issue := range report.Issues {
		fired[issue.Rule]++
	}
	return fired
}

func TestCleanCorpus(t *testing.T) {
	c := loadTestCorpus(t, map[string]string{
		"orchestrators/tech-lead.md": `---
name: tech-lead
description: Coordinates work across specialists
tools: Read, Task
---

Delegate Go work to @golang-pro.
`,
		"language-experts/golang-pro.md": `---
name: golang-pro
description: Go specialist
tools: Read, Write, Edit, Bash
---

Write idiomatic Go.
`,
	})

	report := New(nil).Run(context.Background(), c)
	assert.Empty(t, report.Issues)
	assert.False(t, report.HasErrors())
}

func TestFrontmatterRule(t *testing.T) {
	c := loadTestCorpus(t, map[string]string{
		"broken.md": "# no frontmatter at all\n",
	})

	report := New(nil).Run(context.Background(), c)
	require.Len(t, report.Errors(), 1)
	assert.Equal(t, "frontmatter", report.Errors()[0].Rule)
	assert.Contains(t, report.Errors()[0].Path, "broken.md")
}

func TestNameRules(t *testing.T) {
	t.Run("name required", func(t *testing.T) {
		c := loadTestCorpus(t, map[string]string{
			"anonymous.md": "---\ndescription: Who am I\n---\n\nBody.\n",
		})
		report := New(nil).Run(context.Background(), c)
		assert.Contains(t, rulesFired(report), "name-required")
	})

	t.Run("name format", func(t *testing.T) {
		c := loadTestCorpus(t, map[string]string{
			"Bad_Name.md": "---\nname: Bad_Name\ndescription: Invalid characters\n---\n\nBody.\n",
		})
		report := New(nil).Run(context.Background(), c)
		fired := rulesFired(report)
		assert.Contains(t, fired, "name-format")
	})

	t.Run("name matches filename", func(t *testing.T) {
		c := loadTestCorpus(t, map[string]string{
			"other-file.md": "---\nname: golang-pro\ndescription: Mismatched file name\n---\n\nBody.\n",
		})
		report := New(nil).Run(context.Background(), c)
		fired := rulesFired(report)
		assert.Contains(t, fired, "name-matches-filename")
		assert.Empty(t, report.Errors())
	})

	t.Run("name unique", func(t *testing.T) {
		c := loadTestCorpus(t, map[string]string{
			"a/golang-pro.md": "---\nname: golang-pro\ndescription: First copy\n---\n\nBody.\n",
			"b/golang-pro.md": "---\nname: golang-pro\ndescription: Second copy\n---\n\nBody.\n",
		})
		report := New(nil).Run(context.Background(), c)
		fired := rulesFired(report)
		assert.Equal(t, 1, fired["name-unique"])
		assert.True(t, report.HasErrors())
	})
}

func TestDescriptionRequired(t *testing.T) {
	c := loadTestCorpus(t, map[string]string{
		"terse.md": "---\nname: terse\n---\n\nBody.\n",
	})
	report := New(nil).Run(context.Background(), c)
	assert.Contains(t, rulesFired(report), "description-required")
}

func TestDescriptionLength(t *testing.T) {
	c := loadTestCorpus(t, map[string]string{
		"rambler.md": "---\nname: rambler\ndescription: " + strings.Repeat("very ", 30) + "long\n---\n\nBody.\n",
	})

	config := DefaultConfig()
	config.MaxDescriptionLength = 100
	report := New(config).Run(context.Background(), c)
	fired := rulesFired(report)
	assert.Contains(t, fired, "description-length")
	assert.Empty(t, report.Errors())

	config.MaxDescriptionLength = 0
	report = New(config).Run(context.Background(), c)
	assert.NotContains(t, rulesFired(report), "description-length")
}

func TestToolsKnown(t *testing.T) {
	files := map[string]string{
		"typo.md": "---\nname: typo\ndescription: Has a misspelled tool\ntools: Read, Grpe\n---\n\nBody.\n",
	}

	t.Run("unknown tool warns", func(t *testing.T) {
		c := loadTestCorpus(t, files)
		report := New(nil).Run(context.Background(), c)
		warnings := report.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, "tools-known", warnings[0].Rule)
		assert.Contains(t, warnings[0].Message, "Grpe")
	})

	t.Run("extra tools extend the vocabulary", func(t *testing.T) {
		c := loadTestCorpus(t, files)
		config := DefaultConfig()
		config.ExtraTools = []string{"Grpe"}
		report := New(config).Run(context.Background(), c)
		assert.Empty(t, report.Issues)
	})
}

func TestDanglingAndSelfRefs(t *testing.T) {
	c := loadTestCorpus(t, map[string]string{
		"router.md": `---
name: router
description: Delegates everything
---

Send Go work to @golang-pro and hard problems to @ghost-agent.
Sometimes @router loops back to itself.
`,
		"golang-pro.md": "---\nname: golang-pro\ndescription: Go specialist\n---\n\nBody.\n",
	})

	report := New(nil).Run(context.Background(), c)
	fired := rulesFired(report)
	assert.Equal(t, 1, fired["dangling-ref"])
	assert.Equal(t, 1, fired["self-ref"])

	var dangling Issue
	for _, issue := range report.Issues {
		if issue.Rule == "dangling-ref" {
			dangling = issue
		}
	}
	assert.Equal(t, SeverityError, dangling.Severity)
	assert.Contains(t, dangling.Message, "ghost-agent")
	assert.Equal(t, 6, dangling.Line) // frontmatter is 4 lines, body starts at 6
}

func TestMaxFileSize(t *testing.T) {
	c := loadTestCorpus(t, map[string]string{
		"wordy.md": "---\nname: wordy\ndescription: Very long\n---\n\n" + strings.Repeat("padding ", 100) + "\n",
	})

	config := DefaultConfig()
	config.MaxFileSize = 64
	report := New(config).Run(context.Background(), c)
	assert.Contains(t, rulesFired(report), "max-file-size")

	config.MaxFileSize = 0
	report = New(config).Run(context.Background(), c)
	assert.NotContains(t, rulesFired(report), "max-file-size")
}

func TestCategoryKnown(t *testing.T) {
	files := map[string]string{
		"misc/odd-one.md": "---\nname: odd-one\ndescription: In an unexpected folder\n---\n\nBody.\n",
	}

	t.Run("disabled without allowlist", func(t *testing.T) {
		c := loadTestCorpus(t, files)
		report := New(nil).Run(context.Background(), c)
		assert.NotContains(t, rulesFired(report), "category-known")
	})

	t.Run("flags unknown category", func(t *testing.T) {
		c := loadTestCorpus(t, files)
		config := DefaultConfig()
		config.Categories = []string{"orchestrators", "language-experts"}
		report := New(config).Run(context.Background(), c)
		assert.Contains(t, rulesFired(report), "category-known")
	})
}

func TestDisabledRules(t *testing.T) {
	c := loadTestCorpus(t, map[string]string{
		"terse.md": "---\nname: terse\n---\n\nBody.\n",
	})

	config := DefaultConfig()
	config.DisabledRules = []string{"description-required"}
	report := New(config).Run(context.Background(), c)
	assert.Empty(t, report.Issues)
}

func TestReportOrdering(t *testing.T) {
	c := loadTestCorpus(t, map[string]string{
		"z-agent.md": "---\nname: z-agent\n---\n\nBody.\n",
		"a-agent.md": "---\nname: a-agent\n---\n\nBody.\n",
	})

	report := New(nil).Run(context.Background(), c)
	require.Len(t, report.Issues, 2)
	assert.True(t, report.Issues[0].Path < report.Issues[1].Path)
}

func TestRuleNames(t *testing.T) {
	names := RuleNames()
	assert.Contains(t, names, "name-unique")
	assert.Contains(t, names, "dangling-ref")
	assert.Len(t, names, 12)
}
