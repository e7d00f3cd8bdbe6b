package installer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdex/agentdex/pkg/agent"
)

func writeSourceAgent(t *testing.T, dir, name, body string) *agent.Agent {
	t.Helper()
	content := `---
name: ` + name + `
description: Test agent
---

` + body
	path := filepath.Join(dir, name+".md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	a, err := agent.ParseFile(path)
	require.NoError(t, err)
	return a
}

func TestInstall(t *testing.T) {
	ctx := context.Background()
	sourceDir := t.TempDir()
	targetDir := filepath.Join(t.TempDir(), "agents")

	a := writeSourceAgent(t, sourceDir, "golang-pro", "Go instructions.\n")
	ins := New(targetDir, nil)

	result, err := ins.Install(ctx, []*agent.Agent{a}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"golang-pro"}, result.Installed)

	installed, err := os.ReadFile(filepath.Join(targetDir, "golang-pro.md"))
	require.NoError(t, err)
	source, err := os.ReadFile(a.Path)
	require.NoError(t, err)
	assert.Equal(t, source, installed)
}

func TestInstallUnchangedSkipped(t *testing.T) {
	ctx := context.Background()
	sourceDir := t.TempDir()
	targetDir := t.TempDir()

	a := writeSourceAgent(t, sourceDir, "golang-pro", "Go instructions.\n")
	ins := New(targetDir, nil)

	_, err := ins.Install(ctx, []*agent.Agent{a}, false)
	require.NoError(t, err)

	result, err := ins.Install(ctx, []*agent.Agent{a}, false)
	require.NoError(t, err)
	assert.Empty(t, result.Installed)
	assert.Equal(t, []string{"golang-pro"}, result.Skipped)
}

func TestInstallRefusesModifiedTarget(t *testing.T) {
	ctx := context.Background()
	sourceDir := t.TempDir()
	targetDir := t.TempDir()

	a := writeSourceAgent(t, sourceDir, "golang-pro", "Go instructions.\n")
	ins := New(targetDir, nil)

	// Target has local edits
	targetPath := filepath.Join(targetDir, "golang-pro.md")
	require.NoError(t, os.WriteFile(targetPath, []byte("locally edited\n"), 0o644))

	result, err := ins.Install(ctx, []*agent.Agent{a}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.Empty(t, result.Installed)

	// Local edits preserved
	content, readErr := os.ReadFile(targetPath)
	require.NoError(t, readErr)
	assert.Equal(t, "locally edited\n", string(content))

	// Force overwrites
	result, err = ins.Install(ctx, []*agent.Agent{a}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"golang-pro"}, result.Updated)
}

func TestInstallContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	sourceDir := t.TempDir()
	targetDir := t.TempDir()

	nameless := &agent.Agent{Path: filepath.Join(sourceDir, "nameless.md")}
	good := writeSourceAgent(t, sourceDir, "good-agent", "Body.\n")

	ins := New(targetDir, nil)
	result, err := ins.Install(ctx, []*agent.Agent{nameless, good}, false)
	require.Error(t, err)
	assert.Equal(t, []string{"good-agent"}, result.Installed)
}

func TestDiff(t *testing.T) {
	sourceDir := t.TempDir()
	targetDir := t.TempDir()

	a := writeSourceAgent(t, sourceDir, "golang-pro", "Original body.\n")
	ins := New(targetDir, nil)

	t.Run("not installed", func(t *testing.T) {
		diff, err := ins.Diff(a)
		require.NoError(t, err)
		assert.Empty(t, diff)
	})

	t.Run("in sync", func(t *testing.T) {
		_, err := ins.Install(context.Background(), []*agent.Agent{a}, false)
		require.NoError(t, err)

		diff, err := ins.Diff(a)
		require.NoError(t, err)
		assert.Empty(t, diff)
	})

	t.Run("drifted", func(t *testing.T) {
		targetPath := filepath.Join(targetDir, "golang-pro.md")
		require.NoError(t, os.WriteFile(targetPath, []byte("edited in place\n"), 0o644))

		diff, err := ins.Diff(a)
		require.NoError(t, err)
		assert.Contains(t, diff, "-edited in place")
		assert.Contains(t, diff, "+Original body.")
	})
}

func TestUninstall(t *testing.T) {
	ctx := context.Background()
	sourceDir := t.TempDir()
	targetDir := t.TempDir()

	a := writeSourceAgent(t, sourceDir, "golang-pro", "Body.\n")
	ins := New(targetDir, nil)

	_, err := ins.Install(ctx, []*agent.Agent{a}, false)
	require.NoError(t, err)

	require.NoError(t, ins.Uninstall(ctx, "golang-pro"))
	_, err = os.Stat(filepath.Join(targetDir, "golang-pro.md"))
	assert.True(t, os.IsNotExist(err))

	err = ins.Uninstall(ctx, "golang-pro")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not installed")
}

func TestDefaultTargetDir(t *testing.T) {
	dir, err := DefaultTargetDir()
	require.NoError(t, err)
	assert.Contains(t, dir, filepath.Join(".claude", "agents"))
}
