package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdex/agentdex/pkg/agent"
	"github.com/agentdex/agentdex/pkg/corpus"
)

func testCorpus() *corpus.Corpus {
	return corpus.New([]*agent.Agent{
		{Metadata: agent.Metadata{Name: "golang-pro", Description: "Go"}, Path: "golang-pro.md"},
		{Metadata: agent.Metadata{Name: "rust-pro", Description: "Rust"}, Path: "rust-pro.md"},
	}, nil)
}

func TestSelectAgents(t *testing.T) {
	c := testCorpus()

	t.Run("no names selects everything", func(t *testing.T) {
		selected, err := selectAgents(c, nil)
		require.NoError(t, err)
		assert.Len(t, selected, 2)
	})

	t.Run("named selection", func(t *testing.T) {
		selected, err := selectAgents(c, []string{"rust-pro"})
		require.NoError(t, err)
		require.Len(t, selected, 1)
		assert.Equal(t, "rust-pro", selected[0].Name())
	})

	t.Run("unknown name errors", func(t *testing.T) {
		_, err := selectAgents(c, []string{"golang-pro", "nope"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nope")
	})
}

func TestResolveTargetDir(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		dir, err := resolveTargetDir("/custom/agents", &Config{Target: "/from/config"})
		require.NoError(t, err)
		assert.Equal(t, "/custom/agents", dir)
	})

	t.Run("config next", func(t *testing.T) {
		dir, err := resolveTargetDir("", &Config{Target: "/from/config"})
		require.NoError(t, err)
		assert.Equal(t, "/from/config", dir)
	})

	t.Run("host default last", func(t *testing.T) {
		dir, err := resolveTargetDir("", &Config{})
		require.NoError(t, err)
		assert.Contains(t, dir, ".claude")
	})
}
