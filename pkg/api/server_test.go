package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdex/agentdex/pkg/agent"
	"github.com/agentdex/agentdex/pkg/corpus"
	"github.com/agentdex/agentdex/pkg/lint"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	c := corpus.New([]*agent.Agent{
		{
			Metadata: agent.Metadata{
				Name:        "golang-pro",
				Description: "Go specialist",
				Tools:       []string{"Read", "Write"},
			},
			Body:     "Write idiomatic Go. Delegate reviews to @security-auditor.\n",
			Path:     "language-experts/golang-pro.md",
			Category: "language-experts",
		},
		{
			Metadata: agent.Metadata{
				Name:        "security-auditor",
				Description: "Audits code",
			},
			Body:     "Audit carefully.\n",
			Path:     "quality/security-auditor.md",
			Category: "quality",
		},
	}, nil)

	server, err := NewServer(&ServerConfig{Host: "localhost", Port: 8245}, c, lint.New(nil))
	require.NoError(t, err)
	return server
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  ServerConfig
		wantErr bool
	}{
		{"valid", ServerConfig{Host: "localhost", Port: 8245}, false},
		{"empty host", ServerConfig{Host: "", Port: 8245}, true},
		{"port too low", ServerConfig{Host: "localhost", Port: 0}, true},
		{"port too high", ServerConfig{Host: "localhost", Port: 70000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["agents"])
}

func TestListAgents(t *testing.T) {
	server := newTestServer(t)

	t.Run("all agents", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/agents", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var agents []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agents))
		require.Len(t, agents, 2)
		assert.Equal(t, "golang-pro", agents[0]["name"])
		assert.Equal(t, "security-auditor", agents[1]["name"])
	})

	t.Run("category filter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/agents?category=quality", nil))

		var agents []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agents))
		require.Len(t, agents, 1)
		assert.Equal(t, "security-auditor", agents[0]["name"])
	})
}

func TestGetAgent(t *testing.T) {
	server := newTestServer(t)

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/agents/golang-pro", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var detail map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
		assert.Equal(t, "golang-pro", detail["name"])
		assert.Contains(t, detail["body"], "idiomatic Go")
		assert.Equal(t, []interface{}{"security-auditor"}, detail["references"])
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/agents/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLintEndpoint(t *testing.T) {
	server := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/lint", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var report lint.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.HasErrors())
	assert.Empty(t, report.Issues)
}
