// Package api provides a read-only HTTP API over a loaded agent corpus so
// host-side tooling can browse and validate the catalog without shelling out
// to the CLI. There are no mutation endpoints.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/agentdex/agentdex/pkg/agent"
	"github.com/agentdex/agentdex/pkg/corpus"
	"github.com/agentdex/agentdex/pkg/lint"
	"github.com/agentdex/agentdex/pkg/logger"
)

// ServerConfig holds the configuration for the API server
type ServerConfig struct {
	Host string
	Port int
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Server serves the corpus catalog over HTTP
type Server struct {
	router *mux.Router
	corpus *corpus.Corpus
	linter *lint.Linter
	config *ServerConfig
	server *http.Server
}

// NewServer creates a new catalog API server over an already-loaded corpus.
func NewServer(config *ServerConfig, c *corpus.Corpus, linter *lint.Linter) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	s := &Server{
		router: mux.NewRouter(),
		corpus: c,
		linter: linter,
		config: config,
	}
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/agents", s.handleListAgents).Methods("GET")
	api.HandleFunc("/agents/{name}", s.handleGetAgent).Methods("GET")
	api.HandleFunc("/lint", s.handleLint).Methods("GET")
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.G(ctx).WithField("addr", addr).Info("Catalog API listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errors.Wrap(s.server.Shutdown(shutdownCtx), "failed to shut down server")
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// agentSummary is the list representation of an agent
type agentSummary struct {
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description"`
	Tools       []string `json:"tools,omitempty"`
	Model       string   `json:"model,omitempty"`
	Color       string   `json:"color,omitempty"`
	Path        string   `json:"path"`
}

// agentDetail adds the body and delegation references
type agentDetail struct {
	agentSummary
	Body       string   `json:"body"`
	References []string `json:"references,omitempty"`
}

func summarize(a *agent.Agent) agentSummary {
	return agentSummary{
		Name:        a.Name(),
		Category:    a.Category,
		Description: a.Metadata.Description,
		Tools:       a.Metadata.Tools,
		Model:       a.Metadata.Model,
		Color:       a.Metadata.Color,
		Path:        a.Path,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"agents": s.corpus.Len(),
	})
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	summaries := make([]agentSummary, 0, s.corpus.Len())
	for _, name := range s.corpus.Names() {
		a, _ := s.corpus.Get(name)
		if category != "" && a.Category != category {
			continue
		}
		summaries = append(summaries, summarize(a))
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	a, ok := s.corpus.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("agent '%s' not found", name))
		return
	}

	writeJSON(w, http.StatusOK, agentDetail{
		agentSummary: summarize(a),
		Body:         a.Body,
		References:   a.ReferenceNames(),
	})
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	report := s.linter.Run(r.Context(), s.corpus)
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
