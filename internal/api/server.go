// Package api serves a small HTTP status surface next to the MCP server:
// pipeline coverage, LLM latency stats and rendered comparison reports.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dkristoff/bibliocr/internal/config"
	"github.com/dkristoff/bibliocr/internal/llm"
)

// Server is the HTTP status API.
type Server struct {
	router     chi.Router
	cfg        config.Config
	llmStats   *llm.Stats
	engineName string
	log        *slog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(cfg config.Config, engineName string, stats *llm.Stats, log *slog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		llmStats:   stats,
		engineName: engineName,
		log:        log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.HTTPAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.HTTPAPIKey))
		}
		r.Get("/api/status", s.handleStatus)
		r.Get("/api/report/{stem}", s.handleReport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
