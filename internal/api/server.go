package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bookstruct/bookstruct/internal/config"
	"github.com/bookstruct/bookstruct/internal/pipeline"
)

// Server is the HTTP API server for bookstruct.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
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

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/books", s.handleUpload)
		r.Get("/api/books/{bookID}/status", s.handleStatus)
		r.Get("/api/books/{bookID}/structure", s.handleStructure)
		r.Get("/api/books/{bookID}/markdown", s.handleMarkdown)
		r.Get("/api/books/{bookID}/html", s.handleHTML)
		r.Get("/api/books/{bookID}/outline", s.handleOutline)
		r.Get("/api/books/{bookID}/snippets", s.handleSnippets)
		r.Post("/api/books/{bookID}/invalidate", s.handleInvalidate)

		r.Get("/api/profiles", s.handleProfiles)
		r.Get("/api/cache", s.handleCacheList)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
