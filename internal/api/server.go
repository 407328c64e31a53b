package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/repometa/internal/config"
	"github.com/dgallion1/repometa/internal/github"
	"github.com/dgallion1/repometa/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RepoLister discovers an owner's repositories when a request does not
// spell them out.
type RepoLister interface {
	ListRepositories(ctx context.Context, owner string) ([]github.Descriptor, error)
}

// Server is the HTTP API server for repometa.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	lister       RepoLister
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, lister RepoLister, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		lister:       lister,
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

		r.Post("/api/enrich", s.handleEnrich)
		r.Get("/api/enrich/{jobID}/status", s.handleEnrichStatus)
		r.Get("/api/enrich/{jobID}/result", s.handleEnrichResult)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
