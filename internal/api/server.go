package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/config"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/pipeline"
)

// Server is the HTTP API of the PDF intelligence service.
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
	r.Use(CORS(s.cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints.
		r.Get("/", s.handleRoot)
		r.Get("/health", s.handleHealth)

		// Authenticated endpoints when an API key is configured.
		r.Group(func(r chi.Router) {
			if s.cfg.APIKey != "" {
				r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
			}

			r.Post("/analyze-pdf", s.handleAnalyzePDF)
			r.Post("/analyze-multiple-pdfs", s.handleAnalyzeMultiple)
			r.Get("/analyses/{id}", s.handleGetAnalysis)
			r.Get("/stats", s.handleStats)
		})
	})

	s.router = r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "PDF Intelligence System API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}
