package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hongye-zhang/public-texteditor/internal/config"
	"github.com/hongye-zhang/public-texteditor/internal/intent"
	"github.com/hongye-zhang/public-texteditor/internal/llm"
	"github.com/hongye-zhang/public-texteditor/internal/pipeline"
)

// Server is the HTTP API server for the editor backend.
type Server struct {
	router     chi.Router
	pipeline   *pipeline.Pipeline
	sessions   *pipeline.SessionStore
	classifier *intent.Classifier
	client     *llm.Client
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(p *pipeline.Pipeline, sessions *pipeline.SessionStore, classifier *intent.Classifier, client *llm.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		pipeline:   p,
		sessions:   sessions,
		classifier: classifier,
		client:     client,
		log:        log,
		cfg:        cfg,
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
		r.Use(AuthMiddleware(s.cfg.EditorAPIKey, s.log))

		r.Post("/api/document/edit", s.handleEdit)
		r.Post("/api/chat", s.handleChat)
		r.Post("/api/import", s.handleImport)
		r.Get("/api/sessions/{sessionID}", s.handleSession)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
