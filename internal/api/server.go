package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rptedit/internal/config"
	"rptedit/internal/docstore"
	"rptedit/internal/edit"
	"rptedit/internal/interpret"
)

// Server is the HTTP API server for rptedit.
type Server struct {
	router     chi.Router
	store      *docstore.Store
	resolver   *interpret.Resolver
	applicator *edit.Applicator
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(store *docstore.Store, resolver *interpret.Resolver, applicator *edit.Applicator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:      store,
		resolver:   resolver,
		applicator: applicator,
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
		r.Use(AuthMiddleware(s.cfg.RpteditAPIKey, s.log))

		r.Post("/api/reports", s.handleUpload)
		r.Get("/api/reports/{reportID}", s.handleGetReport)
		r.Post("/api/reports/{reportID}/preview-edit", s.handlePreviewEdit)
		r.Post("/api/reports/{reportID}/apply-edit", s.handleApplyEdit)
		r.Get("/api/reports/{reportID}/edit-history", s.handleEditHistory)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
