// Package server provides the HTTP API for docsearch.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/docsearch/internal/config"
	"github.com/hyperjump/docsearch/internal/docstore"
	"github.com/hyperjump/docsearch/internal/keyword"
	"github.com/hyperjump/docsearch/internal/session"
	"go.uber.org/zap"
)

// Server is the HTTP server for the docsearch API.
type Server struct {
	index    *keyword.Index
	store    *docstore.Store
	sessions *session.Manager
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	index *keyword.Index,
	store *docstore.Store,
	sessions *session.Manager,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		index:    index,
		store:    store,
		sessions: sessions,
		config:   cfg,
		logger:   logger,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/documents", s.handleListDocuments)
	r.Get("/search/dropdown", s.handleDropdown)

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/{id}", s.handleGetSession)
		r.Post("/{id}/actions", s.handleSessionAction)
		r.Delete("/{id}", s.handleDeleteSession)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
