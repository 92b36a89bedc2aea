// Package httpserver exposes the engines over a JSON API. Handlers stay
// thin: decode, call an engine, translate the error taxonomy to a status.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mesh-intelligence/linkshelf/internal/httpserver/mw"
	"github.com/mesh-intelligence/linkshelf/internal/logger"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http *http.Server
	log  logger.Logger
	deps Deps
}

// New builds the HTTP server: router, middleware, routes.
func New(addr string, log logger.Logger, d Deps) *Server {
	s := &Server{log: log, deps: d}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(mw.Log(log))

	r.Route("/api", func(r chi.Router) {
		// Public surface: no token required.
		r.Get("/healthz", s.handleHealthz)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/public/categories", s.handlePublicCategories)
		r.Post("/bookmarks/{id}/click", s.handleClick)

		// Everything else is owner-scoped.
		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(d.Store))

			r.Get("/categories", s.handleListCategories)
			r.Post("/categories", s.handleCreateCategory)
			r.Post("/categories/reorder", s.handleReorderCategories)
			r.Get("/categories/{id}", s.handleGetCategory)
			r.Put("/categories/{id}", s.handleUpdateCategory)
			r.Delete("/categories/{id}", s.handleDeleteCategory)

			r.Get("/bookmarks", s.handleListBookmarks)
			r.Post("/bookmarks", s.handleCreateBookmark)
			r.Post("/bookmarks/reorder", s.handleReorderBookmarks)
			r.Post("/bookmarks/check-all", s.handleCheckAll)
			r.Get("/bookmarks/{id}", s.handleGetBookmark)
			r.Put("/bookmarks/{id}", s.handleUpdateBookmark)
			r.Delete("/bookmarks/{id}", s.handleDeleteBookmark)
			r.Post("/bookmarks/{id}/check", s.handleCheckBookmark)

			r.Get("/search", s.handleSearch)
			r.Get("/stats", s.handleStats)
			r.Get("/export", s.handleExport)
			r.Post("/import", s.handleImport)

			r.Get("/backups", s.handleListBackups)
			r.Post("/backups", s.handleCreateBackup)
			r.Post("/backups/restore", s.handleRestore)
		})
	})

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

// Start runs the server until failure or shutdown.
func (s *Server) Start() error {
	s.log.Infof("HTTP server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
