// Package server implements the forcegraph HTTP interaction service.
//
// Each POST /sessions creates a live simulation from a graph document or a
// random graph. Clients then step it, read snapshots, and pin or drag nodes
// between steps. Sessions expire after a period of inactivity.
//
// Routes:
//
//	GET    /healthz
//	POST   /sessions
//	GET    /sessions/{id}
//	DELETE /sessions/{id}
//	POST   /sessions/{id}/step
//	POST   /sessions/{id}/pin
//	POST   /sessions/{id}/drag
//
// Errors are returned as {"code": "...", "message": "..."} with a status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/session"
)

const (
	maxBodyBytes    = 8 << 20
	maxStepsPerCall = 10000
	shutdownTimeout = 5 * time.Second
)

// Server serves the interaction API.
type Server struct {
	cfg    *config.Config
	store  *session.MemoryStore
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil logger uses log.Default().
func New(cfg *config.Config, store *session.MemoryStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/step", s.handleStep)
			r.Post("/pin", s.handlePin)
			r.Post("/drag", s.handleDrag)
		})
	})
	return r
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully. Expired sessions are swept once per TTL.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.store.RunJanitor(janitorCtx, s.store.TTL(), func(n int) {
		s.logger.Debug("expired sessions removed", "count", n)
	})

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
