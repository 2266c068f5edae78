// Package server exposes the optional control API: current block state,
// out-of-band refresh, and a websocket stream of rendered status lines.
// It feeds the scheduler only over the same wake path signals use and
// never touches block state directly.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/goblocks/pkg/model"
)

// Core is the scheduler surface the server consumes.
type Core interface {
	// Snapshot returns the block states as of the last completed scan.
	Snapshot() []model.BlockState

	// Refresh requests an out-of-band update of the named block. False
	// means the request was dropped.
	Refresh(name, instance string) bool

	// Subscribe registers a consumer of rendered status lines.
	Subscribe() (<-chan []byte, func())
}

// Server is the goblocks control API server.
type Server struct {
	router    chi.Router
	core      Core
	logger    *slog.Logger
	startTime time.Time
}

// New creates a Server with all routes registered.
func New(core Core, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		core:      core,
		logger:    logger.With("component", "server"),
		startTime: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("control api listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/blocks/{name}/refresh", s.handleRefresh)
		r.Get("/stream", s.handleStream)
	})
}

type healthResponse struct {
	Status    string `json:"status"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.core.Snapshot())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	instance := r.URL.Query().Get("instance")

	if !s.core.Refresh(name, instance) {
		respondError(w, http.StatusServiceUnavailable, "refresh queue full")
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{
		"name":     name,
		"instance": instance,
		"status":   "accepted",
	})
}
