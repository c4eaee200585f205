// Package server exposes the site search over HTTP.
//
// Routes:
//
//	POST /api/v1/search         run a search on a posted matrix
//	GET  /api/v1/results        list recent runs (?limit=n)
//	GET  /api/v1/results/{id}   fetch one run
//	GET  /healthz               liveness and build version
//	GET  /metrics               Prometheus metrics (when configured)
//
// Errors are JSON objects {"code": ..., "error": ...}. INVALID_* codes map to
// 400, missing runs to 404, everything else to 500.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sitefinder/pkg/pipeline"
	"github.com/matzehuels/sitefinder/pkg/store"
)

// MaxBodyBytes caps the size of a search request.
const MaxBodyBytes = 64 << 20

// Config wires a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Runner executes searches. Its Store backs the results endpoints; a
	// runner without a store gets a MemoryStore.
	Runner *pipeline.Runner

	// Defaults fill options a request leaves at zero.
	Defaults pipeline.Options

	// Metrics serves /metrics. Nil disables the route.
	Metrics http.Handler

	Logger *log.Logger
}

// Server is the HTTP front end.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	metrics  http.Handler
	logger   *log.Logger
	handler  http.Handler
	srv      *http.Server
}

// New builds a server from cfg.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	runner := cfg.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil, logger)
	}
	if runner.Store == nil {
		runner.Store = store.NewMemoryStore()
	}

	s := &Server{
		runner:   runner,
		defaults: cfg.Defaults,
		metrics:  cfg.Metrics,
		logger:   logger,
	}
	s.handler = s.routes()
	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
