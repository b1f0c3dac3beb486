// Package server implements the cardstack preview server.
//
// The server exposes the layout pipeline over HTTP so a browser or a design
// tool can preview arrangements without running the CLI:
//
//	GET /healthz              liveness probe
//	GET /layout               snapshot document (JSON)
//	GET /render.{format}      svg, png, dot, graph or json artifact
//	GET /decks/{id}/layout    snapshot of a stored deck
//	GET /decks/{id}/render.{format}
//
// Query parameters select the pass: count, labels, colors, width, height,
// offset, exposed, moving, pointer (x,y), pinning, scale and refresh.
// Layouts and artifacts are cached by the pipeline runner, so repeated
// requests for the same parameters are served from the cache.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/deck"
	"github.com/matzehuels/cardstack/pkg/pipeline"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves layout previews.
type Server struct {
	runner *pipeline.Runner
	cfg    config.Config
	decks  deck.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server. decks may be nil, in which case the deck routes
// answer 404.
func New(runner *pipeline.Runner, cfg config.Config, decks deck.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		cfg:    cfg,
		decks:  decks,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/layout", s.handleLayout)
	r.Get("/render.{format}", s.handleRender)
	r.Route("/decks/{id}", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Get("/render.{format}", s.handleRender)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
