// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gogpu/noise"
	"github.com/gogpu/noise/internal/cache"
)

const (
	// DefaultMaxDimension bounds width and height of a single render.
	DefaultMaxDimension = 4096

	// DefaultCacheTTL is how long deterministic PNGs stay cached.
	DefaultCacheTTL = 24 * time.Hour

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Renderer renders textures for one algorithm. noise.Texture implements it.
type Renderer interface {
	Algorithm() noise.Algorithm
	ImageData(cfg noise.AnyConfig) (*image.RGBA, error)
	DataURL(cfg noise.AnyConfig) (string, error)
	RawData(cfg noise.AnyConfig) ([]float32, error)
}

var _ Renderer = noise.Texture(nil)

// Server is an http.Handler serving noise textures.
type Server struct {
	renderers map[string]Renderer
	defaults  noise.SharedConfig
	cache     cache.Cache
	ttl       time.Duration
	maxDim    int
	log       *slog.Logger
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithCache stores deterministic PNGs in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) {
		if c != nil {
			s.cache = c
			s.ttl = ttl
		}
	}
}

// WithDefaults tells the server the algorithm-level defaults the renderers
// were created with. They are used to size responses and to decide which
// requests are deterministic.
func WithDefaults(d noise.SharedConfig) Option {
	return func(s *Server) { s.defaults = d }
}

// WithMaxDimension bounds width and height of a render.
func WithMaxDimension(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxDim = n
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a server for the given renderers, keyed by algorithm name.
func New(renderers []Renderer, opts ...Option) *Server {
	s := &Server{
		renderers: make(map[string]Renderer, len(renderers)),
		cache:     cache.Null{},
		ttl:       DefaultCacheTTL,
		maxDim:    DefaultMaxDimension,
		log:       noise.Logger(),
	}
	for _, r := range renderers {
		s.renderers[r.Algorithm().String()] = r
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/algorithms", s.handleAlgorithms)
		r.Get("/noise/{algorithm}.png", s.handlePNG)
		r.Get("/noise/{algorithm}/dataurl", s.handleDataURL)
		r.Get("/noise/{algorithm}/raw", s.handleRaw)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully and returns ctx.Err().
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Info("server: listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		s.log.Info("server: stopped")
		return ctx.Err()
	}
}
