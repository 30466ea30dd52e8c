// Package server exposes the chat analysis pipeline over a stateless JSON API.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ccollicutt/chatlens/internal/metrics"
	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/chat"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/detector"
)

// Server holds the shared, read-only analysis dependencies for all handlers.
type Server struct {
	cfg          *config.Config
	logger       *zap.Logger
	analyzer     *analyzer.Analyzer
	maxBodyBytes int64
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxBodyBytes limits upload size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// New creates a Server for a validated configuration.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:          cfg,
		logger:       zap.NewNop(),
		maxBodyBytes: config.DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.analyzer = analyzer.New(cfg.AnalyzerOptions(s.logger)...)
	return s
}

// Router returns the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(metrics.Middleware)

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", s.health)

	r.Route("/v1", func(r chi.Router) {
		r.Use(maxBodySize(s.maxBodyBytes))

		r.Post("/analyze", s.analyze)
		r.Post("/participants", s.participants)
		r.Post("/detect", s.detect)
	})

	return r
}

func (s *Server) parser() *chat.Parser {
	return chat.New(s.cfg.ParserOptions(s.logger)...)
}

func (s *Server) detector() *detector.Detector {
	return detector.New(detector.WithGrammars(s.cfg.CompiledGrammars()...))
}
