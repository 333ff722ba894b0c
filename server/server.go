// Package server exposes the analysis engine over HTTP: file upload and
// analysis, stored-analysis history, dashboard recomputation with date
// filters, and CSV export.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/painelbi/painelbi/analyzer"
	"github.com/painelbi/painelbi/history"
)

// Server wires the HTTP surface to the history store and the analyzer.
type Server struct {
	store    *history.Store
	analyzer analyzer.Analyzer
	log      *zap.Logger
	now      func() time.Time
}

// New builds a Server. The clock is time.Now; tests override it through
// WithClock so preset resolution is reproducible.
func New(store *history.Store, an analyzer.Analyzer, log *zap.Logger) *Server {
	return &Server{store: store, analyzer: an, log: log, now: time.Now}
}

// WithClock replaces the server's clock and returns the server.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// Router assembles the chi router with middleware and all routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/analyses", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
		r.Delete("/{id}", s.handleDelete)
		r.Get("/{id}/dashboard", s.handleDashboard)
		r.Get("/{id}/export", s.handleExport)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
