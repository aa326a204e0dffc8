package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PageSource provides the current status page and when it was last written.
type PageSource interface {
	Snapshot() (page string, updatedAt time.Time)
}

// Server serves the rain status page, static assets, and health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server. GET / returns the status page; any other
// unmatched path is served from staticDir.
func NewServer(addr, staticDir string, pages PageSource, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex(pages))
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /", http.FileServer(http.Dir(staticDir)))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleIndex(pages PageSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		page, updatedAt := pages.Snapshot()

		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		if !updatedAt.IsZero() {
			w.Header().Set("Last-Modified", updatedAt.UTC().Format(http.TimeFormat))
		}
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, page); err != nil {
			s.logger.Debug("write status page", "error", err)
		}
	}
}
