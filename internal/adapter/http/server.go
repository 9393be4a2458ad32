package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/grib-inventory-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes health, readiness, metrics, and geolocation HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// /geolocation routes. backend is the selection reported by /geolocation.
func NewServer(addr string, ready sharedobs.ReadinessChecker, backend domain.GeolocationBackend, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /geolocation", geolocationHandler(backend, logger))

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// geolocationHandler answers with the same token the pipeline appends to
// each inventory line (mode 0).
func geolocationHandler(backend domain.GeolocationBackend, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var buf strings.Builder
		if err := domain.ReportGeolocation(0, backend, &buf); err != nil {
			sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if buf.Len() == 0 {
			logger.Warn("geolocation requested for out-of-range backend", "backend", int(backend))
			sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "geolocation backend out of range"})
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"backend": buf.String()})
	}
}
