package http

import (
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/climate-eto-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes health, readiness, metrics and settings resolution endpoints.
type Server struct {
	httpServer *http.Server
	defaults   domain.Settings
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// /v1/resolution routes. defaults fill the settings axes a resolution query omits.
func NewServer(addr string, ready sharedobs.ReadinessChecker, defaults domain.Settings, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		defaults: defaults,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.HandleFunc("GET /v1/resolution", s.handleResolution)
	mux.Handle("GET /metrics", promhttp.Handler())

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

// handleResolution returns the required fields, validation rules and unit
// labels for the settings given as query parameters.
func (s *Server) handleResolution(w http.ResponseWriter, r *http.Request) {
	settings, err := settingsFromQuery(r.URL.Query(), s.defaults)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, domain.Resolve(settings))
}

func settingsFromQuery(q url.Values, defaults domain.Settings) (domain.Settings, error) {
	s := defaults
	axes := []struct {
		name  string
		value encoding.TextUnmarshaler
	}{
		{"method", &s.Method},
		{"temperature_mode", &s.TemperatureMode},
		{"humidity_unit", &s.HumidityUnit},
		{"wind_unit", &s.WindUnit},
		{"sunshine_unit", &s.SunshineUnit},
		{"eto_unit", &s.EToUnit},
	}
	for _, axis := range axes {
		raw := q.Get(axis.name)
		if raw == "" {
			continue
		}
		if err := axis.value.UnmarshalText([]byte(raw)); err != nil {
			return domain.Settings{}, fmt.Errorf("query parameter %s: %w", axis.name, err)
		}
	}
	return s, nil
}
