package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesosphere/mcp-gitops/internal/instrumentation"
)

// DefaultMetricsAddr is the default listen address for the metrics server.
const DefaultMetricsAddr = ":9090"

// DefaultShutdownTimeout bounds graceful shutdown of the metrics server.
const DefaultShutdownTimeout = 5 * time.Second

// MetricsServerConfig configures the standalone metrics server.
type MetricsServerConfig struct {
	// Addr is the listen address. Defaults to DefaultMetricsAddr when empty.
	Addr string

	// Enabled controls whether Start actually listens. A disabled server
	// is a no-op, which keeps caller wiring unconditional.
	Enabled bool

	// InstrumentationProvider supplies the exporters backing /metrics.
	InstrumentationProvider *instrumentation.Provider
}

// MetricsServer serves Prometheus metrics and a health endpoint on a
// dedicated listener, separate from the MCP transport.
//
// The OpenTelemetry prometheus exporter registers its collectors with the
// default Prometheus registry, so promhttp.Handler() exposes everything the
// instrumentation provider records.
type MetricsServer struct {
	config MetricsServerConfig
	server *http.Server

	mu      sync.Mutex
	started bool
}

// NewMetricsServer creates a metrics server from the given configuration.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.InstrumentationProvider == nil {
		return nil, errors.New("instrumentation provider is required")
	}

	if config.Addr == "" {
		config.Addr = DefaultMetricsAddr
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))

	return &MetricsServer{
		config: config,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *MetricsServer) Addr() string {
	return s.config.Addr
}

// Start begins serving metrics. It blocks until the server stops and
// returns http.ErrServerClosed after a graceful shutdown. A disabled
// server returns immediately without listening.
func (s *MetricsServer) Start() error {
	if !s.config.Enabled {
		return nil
	}

	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the metrics server. Shutting down a server
// that was never started is a no-op.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	if !started {
		return nil
	}

	return s.server.Shutdown(ctx)
}
