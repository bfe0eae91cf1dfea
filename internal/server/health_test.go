// Package server provides tests for health check functionality.
// These tests verify the /healthz, /readyz, and /healthz/detailed endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesosphere/mcp-gitops/internal/k8s/fake"
	"github.com/mesosphere/mcp-gitops/internal/logging"
)

// newTestServerContext builds a ServerContext with a fake client whose Ping
// behavior is controlled by pingErr.
func newTestServerContext(t *testing.T, pingErr error) *ServerContext {
	t.Helper()

	client := &fake.Client{
		PingFunc: func(ctx context.Context, kubeContext string) error {
			return pingErr
		},
	}

	sc, err := NewServerContext(context.Background(),
		WithK8sClient(client),
		WithLogger(logging.DefaultLogger()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	return sc
}

func TestNewHealthChecker(t *testing.T) {
	sc := newTestServerContext(t, nil)

	h := NewHealthChecker(sc)

	require.NotNil(t, h)
	assert.True(t, h.IsReady(), "HealthChecker should start ready")
	assert.NotNil(t, h.serverContext)
	assert.False(t, h.startTime.IsZero(), "startTime should be set")
}

func TestHealthChecker_SetReady(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, nil))

	assert.True(t, h.IsReady())

	h.SetReady(false)
	assert.False(t, h.IsReady())

	h.SetReady(true)
	assert.True(t, h.IsReady())
}

func TestLivenessHandler(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.LivenessHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response HealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response.Status)
}

func TestReadinessHandler_Ready(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.ReadinessHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response HealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "ok", response.Checks["ready"])
	assert.Equal(t, "ok", response.Checks["shutdown"])
	assert.Equal(t, "ok", response.Checks["cluster"])
}

func TestReadinessHandler_NotReady(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, nil))
	h.SetReady(false)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.ReadinessHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var response HealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "not ready", response.Status)
	assert.Equal(t, "not ready", response.Checks["ready"])
}

func TestReadinessHandler_ClusterUnreachable(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, errors.New("connection refused")))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.ReadinessHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var response HealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "not ready", response.Status)
	assert.Contains(t, response.Checks["cluster"], "unreachable")
}

func TestReadinessHandler_ShuttingDown(t *testing.T) {
	sc := newTestServerContext(t, nil)
	require.NoError(t, sc.Shutdown())
	h := NewHealthChecker(sc)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.ReadinessHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var response HealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "not ready", response.Status)
	assert.Equal(t, "shutting down", response.Checks["shutdown"])
}

func TestDetailedHealthHandler_LocalMode(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil)
	rec := httptest.NewRecorder()

	h.DetailedHealthHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response DetailedHealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "local", response.Mode)
	assert.NotEmpty(t, response.Uptime)

	require.NotNil(t, response.Cluster)
	assert.True(t, response.Cluster.Connected)
}

func TestDetailedHealthHandler_InClusterMode(t *testing.T) {
	client := &fake.Client{}
	sc, err := NewServerContext(context.Background(),
		WithK8sClient(client),
		WithInCluster(true),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	h := NewHealthChecker(sc)

	req := httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil)
	rec := httptest.NewRecorder()

	h.DetailedHealthHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response DetailedHealthResponse
	err = json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "in-cluster", response.Mode)
}

func TestDetailedHealthHandler_ClusterUnreachable(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, errors.New("dial tcp: timeout")))

	req := httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil)
	rec := httptest.NewRecorder()

	h.DetailedHealthHandler().ServeHTTP(rec, req)

	var response DetailedHealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	require.NotNil(t, response.Cluster)
	assert.False(t, response.Cluster.Connected)
	assert.Contains(t, response.Cluster.Error, "timeout")
}

func TestDetailedHealthHandler_NotReady(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, nil))
	h.SetReady(false)

	req := httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil)
	rec := httptest.NewRecorder()

	h.DetailedHealthHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var response DetailedHealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "not ready", response.Status)
}

func TestDetailedHealthHandler_ShuttingDown(t *testing.T) {
	sc := newTestServerContext(t, nil)
	require.NoError(t, sc.Shutdown())
	h := NewHealthChecker(sc)

	req := httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil)
	rec := httptest.NewRecorder()

	h.DetailedHealthHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var response DetailedHealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "shutting down", response.Status)
}

func TestDetailedHealthHandler_NilServerContext(t *testing.T) {
	h := NewHealthChecker(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil)
	rec := httptest.NewRecorder()

	h.DetailedHealthHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response DetailedHealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "unknown", response.Mode)
}

func TestRegisterHealthEndpoints(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, nil))

	mux := http.NewServeMux()
	h.RegisterHealthEndpoints(mux)

	// Test that all endpoints are registered
	endpoints := []string{"/healthz", "/readyz", "/healthz/detailed"}
	for _, endpoint := range endpoints {
		req := httptest.NewRequest(http.MethodGet, endpoint, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.NotEqual(t, http.StatusNotFound, rec.Code, "Endpoint %s should be registered", endpoint)
	}
}

func TestGetInstrumentationStatus_Disabled(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, nil))

	status := h.getInstrumentationStatus()

	require.NotNil(t, status)
	assert.False(t, status.Enabled)
}
