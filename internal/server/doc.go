// Package server provides the ServerContext pattern and related infrastructure
// for the mcp-gitops server.
//
// This package implements the core server architecture patterns including:
//
//   - ServerContext: Encapsulates all server dependencies and lifecycle management
//   - Functional Options: Clean dependency injection and configuration
//   - HealthChecker: Liveness and readiness probes for Kubernetes deployments
//   - MetricsServer: Standalone Prometheus metrics listener
//
// The ServerContext Pattern:
//
// The ServerContext struct follows the context pattern commonly used in Go
// applications to encapsulate dependencies and provide clean separation of
// concerns. It includes:
//
//   - Kubernetes client interface
//   - Logger interface
//   - Configuration settings
//   - Optional OpenTelemetry instrumentation provider
//   - Context for cancellation and timeouts
//   - Lifecycle management (shutdown, cleanup)
//
// All dependencies are injected using functional options, making the code
// highly testable and modular.
//
// Example usage:
//
//	ctx := context.Background()
//	serverCtx, err := NewServerContext(ctx,
//		WithK8sClient(k8sClient),
//		WithLogger(customLogger),
//		WithDefaultNamespace("flux-system"),
//		WithLogLevel("debug"),
//	)
//	if err != nil {
//		return err
//	}
//	defer serverCtx.Shutdown()
//
//	// Use the context in MCP tools
//	client := serverCtx.K8sClient()
//	logger := serverCtx.Logger()
//	config := serverCtx.Config()
//
//	// Check if server is shutting down
//	if serverCtx.IsShutdown() {
//		return ErrServerShutdown
//	}
//
// Health checks:
//
// HealthChecker exposes /healthz (liveness), /readyz (readiness, backed by a
// discovery ping against the API server) and /healthz/detailed endpoints for
// HTTP transports. The stdio transport does not carry health endpoints.
//
// Functional Options Pattern:
//
// The package uses functional options for flexible and extensible configuration:
//
//   - WithK8sClient: Inject Kubernetes client
//   - WithLogger: Inject custom logger
//   - WithConfig: Provide complete configuration
//   - WithServerName: Set server name
//   - WithVersion: Set server version
//   - WithDefaultNamespace: Set default Kubernetes namespace
//   - WithLogLevel: Set logging level
//   - WithInCluster: Mark in-cluster service account mode
//   - WithInstrumentationProvider: Attach OpenTelemetry instrumentation
//
// This pattern allows for clean composition and makes the API forward-compatible
// as new options can be added without breaking existing code.
package server
