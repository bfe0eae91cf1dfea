// Package instrumentation provides OpenTelemetry instrumentation for the
// mcp-gitops server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, tool invocations, and
//     Kubernetes operations
//   - Distributed tracing for tool handlers and Kubernetes API calls
//   - Prometheus metrics export via /metrics endpoint
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Tool Invocation Metrics:
//   - mcp_tool_invocations_total: Counter of tool calls by tool and status
//   - mcp_tool_duration_seconds: Histogram of tool call durations
//
// Kubernetes Operation Metrics:
//   - kubernetes_operations_total: Counter of K8s operations by operation and status
//   - kubernetes_operation_duration_seconds: Histogram of K8s operation durations
//
// # Cardinality Considerations
//
// Namespace and resource_type labels on Kubernetes operation metrics are
// disabled by default (METRICS_DETAILED_LABELS=false). CAPI cluster names
// are classified into a small set of types (production, staging, ...) via
// ClassifyClusterName before they reach metric or log labels; the exact
// names only appear in the audit trail and trace attributes.
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: mcp-gitops)
//   - METRICS_DETAILED_LABELS: Include namespace/resource_type labels (default: false)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "mcp-gitops",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordToolInvocation(ctx, "get_gitops_status", "success", time.Since(start))
package instrumentation
