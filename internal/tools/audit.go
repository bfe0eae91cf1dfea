package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mesosphere/mcp-gitops/internal/instrumentation"
	"github.com/mesosphere/mcp-gitops/internal/server"
)

// ToolHandler is the signature for MCP tool handler functions that take ServerContext.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

// WrapWithInstrumentation wraps a tool handler with tracing, metrics, and
// audit logging. The wrapper automatically captures:
//   - A span per invocation (tool.<name>) with trace context propagation
//   - Tool invocation counters and duration histograms
//   - Cluster, namespace, and resource information from request arguments
//   - Success/error status from the handler result
//
// When no instrumentation provider is configured, the handler is called
// directly with no overhead.
func WrapWithInstrumentation(
	toolName string,
	handler ToolHandler,
	sc *server.ServerContext,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		provider := sc.InstrumentationProvider()
		if provider == nil || !provider.Enabled() {
			return handler(ctx, request, sc)
		}

		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)
		extractAuditInfoFromArgs(invocation, request.GetArguments())

		start := time.Now()
		result, err := handler(ctx, request, sc)
		duration := time.Since(start)

		switch {
		case err != nil:
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			// MCP tool errors are returned in the result, not as Go errors
			invocation.Complete(false, nil)
			if len(result.Content) > 0 {
				if textContent, ok := result.Content[0].(mcp.TextContent); ok {
					invocation.Error = textContent.Text
				}
			}
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		provider.Metrics().RecordToolInvocation(ctx, toolName, invocation.Status(), duration)

		if auditLogger := provider.AuditLogger(); auditLogger != nil {
			auditLogger.LogToolInvocation(ctx, invocation)
		}

		return result, err
	}
}

// extractAuditInfoFromArgs extracts cluster, namespace, and resource information
// from tool request arguments for audit logging.
func extractAuditInfoFromArgs(invocation *instrumentation.ToolInvocation, args map[string]interface{}) {
	if kubeContext, ok := args["kubeContext"].(string); ok && kubeContext != "" {
		invocation.WithKubeContext(kubeContext)
	}

	// CAPI tools address workload clusters by name
	if cluster, ok := args["cluster_name"].(string); ok && cluster != "" {
		invocation.WithCluster(cluster)
	}

	namespace, _ := args["namespace"].(string)
	resourceType, _ := args["resource_type"].(string)
	resourceName := extractResourceName(args)

	if namespace != "" || resourceType != "" || resourceName != "" {
		invocation.WithResource(namespace, resourceType, resourceName)
	}
}

// extractResourceName extracts the resource name from various argument patterns.
// Different tools use different parameter names for the resource name.
func extractResourceName(args map[string]interface{}) string {
	nameKeys := []string{"name", "pod_name", "resource_name"}
	for _, key := range nameKeys {
		if name, ok := args[key].(string); ok && name != "" {
			return name
		}
	}
	return ""
}
