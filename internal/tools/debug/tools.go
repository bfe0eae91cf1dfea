package debug

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mesosphere/mcp-gitops/internal/server"
	"github.com/mesosphere/mcp-gitops/internal/tools"
)

// RegisterDebugTools registers the troubleshooting tools with the MCP
// server.
//
// Tools registered:
//   - debug_reconciliation: Conditions, dependencies, and remediation hints for a Flux resource
//   - get_events: Namespace events, newest first
//   - get_pod_logs: Tail of a pod container log
//   - get_resource_yaml: Raw YAML of a single object
func RegisterDebugTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// debug_reconciliation tool
	debugOpts := []mcp.ToolOption{
		mcp.WithDescription("Debug a Flux resource that is not reconciling: conditions, source reference, dependency readiness, and remediation hints derived from the failure reason."),
		mcp.WithString("resource_type",
			mcp.Required(),
			mcp.Description("Type of resource: kustomization, gitrepository, or helmrelease"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the resource"),
		),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the resource (optional, uses the default namespace)"),
		),
	}
	debugOpts = append(debugOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("debug_reconciliation", debugOpts...),
		tools.WrapWithInstrumentation("debug_reconciliation", handleDebugReconciliation, sc))

	// get_events tool
	eventsOpts := []mcp.ToolOption{
		mcp.WithDescription("Get recent events in a namespace, sorted newest first."),
		mcp.WithString("namespace",
			mcp.Description("Namespace to get events from (optional, uses the default namespace)"),
		),
		mcp.WithString("resource_name",
			mcp.Description("Only events involving this object (optional)"),
		),
		mcp.WithString("event_type",
			mcp.Description("Only events of this type: Normal or Warning (optional)"),
		),
		mcp.WithString("limit",
			mcp.Description("Maximum number of events to return (default: 20)"),
		),
	}
	eventsOpts = append(eventsOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("get_events", eventsOpts...),
		tools.WrapWithInstrumentation("get_events", handleGetEvents, sc))

	// get_pod_logs tool
	logsOpts := []mcp.ToolOption{
		mcp.WithDescription("Get the log tail of a pod container."),
		mcp.WithString("pod_name",
			mcp.Required(),
			mcp.Description("Name of the pod"),
		),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the pod (optional, uses the default namespace)"),
		),
		mcp.WithString("container",
			mcp.Description("Container name (optional, first container if not specified)"),
		),
		mcp.WithString("tail_lines",
			mcp.Description("Number of log lines to return from the end (default: 100)"),
		),
	}
	logsOpts = append(logsOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("get_pod_logs", logsOpts...),
		tools.WrapWithInstrumentation("get_pod_logs", handleGetPodLogs, sc))

	// get_resource_yaml tool
	yamlOpts := []mcp.ToolOption{
		mcp.WithDescription("Get the full YAML of a single resource."),
		mcp.WithString("resource_type",
			mcp.Required(),
			mcp.Description("Type of resource: kustomization, gitrepository, helmrelease, cluster, machine, app, or clusterapp"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the resource"),
		),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the resource (optional, uses the default namespace; ignored for cluster-scoped types)"),
		),
	}
	yamlOpts = append(yamlOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("get_resource_yaml", yamlOpts...),
		tools.WrapWithInstrumentation("get_resource_yaml", handleGetResourceYAML, sc))

	return nil
}
