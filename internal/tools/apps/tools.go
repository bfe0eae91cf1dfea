package apps

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mesosphere/mcp-gitops/internal/server"
	"github.com/mesosphere/mcp-gitops/internal/tools"
)

// RegisterAppsTools registers the Kommander application introspection tools
// with the MCP server.
//
// Tools registered:
//   - list_apps: Namespaced Apps and cluster-scoped ClusterApps in one table
//   - get_app: Detailed view of a single App or ClusterApp
func RegisterAppsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// list_apps tool
	listAppsOpts := []mcp.ToolOption{
		mcp.WithDescription("List Kommander Apps and ClusterApps with their readiness. Each kind degrades independently when its CRD is absent."),
		mcp.WithString("namespace",
			mcp.Description("Namespace to list Apps from (optional, all namespaces if not specified; ClusterApps are cluster-scoped)"),
		),
		mcp.WithString("status_filter",
			mcp.Description("Filter by status: all, ready, failed, or suspended (default: all)"),
		),
	}
	listAppsOpts = append(listAppsOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("list_apps", listAppsOpts...),
		tools.WrapWithInstrumentation("list_apps", handleListApps, sc))

	// get_app tool
	getAppOpts := []mcp.ToolOption{
		mcp.WithDescription("Get detailed information about a Kommander App or ClusterApp: app version, chart reference, conditions, and per-cluster deployment status."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the app"),
		),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the App (optional, uses the default namespace; ignored for cluster-scoped apps)"),
		),
		mcp.WithBoolean("cluster_scoped",
			mcp.Description("Look up a cluster-scoped ClusterApp instead of a namespaced App (default: false)"),
		),
	}
	getAppOpts = append(getAppOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("get_app", getAppOpts...),
		tools.WrapWithInstrumentation("get_app", handleGetApp, sc))

	return nil
}
