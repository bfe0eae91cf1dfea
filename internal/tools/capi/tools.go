package capi

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mesosphere/mcp-gitops/internal/server"
	"github.com/mesosphere/mcp-gitops/internal/tools"
)

// RegisterCAPITools registers the Cluster API introspection tools with the
// MCP server. These tools read CAPI objects on the management cluster; they
// never connect to the workload clusters those objects describe.
//
// Tools registered:
//   - get_cluster_status: Phase and readiness of all clusters or one cluster in detail
//   - list_machines: Machines joined to their owning cluster
func RegisterCAPITools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// get_cluster_status tool
	clusterStatusOpts := []mcp.ToolOption{
		mcp.WithDescription("Get Cluster API cluster status. Without a name, lists all clusters with phase and readiness. With a name, shows topology, control-plane endpoint, and worker counts."),
		mcp.WithString("name",
			mcp.Description("Cluster name for the detail view (optional, lists all clusters if not specified)"),
		),
	}
	clusterStatusOpts = append(clusterStatusOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("get_cluster_status", clusterStatusOpts...),
		tools.WrapWithInstrumentation("get_cluster_status", handleGetClusterStatus, sc))

	// list_machines tool
	listMachinesOpts := []mcp.ToolOption{
		mcp.WithDescription("List Cluster API machines with phase, backing node, Kubernetes version, and age."),
		mcp.WithString("cluster_name",
			mcp.Description("Filter machines by owning cluster (optional)"),
		),
		mcp.WithString("namespace",
			mcp.Description("Namespace to list from (optional, all namespaces if not specified)"),
		),
	}
	listMachinesOpts = append(listMachinesOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("list_machines", listMachinesOpts...),
		tools.WrapWithInstrumentation("list_machines", handleListMachines, sc))

	return nil
}
