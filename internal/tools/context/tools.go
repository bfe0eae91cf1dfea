package contexttools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mesosphere/mcp-gitops/internal/server"
	"github.com/mesosphere/mcp-gitops/internal/tools"
)

// RegisterContextTools registers the kubeconfig context tools with the MCP
// server. In-cluster mode reports a single synthetic context, so both tools
// stay registered regardless of mode.
func RegisterContextTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// list_contexts tool
	listTool := mcp.NewTool("list_contexts",
		mcp.WithDescription("List all available Kubernetes contexts with the active one marked."),
	)
	s.AddTool(listTool, tools.WrapWithInstrumentation("list_contexts", handleListContexts, sc))

	// get_current_context tool
	currentTool := mcp.NewTool("get_current_context",
		mcp.WithDescription("Get the currently active Kubernetes context."),
	)
	s.AddTool(currentTool, tools.WrapWithInstrumentation("get_current_context", handleGetCurrentContext, sc))

	return nil
}
