package contexttools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mesosphere/mcp-gitops/internal/report"
	"github.com/mesosphere/mcp-gitops/internal/server"
	"github.com/mesosphere/mcp-gitops/internal/tools"
)

// handleListContexts renders the kubeconfig context table.
func handleListContexts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	contexts, err := sc.K8sClient().ListContexts(ctx)
	if err != nil {
		return tools.ErrorResult("list contexts", err), nil
	}

	if len(contexts) == 0 {
		return mcp.NewToolResultText(report.EmptySentence("contexts")), nil
	}

	table := report.NewTable("Current", "Name", "Cluster", "User", "Namespace")
	for _, info := range contexts {
		current := ""
		if info.Current {
			current = "*"
		}
		table.AddRow(current, info.Name, info.Cluster, info.User, info.Namespace)
	}

	var rb report.Builder
	rb.Headingf(1, "Kubernetes Contexts")
	rb.Table(table)
	rb.Fieldf("Total", "%d", table.Len())
	return mcp.NewToolResultText(rb.String()), nil
}

// handleGetCurrentContext renders the active context.
func handleGetCurrentContext(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	info, err := sc.K8sClient().GetCurrentContext(ctx)
	if err != nil {
		return tools.ErrorResult("get current context", err), nil
	}

	var rb report.Builder
	rb.Headingf(1, "Current Context")
	rb.Fieldf("Name", "%s", info.Name)
	rb.Fieldf("Cluster", "%s", info.Cluster)
	rb.Fieldf("User", "%s", info.User)
	if info.Namespace != "" {
		rb.Fieldf("Namespace", "%s", info.Namespace)
	}
	return mcp.NewToolResultText(rb.String()), nil
}
