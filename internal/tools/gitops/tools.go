package gitops

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mesosphere/mcp-gitops/internal/server"
	"github.com/mesosphere/mcp-gitops/internal/tools"
)

// RegisterGitOpsTools registers all Flux introspection tools with the MCP server.
//
// Tools registered:
//   - get_gitops_status: Summary health counts across all Flux resource families
//   - list_kustomizations: List Kustomizations with status filtering
//   - get_kustomization: Detailed view of a single Kustomization
//   - list_gitrepositories: List GitRepository sources
//   - get_helmreleases: List HelmReleases with status filtering
func RegisterGitOpsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// get_gitops_status tool
	statusOpts := []mcp.ToolOption{
		mcp.WithDescription("Get a summary of GitOps health: Ready/Failed/Suspended counts for Kustomizations, GitRepositories, and HelmReleases across all namespaces."),
	}
	statusOpts = append(statusOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("get_gitops_status", statusOpts...),
		tools.WrapWithInstrumentation("get_gitops_status", handleGetGitOpsStatus, sc))

	// list_kustomizations tool
	listKustomizationsOpts := []mcp.ToolOption{
		mcp.WithDescription("List Flux Kustomizations with their reconciliation status, latest message, and last applied revision."),
		mcp.WithString("namespace",
			mcp.Description("Namespace to list from (optional, all namespaces if not specified)"),
		),
		mcp.WithString("status_filter",
			mcp.Description("Filter by status: all, ready, failed, or suspended (default: all)"),
		),
	}
	listKustomizationsOpts = append(listKustomizationsOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("list_kustomizations", listKustomizationsOpts...),
		tools.WrapWithInstrumentation("list_kustomizations", handleListKustomizations, sc))

	// get_kustomization tool
	getKustomizationOpts := []mcp.ToolOption{
		mcp.WithDescription("Get detailed information about a single Kustomization: source, path, interval, last applied revision, and full condition history."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the Kustomization"),
		),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the Kustomization (optional, uses the default namespace)"),
		),
	}
	getKustomizationOpts = append(getKustomizationOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("get_kustomization", getKustomizationOpts...),
		tools.WrapWithInstrumentation("get_kustomization", handleGetKustomization, sc))

	// list_gitrepositories tool
	listGitReposOpts := []mcp.ToolOption{
		mcp.WithDescription("List Flux GitRepository sources with their URL, tracked reference, and readiness."),
		mcp.WithString("namespace",
			mcp.Description("Namespace to list from (optional, all namespaces if not specified)"),
		),
	}
	listGitReposOpts = append(listGitReposOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("list_gitrepositories", listGitReposOpts...),
		tools.WrapWithInstrumentation("list_gitrepositories", handleListGitRepositories, sc))

	// get_helmreleases tool
	getHelmReleasesOpts := []mcp.ToolOption{
		mcp.WithDescription("List Flux HelmReleases with their chart, version, and reconciliation status."),
		mcp.WithString("namespace",
			mcp.Description("Namespace to list from (optional, all namespaces if not specified)"),
		),
		mcp.WithString("status_filter",
			mcp.Description("Filter by status: all, ready, failed, or suspended (default: all)"),
		),
	}
	getHelmReleasesOpts = append(getHelmReleasesOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("get_helmreleases", getHelmReleasesOpts...),
		tools.WrapWithInstrumentation("get_helmreleases", handleGetHelmReleases, sc))

	return nil
}
