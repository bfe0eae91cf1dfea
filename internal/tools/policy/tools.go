package policy

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mesosphere/mcp-gitops/internal/server"
	"github.com/mesosphere/mcp-gitops/internal/tools"
)

// RegisterPolicyTools registers the policy engine introspection tools with
// the MCP server. Gatekeeper and Kyverno are queried through their CRDs
// only; no admission webhook traffic is involved.
//
// Tools registered:
//   - check_policy_violations: Flattened violations from Gatekeeper and Kyverno
//   - list_constraints: Gatekeeper constraints with enforcement and violation counts
//   - list_kyverno_policies: Kyverno ClusterPolicies with mode and readiness
func RegisterPolicyTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// check_policy_violations tool
	violationsOpts := []mcp.ToolOption{
		mcp.WithDescription("Check current policy violations. Queries Gatekeeper constraint statuses and Kyverno policy reports; each engine degrades independently when not installed."),
		mcp.WithString("engine",
			mcp.Description("Policy engine to query: both, gatekeeper, or kyverno (default: both)"),
		),
		mcp.WithString("namespace",
			mcp.Description("Only report violations against resources in this namespace (optional)"),
		),
	}
	violationsOpts = append(violationsOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("check_policy_violations", violationsOpts...),
		tools.WrapWithInstrumentation("check_policy_violations", handleCheckPolicyViolations, sc))

	// list_constraints tool
	constraintsOpts := []mcp.ToolOption{
		mcp.WithDescription("List Gatekeeper constraints with their kind, enforcement action, and total violation count."),
	}
	constraintsOpts = append(constraintsOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("list_constraints", constraintsOpts...),
		tools.WrapWithInstrumentation("list_constraints", handleListConstraints, sc))

	// list_kyverno_policies tool
	kyvernoOpts := []mcp.ToolOption{
		mcp.WithDescription("List Kyverno ClusterPolicies with background scan mode, validation failure action, and readiness."),
	}
	kyvernoOpts = append(kyvernoOpts, tools.AddKubeContextParam(sc)...)
	s.AddTool(mcp.NewTool("list_kyverno_policies", kyvernoOpts...),
		tools.WrapWithInstrumentation("list_kyverno_policies", handleListKyvernoPolicies, sc))

	return nil
}
