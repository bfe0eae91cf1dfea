// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"fmt"
	"strconv"

	mcp "github.com/mark3labs/mcp-go/mcp"

	"github.com/mesosphere/mcp-gitops/internal/server"
)

// AddKubeContextParam returns tool options for the kubeContext parameter
// based on the server's operating mode. The parameter is only added when
// NOT in in-cluster mode: a pod talking to its own API server has exactly
// one context.
//
// Usage in tool registration:
//
//	opts := []mcp.ToolOption{
//	    mcp.WithDescription("..."),
//	}
//	opts = append(opts, tools.AddKubeContextParam(sc)...)
//	opts = append(opts, /* tool-specific params */...)
//	tool := mcp.NewTool("tool_name", opts...)
func AddKubeContextParam(sc *server.ServerContext) []mcp.ToolOption {
	var opts []mcp.ToolOption

	if !sc.InClusterMode() {
		opts = append(opts, mcp.WithString("kubeContext",
			mcp.Description("Kubernetes context to use (optional, uses current context if not specified)"),
		))
	}

	return opts
}

// KubeContext extracts the kubeContext argument. In in-cluster mode the
// argument is ignored and the empty (current) context is always used.
func KubeContext(request mcp.CallToolRequest, sc *server.ServerContext) string {
	if sc.InClusterMode() {
		return ""
	}
	kubeContext, _ := request.GetArguments()["kubeContext"].(string)
	return kubeContext
}

// StringArg extracts an optional string argument, falling back to def when
// absent or empty.
func StringArg(request mcp.CallToolRequest, name, def string) string {
	value, ok := request.GetArguments()[name].(string)
	if !ok || value == "" {
		return def
	}
	return value
}

// RequiredStringArg extracts a required string argument. The error message
// names the parameter so it can be surfaced to the caller verbatim.
func RequiredStringArg(request mcp.CallToolRequest, name string) (string, error) {
	value, ok := request.GetArguments()[name].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s parameter is required", name)
	}
	return value, nil
}

// BoolArg extracts an optional boolean argument.
func BoolArg(request mcp.CallToolRequest, name string, def bool) bool {
	value, ok := request.GetArguments()[name].(bool)
	if !ok {
		return def
	}
	return value
}

// IntArg extracts an optional integer argument. JSON numbers arrive as
// float64; string values are parsed for clients that quote numbers. A
// value that cannot be interpreted as an integer is an error rather than
// a silent fallback.
func IntArg(request mcp.CallToolRequest, name string, def int) (int, error) {
	raw, ok := request.GetArguments()[name]
	if !ok || raw == nil {
		return def, nil
	}

	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		if v == "" {
			return def, nil
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number, got %q", name, v)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
}
