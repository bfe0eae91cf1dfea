// Package cmd provides the command-line interface for mcp-gitops.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the MCP server (default behavior when no subcommand is provided)
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// Running the binary without a subcommand starts the MCP server, so a plain
// `mcp-gitops` works as an MCP stdio server out of the box.
//
// Command Structure:
//
//	mcp-gitops [flags]                 # Starts the MCP server (default)
//	mcp-gitops serve [flags]           # Explicitly starts the MCP server
//	mcp-gitops version                 # Shows version information
//	mcp-gitops self-update             # Updates to latest release
//	mcp-gitops help [command]          # Shows help information
//
// The serve command supports multiple transport options:
//   - stdio: Standard input/output (default) - for command-line integration
//   - sse: Server-Sent Events over HTTP - for web-based clients
//   - streamable-http: Streamable HTTP transport - for HTTP-based integration
//
// Transport Configuration Examples:
//
//	mcp-gitops serve --transport stdio
//	mcp-gitops serve --transport sse --http-addr :8080 --sse-endpoint /sse
//	mcp-gitops serve --transport streamable-http --http-addr :9000 --http-endpoint /mcp
//
// The serve command also exposes Kubernetes client settings: kubeconfig
// path, in-cluster mode, API rate limits, request timeout, and the default
// namespace used by namespaced query tools.
package cmd
