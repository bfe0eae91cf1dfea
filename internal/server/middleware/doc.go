// Package middleware provides HTTP middleware for the mcp-gitops server.
// These middleware functions handle security headers, CORS, request metrics,
// and other cross-cutting concerns for the HTTP transports.
package middleware
