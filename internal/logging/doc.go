// Package logging provides structured logging utilities for the mcp-gitops server.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Host/URL sanitization for security
//   - Consistent attribute naming across the codebase
//   - A small Logger interface so packages stay decoupled from slog
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "resource.list")
//	logger.Info("listing resources",
//	    logging.Namespace("default"),
//	    logging.ResourceType("kustomizations"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("connected", logging.Host(apiServer))
//
// # Security Considerations
//
// API server URLs and error strings have IP addresses redacted before
// logging to prevent network topology leakage. Credentials are never
// logged.
package logging
