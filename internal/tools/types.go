package tools

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mesosphere/mcp-gitops/internal/k8s"
)

// ErrorResult renders a failed operation as an MCP error result. The text
// always starts with "Error: " so clients can present it inline, and the
// failure taxonomy from the k8s package maps to actionable wording.
func ErrorResult(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Error: failed to %s: %s", action, describeError(err)))
}

// InvalidArgumentResult renders a parameter validation failure.
func InvalidArgumentResult(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + message)
}

// describeError augments known error classes with a hint about what to
// check. Unknown errors pass through unchanged.
func describeError(err error) string {
	switch {
	case errors.Is(err, k8s.ErrAPIUnavailable):
		return err.Error() + " (is the controller installed?)"
	case errors.Is(err, k8s.ErrForbidden):
		return err.Error() + " (check RBAC permissions)"
	default:
		return err.Error()
	}
}

// DegradedLine renders the one-line explanation used when a single resource
// family cannot be read but the rest of the report should still render.
func DegradedLine(family string, err error) string {
	return fmt.Sprintf("%s: unavailable (%s)", family, describeError(err))
}

// IsDegradable reports whether a list failure should degrade to an
// explanatory line instead of failing the whole report. CRD-absent and
// RBAC-denied lookups degrade; transport and server errors do not.
func IsDegradable(err error) bool {
	return errors.Is(err, k8s.ErrAPIUnavailable) || errors.Is(err, k8s.ErrForbidden)
}
