package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/mesosphere/mcp-gitops/internal/instrumentation"
)

// statusRecorder wraps http.ResponseWriter to capture the status code for
// metric labels.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the first status code written.
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.wroteHeader {
		sr.status = code
		sr.wroteHeader = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.wroteHeader = true
	return sr.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying ResponseWriter so http.ResponseController
// can reach interfaces like http.Flusher.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// Flush implements http.Flusher for the SSE transport.
func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// HTTPMetrics records request count and duration per method/path/status.
// A nil or disabled provider turns the middleware into a pass-through.
func HTTPMetrics(provider *instrumentation.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if provider == nil || !provider.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			recorder := newStatusRecorder(w)

			next.ServeHTTP(recorder, r)

			provider.Metrics().RecordHTTPRequest(
				r.Context(),
				r.Method,
				normalizePath(r.URL.Path),
				recorder.status,
				time.Since(start),
			)
		})
	}
}

// The fixed endpoints this server registers. Anything else gets its dynamic
// segments collapsed so metric cardinality stays bounded.
var fixedEndpoints = map[string]bool{
	"/mcp":              true,
	"/sse":              true,
	"/message":          true,
	"/healthz":          true,
	"/healthz/detailed": true,
	"/readyz":           true,
	"/metrics":          true,
}

var (
	// Session suffix on the streamable-http endpoint, e.g. /mcp/abc123xyz
	mcpSessionPattern = regexp.MustCompile(`^/mcp/[a-zA-Z0-9_-]{8,64}$`)

	uuidSegmentPattern    = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	numericSegmentPattern = regexp.MustCompile(`/\d+(/|$)`)
)

// normalizePath collapses dynamic path segments (MCP session IDs, UUIDs,
// numeric IDs) into placeholders.
func normalizePath(path string) string {
	if fixedEndpoints[path] {
		return path
	}
	if mcpSessionPattern.MatchString(path) {
		return "/mcp/:session"
	}

	path = uuidSegmentPattern.ReplaceAllString(path, ":uuid")
	path = numericSegmentPattern.ReplaceAllString(path, "/:id$1")
	return path
}
