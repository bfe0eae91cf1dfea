package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation captures one MCP tool call for metrics and audit logging.
// Build it at the start of a handler, enrich it as parameters are parsed,
// and complete it when the handler returns.
type ToolInvocation struct {
	Tool      string
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Target of the call
	KubeContext  string
	ClusterName  string
	Namespace    string
	ResourceType string
	ResourceName string

	// Trace correlation
	TraceID string
	SpanID  string
}

// NewToolInvocation starts tracking a tool call.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithKubeContext records the kubeconfig context targeted by the call.
func (ti *ToolInvocation) WithKubeContext(kubeContext string) *ToolInvocation {
	ti.KubeContext = kubeContext
	return ti
}

// WithCluster records the CAPI cluster name targeted by the call.
func (ti *ToolInvocation) WithCluster(clusterName string) *ToolInvocation {
	ti.ClusterName = clusterName
	return ti
}

// WithResource records the resource the call operates on.
func (ti *ToolInvocation) WithResource(namespace, resourceType, resourceName string) *ToolInvocation {
	ti.Namespace = namespace
	ti.ResourceType = resourceType
	ti.ResourceName = resourceName
	return ti
}

// WithSpanContext copies trace and span IDs from the active span, if any.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete records the outcome and duration of the invocation.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// CompleteWithError marks the invocation as failed.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// Status returns the metric status label for the invocation.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// ClusterType returns the cardinality-controlled cluster classification.
func (ti *ToolInvocation) ClusterType() string {
	return ClassifyClusterName(ti.ClusterName)
}

// LogAttrs returns cardinality-controlled attributes for operational logs.
// Full cluster and resource names are deliberately excluded here.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.String("cluster_type", ti.ClusterType()),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	return attrs
}

// LogAuditAttrs returns the full-fidelity attributes for the audit trail,
// including exact resource and cluster names.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.String("cluster", ti.ClusterName),
		slog.String("context", ti.KubeContext),
		slog.String("namespace", ti.Namespace),
		slog.String("resource_type", ti.ResourceType),
		slog.String("resource_name", ti.ResourceName),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	return attrs
}

// AuditLogger writes tool invocations to the structured audit trail.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates an audit logger. A nil logger uses slog.Default().
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger}
}

// LogToolInvocation writes one completed invocation to the audit trail.
func (al *AuditLogger) LogToolInvocation(ctx context.Context, ti *ToolInvocation) {
	level := slog.LevelInfo
	if !ti.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "tool invocation", ti.LogAuditAttrs()...)
}

// TraceIDFromContext returns the trace ID from the active span, if any.
func TraceIDFromContext(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
