package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// Test constants for tracing tests
const (
	tracingTestCluster   = "prod-wc-01"
	tracingTestNamespace = "flux-system"
	tracingTestTool      = "get_gitops_status"
)

func attrsToMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, attr := range attrs {
		m[attr.Key] = attr.Value
	}
	return m
}

func TestSpanAttributeBuilder(t *testing.T) {
	t.Run("empty builder", func(t *testing.T) {
		builder := NewSpanAttributeBuilder()
		attrs := builder.Build()
		if len(attrs) != 0 {
			t.Errorf("Empty builder should return 0 attributes, got %d", len(attrs))
		}
	})

	t.Run("with tool", func(t *testing.T) {
		builder := NewSpanAttributeBuilder().WithTool(tracingTestTool)
		attrs := builder.Build()

		if len(attrs) != 1 {
			t.Fatalf("Expected 1 attribute, got %d", len(attrs))
		}
		if attrs[0].Key != SpanAttrTool {
			t.Errorf("Expected key %q, got %q", SpanAttrTool, attrs[0].Key)
		}
		if attrs[0].Value.AsString() != tracingTestTool {
			t.Errorf("Expected value %q, got %q", tracingTestTool, attrs[0].Value.AsString())
		}
	})

	t.Run("with cluster", func(t *testing.T) {
		builder := NewSpanAttributeBuilder().WithCluster(tracingTestCluster)
		attrs := builder.Build()

		if len(attrs) != 2 {
			t.Fatalf("Expected 2 attributes, got %d", len(attrs))
		}

		attrMap := attrsToMap(attrs)
		if attrMap[SpanAttrCluster].AsString() != tracingTestCluster {
			t.Errorf("Expected cluster %q, got %q", tracingTestCluster, attrMap[SpanAttrCluster].AsString())
		}
		if attrMap[SpanAttrClusterType].AsString() != "production" {
			t.Errorf("Expected cluster type %q, got %q", "production", attrMap[SpanAttrClusterType].AsString())
		}
	})

	t.Run("with engine", func(t *testing.T) {
		builder := NewSpanAttributeBuilder().WithEngine("gatekeeper")
		attrs := builder.Build()

		if len(attrs) != 1 {
			t.Fatalf("Expected 1 attribute, got %d", len(attrs))
		}
		if attrs[0].Value.AsString() != "gatekeeper" {
			t.Errorf("Expected engine %q, got %q", "gatekeeper", attrs[0].Value.AsString())
		}
	})

	t.Run("with namespace", func(t *testing.T) {
		builder := NewSpanAttributeBuilder().WithNamespace(tracingTestNamespace)
		attrs := builder.Build()

		if len(attrs) != 1 {
			t.Fatalf("Expected 1 attribute, got %d", len(attrs))
		}
		if attrs[0].Value.AsString() != tracingTestNamespace {
			t.Errorf("Expected namespace %q, got %q", tracingTestNamespace, attrs[0].Value.AsString())
		}
	})

	t.Run("empty namespace is skipped", func(t *testing.T) {
		builder := NewSpanAttributeBuilder().WithNamespace("")
		if attrs := builder.Build(); len(attrs) != 0 {
			t.Errorf("Expected 0 attributes for empty namespace, got %d", len(attrs))
		}
	})

	t.Run("with resource", func(t *testing.T) {
		builder := NewSpanAttributeBuilder().WithResource("kustomizations", "apps")
		attrs := builder.Build()

		if len(attrs) != 2 {
			t.Fatalf("Expected 2 attributes, got %d", len(attrs))
		}

		attrMap := attrsToMap(attrs)
		if attrMap[SpanAttrResourceType].AsString() != "kustomizations" {
			t.Errorf("Expected resource type %q, got %q", "kustomizations", attrMap[SpanAttrResourceType].AsString())
		}
		if attrMap[SpanAttrResourceName].AsString() != "apps" {
			t.Errorf("Expected resource name %q, got %q", "apps", attrMap[SpanAttrResourceName].AsString())
		}
	})

	t.Run("chained attributes", func(t *testing.T) {
		attrs := NewSpanAttributeBuilder().
			WithTool(tracingTestTool).
			WithCluster(tracingTestCluster).
			WithNamespace(tracingTestNamespace).
			WithResource("kustomizations", "apps").
			WithOperation(OperationList).
			Build()

		// tool + cluster(2) + namespace + resource(2) + operation
		if len(attrs) != 7 {
			t.Fatalf("Expected 7 attributes, got %d", len(attrs))
		}

		attrMap := attrsToMap(attrs)
		if attrMap[SpanAttrOperation].AsString() != OperationList {
			t.Errorf("Expected operation %q, got %q", OperationList, attrMap[SpanAttrOperation].AsString())
		}
	})
}

func TestStartSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer(TracerName).Start(context.Background(), "test-span")
	if !span.SpanContext().IsValid() {
		t.Error("expected a valid span context")
	}
	span.End()

	if got := len(exporter.GetSpans()); got != 1 {
		t.Fatalf("expected 1 exported span, got %d", got)
	}
	_ = ctx
}

func TestStartToolSpan_Name(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	// StartToolSpan uses the global provider; use a local tracer with the same
	// naming convention to verify the span shape.
	_, span := tp.Tracer(TracerName).Start(context.Background(), "tool."+tracingTestTool,
		trace.WithAttributes(attribute.String(SpanAttrTool, tracingTestTool)),
		trace.WithSpanKind(trace.SpanKindServer),
	)
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 exported span, got %d", len(spans))
	}
	if spans[0].Name != "tool."+tracingTestTool {
		t.Errorf("span name = %q, want %q", spans[0].Name, "tool."+tracingTestTool)
	}
	if spans[0].SpanKind != trace.SpanKindServer {
		t.Errorf("span kind = %v, want %v", spans[0].SpanKind, trace.SpanKindServer)
	}
}

func TestSetSpanError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer(TracerName).Start(context.Background(), "test-span")
	SetSpanError(span, errors.New("kubernetes api unavailable"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 exported span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("status code = %v, want %v", spans[0].Status.Code, codes.Error)
	}
	if spans[0].Status.Description != "kubernetes api unavailable" {
		t.Errorf("status description = %q, want %q", spans[0].Status.Description, "kubernetes api unavailable")
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected a recorded error event")
	}
}

func TestSetSpanError_NilError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer(TracerName).Start(context.Background(), "test-span")
	SetSpanError(span, nil)
	span.End()

	spans := exporter.GetSpans()
	if spans[0].Status.Code == codes.Error {
		t.Error("nil error must not set the error status")
	}
}

func TestSetSpanSuccess(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer(TracerName).Start(context.Background(), "test-span")
	SetSpanSuccess(span)
	span.End()

	spans := exporter.GetSpans()
	if spans[0].Status.Code != codes.Ok {
		t.Errorf("status code = %v, want %v", spans[0].Status.Code, codes.Ok)
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("GetTraceID with no span = %q, want empty string", id)
	}
}

func TestGetSpanID_NoSpan(t *testing.T) {
	if id := GetSpanID(context.Background()); id != "" {
		t.Errorf("GetSpanID with no span = %q, want empty string", id)
	}
}

func TestSpanContextString(t *testing.T) {
	if s := SpanContextString(context.Background()); s != "" {
		t.Errorf("SpanContextString with no span = %q, want empty string", s)
	}

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer(TracerName).Start(context.Background(), "test-span")
	defer span.End()

	s := SpanContextString(ctx)
	if s == "" {
		t.Fatal("expected non-empty trace context string")
	}
	want := "trace_id=" + span.SpanContext().TraceID().String() +
		" span_id=" + span.SpanContext().SpanID().String()
	if s != want {
		t.Errorf("SpanContextString = %q, want %q", s, want)
	}
}
