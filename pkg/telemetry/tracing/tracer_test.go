package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/oracle-Solution/hl7/pkg/config"
)

func newTestTracer(t *testing.T, sampler string) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(config.TracingConfig{
		Enabled:     true,
		ServiceName: "hl7edit-test",
		Sampler:     sampler,
		SampleRatio: 1.0,
	}, "test", exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, exporter
}

func TestNew_Disabled(t *testing.T) {
	tracer, err := New(context.Background(), config.TracingConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tracer.Enabled() {
		t.Error("Enabled() = true for disabled config")
	}

	ctx, span := tracer.Start(context.Background(), "noop")
	span.End()
	if TraceID(ctx) != "" {
		t.Error("noop span has a trace ID")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNilTracer(t *testing.T) {
	var tracer *Tracer
	_, span := tracer.Start(context.Background(), "nil")
	span.End()
	if tracer.Enabled() {
		t.Error("nil tracer reports enabled")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTracer_Spans(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerAlways)

	ctx, parent := tracer.Start(context.Background(), "hl7.set")
	if TraceID(ctx) == "" {
		t.Error("TraceID() is empty inside a sampled span")
	}
	_, child := tracer.Start(ctx, "hl7.validate")
	SetFindingAttributes(child, 2, 1)
	child.End()

	SetMessageAttributes(parent, "2.5", "ADT^A01", 120, 3)
	SetStatus(parent, nil)
	parent.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("exported %d spans, want 2", len(spans))
	}

	validate, set := spans[0], spans[1]
	if validate.Parent.SpanID() != set.SpanContext.SpanID() {
		t.Error("child span is not linked to its parent")
	}
	if !hasAttr(validate.Attributes, attribute.Int(AttrErrors, 2)) {
		t.Errorf("validate attributes = %v", validate.Attributes)
	}
	if !hasAttr(set.Attributes, attribute.String(AttrMessageType, "ADT^A01")) {
		t.Errorf("set attributes = %v", set.Attributes)
	}
	if set.Status.Code != codes.Ok {
		t.Errorf("status = %v, want Ok", set.Status.Code)
	}
}

func TestSetStatus_Error(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerAlways)

	_, span := tracer.Start(context.Background(), "hl7.inspect")
	SetErrorKind(span, "malformed")
	SetStatus(span, errors.New("boom"))
	span.End()

	got := exporter.GetSpans()[0]
	if got.Status.Code != codes.Error || got.Status.Description != "boom" {
		t.Errorf("status = %+v", got.Status)
	}
	if len(got.Events) != 1 || got.Events[0].Name != "exception" {
		t.Errorf("events = %v, want one exception", got.Events)
	}
	if !hasAttr(got.Attributes, attribute.String(AttrErrorKind, "malformed")) {
		t.Errorf("attributes = %v", got.Attributes)
	}
}

func TestSampler_Never(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerNever)

	_, span := tracer.Start(context.Background(), "dropped")
	span.End()

	if n := len(exporter.GetSpans()); n != 0 {
		t.Errorf("exported %d spans with the never sampler", n)
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.5, false},
		{"", 1, false},
		{SamplerRatio, 1.5, true},
		{"sometimes", 0, true},
	}
	for _, tt := range tests {
		_, err := createSampler(tt.strategy, tt.ratio)
		if (err != nil) != tt.wantErr {
			t.Errorf("createSampler(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
		}
	}

	exporter := tracetest.NewInMemoryExporter()
	if _, err := NewWithExporter(config.TracingConfig{Sampler: "bad"}, "", exporter); err == nil {
		t.Error("NewWithExporter() error = nil for bad sampler")
	}
}

func TestPropagation(t *testing.T) {
	const parent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	t.Setenv(TraceParentEnv, parent)
	sc := trace.SpanContextFromContext(ExtractFromEnv(context.Background()))
	if sc.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" || !sc.IsSampled() || !sc.IsRemote() {
		t.Errorf("extracted span context = %v", sc)
	}

	tracer, exporter := newTestTracer(t, SamplerNever)
	_, span := tracer.Start(ExtractFromEnv(context.Background()), "child")
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1 (sampled parent)", len(spans))
	}
	if spans[0].SpanContext.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Error("span did not continue the TRACEPARENT trace")
	}
}

func TestExtractFromEnv_Unset(t *testing.T) {
	t.Setenv(TraceParentEnv, "")
	ctx := context.Background()
	if got := ExtractFromEnv(ctx); got != ctx {
		t.Error("ExtractFromEnv() changed the context without TRACEPARENT")
	}
}

func hasAttr(attrs []attribute.KeyValue, want attribute.KeyValue) bool {
	for _, a := range attrs {
		if a == want {
			return true
		}
	}
	return false
}
