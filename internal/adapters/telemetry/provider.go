package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/pallet/internal/core/ports"
)

// InstrumentationName names the tracer used for build spans.
const InstrumentationName = "go.trai.ch/pallet"

// Event and attribute names recorded on spans.
const (
	EventPlanEmitted = "plan_emitted"
	EventLog         = "log"
	AttrProjects     = "projects"
	AttrMessage      = "message"
)

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer creates a tracer from provider with the given instrumentation name.
func NewOTelTracer(provider trace.TracerProvider, name string) *OTelTracer {
	return &OTelTracer{tracer: provider.Tracer(name)}
}

// Start creates a new span. Output written to the span is recorded as one log event per line.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer.Start(ctx, name)
	s := &OTelSpan{span: span}
	for key, value := range cfg.Attributes {
		s.SetAttribute(key, value)
	}

	s.batcher = NewLineBatcher(0, 0, func(lines []string) {
		for _, line := range lines {
			span.AddEvent(EventLog, trace.WithAttributes(attribute.String(AttrMessage, line)))
		}
	})

	return ctx, s
}

// EmitPlan adds the planned projects as an event on the span in ctx.
func (t *OTelTracer) EmitPlan(ctx context.Context, projects []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent(EventPlanEmitted, trace.WithAttributes(
			attribute.StringSlice(AttrProjects, projects),
		))
	}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span    trace.Span
	batcher *LineBatcher
}

// End flushes buffered output and completes the span.
func (s *OTelSpan) End() {
	_ = s.batcher.Close()
	s.span.End()
}

// RecordError records an error for the span.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	case fmt.Stringer:
		s.span.SetAttributes(attribute.String(key, v.String()))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write satisfies io.Writer.
func (s *OTelSpan) Write(p []byte) (int, error) {
	return s.batcher.Write(p)
}
