package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// FetchMeta describes one fetch operation for telemetry purposes.
type FetchMeta struct {
	Operation string // story_ids, story, comment, stories, comments, thread (required)
	Target    string // List name or item id (optional)
	URL       string // Upstream URL (optional)
}

// SpanName returns the deterministic span name for this operation.
// Format: hn.fetch.<operation>
func (m FetchMeta) SpanName() string {
	return "hn.fetch." + m.Operation
}

// Fields returns the metadata as log fields, skipping empty values.
func (m FetchMeta) Fields() []Field {
	fields := []Field{{Key: "hn.operation", Value: m.Operation}}
	if m.Target != "" {
		fields = append(fields, Field{Key: "hn.target", Value: m.Target})
	}
	if m.URL != "" {
		fields = append(fields, Field{Key: "http.url", Value: m.URL})
	}
	return fields
}

type fetchMetaKey struct{}

// ContextWithFetchMeta returns a copy of ctx carrying meta, so code deeper in
// the call chain can log with the same fields.
func ContextWithFetchMeta(ctx context.Context, meta FetchMeta) context.Context {
	return context.WithValue(ctx, fetchMetaKey{}, meta)
}

// FetchMetaFromContext returns the meta stored by ContextWithFetchMeta.
func FetchMetaFromContext(ctx context.Context) (FetchMeta, bool) {
	meta, ok := ctx.Value(fetchMetaKey{}).(FetchMeta)
	return meta, ok
}

// Tracer wraps OpenTelemetry tracing with fetch-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a fetch.
	StartSpan(ctx context.Context, meta FetchMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new client span with fetch metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta FetchMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("hn.operation", meta.Operation),
		attribute.Bool("hn.error", false), // Updated in EndSpan on error
	}
	if meta.Target != "" {
		attrs = append(attrs, attribute.String("hn.target", meta.Target))
	}
	if meta.URL != "" {
		attrs = append(attrs, attribute.String("url.full", meta.URL))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("hn.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// NoopTracer returns a tracer that records nothing.
func NoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta FetchMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
