package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps OpenTelemetry tracing with producer-call span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartProducer must honor cancellation/deadlines.
// - Errors: EndProducer must be best-effort and must not panic.
type Tracer interface {
	// StartProducer starts a span covering a producer invocation for the
	// given cache namespace.
	StartProducer(ctx context.Context, namespace string) (context.Context, trace.Span)

	// EndProducer ends the span, recording any error.
	EndProducer(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartProducer starts a producer span with the namespace as an attribute.
func (t *tracerImpl) StartProducer(ctx context.Context, namespace string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "producer."+namespace,
		trace.WithAttributes(
			attribute.String("cache.namespace", namespace),
			attribute.Bool("producer.error", false), // Updated in EndProducer if error
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	return ctx, span
}

// EndProducer ends the span and records the error status if present.
func (t *tracerImpl) EndProducer(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("producer.error", true))
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

// NopTracer returns a tracer that records nothing.
func NopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartProducer(ctx context.Context, namespace string) (context.Context, trace.Span) {
	return t.noop.Start(ctx, "producer."+namespace)
}

func (t *noopTracer) EndProducer(span trace.Span, err error) {
	span.End()
}
