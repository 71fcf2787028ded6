package observe

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/revert/undo"
)

// RunMeta contains metadata about a reversible run for telemetry purposes.
type RunMeta struct {
	ID        string // Run ID assigned by the executor (optional)
	Op        string // Operation name (required)
	Component string // Owning component or subsystem (optional)
	Attempt   int    // Attempt number when the caller retries (optional)
}

// SpanName returns the deterministic span name for this run.
// Format: undo.run.<component>.<op> or undo.run.<op>
func (m RunMeta) SpanName() string {
	if m.Component != "" {
		return "undo.run." + m.Component + "." + m.Op
	}
	return "undo.run." + m.Op
}

// Tracer wraps OpenTelemetry tracing with run-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a protected run.
	StartSpan(ctx context.Context, meta RunMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording the failure and rollback status.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with run metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta RunMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("run.op", meta.Op),
		attribute.Bool("run.rolled_back", false), // Updated in EndSpan
	}

	if meta.ID != "" {
		attrs = append(attrs, attribute.String("run.id", meta.ID))
	}
	if meta.Component != "" {
		attrs = append(attrs, attribute.String("run.component", meta.Component))
	}
	if meta.Attempt > 0 {
		attrs = append(attrs, attribute.Int("run.attempt", meta.Attempt))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span. A failure is recorded as span error status; a
// rolled-back failure additionally carries the rollback counts.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)

		var rb *undo.RolledBackError
		if errors.As(err, &rb) {
			span.SetAttributes(
				attribute.Bool("run.rolled_back", true),
				attribute.Int("run.undo_actions", rb.Ran),
				attribute.Int("run.undo_failures", rb.Failed),
			)
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta RunMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
