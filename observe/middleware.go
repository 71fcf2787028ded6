package observe

import (
	"context"
	"errors"
	"time"

	"github.com/jonwraymond/revert/undo"
)

// RunFunc is the signature for protected run functions that Middleware wraps.
// It matches what a closed-over undo.Executor.Run call looks like from the
// outside: context in, error out.
type RunFunc func(ctx context.Context) error

// Middleware wraps reversible runs with observability (tracing, metrics,
// logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe RunFunc as long as the
//     wrapped function is.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and propagated
//     unchanged, including *undo.RolledBackError wrappers.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a RunFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(meta RunMeta, fn RunFunc) RunFunc {
	return func(ctx context.Context) error {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		err := fn(ctx)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordRun(ctx, meta, duration, err)

		runLogger := m.logger.WithRun(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		var rb *undo.RolledBackError
		switch {
		case errors.As(err, &rb):
			fields = append(fields,
				Field{Key: "error", Value: err.Error()},
				Field{Key: "undo_actions", Value: rb.Ran},
				Field{Key: "undo_failures", Value: rb.Failed},
			)
			runLogger.Error(ctx, "run failed and rolled back", fields...)
		case err != nil:
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			runLogger.Error(ctx, "run failed", fields...)
		default:
			runLogger.Info(ctx, "run completed", fields...)
		}

		return err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}

// Diagnostics adapts an observe Logger to the executor's diagnostic
// interface, so failure warnings and per-action rollback failures flow into
// the same structured stream as run telemetry.
func Diagnostics(l Logger) undo.Logger {
	return diagnostics{logger: l}
}

type diagnostics struct {
	logger Logger
}

func (d diagnostics) Warn(ctx context.Context, msg string, fields ...undo.Field) {
	d.logger.Warn(ctx, msg, convertFields(fields)...)
}

func (d diagnostics) Error(ctx context.Context, msg string, fields ...undo.Field) {
	d.logger.Error(ctx, msg, convertFields(fields)...)
}

func convertFields(fields []undo.Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{Key: f.Key, Value: f.Value}
	}
	return out
}
