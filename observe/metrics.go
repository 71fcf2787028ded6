package observe

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/revert/undo"
)

// Metrics records execution metrics for reversible runs.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRun records a protected run with duration and failure status.
	// A *undo.RolledBackError additionally counts the rollback and any
	// failed compensating actions.
	RecordRun(ctx context.Context, meta RunMeta, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter          metric.Meter
	totalCount     metric.Int64Counter
	failureCount   metric.Int64Counter
	rollbackCount  metric.Int64Counter
	actionFailures metric.Int64Counter
	durationHist   metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"undo.run.total",
		metric.WithDescription("Total number of protected runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	failureCount, err := meter.Int64Counter(
		"undo.run.failures",
		metric.WithDescription("Total number of failed protected runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	rollbackCount, err := meter.Int64Counter(
		"undo.run.rollbacks",
		metric.WithDescription("Total number of runs that triggered a rollback"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	actionFailures, err := meter.Int64Counter(
		"undo.rollback.action_failures",
		metric.WithDescription("Total number of compensating actions that failed during rollback"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"undo.run.duration_ms",
		metric.WithDescription("Protected run duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:          meter,
		totalCount:     totalCount,
		failureCount:   failureCount,
		rollbackCount:  rollbackCount,
		actionFailures: actionFailures,
		durationHist:   durationHist,
	}, nil
}

// RecordRun records metrics for one protected run.
func (m *metricsImpl) RecordRun(ctx context.Context, meta RunMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("run.op", meta.Op),
	}
	if meta.Component != "" {
		attrs = append(attrs, attribute.String("run.component", meta.Component))
	}

	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)

	if err != nil {
		m.failureCount.Add(ctx, 1, opt)

		var rb *undo.RolledBackError
		if errors.As(err, &rb) {
			m.rollbackCount.Add(ctx, 1, opt)
			if rb.Failed > 0 {
				m.actionFailures.Add(ctx, int64(rb.Failed), opt)
			}
		}
	}

	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordRun(ctx context.Context, meta RunMeta, duration time.Duration, err error) {
}
