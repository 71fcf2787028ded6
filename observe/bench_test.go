package observe

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jonwraymond/revert/undo"
)

// BenchmarkLogger_Info measures structured logging overhead.
func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "run completed", Field{Key: "duration_ms", Value: 1.0})
	}
}

// BenchmarkLogger_Filtered measures the cost of a dropped entry.
func BenchmarkLogger_Filtered(b *testing.B) {
	logger := NewLoggerWithWriter("error", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug(ctx, "dropped")
	}
}

// BenchmarkMetrics_RecordRun measures metric recording overhead.
func BenchmarkMetrics_RecordRun(b *testing.B) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := newMetrics(mp.Meter("bench"))
	if err != nil {
		b.Fatalf("failed to create metrics: %v", err)
	}

	ctx := context.Background()
	meta := RunMeta{Op: "bench"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordRun(ctx, meta, time.Millisecond, nil)
	}
}

// BenchmarkMetrics_RecordRolledBack measures the rolled-back path.
func BenchmarkMetrics_RecordRolledBack(b *testing.B) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := newMetrics(mp.Meter("bench"))
	if err != nil {
		b.Fatalf("failed to create metrics: %v", err)
	}

	ctx := context.Background()
	meta := RunMeta{Op: "bench"}
	rbErr := &undo.RolledBackError{Cause: errors.New("boom"), Ran: 4, Failed: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordRun(ctx, meta, time.Millisecond, rbErr)
	}
}

// BenchmarkMiddleware_Wrap measures full instrumentation overhead.
func BenchmarkMiddleware_Wrap(b *testing.B) {
	tp := sdktrace.NewTracerProvider()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := newMetrics(mp.Meter("bench"))
	if err != nil {
		b.Fatalf("failed to create metrics: %v", err)
	}

	m := NewMiddleware(newTracer(tp.Tracer("bench")), metrics, &noopLogger{})
	fn := m.Wrap(RunMeta{Op: "bench"}, func(ctx context.Context) error { return nil })
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = fn(ctx)
	}
}
