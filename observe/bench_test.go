package observe

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// BenchmarkLogger_Info measures logging throughput.
func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", Field{Key: "iteration", Value: i})
	}
}

// BenchmarkLogger_Filtered measures the cost of a dropped debug entry.
func BenchmarkLogger_Filtered(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug(ctx, "dropped", Field{Key: "iteration", Value: i})
	}
}

// BenchmarkLogger_With measures creating scoped loggers.
func BenchmarkLogger_With(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = logger.With(F("hn.operation", "story"), F("hn.target", "1"))
	}
}

// BenchmarkMetrics_RecordFetch measures instrument recording.
func BenchmarkMetrics_RecordFetch(b *testing.B) {
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	m, err := NewMetrics(mp.Meter("bench"))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	meta := FetchMeta{Operation: "story"}
	testErr := errors.New("fail")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var err error
		if i%10 == 0 {
			err = testErr
		}
		m.RecordFetch(ctx, meta, time.Millisecond, err)
	}
}

// BenchmarkMiddleware_Run measures the full wrapper with real providers.
func BenchmarkMiddleware_Run(b *testing.B) {
	tp := sdktrace.NewTracerProvider()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	m, err := NewMetrics(mp.Meter("bench"))
	if err != nil {
		b.Fatal(err)
	}
	mw := NewMiddleware(NewTracer(tp.Tracer("bench")), m, NewLoggerWithWriter("info", io.Discard))
	ctx := context.Background()
	meta := FetchMeta{Operation: "story", Target: "1"}
	fn := func(ctx context.Context) error { return nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = mw.Run(ctx, meta, fn)
	}
}

// BenchmarkMiddleware_Noop measures the wrapper with no-op components.
func BenchmarkMiddleware_Noop(b *testing.B) {
	mw := NewMiddleware(nil, nil, nil)
	ctx := context.Background()
	meta := FetchMeta{Operation: "story"}
	fn := func(ctx context.Context) error { return nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = mw.Run(ctx, meta, fn)
	}
}
