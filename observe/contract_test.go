package observe

import (
	"context"
	"testing"
	"time"
)

func TestObserverContract_Noops(t *testing.T) {
	cfg := Config{
		ServiceName: "observe-test",
		Tracing:     TracingConfig{Enabled: false, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: false, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: false, Level: "info"},
	}

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	if obs.Tracer() == nil {
		t.Fatalf("expected non-nil tracer")
	}
	if obs.Meter() == nil {
		t.Fatalf("expected non-nil meter")
	}
	if obs.Logger() == nil {
		t.Fatalf("expected non-nil logger")
	}
}

func TestLoggerContract_With(t *testing.T) {
	if NopLogger().With(F("k", "v")) == nil {
		t.Fatalf("With should return non-nil logger")
	}
}

func TestMetricsContract_NoPanic(t *testing.T) {
	ctx := context.Background()
	meta := FetchMeta{Operation: "story"}
	metrics := NoopMetrics()
	metrics.RecordFetch(ctx, meta, 10*time.Millisecond, nil)
	metrics.RecordCache(ctx, meta, CacheHit)
	metrics.RecordAttempt(ctx, meta, 1, nil)
	metrics.RecordDedupJoin(ctx, meta)
}

func TestTracerContract_NoPanic(t *testing.T) {
	tracer := NoopTracer()
	_, span := tracer.StartSpan(context.Background(), FetchMeta{Operation: "story"})
	tracer.EndSpan(span, nil)
}

func TestMiddlewareContract_NilComponents(t *testing.T) {
	mw := NewMiddleware(nil, nil, nil)
	if mw.Tracer() == nil || mw.Metrics() == nil || mw.Logger() == nil {
		t.Fatal("nil components should be replaced by no-ops")
	}
	if err := mw.Run(context.Background(), FetchMeta{Operation: "story"}, func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
