package observe

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Cache lookup outcomes reported through RecordCache.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
)

// Metrics records fetch metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordFetch records a completed fetch with duration and error status.
	RecordFetch(ctx context.Context, meta FetchMeta, duration time.Duration, err error)

	// RecordCache records a cache lookup outcome (CacheHit, CacheMiss, CacheStale).
	RecordCache(ctx context.Context, meta FetchMeta, outcome string)

	// RecordAttempt records one HTTP attempt (1-based) and its result.
	RecordAttempt(ctx context.Context, meta FetchMeta, attempt int, err error)

	// RecordDedupJoin records a caller that joined an in-flight fetch.
	RecordDedupJoin(ctx context.Context, meta FetchMeta)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	cacheCount   metric.Int64Counter
	attemptCount metric.Int64Counter
	joinCount    metric.Int64Counter
}

// NewMetrics creates the fetch instruments on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"hn.fetch.total",
		metric.WithDescription("Total number of fetch operations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"hn.fetch.errors",
		metric.WithDescription("Total number of failed fetch operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"hn.fetch.duration_ms",
		metric.WithDescription("Fetch duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheCount, err := meter.Int64Counter(
		"hn.cache.lookups",
		metric.WithDescription("Cache lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	attemptCount, err := meter.Int64Counter(
		"hn.http.attempts",
		metric.WithDescription("HTTP attempts made against the upstream API"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	joinCount, err := meter.Int64Counter(
		"hn.dedup.joins",
		metric.WithDescription("Callers served by an already running fetch"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		cacheCount:   cacheCount,
		attemptCount: attemptCount,
		joinCount:    joinCount,
	}, nil
}

// RecordFetch records metrics for a completed fetch.
func (m *metricsImpl) RecordFetch(ctx context.Context, meta FetchMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("hn.operation", meta.Operation))

	// Always increment total counter
	m.totalCount.Add(ctx, 1, opt)

	// A caller that gave up is not an upstream failure.
	if err != nil && !errors.Is(err, context.Canceled) {
		m.errorCount.Add(ctx, 1, opt)
	}

	durationMs := float64(duration.Microseconds()) / 1000
	m.durationHist.Record(ctx, durationMs, opt)
}

// RecordCache records a cache lookup outcome.
func (m *metricsImpl) RecordCache(ctx context.Context, meta FetchMeta, outcome string) {
	m.cacheCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hn.operation", meta.Operation),
		attribute.String("hn.cache.outcome", outcome),
	))
}

// RecordAttempt records one HTTP attempt.
func (m *metricsImpl) RecordAttempt(ctx context.Context, meta FetchMeta, attempt int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.attemptCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hn.operation", meta.Operation),
		attribute.Bool("hn.retry", attempt > 1),
		attribute.String("hn.attempt.result", result),
	))
}

// RecordDedupJoin records a caller that joined an in-flight fetch.
func (m *metricsImpl) RecordDedupJoin(ctx context.Context, meta FetchMeta) {
	m.joinCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("hn.operation", meta.Operation),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

// NoopMetrics returns a Metrics that records nothing.
func NoopMetrics() Metrics {
	return noopMetrics{}
}

func (noopMetrics) RecordFetch(ctx context.Context, meta FetchMeta, duration time.Duration, err error) {
}
func (noopMetrics) RecordCache(ctx context.Context, meta FetchMeta, outcome string)           {}
func (noopMetrics) RecordAttempt(ctx context.Context, meta FetchMeta, attempt int, err error) {}
func (noopMetrics) RecordDedupJoin(ctx context.Context, meta FetchMeta)                       {}
