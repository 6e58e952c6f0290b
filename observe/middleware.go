package observe

import (
	"context"
	"errors"
	"time"
)

// FetchFunc is the unit of work wrapped by Middleware.
type FetchFunc func(ctx context.Context) error

// Middleware wraps a fetch with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Run is safe for concurrent use.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability
// components. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NoopTracer()
	}
	if metrics == nil {
		metrics = NoopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Run executes fn inside a span and records its duration and outcome.
// Successful and canceled fetches are logged at debug level, failures at
// error level.
func (m *Middleware) Run(ctx context.Context, meta FetchMeta, fn FetchFunc) error {
	ctx, span := m.tracer.StartSpan(ctx, meta)
	start := time.Now()

	err := fn(ctx)

	duration := time.Since(start)
	m.tracer.EndSpan(span, err)
	m.metrics.RecordFetch(ctx, meta, duration, err)

	fields := append(meta.Fields(), Field{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000})
	switch {
	case err == nil:
		m.logger.Debug(ctx, "fetch completed", fields...)
	case errors.Is(err, context.Canceled):
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		m.logger.Debug(ctx, "fetch canceled", fields...)
	default:
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		m.logger.Error(ctx, "fetch failed", fields...)
	}

	return err
}

// Tracer returns the middleware's tracer.
func (m *Middleware) Tracer() Tracer { return m.tracer }

// Metrics returns the middleware's metrics recorder.
func (m *Middleware) Metrics() Metrics { return m.metrics }

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger { return m.logger }

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
