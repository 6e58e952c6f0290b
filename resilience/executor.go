package resilience

import (
	"context"
	"time"
)

// Executor composes multiple resilience patterns.
type Executor struct {
	retry   *Retry
	permits *PermitPool
	timeout *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithPermitPool bounds each attempt by a permit from p.
func WithPermitPool(p *PermitPool) ExecutorOption {
	return func(e *Executor) {
		e.permits = p
	}
}

// WithTimeout adds a per-attempt timeout to the executor.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// Execute runs the operation through all configured resilience patterns.
//
// The execution order is:
// 1. Retry (if configured) - outermost, sleeps between attempts without a permit
// 2. Permit Pool (if configured) - one permit per attempt, released when it ends
// 3. Timeout (if configured) - bounds a single attempt
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	// Wrap with timeout (innermost)
	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	// Wrap with permit pool
	if e.permits != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.permits.Execute(ctx, inner)
		}
	}

	// Wrap with retry (outermost)
	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}
