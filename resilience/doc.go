// Package resilience provides the resilience patterns used for outbound
// requests.
//
// The patterns can be composed together to build a request pipeline that
// tolerates an unreliable network.
//
// # Patterns
//
// The package provides the following resilience patterns:
//
//   - Retry: Retries failed operations with configurable backoff strategies
//     (exponential, linear, constant) and a caller-supplied retry predicate.
//
//   - Permit Pool: A fixed number of permits bounding how many operations
//     run at once. Waiting callers suspend until a permit frees up.
//
//   - Timeout: Bounds each individual attempt with a context deadline.
//
//   - Classification: Helpers that tell timeouts and connection failures
//     apart from other errors.
//
// # Usage
//
// Each pattern can be used independently or composed together:
//
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    MaxAttempts:  4,
//	    InitialDelay: 500 * time.Millisecond,
//	    MaxDelay:     5 * time.Second,
//	    RetryIf:      resilience.NetworkRetryIf(true),
//	})
//
//	permits := resilience.NewPermitPool(resilience.PermitPoolConfig{
//	    Permits: resilience.PermitsForRate(3),
//	})
//
//	executor := resilience.NewExecutor(
//	    resilience.WithRetry(retry),
//	    resilience.WithPermitPool(permits),
//	    resilience.WithTimeout(30*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return get(ctx, url)
//	})
package resilience
