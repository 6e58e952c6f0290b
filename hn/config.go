package hn

import (
	"fmt"
	"math"
	"time"

	"github.com/jonwraymond/hnfetch/resilience"
)

// NetworkConfig tunes retries, concurrency and timeouts. It is copied into
// the Service at construction and never changes afterwards.
type NetworkConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	// Default: 3
	MaxRetries int

	// InitialRetryDelay is the wait before the first retry.
	// Default: 500ms
	InitialRetryDelay time.Duration

	// MaxRetryDelay caps the doubled backoff delay.
	// Default: 5s
	MaxRetryDelay time.Duration

	// RetryOnTimeout retries attempts that timed out.
	// Default: true
	RetryOnTimeout bool

	// ConcurrentRequests bounds batch fan-out.
	// Default: 10
	ConcurrentRequests int

	// RateLimitPerSecond sets the permit count, ceil(rate).
	// Default: 3.0
	RateLimitPerSecond float64

	// RequestTimeout bounds a single attempt.
	// Default: 30s
	RequestTimeout time.Duration
}

// DefaultNetworkConfig returns the default network settings.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		MaxRetries:         3,
		InitialRetryDelay:  500 * time.Millisecond,
		MaxRetryDelay:      5 * time.Second,
		RetryOnTimeout:     true,
		ConcurrentRequests: 10,
		RateLimitPerSecond: 3.0,
		RequestTimeout:     30 * time.Second,
	}
}

// Validate reports settings that cannot be used as given.
func (c NetworkConfig) Validate() error {
	switch {
	case c.MaxRetries < 0:
		return fmt.Errorf("%w: max retries must not be negative, got %d", ErrInvalidConfig, c.MaxRetries)
	case c.InitialRetryDelay < 0:
		return fmt.Errorf("%w: initial retry delay must not be negative, got %s", ErrInvalidConfig, c.InitialRetryDelay)
	case c.MaxRetryDelay < 0:
		return fmt.Errorf("%w: max retry delay must not be negative, got %s", ErrInvalidConfig, c.MaxRetryDelay)
	case c.MaxRetryDelay > 0 && c.InitialRetryDelay > c.MaxRetryDelay:
		return fmt.Errorf("%w: initial retry delay %s exceeds max %s", ErrInvalidConfig, c.InitialRetryDelay, c.MaxRetryDelay)
	case c.ConcurrentRequests < 0:
		return fmt.Errorf("%w: concurrent requests must not be negative, got %d", ErrInvalidConfig, c.ConcurrentRequests)
	case c.RateLimitPerSecond < 0 || math.IsNaN(c.RateLimitPerSecond) || math.IsInf(c.RateLimitPerSecond, 0):
		return fmt.Errorf("%w: rate limit must be a non-negative number, got %v", ErrInvalidConfig, c.RateLimitPerSecond)
	case c.RequestTimeout < 0:
		return fmt.Errorf("%w: request timeout must not be negative, got %s", ErrInvalidConfig, c.RequestTimeout)
	}
	return nil
}

// withDefaults fills zero values. MaxRetries of zero is kept: it means a
// single attempt.
func (c NetworkConfig) withDefaults() NetworkConfig {
	d := DefaultNetworkConfig()
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialRetryDelay <= 0 {
		c.InitialRetryDelay = d.InitialRetryDelay
	}
	if c.MaxRetryDelay <= 0 {
		c.MaxRetryDelay = d.MaxRetryDelay
	}
	if c.MaxRetryDelay < c.InitialRetryDelay {
		c.MaxRetryDelay = c.InitialRetryDelay
	}
	if c.ConcurrentRequests <= 0 {
		c.ConcurrentRequests = d.ConcurrentRequests
	}
	if c.RateLimitPerSecond <= 0 || math.IsNaN(c.RateLimitPerSecond) {
		c.RateLimitPerSecond = d.RateLimitPerSecond
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	return c
}

// MaxAttempts returns MaxRetries + 1.
func (c NetworkConfig) MaxAttempts() int {
	return c.MaxRetries + 1
}

// Permits returns the number of requests allowed on the wire at once.
func (c NetworkConfig) Permits() int {
	return resilience.PermitsForRate(c.RateLimitPerSecond)
}

// RetryConfig translates the settings into a retry configuration that
// doubles the delay, never jitters, and retries connection failures
// (and timeouts when RetryOnTimeout is set).
func (c NetworkConfig) RetryConfig() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:  c.MaxAttempts(),
		InitialDelay: c.InitialRetryDelay,
		MaxDelay:     c.MaxRetryDelay,
		Multiplier:   2,
		Strategy:     resilience.BackoffExponential,
		RetryIf:      resilience.NetworkRetryIf(c.RetryOnTimeout),
	}
}
