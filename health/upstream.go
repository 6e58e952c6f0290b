package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// UpstreamCheckerConfig configures an UpstreamChecker.
type UpstreamCheckerConfig struct {
	// Name identifies the upstream.
	// Default: "upstream"
	Name string

	// FailureThreshold is the number of consecutive failures after which
	// the upstream is reported unhealthy.
	// Default: 5
	FailureThreshold int

	// Details adds component details to every result.
	Details func() map[string]any
}

// UpstreamChecker reports the health of a remote dependency from the
// outcomes recorded by its callers. It never contacts the upstream itself.
//
// The upstream is unhealthy after FailureThreshold consecutive failures,
// degraded when stale data was served since the last success, and healthy
// otherwise.
type UpstreamChecker struct {
	config UpstreamCheckerConfig

	mu                  sync.Mutex
	consecutiveFailures int
	servedStale         bool
	lastErr             error
	lastSuccess         time.Time
	lastFailure         time.Time
	successes           int64
	failures            int64
	staleServes         int64
	now                 func() time.Time
}

// NewUpstreamChecker creates a new upstream checker.
func NewUpstreamChecker(config UpstreamCheckerConfig) *UpstreamChecker {
	if config.Name == "" {
		config.Name = "upstream"
	}
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	return &UpstreamChecker{config: config, now: time.Now}
}

// Name returns the name of this checker.
func (u *UpstreamChecker) Name() string {
	return u.config.Name
}

// RecordSuccess records a successful request. It clears the failure streak
// and the stale flag.
func (u *UpstreamChecker) RecordSuccess() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.consecutiveFailures = 0
	u.servedStale = false
	u.lastErr = nil
	u.lastSuccess = u.now()
	u.successes++
}

// RecordFailure records a failed request.
func (u *UpstreamChecker) RecordFailure(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.consecutiveFailures++
	u.lastErr = err
	u.lastFailure = u.now()
	u.failures++
}

// RecordStale records that cached data was served in place of a failed request.
func (u *UpstreamChecker) RecordStale() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.servedStale = true
	u.staleServes++
}

// Check reports the upstream status from the recorded outcomes.
func (u *UpstreamChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	u.mu.Lock()
	details := map[string]any{
		"consecutive_failures": u.consecutiveFailures,
		"failure_threshold":    u.config.FailureThreshold,
		"successes":            u.successes,
		"failures":             u.failures,
		"stale_serves":         u.staleServes,
	}
	if !u.lastSuccess.IsZero() {
		details["last_success"] = u.lastSuccess.UTC().Format(time.RFC3339)
	}
	if !u.lastFailure.IsZero() {
		details["last_failure"] = u.lastFailure.UTC().Format(time.RFC3339)
	}
	failures := u.consecutiveFailures
	stale := u.servedStale
	lastErr := u.lastErr
	u.mu.Unlock()

	if u.config.Details != nil {
		for k, v := range u.config.Details() {
			details[k] = v
		}
	}

	switch {
	case failures >= u.config.FailureThreshold:
		err := lastErr
		if err == nil {
			err = ErrCheckFailed
		}
		return Unhealthy(fmt.Sprintf("%d consecutive failures", failures), err).WithDetails(details)
	case stale:
		return Degraded("serving stale data").WithDetails(details)
	case failures > 0:
		return Degraded(fmt.Sprintf("%d recent failures", failures)).WithDetails(details)
	default:
		return Healthy("upstream reachable").WithDetails(details)
	}
}

var _ Checker = (*UpstreamChecker)(nil)
