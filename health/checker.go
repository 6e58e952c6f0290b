package health

import (
	"context"
	"time"
)

// Status is a component's health, ordered from best to worst.
type Status int

const (
	StatusHealthy Status = iota
	StatusDegraded
	StatusUnhealthy
)

var statusNames = [...]string{
	StatusHealthy:   "healthy",
	StatusDegraded:  "degraded",
	StatusUnhealthy: "unhealthy",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Worst returns the more severe of two statuses.
func Worst(a, b Status) Status {
	return max(a, b)
}

// Result is the outcome of one check.
type Result struct {
	Status  Status
	Message string

	// Details is rendered as-is by the HTTP handlers; values must be
	// JSON-encodable.
	Details map[string]any

	// Duration and Timestamp are filled in by the Aggregator when the
	// checker leaves them zero.
	Duration  time.Duration
	Timestamp time.Time

	Error error
}

func newResult(status Status, message string, err error) Result {
	return Result{Status: status, Message: message, Error: err, Timestamp: time.Now()}
}

// Healthy reports a working component.
func Healthy(message string) Result { return newResult(StatusHealthy, message, nil) }

// Degraded reports a component that works but not fully, for example one
// serving stale data.
func Degraded(message string) Result { return newResult(StatusDegraded, message, nil) }

// Unhealthy reports a failed component and the error behind it.
func Unhealthy(message string, err error) Result {
	return newResult(StatusUnhealthy, message, err)
}

// WithDetails returns a copy of r carrying details.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// Checker reports the health of one component.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Check should return promptly once ctx is done.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc turns a function into a named Checker.
type CheckerFunc struct {
	name  string
	check func(context.Context) Result
}

// NewCheckerFunc names fn as a Checker.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, check: fn}
}

func (f *CheckerFunc) Name() string { return f.name }

func (f *CheckerFunc) Check(ctx context.Context) Result { return f.check(ctx) }
