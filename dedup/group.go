package dedup

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Func produces the value shared by every caller of a key.
type Func[T any] func(ctx context.Context) (T, error)

// Group coalesces in-flight calls by key.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Values: the same value and error are delivered to every waiter; callers
// must treat a shared value as read-only.
// - Lifetime: a key is removed exactly once, when its call completes.
type Group[T any] struct {
	sf singleflight.Group

	calls      atomic.Int64
	executions atomic.Int64
	inFlight   atomic.Int64
}

// NewGroup creates an empty group.
func NewGroup[T any]() *Group[T] {
	return &Group[T]{}
}

// Do runs fn once per key at a time and returns its result to every caller
// that asked for the key while it was running. shared reports whether the
// result was delivered to more than one caller.
//
// fn receives a context that keeps ctx's values but not its cancellation.
// If ctx is done before the result arrives, Do returns ctx.Err() and the
// call keeps running for the other waiters.
func (g *Group[T]) Do(ctx context.Context, key string, fn Func[T]) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	g.calls.Add(1)
	detached := context.WithoutCancel(ctx)
	ch := g.sf.DoChan(key, func() (any, error) {
		g.executions.Add(1)
		g.inFlight.Add(1)
		defer g.inFlight.Add(-1)
		return fn(detached)
	})

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Shared, res.Err
		}
		v, _ := res.Val.(T)
		return v, res.Shared, nil
	}
}

// Stats returns a snapshot of the group's counters.
func (g *Group[T]) Stats() Stats {
	calls := g.calls.Load()
	executions := g.executions.Load()
	joins := calls - executions
	if joins < 0 {
		joins = 0
	}
	return Stats{
		Calls:      calls,
		Executions: executions,
		Joins:      joins,
		InFlight:   g.inFlight.Load(),
	}
}

// Stats contains group statistics.
type Stats struct {
	// Calls is the number of Do calls that reached the group.
	Calls int64
	// Executions is the number of times a Func actually ran.
	Executions int64
	// Joins is the number of calls served by another caller's execution.
	// Calls still waiting for their execution to start are counted here
	// until it does.
	Joins int64
	// InFlight is the number of executions currently running.
	InFlight int64
}
