// Package dedup coalesces concurrent requests for the same key into a single
// execution.
//
// The first caller for a key starts the work; callers that arrive while it is
// running wait for the same result instead of repeating it. Once the work
// completes the key is forgotten, so the next call starts fresh.
//
// The shared work runs detached from any one caller's cancellation. A caller
// whose context is done stops waiting and returns immediately while the
// remaining waiters still receive the result.
//
//	g := dedup.NewGroup[[]byte]()
//	body, shared, err := g.Do(ctx, url, func(ctx context.Context) ([]byte, error) {
//	    return fetch(ctx, url)
//	})
package dedup
