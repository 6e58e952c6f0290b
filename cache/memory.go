package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-memory TTL cache.
//
// Expiry is lazy: an expired entry stays in the map, invisible to Get but
// still readable through GetStale, until Cleanup or Clear removes it.
type MemoryCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache whose entries live for the
// policy's effective TTL.
func NewMemoryCache[T any](policy Policy) *MemoryCache[T] {
	return NewMemoryCacheTTL[T](policy.EffectiveTTL(0))
}

// NewMemoryCacheTTL creates a new in-memory cache with a fixed TTL.
func NewMemoryCacheTTL[T any](ttl time.Duration) *MemoryCache[T] {
	return &MemoryCache[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// TTL returns the lifetime given to every inserted entry.
func (c *MemoryCache[T]) TTL() time.Duration {
	return c.ttl
}

// Get retrieves a value from the cache. Returns (zero, false) on miss or expiry.
func (c *MemoryCache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// GetStale retrieves a value regardless of expiry.
func (c *MemoryCache[T]) GetStale(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores a value that expires after the cache TTL.
func (c *MemoryCache[T]) Set(key string, value T) {
	c.mu.Lock()
	c.entries[key] = entry[T]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Delete removes a value from the cache. Idempotent - no error on miss.
func (c *MemoryCache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Cleanup removes every entry whose expiry has passed and returns how many
// were removed.
func (c *MemoryCache[T]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Clear removes all entries.
func (c *MemoryCache[T]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[T])
	c.mu.Unlock()
}

// Len returns the number of entries, including expired ones.
func (c *MemoryCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// IsEmpty reports whether the cache holds no entries.
func (c *MemoryCache[T]) IsEmpty() bool {
	return c.Len() == 0
}

// StartJanitor runs Cleanup every interval until ctx is done.
// The returned channel is closed once the janitor has stopped.
func (c *MemoryCache[T]) StartJanitor(ctx context.Context, interval time.Duration) <-chan struct{} {
	return StartJanitor(ctx, interval, c)
}

// Cleaner is implemented by caches that can purge expired entries.
type Cleaner interface {
	Cleanup() int
}

// StartJanitor periodically calls Cleanup on every cleaner until ctx is done.
// A non-positive interval defaults to one minute.
func StartJanitor(ctx context.Context, interval time.Duration, cleaners ...Cleaner) <-chan struct{} {
	if interval <= 0 {
		interval = time.Minute
	}
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, c := range cleaners {
					c.Cleanup()
				}
			}
		}
	}()

	return done
}

// Ensure MemoryCache implements Cache
var _ Cache[string] = (*MemoryCache[string])(nil)
