package cache

import "context"

// Source reports where a read-through value came from.
type Source int

const (
	// SourceMiss means the value was loaded because the cache had no live entry.
	SourceMiss Source = iota
	// SourceHit means a live cached value was returned.
	SourceHit
	// SourceStale means loading failed and an expired value was returned instead.
	SourceStale
)

// String returns the string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceMiss:
		return "miss"
	case SourceHit:
		return "hit"
	case SourceStale:
		return "stale"
	default:
		return "unknown"
	}
}

// LoaderFunc produces a fresh value on a cache miss.
type LoaderFunc[T any] func(ctx context.Context) (T, error)

// ReadThroughConfig configures a ReadThrough.
type ReadThroughConfig[T any] struct {
	// StaleOnError returns an expired cached value when loading fails.
	// Default: false
	StaleOnError bool

	// StaleIf decides whether a load error may be masked by a stale value.
	// Default: every error qualifies.
	StaleIf func(err error) bool

	// OnStale is called when a stale value replaces a load error.
	OnStale func(key string, err error)

	// Clone copies a value on its way into and out of the cache, so callers
	// never share mutable memory with a cached entry.
	// Default: values are passed through unchanged.
	Clone func(T) T
}

// ReadThrough wraps loading with caching.
type ReadThrough[T any] struct {
	cache  Cache[T]
	config ReadThroughConfig[T]
}

// NewReadThrough creates a read-through helper over c.
func NewReadThrough[T any](c Cache[T], config ReadThroughConfig[T]) *ReadThrough[T] {
	if config.StaleIf == nil {
		config.StaleIf = func(err error) bool { return err != nil }
	}
	if config.Clone == nil {
		config.Clone = func(v T) T { return v }
	}
	return &ReadThrough[T]{cache: c, config: config}
}

// Get returns the cached value for key, or loads and caches it.
// On cache hit, the loader is not called.
// On load failure, a stale value is returned when the config allows it.
// Errors are NOT cached. Every returned value is a fresh Clone.
func (r *ReadThrough[T]) Get(ctx context.Context, key string, load LoaderFunc[T]) (T, Source, error) {
	if cached, ok := r.cache.Get(key); ok {
		return r.config.Clone(cached), SourceHit, nil
	}

	value, err := load(ctx)
	if err != nil {
		if r.config.StaleOnError && r.config.StaleIf(err) {
			if stale, ok := r.cache.GetStale(key); ok {
				if r.config.OnStale != nil {
					r.config.OnStale(key, err)
				}
				return r.config.Clone(stale), SourceStale, nil
			}
		}
		var zero T
		return zero, SourceMiss, err
	}

	r.cache.Set(key, r.config.Clone(value))
	return value, SourceMiss, nil
}

// Cache returns the underlying cache.
func (r *ReadThrough[T]) Cache() Cache[T] {
	return r.cache
}
