// Package cache provides the in-memory TTL caches used by the fetch layer.
//
// It provides a generic Cache interface with a memory implementation that
// expires entries lazily, stale reads for failure recovery, deterministic key
// derivation, TTL policies and a read-through helper with stale fallback.
package cache
