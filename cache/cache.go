package cache

import (
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache is the interface for caching fetched values.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Expiry: Get reports only live entries; GetStale ignores expiry.
// - Errors: no method errors; misses are reported as (zero, false).
type Cache[T any] interface {
	// Get retrieves a live value. Returns (zero, false) on miss or expiry.
	Get(key string) (T, bool)

	// GetStale retrieves a value even if it has expired.
	GetStale(key string) (T, bool)

	// Set stores a value, replacing any previous entry for key.
	Set(key string, value T)
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
