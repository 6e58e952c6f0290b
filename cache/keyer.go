package cache

import (
	"fmt"
	"strconv"
)

// Keyer derives deterministic cache keys for fetched resources.
//
// Contract:
// - Determinism: the same kind and identifier always produce the same key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from a resource kind and identifier.
	Key(kind string, id any) (string, error)
}

// DefaultKeyer builds keys of the form <kind>_<id>.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a cache key such as "story_8863" or "story_ids_topstories".
// Integer and string identifiers are supported; the result is validated with
// ValidateKey.
func (k *DefaultKeyer) Key(kind string, id any) (string, error) {
	var suffix string
	switch v := id.(type) {
	case int:
		suffix = strconv.Itoa(v)
	case int64:
		suffix = strconv.FormatInt(v, 10)
	case uint32:
		suffix = strconv.FormatUint(uint64(v), 10)
	case string:
		suffix = v
	case fmt.Stringer:
		suffix = v.String()
	default:
		return "", fmt.Errorf("cache: unsupported key id type %T", id)
	}

	key := kind + "_" + suffix
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// MustKey is like Key but panics on error. It is intended for identifiers
// whose types are known to be supported.
func (k *DefaultKeyer) MustKey(kind string, id any) string {
	key, err := k.Key(kind, id)
	if err != nil {
		panic(err)
	}
	return key
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
