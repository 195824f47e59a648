// Package kv provides the key-value capability backing the response cache and
// the rate limiter. State is best-effort by contract: the hosting runtime may
// wipe it between invocations, and consumers must degrade to recompute-and-allow.
// A networked implementation can be swapped in behind the same interface as
// long as it preserves key schemes and TTL semantics.
package kv

import (
	"context"
	"time"
)

// Entry is a stored value with its creation time, used for age-based eviction
type Entry struct {
	Value     []byte
	CreatedAt time.Time
}

// UpdateFunc computes the next value for a key from the previous one.
// found is false when the key is absent or expired. Returning nil deletes the key
type UpdateFunc func(old []byte, found bool) []byte

// Store is the minimal surface the cache and limiter are built against
type Store interface {
	// Get returns the live value for key; expired entries count as absent
	// and are removed as a side effect
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key with the given ttl (0 means no expiry)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key; absent keys are not an error
	Delete(ctx context.Context, key string) error

	// Update atomically applies fn to the current value of key and stores
	// the result with ttl. The returned bytes are the stored value
	Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) ([]byte, error)

	// Len reports the number of live entries (best-effort for remote stores)
	Len(ctx context.Context) (int, error)

	// PurgeOldest removes the n entries with the lowest CreatedAt
	// (best-effort for remote stores)
	PurgeOldest(ctx context.Context, n int) error
}
