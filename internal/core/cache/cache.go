// Package cache provides the normalized-text response cache.
// Keys are sha256 digests of the normalized input under a mode-scoped
// prefix, and every entry carries the normalized text it was keyed on so a
// digest collision reads as a miss instead of serving the wrong payload.
// The cache should get its own store instance: Len and PurgeOldest operate
// on the whole store, not a key range
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"genslang/internal/core/textnorm"
	"genslang/internal/platform/kv"
	"genslang/internal/platform/logger"
)

// Options configures a Cache
type Options struct {
	// Mode scopes the key space, e.g. "generations"
	Mode string
	// TTL is the entry lifetime (default 24h)
	TTL time.Duration
	// MaxEntries caps the store size; when a put would exceed it the oldest
	// half is evicted first (default 100)
	MaxEntries int
}

// entry is the stored shape
type entry[T any] struct {
	Result         T      `json:"result"`
	CreatedAt      int64  `json:"createdAt"` // unix millis
	NormalizedText string `json:"normalizedText"`
}

// Cache stores results of type T keyed by normalized input text
type Cache[T any] struct {
	store kv.Store
	opt   Options
	log   logger.Logger
	now   func() time.Time
}

// New constructs a Cache over the given store
func New[T any](store kv.Store, opt Options) *Cache[T] {
	if opt.TTL <= 0 {
		opt.TTL = 24 * time.Hour
	}
	if opt.MaxEntries <= 0 {
		opt.MaxEntries = 100
	}
	return &Cache[T]{
		store: store,
		opt:   opt,
		log:   *logger.Named("cache"),
		now:   time.Now,
	}
}

// WithClock overrides the time source (tests)
func (c *Cache[T]) WithClock(now func() time.Time) *Cache[T] {
	c.now = now
	return c
}

// Key returns the store key for raw input text
func (c *Cache[T]) Key(text string) string {
	return c.keyFor(textnorm.Normalize(text))
}

func (c *Cache[T]) keyFor(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return "translate:" + c.opt.Mode + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached result for text, if a live entry exists.
// Misses are never errors; a broken store degrades to recompute
func (c *Cache[T]) Get(ctx context.Context, text string) (T, bool) {
	var zero T
	normalized := textnorm.Normalize(text)
	raw, found, err := c.store.Get(ctx, c.keyFor(normalized))
	if err != nil {
		c.log.Error().Err(err).Msg("cache store get failed, treating as miss")
		return zero, false
	}
	if !found {
		return zero, false
	}

	var e entry[T]
	if uerr := json.Unmarshal(raw, &e); uerr != nil {
		c.log.Warn().Err(uerr).Msg("dropping unreadable cache entry")
		return zero, false
	}
	if e.NormalizedText != normalized {
		// digest collision, never serve another input's payload
		c.log.Warn().Msg("cache key collision, treating as miss")
		return zero, false
	}
	return e.Result, true
}

// Put stores result under the normalized form of text, evicting the oldest
// half of the store first when the cap is reached. Failures are logged and
// swallowed: caching is best-effort
func (c *Cache[T]) Put(ctx context.Context, text string, result T) {
	normalized := textnorm.Normalize(text)

	if n, err := c.store.Len(ctx); err == nil && n >= c.opt.MaxEntries {
		if perr := c.store.PurgeOldest(ctx, c.opt.MaxEntries/2); perr != nil {
			c.log.Warn().Err(perr).Msg("cache eviction failed")
		}
	}

	b, err := json.Marshal(entry[T]{
		Result:         result,
		CreatedAt:      c.now().UnixMilli(),
		NormalizedText: normalized,
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("cache entry not serializable, skipping")
		return
	}
	if err := c.store.Put(ctx, c.keyFor(normalized), b, c.opt.TTL); err != nil {
		c.log.Warn().Err(err).Msg("cache store put failed")
	}
}

// Len reports the number of live entries (best-effort, for ops)
func (c *Cache[T]) Len(ctx context.Context) int {
	n, err := c.store.Len(ctx)
	if err != nil {
		return 0
	}
	return n
}
