// Package ratelimit provides the per-client fixed window limiter.
// One {count, windowStart} entry per client key, reset on expiry. This is
// best-effort by design: a wiped store degrades to allow-and-recount, and
// concurrent requests on the same key go through the store's atomic Update
// so increments are not lost on a multi-threaded host
package ratelimit

import (
	"context"
	"encoding/json"
	"time"

	"genslang/internal/platform/kv"
	"genslang/internal/platform/logger"
)

const keyPrefix = "ratelimit:"

// Decision is the outcome of a limiter check
type Decision struct {
	Allowed bool
	// Count is the number of requests admitted in the current window
	Count int
	// RetryAfter is seconds until the window resets, set only when denied, always >= 1
	RetryAfter int
}

// entry is the stored window state
type entry struct {
	Count       int   `json:"count"`
	WindowStart int64 `json:"windowStart"` // unix millis
}

// Options configures a Limiter
type Options struct {
	// Window is the admission window length (default 1h)
	Window time.Duration
	// MaxPerWindow is the admission quota per window (default 10)
	MaxPerWindow int
}

// Limiter tracks request counts per client key within the window
type Limiter struct {
	store kv.Store
	opt   Options
	log   logger.Logger
	now   func() time.Time
}

// New constructs a Limiter over the given store
func New(store kv.Store, opt Options) *Limiter {
	if opt.Window <= 0 {
		opt.Window = time.Hour
	}
	if opt.MaxPerWindow <= 0 {
		opt.MaxPerWindow = 10
	}
	return &Limiter{
		store: store,
		opt:   opt,
		log:   *logger.Named("ratelimit"),
		now:   time.Now,
	}
}

// WithClock overrides the time source (tests)
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Check admits or denies one request for clientKey at the current time
func (l *Limiter) Check(ctx context.Context, clientKey string) (Decision, error) {
	t := l.now()
	var d Decision

	_, err := l.store.Update(ctx, keyPrefix+clientKey, l.opt.Window, func(old []byte, found bool) []byte {
		var e entry
		if found {
			if uerr := json.Unmarshal(old, &e); uerr != nil {
				// corrupt state reads as absent; recount rather than fail the request
				l.log.Warn().Err(uerr).Str("key", clientKey).Msg("dropping unreadable limiter entry")
				found = false
			}
		}

		windowEnd := time.UnixMilli(e.WindowStart).Add(l.opt.Window)
		if !found || !t.Before(windowEnd) {
			// fresh key or elapsed window: reset and admit
			e = entry{Count: 1, WindowStart: t.UnixMilli()}
			d = Decision{Allowed: true, Count: 1}
			return mustMarshal(e)
		}

		if e.Count >= l.opt.MaxPerWindow {
			retry := int((windowEnd.Sub(t) + time.Second - 1) / time.Second)
			if retry < 1 {
				retry = 1
			}
			d = Decision{Allowed: false, Count: e.Count, RetryAfter: retry}
			return old // deny without mutating the window
		}

		e.Count++
		d = Decision{Allowed: true, Count: e.Count}
		return mustMarshal(e)
	})
	if err != nil {
		// a broken store must not block translation; degrade to allow
		l.log.Error().Err(err).Str("key", clientKey).Msg("limiter store failed, admitting")
		return Decision{Allowed: true, Count: 1}, nil
	}
	return d, nil
}

// Keys reports the number of tracked client keys (best-effort, for ops)
func (l *Limiter) Keys(ctx context.Context) int {
	n, err := l.store.Len(ctx)
	if err != nil {
		return 0
	}
	return n
}

// mustMarshal encodes the entry; the shape cannot fail to marshal
func mustMarshal(e entry) []byte {
	b, _ := json.Marshal(e)
	return b
}
