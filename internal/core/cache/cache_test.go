package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"genslang/internal/platform/kv"
)

type payload struct {
	Text string `json:"text"`
}

func newTestCache(t *testing.T, max int, ttl time.Duration) (*Cache[payload], func(time.Duration)) {
	t.Helper()
	cur := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return cur }
	advance := func(d time.Duration) { cur = cur.Add(d) }

	store := kv.NewMemory(kv.WithClock(now))
	c := New[payload](store, Options{Mode: "generations", TTL: ttl, MaxEntries: max}).WithClock(now)
	return c, advance
}

func TestCache_PutGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, 100, 24*time.Hour)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "no cap"); ok {
		t.Fatal("hit on empty cache")
	}

	c.Put(ctx, "no cap", payload{Text: "translated"})
	got, ok := c.Get(ctx, "no cap")
	if !ok {
		t.Fatal("miss after put")
	}
	if got.Text != "translated" {
		t.Fatalf("got %q, want %q", got.Text, "translated")
	}
}

func TestCache_NormalizedVariantsShareEntry(t *testing.T) {
	c, _ := newTestCache(t, 100, 24*time.Hour)
	ctx := context.Background()

	c.Put(ctx, "That's so fetch", payload{Text: "translated"})

	for _, variant := range []string{
		"that's so fetch",
		"  THAT'S   SO   FETCH  ",
		"that's\tso\nfetch",
	} {
		if _, ok := c.Get(ctx, variant); !ok {
			t.Fatalf("variant %q missed, want shared hit", variant)
		}
	}
	if c.Len(ctx) != 1 {
		t.Fatalf("len = %d, want 1 shared entry", c.Len(ctx))
	}
}

func TestCache_ExpiryBoundary(t *testing.T) {
	c, advance := newTestCache(t, 100, 24*time.Hour)
	ctx := context.Background()

	c.Put(ctx, "no cap", payload{Text: "translated"})

	advance(24*time.Hour - time.Second)
	if _, ok := c.Get(ctx, "no cap"); !ok {
		t.Fatal("miss just before TTL")
	}

	advance(time.Second)
	if _, ok := c.Get(ctx, "no cap"); ok {
		t.Fatal("hit at exactly TTL, want miss")
	}
	if c.Len(ctx) != 0 {
		t.Fatalf("len = %d after expiry, want 0", c.Len(ctx))
	}
}

func TestCache_CapEvictsOldestHalf(t *testing.T) {
	c, advance := newTestCache(t, 10, 24*time.Hour)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		c.Put(ctx, fmt.Sprintf("phrase %d", i), payload{Text: fmt.Sprintf("out %d", i)})
		advance(time.Minute)
	}
	if c.Len(ctx) != 10 {
		t.Fatalf("len = %d, want 10", c.Len(ctx))
	}

	c.Put(ctx, "phrase 10", payload{Text: "out 10"})
	if c.Len(ctx) != 6 {
		t.Fatalf("len = %d after eviction, want 6", c.Len(ctx))
	}

	for i := 0; i < 5; i++ {
		if _, ok := c.Get(ctx, fmt.Sprintf("phrase %d", i)); ok {
			t.Fatalf("oldest entry %d survived eviction", i)
		}
	}
	for i := 5; i <= 10; i++ {
		if _, ok := c.Get(ctx, fmt.Sprintf("phrase %d", i)); !ok {
			t.Fatalf("recent entry %d evicted", i)
		}
	}
}

func TestCache_CollisionMismatchIsMiss(t *testing.T) {
	cur := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return cur }
	store := kv.NewMemory(kv.WithClock(now))
	c := New[payload](store, Options{Mode: "generations"}).WithClock(now)
	ctx := context.Background()

	// plant an entry under the key for "no cap" that claims a different
	// normalized text, as a colliding digest would
	c.Put(ctx, "no cap", payload{Text: "translated"})
	raw, found, err := store.Get(ctx, c.Key("no cap"))
	if err != nil || !found {
		t.Fatalf("setup get: found=%v err=%v", found, err)
	}
	forged := []byte(`{"result":{"text":"translated"},"createdAt":1,"normalizedText":"other input"}`)
	if len(raw) == 0 {
		t.Fatal("setup: empty entry")
	}
	if err := store.Put(ctx, c.Key("no cap"), forged, time.Hour); err != nil {
		t.Fatalf("setup put: %v", err)
	}

	if _, ok := c.Get(ctx, "no cap"); ok {
		t.Fatal("served payload despite normalized text mismatch")
	}
}

func TestCache_UnreadableEntryIsMiss(t *testing.T) {
	cur := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return cur }
	store := kv.NewMemory(kv.WithClock(now))
	c := New[payload](store, Options{Mode: "generations"}).WithClock(now)
	ctx := context.Background()

	if err := store.Put(ctx, c.Key("no cap"), []byte("{not json"), time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := c.Get(ctx, "no cap"); ok {
		t.Fatal("hit on unreadable entry")
	}
}
