package kv_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"genslang/internal/platform/kv"
)

// tick is a controllable clock for TTL tests
type tick struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tick) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *tick) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newClock() *tick {
	return &tick{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemory_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()

	if _, ok, _ := s.Get(ctx, "missing"); ok {
		t.Fatal("expected miss on empty store")
	}

	if err := s.Put(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(v) != "v" {
		t.Fatalf("Get got (%q,%v,%v)", v, ok, err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestMemory_TTLBoundary(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	s := kv.NewMemory(kv.WithClock(clk.now))

	const ttl = 24 * time.Hour
	_ = s.Put(ctx, "k", []byte("v"), ttl)

	clk.advance(ttl - time.Second)
	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Fatal("entry should be live one second before TTL")
	}

	clk.advance(time.Second)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("entry should be expired exactly at TTL")
	}

	// expired read removed the entry as a side effect
	if n, _ := s.Len(ctx); n != 0 {
		t.Fatalf("Len got %d want 0 after expiry", n)
	}
}

func TestMemory_UpdateCreatesAndMutates(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()

	got, err := s.Update(ctx, "n", 0, func(old []byte, found bool) []byte {
		if found {
			t.Fatal("first update should not find a value")
		}
		return []byte("1")
	})
	if err != nil || string(got) != "1" {
		t.Fatalf("Update got (%q,%v)", got, err)
	}

	got, _ = s.Update(ctx, "n", 0, func(old []byte, found bool) []byte {
		if !found || string(old) != "1" {
			t.Fatalf("second update got (%q,%v)", old, found)
		}
		return []byte("2")
	})
	if string(got) != "2" {
		t.Fatalf("Update got %q want 2", got)
	}

	// nil result deletes
	if _, err := s.Update(ctx, "n", 0, func([]byte, bool) []byte { return nil }); err != nil {
		t.Fatalf("Update delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "n"); ok {
		t.Fatal("nil update result should delete the key")
	}
}

func TestMemory_UpdateTreatsExpiredAsAbsent(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	s := kv.NewMemory(kv.WithClock(clk.now))

	_ = s.Put(ctx, "w", []byte("stale"), time.Minute)
	clk.advance(2 * time.Minute)

	_, _ = s.Update(ctx, "w", time.Minute, func(old []byte, found bool) []byte {
		if found {
			t.Fatal("expired entry must read as absent")
		}
		return []byte("fresh")
	})
}

func TestMemory_PurgeOldest(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	s := kv.NewMemory(kv.WithClock(clk.now))

	for i := 0; i < 10; i++ {
		_ = s.Put(ctx, fmt.Sprintf("k%02d", i), []byte("v"), 0)
		clk.advance(time.Second)
	}

	if err := s.PurgeOldest(ctx, 5); err != nil {
		t.Fatalf("PurgeOldest: %v", err)
	}
	if n, _ := s.Len(ctx); n != 5 {
		t.Fatalf("Len got %d want 5", n)
	}
	// oldest half gone, newest half present
	for i := 0; i < 5; i++ {
		if _, ok, _ := s.Get(ctx, fmt.Sprintf("k%02d", i)); ok {
			t.Fatalf("k%02d should have been purged", i)
		}
	}
	for i := 5; i < 10; i++ {
		if _, ok, _ := s.Get(ctx, fmt.Sprintf("k%02d", i)); !ok {
			t.Fatalf("k%02d should have survived", i)
		}
	}

	// purging more than we have empties the store without error
	if err := s.PurgeOldest(ctx, 100); err != nil {
		t.Fatalf("PurgeOldest overrun: %v", err)
	}
	if n, _ := s.Len(ctx); n != 0 {
		t.Fatalf("Len got %d want 0", n)
	}
}

func TestMemory_ConcurrentUpdateLosesNothing(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()

	const workers = 32
	const per = 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				_, _ = s.Update(ctx, "ctr", 0, func(old []byte, found bool) []byte {
					n := 0
					if found {
						n = len(old)
					}
					return make([]byte, n+1)
				})
			}
		}()
	}
	wg.Wait()

	v, ok, _ := s.Get(ctx, "ctr")
	if !ok || len(v) != workers*per {
		t.Fatalf("counter got %d want %d", len(v), workers*per)
	}
}
