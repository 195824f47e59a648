package kv

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is the in-process Store. Safe for concurrent use; per-key Update is
// atomic under the store mutex. Everything is lost on process exit by design
type Memory struct {
	mu  sync.Mutex
	m   map[string]memEntry
	now func() time.Time // seam for TTL tests
}

type memEntry struct {
	value     []byte
	createdAt time.Time
	expiresAt time.Time // zero means no expiry
}

// MemoryOption tweaks a Memory store
type MemoryOption func(*Memory)

// WithClock overrides the time source (tests)
func WithClock(now func() time.Time) MemoryOption {
	return func(s *Memory) { s.now = now }
}

// NewMemory returns an empty in-process store
func NewMemory(opts ...MemoryOption) *Memory {
	s := &Memory{m: make(map[string]memEntry), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// expired reports whether e is past its expiry at time t
func (e memEntry) expired(t time.Time) bool {
	return !e.expiresAt.IsZero() && !t.Before(e.expiresAt)
}

// Get implements Store
func (s *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(s.now()) {
		delete(s.m, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Put implements Store
func (s *Memory) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(key, value, ttl)
	return nil
}

// set stores under the lock; callers hold s.mu
func (s *Memory) set(key string, value []byte, ttl time.Duration) {
	t := s.now()
	e := memEntry{value: value, createdAt: t}
	if ttl > 0 {
		e.expiresAt = t.Add(ttl)
	}
	s.m[key] = e
}

// Delete implements Store
func (s *Memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// Update implements Store
func (s *Memory) Update(_ context.Context, key string, ttl time.Duration, fn UpdateFunc) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var old []byte
	found := false
	if e, ok := s.m[key]; ok && !e.expired(s.now()) {
		old, found = e.value, true
	}
	next := fn(old, found)
	if next == nil {
		delete(s.m, key)
		return nil, nil
	}
	s.set(key, next, ttl)
	return next, nil
}

// Len implements Store
func (s *Memory) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now()
	n := 0
	for k, e := range s.m {
		if e.expired(t) {
			delete(s.m, k)
			continue
		}
		n++
	}
	return n, nil
}

// PurgeOldest implements Store
func (s *Memory) PurgeOldest(_ context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	type aged struct {
		key string
		at  time.Time
	}
	all := make([]aged, 0, len(s.m))
	for k, e := range s.m {
		all = append(all, aged{key: k, at: e.createdAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })
	if n > len(all) {
		n = len(all)
	}
	for _, a := range all[:n] {
		delete(s.m, a.key)
	}
	return nil
}
