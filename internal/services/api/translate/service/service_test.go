package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"genslang/internal/core/cache"
	"genslang/internal/core/ratelimit"
	"genslang/internal/core/translation"
	perr "genslang/internal/platform/errors"
	"genslang/internal/platform/kv"
	"genslang/internal/platform/testkit"

	"genslang/internal/services/api/translate/domain"
)

type stubTranslator struct {
	calls int
	res   *translation.Result
	err   error
}

func (s *stubTranslator) Translate(context.Context, string) (*translation.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.res, nil
}

func fixtureResult() *translation.Result {
	trs := make([]translation.GenerationTranslation, 0, len(translation.Generations))
	for _, g := range translation.Generations {
		trs = append(trs, translation.GenerationTranslation{
			Generation: g,
			Text:       "that is very impressive",
			SlangWords: []translation.SlangDefinition{},
		})
	}
	return &translation.Result{
		DetectedGeneration: translation.GenerationMillennials,
		OriginalText:       "that's so fetch",
		Translations:       trs,
	}
}

type fixture struct {
	svc      *Svc
	upstream *stubTranslator
	advance  func(time.Duration)
}

func newFixture(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()
	cur := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return cur }

	opts := Options{
		MaxChars:   domain.MaxChars,
		MaxWords:   domain.MaxWords,
		RateLimit:  10,
		RateWindow: time.Hour,
		CacheTTL:   24 * time.Hour,
		CacheMax:   100,
	}
	if mutate != nil {
		mutate(&opts)
	}

	c := cache.New[translation.Result](
		kv.NewMemory(kv.WithClock(now)),
		cache.Options{Mode: "generations", TTL: opts.CacheTTL, MaxEntries: opts.CacheMax},
	).WithClock(now)
	lim := ratelimit.New(
		kv.NewMemory(kv.WithClock(now)),
		ratelimit.Options{Window: opts.RateWindow, MaxPerWindow: opts.RateLimit},
	).WithClock(now)

	up := &stubTranslator{res: fixtureResult()}
	return &fixture{
		svc:      New(opts, c, lim, up),
		upstream: up,
		advance:  func(d time.Duration) { cur = cur.Add(d) },
	}
}

func input(text string) domain.TranslateInput {
	return domain.TranslateInput{Text: text, ClientKey: "device:test"}
}

func TestNew_NilDependenciesPanic(t *testing.T) {
	f := newFixture(t, nil)
	testkit.MustPanic(t, func() { New(Options{}, nil, nil, nil) })
	testkit.MustNotPanic(t, func() { _ = f.svc })
}

func TestTranslate_Success(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.svc.Translate(context.Background(), input("that's so fetch"))
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out.Cached {
		t.Fatal("first call reported cached")
	}
	if len(out.Output.Translations) != 6 {
		t.Fatalf("translations = %d, want 6", len(out.Output.Translations))
	}
	if f.upstream.calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", f.upstream.calls)
	}
}

func TestTranslate_KillSwitchShortCircuits(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Disabled = true })

	_, err := f.svc.Translate(context.Background(), input("that's so fetch"))
	if !perr.IsCode(err, perr.CodeServiceDisabled) {
		t.Fatalf("code = %v, want SERVICE_DISABLED", perr.CodeOf(err))
	}
	if f.upstream.calls != 0 {
		t.Fatalf("upstream called %d times behind kill switch", f.upstream.calls)
	}
	// even invalid input bails out with the kill switch code
	_, err = f.svc.Translate(context.Background(), input(""))
	if !perr.IsCode(err, perr.CodeServiceDisabled) {
		t.Fatalf("code = %v, want SERVICE_DISABLED for empty text too", perr.CodeOf(err))
	}
}

func TestTranslate_ValidationMutatesNoState(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	for _, text := range []string{"", strings.Repeat("a", domain.MaxChars+1), strings.Repeat("w ", domain.MaxWords+1)} {
		if _, err := f.svc.Translate(ctx, input(text)); err == nil {
			t.Fatalf("text %q passed validation", text)
		}
	}
	if f.upstream.calls != 0 {
		t.Fatalf("upstream called %d times for invalid input", f.upstream.calls)
	}
	if n := f.svc.CacheEntries(ctx); n != 0 {
		t.Fatalf("cache entries = %d after rejected input, want 0", n)
	}
	if n := f.svc.LimiterKeys(ctx); n != 0 {
		t.Fatalf("limiter keys = %d after rejected input, want 0", n)
	}
}

func TestTranslate_SecondCallIsCachedAndFree(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.RateLimit = 1 })
	ctx := context.Background()

	first, err := f.svc.Translate(ctx, input("that's so fetch"))
	if err != nil {
		t.Fatalf("first: %v", err)
	}

	// quota is exhausted, but the identical query must still be served
	second, err := f.svc.Translate(ctx, input("That's SO   fetch"))
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !second.Cached {
		t.Fatal("second call not served from cache")
	}
	if second.Output.OriginalText != first.Output.OriginalText {
		t.Fatal("cached output differs")
	}
	if f.upstream.calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", f.upstream.calls)
	}
}

func TestTranslate_RateLimitsDistinctText(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := f.svc.Translate(ctx, input("phrase number "+strings.Repeat("x", i+1))); err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
	}

	_, err := f.svc.Translate(ctx, input("one phrase too many"))
	if !perr.IsCode(err, perr.CodeRateLimited) {
		t.Fatalf("code = %v, want RATE_LIMITED", perr.CodeOf(err))
	}
	if perr.RetryAfterOf(err) <= 0 {
		t.Fatalf("retryAfter = %d, want > 0", perr.RetryAfterOf(err))
	}

	// window elapses, counter resets
	f.advance(time.Hour)
	if _, err := f.svc.Translate(ctx, input("fresh window phrase")); err != nil {
		t.Fatalf("after window: %v", err)
	}
}

func TestTranslate_UpstreamFailureNotCached(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.upstream.err = perr.Upstreamf("translation service had a problem, please try again")
	if _, err := f.svc.Translate(ctx, input("that's so fetch")); !perr.IsCode(err, perr.CodeUpstream) {
		t.Fatalf("code = %v, want UPSTREAM_ERROR", perr.CodeOf(err))
	}
	if n := f.svc.CacheEntries(ctx); n != 0 {
		t.Fatalf("cache entries = %d after upstream failure, want 0", n)
	}

	// recovery: same text goes upstream again
	f.upstream.err = nil
	out, err := f.svc.Translate(ctx, input("that's so fetch"))
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if out.Cached {
		t.Fatal("retry served stale cache after failure")
	}
}

func TestTranslate_CacheExpiresAfterTTL(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Translate(ctx, input("that's so fetch")); err != nil {
		t.Fatalf("first: %v", err)
	}

	f.advance(24*time.Hour - time.Second)
	out, err := f.svc.Translate(ctx, input("that's so fetch"))
	if err != nil || !out.Cached {
		t.Fatalf("just before TTL: cached=%v err=%v", out.Cached, err)
	}

	f.advance(time.Second)
	out, err = f.svc.Translate(ctx, input("that's so fetch"))
	if err != nil {
		t.Fatalf("after TTL: %v", err)
	}
	if out.Cached {
		t.Fatal("served expired cache entry")
	}
	if f.upstream.calls != 2 {
		t.Fatalf("upstream calls = %d, want 2", f.upstream.calls)
	}
}
