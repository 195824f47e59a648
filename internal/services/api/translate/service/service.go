// Package service contains the translate pipeline.
// Order is fixed: kill switch, validation, cache, rate limit, upstream,
// cache write-through. Cached answers are served before the limiter runs
// so repeated identical queries never consume quota
package service

import (
	"context"
	"strings"
	"time"

	"genslang/internal/core/cache"
	"genslang/internal/core/ratelimit"
	"genslang/internal/core/translation"
	"genslang/internal/platform/config"
	perr "genslang/internal/platform/errors"
	"genslang/internal/platform/logger"

	"genslang/internal/services/api/translate/domain"
)

// Service defines the translate service contract
type Service interface {
	domain.ServicePort
}

// Options tune the pipeline, normally read from TRANSLATE_* config
type Options struct {
	MaxChars int
	MaxWords int

	RateLimit  int
	RateWindow time.Duration

	CacheTTL time.Duration
	CacheMax int

	// Disabled is the operator kill switch: every request fails fast with
	// SERVICE_DISABLED before any other work
	Disabled bool
}

// FromConfig reads Options from a TRANSLATE_ scoped config view
func FromConfig(root config.Conf) Options {
	cfg := root.Prefix("TRANSLATE_")
	return Options{
		MaxChars:   cfg.MayInt("MAX_CHARS", domain.MaxChars),
		MaxWords:   cfg.MayInt("MAX_WORDS", domain.MaxWords),
		RateLimit:  cfg.MayInt("RATE_LIMIT", 10),
		RateWindow: cfg.MayDuration("RATE_WINDOW", time.Hour),
		CacheTTL:   cfg.MayDuration("CACHE_TTL", 24*time.Hour),
		CacheMax:   cfg.MayInt("CACHE_MAX", 100),
		Disabled:   cfg.MayBool("DISABLED", false),
	}
}

// Svc implements the translate service
type Svc struct {
	opts     Options
	cache    *cache.Cache[translation.Result]
	limiter  *ratelimit.Limiter
	upstream domain.TranslatorPort
	log      logger.Logger
}

// New constructs a translate service
func New(opts Options, c *cache.Cache[translation.Result], l *ratelimit.Limiter, up domain.TranslatorPort) *Svc {
	if c == nil {
		panic("translate.Service requires a non nil cache")
	}
	if l == nil {
		panic("translate.Service requires a non nil limiter")
	}
	if up == nil {
		panic("translate.Service requires a non nil upstream")
	}
	return &Svc{
		opts:     opts,
		cache:    c,
		limiter:  l,
		upstream: up,
		log:      *logger.Named("translate"),
	}
}

// Translate runs the pipeline for one request.
// Single attempt, no internal retries; each failure is terminal and the
// caller decides whether to try again
func (s *Svc) Translate(ctx context.Context, in domain.TranslateInput) (domain.TranslateOutput, error) {
	if s.opts.Disabled {
		return domain.TranslateOutput{}, perr.ServiceDisabledf("translation is temporarily disabled")
	}

	if err := domain.ValidateText(in.Text, s.opts.MaxChars, s.opts.MaxWords); err != nil {
		return domain.TranslateOutput{}, err
	}
	text := strings.TrimSpace(in.Text)

	if res, ok := s.cache.Get(ctx, text); ok {
		s.log.Debug().Str("client_key", in.ClientKey).Msg("cache hit")
		return domain.TranslateOutput{Output: &res, Cached: true}, nil
	}

	dec, err := s.limiter.Check(ctx, clientKeyOrAnon(in.ClientKey))
	if err != nil {
		return domain.TranslateOutput{}, err
	}
	if !dec.Allowed {
		s.log.Info().Str("client_key", in.ClientKey).Int("retry_after", dec.RetryAfter).Msg("rate limited")
		return domain.TranslateOutput{}, perr.RateLimitedf(dec.RetryAfter, "too many requests, please wait a moment")
	}

	res, err := s.upstream.Translate(ctx, text)
	if err != nil {
		return domain.TranslateOutput{}, err
	}

	s.cache.Put(ctx, text, *res)
	return domain.TranslateOutput{Output: res, Cached: false}, nil
}

// CacheEntries reports the live cache size for ops endpoints
func (s *Svc) CacheEntries(ctx context.Context) int { return s.cache.Len(ctx) }

// LimiterKeys reports the tracked client key count for ops endpoints
func (s *Svc) LimiterKeys(ctx context.Context) int { return s.limiter.Keys(ctx) }

// Disabled reports whether the kill switch is on
func (s *Svc) Disabled() bool { return s.opts.Disabled }

func clientKeyOrAnon(k string) string {
	if strings.TrimSpace(k) == "" {
		return "anonymous"
	}
	return k
}
