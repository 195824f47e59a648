// Package module wires translate into the API using modkit
package module

import (
	"net/http"

	"genslang/internal/adapters/llm"
	"genslang/internal/core/cache"
	"genslang/internal/core/ratelimit"
	"genslang/internal/core/translation"
	modkit "genslang/internal/modkit"
	"genslang/internal/modkit/httpkit"
	str "genslang/internal/platform/strings"

	"genslang/internal/services/api/translate/domain"
	trhttp "genslang/internal/services/api/translate/http"
	trsvc "genslang/internal/services/api/translate/service"
)

// Ports lets callers inject a translator, e.g. a stub in tests.
// When empty the module builds the real upstream client from LLM_* config
type Ports struct {
	Translator domain.TranslatorPort
}

// Module implements the translate module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *trsvc.Svc
}

// New constructs the translate module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("translate"),
		modkit.WithPrefix("/translate"),
	}, opts...)...)

	svcOpts := trsvc.FromConfig(deps.Cfg)

	upstream := injectedTranslator(b.Ports)
	if upstream == nil {
		llmCfg := deps.Cfg.Prefix("LLM_")
		upstream = llm.NewClient(llm.Options{
			BaseURL:     llmCfg.MayString("BASE_URL", ""),
			APIKey:      llmCfg.MayString("API_KEY", ""),
			Model:       llmCfg.MayString("MODEL", ""),
			MaxTokens:   llmCfg.MayInt("MAX_TOKENS", 0),
			Temperature: llmCfg.MayFloat64("TEMPERATURE", 0),
			Timeout:     llmCfg.MayDuration("TIMEOUT", 0),
		})
	}

	c := cache.New[translation.Result](deps.CacheStore, cache.Options{
		Mode:       "generations",
		TTL:        svcOpts.CacheTTL,
		MaxEntries: svcOpts.CacheMax,
	})
	lim := ratelimit.New(deps.LimitStore, ratelimit.Options{
		Window:       svcOpts.RateWindow,
		MaxPerWindow: svcOpts.RateLimit,
	})

	svc := trsvc.New(svcOpts, c, lim, upstream)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptTranslatePort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		trhttp.Register(r, m.svc, svcOpts.Disabled)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the service for sibling modules wired in main
func (m *Module) Service() *trsvc.Svc { return m.svc }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

func injectedTranslator(p any) domain.TranslatorPort {
	if p == nil {
		return nil
	}
	if ports, ok := p.(Ports); ok {
		return ports.Translator
	}
	return nil
}
