// Package api provides the HTTP API for the application
package api

import (
	"genslang/internal/platform/config"
	"genslang/internal/platform/kv"
	"genslang/internal/platform/logger"
	phttp "genslang/internal/platform/net/http"

	"genslang/internal/modkit"
	"genslang/internal/modkit/httpkit"
	"genslang/internal/modkit/module"

	metamod "genslang/internal/services/api/meta/module"
	translatemod "genslang/internal/services/api/translate/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Logger *logger.Logger

	// CacheStore and LimitStore back the response cache and rate limiter;
	// separate instances so cache eviction never touches limiter state
	CacheStore kv.Store
	LimitStore kv.Store

	EnableProfiler bool

	// Translator overrides the upstream client, used by end-to-end tests
	Translator translatemod.Ports
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Cfg:        opt.Config,
		CacheStore: opt.CacheStore,
		LimitStore: opt.LimitStore,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	var trOpts []modkit.Option
	if opt.Translator.Translator != nil {
		trOpts = append(trOpts, modkit.WithPorts(opt.Translator))
	}

	mods := []module.Module{
		metamod.New(deps),
		translatemod.New(deps, trOpts...),
	}

	// unmatched methods on known routes answer with the wire error shape
	httpkit.MethodNotAllowedJSON(r)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
