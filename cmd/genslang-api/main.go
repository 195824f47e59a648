package main

import (
	"context"
	"os/signal"
	"syscall"

	"genslang/internal/platform/config"
	"genslang/internal/platform/kv"
	"genslang/internal/platform/logger"
	phttp "genslang/internal/platform/net/http"

	"genslang/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API with process-local stores
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Logger:         l,
			CacheStore:     kv.NewMemory(),
			LimitStore:     kv.NewMemory(),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	// run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
