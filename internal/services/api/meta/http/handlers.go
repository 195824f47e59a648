// Package http provides meta endpoints for health and ops visibility
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"genslang/internal/core/version"
	"genslang/internal/modkit/httpkit"
)

// Counter is satisfied by stores that report their live entry count
type Counter interface {
	Len(ctx stdctx.Context) (int, error)
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time

	// Disabled mirrors the translate kill switch so operators can confirm
	// the flag took effect without issuing a translation
	Disabled bool

	CacheStore Counter
	LimitStore Counter
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.MethodNotAllowedJSON(r)

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/stats", h.stats)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ServiceResponse describes the running service state
type ServiceResponse struct {
	Service  string `json:"service"`
	Disabled bool   `json:"disabled"`
	Uptime   string `json:"uptime"`
}

// StatsResponse reports best-effort store sizes
type StatsResponse struct {
	CacheEntries int `json:"cacheEntries"`
	LimiterKeys  int `json:"limiterKeys"`
}

func (h *handlers) health(*http.Request) (any, error) {
	now := time.Now().UTC()
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     now.Format(time.RFC3339),
	}, nil
}

func (h *handlers) version(*http.Request) (any, error) {
	return version.Info(), nil
}

func (h *handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Service:  h.deps.ServiceName,
		Disabled: h.deps.Disabled,
		Uptime:   time.Since(h.deps.StartedAt).Round(time.Second).String(),
	}, nil
}

func (h *handlers) stats(r *http.Request) (any, error) {
	out := StatsResponse{}
	if h.deps.CacheStore != nil {
		if n, err := h.deps.CacheStore.Len(r.Context()); err == nil {
			out.CacheEntries = n
		}
	}
	if h.deps.LimitStore != nil {
		if n, err := h.deps.LimitStore.Len(r.Context()); err == nil {
			out.LimiterKeys = n
		}
	}
	return out, nil
}
