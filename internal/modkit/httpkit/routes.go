package httpkit

import (
	"net/http"

	perr "genslang/internal/platform/errors"
)

// MountUnder mounts a subrouter at prefix and applies per-module middlewares
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

// MethodNotAllowedJSON answers unmatched methods with the wire error shape.
// Subrouters built before mounting do not inherit the root handler, so each
// module sets this on its own router
func MethodNotAllowedJSON(r Router) {
	r.MethodNotAllowed(Handle(func(*http.Request) Response {
		return Error(perr.MethodNotAllowedf("method not allowed"))
	}))
}
