// Package http provides http transport for the translate endpoint
package http

import (
	"net"
	stdhttp "net/http"
	"strings"

	"genslang/internal/modkit/httpkit"
	perr "genslang/internal/platform/errors"
	"genslang/internal/platform/logger"
	pnet "genslang/internal/platform/net"

	"genslang/internal/services/api/translate/domain"
)

// Register mounts the translate endpoints on the given router.
// disabled is the operator kill switch, read once at startup; when set the
// endpoint bails out before the body is even parsed
func Register(r httpkit.Router, s domain.ServicePort, disabled bool) {
	h := &handlers{svc: s}

	httpkit.MethodNotAllowedJSON(r)

	if disabled {
		r.Post("/", httpkit.Handle(func(*stdhttp.Request) httpkit.Response {
			return httpkit.Error(perr.ServiceDisabledf("translation is temporarily disabled"))
		}))
	} else {
		httpkit.PostJSON[domain.TranslateInput](r, "/", h.translate)
	}

	// pre-flight succeeds without entering the pipeline; CORS headers come
	// from the shared middleware stack
	r.Options("/", httpkit.Handle(func(*stdhttp.Request) httpkit.Response {
		return httpkit.NoContent()
	}))
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) translate(r *stdhttp.Request, in domain.TranslateInput) (any, error) {
	in.ClientKey = clientKey(r, in.DeviceID)

	ctx := logger.WithRequest(r.Context(), pnet.RequestID(r.Context()), in.ClientKey)
	return h.svc.Translate(ctx, in)
}

// clientKey buckets rate limiting: a client-supplied device id wins,
// then the remote address, then a shared anonymous bucket
func clientKey(r *stdhttp.Request, deviceID string) string {
	if d := strings.TrimSpace(deviceID); d != "" {
		return "device:" + d
	}
	if ip := remoteIP(r); ip != "" {
		return "ip:" + ip
	}
	return "anonymous"
}

// remoteIP trusts the middleware-resolved RemoteAddr, which already folds
// in X-Forwarded-For / X-Real-IP when present
func remoteIP(r *stdhttp.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
