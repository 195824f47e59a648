// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestID returns the correlation id the RequestID middleware stored on ctx
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
