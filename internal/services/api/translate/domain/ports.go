package domain

import (
	"context"

	"genslang/internal/core/translation"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Translate(ctx context.Context, in TranslateInput) (TranslateOutput, error)
}

// TranslatorPort is the upstream model seam the service calls through
type TranslatorPort interface {
	Translate(ctx context.Context, text string) (*translation.Result, error)
}
