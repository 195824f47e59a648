package module

import (
	"context"

	"genslang/internal/services/api/translate/domain"
	trsvc "genslang/internal/services/api/translate/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptTranslatePort struct{ svc *trsvc.Svc }

// Translate runs the full translate pipeline
func (a adaptTranslatePort) Translate(ctx context.Context, in domain.TranslateInput) (domain.TranslateOutput, error) {
	return a.svc.Translate(ctx, in)
}
