// Package provider defines the inference capability the pipelines depend
// on. Two implementations exist: a direct-credentialed Gemini client and a
// remote proxy that rides the authenticated edge-function channel. The
// pipeline picks one per request; call sites never branch on transport.
package provider

import (
	"context"

	"mealcheck/internal/domain"
)

// AnalyzeRequest carries one meal-analysis invocation. ImageBase64 is the
// prepared payload body without a data-URI prefix.
type AnalyzeRequest struct {
	ImageBase64 string
	Diet        domain.Diet
	Strictness  domain.Strictness
}

// MenuRequest carries one menu-suggestion invocation.
type MenuRequest struct {
	Protein    domain.Protein
	Diet       domain.Diet
	Strictness domain.Strictness
}

// Inference is the capability interface over the generative-AI collaborator.
// Implementations make exactly one attempt per call; retries are the
// caller's decision (and the pipelines never retry).
type Inference interface {
	AnalyzeMeal(ctx context.Context, req AnalyzeRequest) (*domain.AnalysisResult, error)
	SuggestMenu(ctx context.Context, req MenuRequest) (string, error)
}
