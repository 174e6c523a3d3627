// Package pipeline orchestrates the meal-analysis and menu-suggestion flows:
// eligibility checks in a fixed order, image preparation, a single provider
// attempt, and best-effort credit settlement after a delivered verdict.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"mealcheck/internal/credits"
	"mealcheck/internal/domain"
	"mealcheck/internal/imageprep"
	"mealcheck/internal/infra/credentials"
	"mealcheck/internal/provider"
)

// DirectFactory builds the direct-credentialed inference client for one
// request. RemoteFactory builds the session-authenticated proxy client.
// Clients are constructed per request so a key or token change between
// requests always takes effect.
type (
	DirectFactory func(apiKey string) provider.Inference
	RemoteFactory func(sessionToken string) provider.Inference
)

// Analyzer runs the photo-analysis flow end to end.
type Analyzer struct {
	credentials *credentials.Store
	credits     *credits.Reconciler
	direct      DirectFactory
	remote      RemoteFactory
	logger      zerolog.Logger
}

func NewAnalyzer(creds *credentials.Store, reconciler *credits.Reconciler, direct DirectFactory, remote RemoteFactory, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		credentials: creds,
		credits:     reconciler,
		direct:      direct,
		remote:      remote,
		logger:      logger,
	}
}

// AnalyzeInput carries one analysis request through the pipeline.
type AnalyzeInput struct {
	Actor        credits.Actor
	SessionToken string
	Image        []byte
	Diet         domain.Diet
	Strictness   domain.Strictness
	Country      string
}

// MenuInput carries one menu-suggestion request.
type MenuInput struct {
	Actor        credits.Actor
	SessionToken string
	Protein      domain.Protein
	Diet         domain.Diet
	Strictness   domain.Strictness
	Country      string
}

// Analyze validates the request, prepares the image, runs exactly one
// provider attempt and, only after a verdict is delivered, settles the cost.
// A stored override key satisfies the login requirement but never the
// balance check: a key-holding guest still hits the daily-limit paywall.
func (a *Analyzer) Analyze(ctx context.Context, input AnalyzeInput) (*domain.AnalysisResult, error) {
	if !domain.ValidDiet(input.Diet) {
		return nil, domain.ErrInvalidDiet
	}
	if !domain.ValidStrictness(input.Diet, input.Strictness) {
		return nil, domain.ErrInvalidStrictness
	}

	override := a.credentials.HasOverride()
	if err := a.checkQuota(ctx, input.Actor, override); err != nil {
		return nil, err
	}
	if len(input.Image) == 0 {
		return nil, domain.ErrNoImage
	}

	encoded, err := imageprep.Prepare(input.Image)
	if err != nil {
		return nil, err
	}

	result, err := a.selectProvider(override, input.SessionToken).AnalyzeMeal(ctx, provider.AnalyzeRequest{
		ImageBase64: encoded,
		Diet:        input.Diet,
		Strictness:  input.Strictness,
	})
	if err != nil {
		return nil, err
	}
	if !result.Compatibility.Valid() {
		return nil, domain.ErrMalformedResponse
	}

	a.credits.Settle(ctx, input.Actor, "analysis", input.Country)
	return result, nil
}

// SuggestMenu is the unlimited-plan assistant. It never touches the credit
// balance; usage is still recorded for the audit trail.
func (a *Analyzer) SuggestMenu(ctx context.Context, input MenuInput) (string, error) {
	if input.Actor.Guest() {
		return "", domain.ErrLoginRequired
	}
	if !input.Actor.Profile.Unlimited() {
		return "", domain.ErrUpgradeRequired
	}
	if !domain.ValidProtein(input.Protein) {
		return "", domain.ErrInvalidProtein
	}
	if !domain.ValidDiet(input.Diet) {
		return "", domain.ErrInvalidDiet
	}
	if !domain.ValidStrictness(input.Diet, input.Strictness) {
		return "", domain.ErrInvalidStrictness
	}

	text, err := a.selectProvider(a.credentials.HasOverride(), input.SessionToken).SuggestMenu(ctx, provider.MenuRequest{
		Protein:    input.Protein,
		Diet:       input.Diet,
		Strictness: input.Strictness,
	})
	if err != nil {
		return "", err
	}

	a.credits.Settle(ctx, input.Actor, "menu", input.Country)
	return text, nil
}

// checkQuota enforces the eligibility order: a request without a session
// and without a stored key is asked to log in before anything else, then an
// exhausted balance (guest daily count or account credits) surfaces the
// paywall, and only then is the payload looked at. The stored key satisfies
// the login requirement but never the balance check.
func (a *Analyzer) checkQuota(ctx context.Context, actor credits.Actor, override bool) error {
	if actor.Guest() && !override {
		return domain.ErrLoginRequired
	}
	remaining, unlimited := a.credits.Remaining(ctx, actor)
	if unlimited {
		return nil
	}
	if remaining <= 0 {
		return domain.ErrUpgradeRequired
	}
	return nil
}

// selectProvider picks the transport once per request: a stored key means
// the direct client, otherwise the session-authenticated proxy.
func (a *Analyzer) selectProvider(override bool, sessionToken string) provider.Inference {
	if override {
		return a.direct(a.credentials.GeminiAPIKey())
	}
	return a.remote(sessionToken)
}
