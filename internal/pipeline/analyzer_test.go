package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"mealcheck/internal/credits"
	"mealcheck/internal/domain"
	"mealcheck/internal/infra/credentials"
	"mealcheck/internal/ledger"
	"mealcheck/internal/localstore"
	"mealcheck/internal/provider"
)

type fakeInference struct {
	lastImage   string
	analysis    *domain.AnalysisResult
	analysisErr error
	menuText    string
	menuErr     error
	calls       int
}

func (f *fakeInference) AnalyzeMeal(ctx context.Context, req provider.AnalyzeRequest) (*domain.AnalysisResult, error) {
	f.calls++
	f.lastImage = req.ImageBase64
	if f.analysisErr != nil {
		return nil, f.analysisErr
	}
	return f.analysis, nil
}

func (f *fakeInference) SuggestMenu(ctx context.Context, req provider.MenuRequest) (string, error) {
	f.calls++
	if f.menuErr != nil {
		return "", f.menuErr
	}
	return f.menuText, nil
}

type fakeProfiles struct {
	updated map[string]int
}

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeProfiles) UpsertByGoogleSub(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	return p, nil
}

func (f *fakeProfiles) UpdateCredits(ctx context.Context, id string, c int) error {
	if f.updated == nil {
		f.updated = map[string]int{}
	}
	f.updated[id] = c
	return nil
}

type harness struct {
	analyzer *Analyzer
	creds    *credentials.Store
	guests   *ledger.Ledger
	profiles *fakeProfiles
	direct   *fakeInference
	remote   *fakeInference
}

func goodVerdict() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Compatibility: domain.CompatibilityYes,
		Explanation:   "Tudo compatível.",
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := localstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("localstore: %v", err)
	}
	h := &harness{
		creds:    credentials.NewStore(store),
		guests:   ledger.New(store),
		profiles: &fakeProfiles{},
		direct:   &fakeInference{analysis: goodVerdict(), menuText: "menu"},
		remote:   &fakeInference{analysis: goodVerdict(), menuText: "menu"},
	}
	reconciler := credits.NewReconciler(h.profiles, h.guests, nil, zerolog.Nop())
	h.analyzer = NewAnalyzer(
		h.creds,
		reconciler,
		func(apiKey string) provider.Inference { return h.direct },
		func(sessionToken string) provider.Inference { return h.remote },
		zerolog.Nop(),
	)
	return h
}

func (h *harness) storeKey(t *testing.T) {
	t.Helper()
	if err := h.creds.SetGeminiAPIKey("local-key"); err != nil {
		t.Fatalf("SetGeminiAPIKey: %v", err)
	}
}

func guestInput() AnalyzeInput {
	return AnalyzeInput{
		Actor:      credits.Actor{GuestID: "guest-1"},
		Image:      []byte("not-a-real-image"),
		Diet:       domain.DietCarnivore,
		Strictness: domain.StrictnessStrict,
	}
}

func accountInput(actor credits.Actor) AnalyzeInput {
	in := guestInput()
	in.Actor = actor
	return in
}

func TestAnalyzeGuestWithoutKeyRequiresLogin(t *testing.T) {
	h := newHarness(t)

	_, err := h.analyzer.Analyze(context.Background(), guestInput())
	if !errors.Is(err, domain.ErrLoginRequired) {
		t.Fatalf("err = %v, want ErrLoginRequired", err)
	}
	if h.remote.calls != 0 || h.direct.calls != 0 {
		t.Errorf("provider called for a sessionless, keyless request")
	}
	if got := h.guests.Remaining("guest-1"); got != ledger.DailyLimitGuest {
		t.Errorf("guest charged for rejected request: remaining = %d", got)
	}
}

func TestAnalyzeGuestWithKeyUsesDirectAndRecordsUsage(t *testing.T) {
	h := newHarness(t)
	h.storeKey(t)

	result, err := h.analyzer.Analyze(context.Background(), guestInput())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Compatibility != domain.CompatibilityYes {
		t.Errorf("compatibility = %q", result.Compatibility)
	}
	if h.direct.calls != 1 || h.remote.calls != 0 {
		t.Errorf("provider calls: direct=%d remote=%d", h.direct.calls, h.remote.calls)
	}
	want := base64.StdEncoding.EncodeToString([]byte("not-a-real-image"))
	if h.direct.lastImage != want {
		t.Errorf("image payload = %q, want raw base64 fallback", h.direct.lastImage)
	}
	if got := h.guests.Remaining("guest-1"); got != ledger.DailyLimitGuest-1 {
		t.Errorf("guest remaining = %d, want %d", got, ledger.DailyLimitGuest-1)
	}
}

func TestAnalyzeExhaustedGuestWithoutKeyRequiresLogin(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < ledger.DailyLimitGuest; i++ {
		h.guests.Record("guest-1")
	}

	_, err := h.analyzer.Analyze(context.Background(), guestInput())
	if !errors.Is(err, domain.ErrLoginRequired) {
		t.Fatalf("err = %v, want ErrLoginRequired", err)
	}
	if h.remote.calls != 0 {
		t.Errorf("provider called despite failed check")
	}
}

func TestAnalyzeExhaustedGuestWithKeyHitsPaywall(t *testing.T) {
	h := newHarness(t)
	h.storeKey(t)
	for i := 0; i < ledger.DailyLimitGuest; i++ {
		h.guests.Record("guest-1")
	}

	_, err := h.analyzer.Analyze(context.Background(), guestInput())
	if !errors.Is(err, domain.ErrUpgradeRequired) {
		t.Fatalf("err = %v, want ErrUpgradeRequired", err)
	}
	if h.direct.calls != 0 || h.remote.calls != 0 {
		t.Errorf("provider called on the attempt past the daily limit")
	}
}

func TestAnalyzeOverrideKeyDoesNotSkipCreditCheck(t *testing.T) {
	h := newHarness(t)
	h.storeKey(t)

	input := accountInput(credits.Actor{Profile: &domain.Profile{ID: "p1", Credits: 0}})

	_, err := h.analyzer.Analyze(context.Background(), input)
	if !errors.Is(err, domain.ErrUpgradeRequired) {
		t.Fatalf("err = %v, want ErrUpgradeRequired", err)
	}
}

func TestAnalyzeAccountUsesRemoteAndDecrementsCredits(t *testing.T) {
	h := newHarness(t)
	input := accountInput(credits.Actor{Profile: &domain.Profile{ID: "p1", Credits: 2}})
	input.SessionToken = "session-token"

	if _, err := h.analyzer.Analyze(context.Background(), input); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if h.remote.calls != 1 || h.direct.calls != 0 {
		t.Errorf("provider calls: remote=%d direct=%d", h.remote.calls, h.direct.calls)
	}
	if got := h.profiles.updated["p1"]; got != 1 {
		t.Errorf("stored credits = %d, want 1", got)
	}
}

func TestAnalyzeCheckOrderLoginBeforeImage(t *testing.T) {
	h := newHarness(t)

	input := guestInput()
	input.Image = nil

	_, err := h.analyzer.Analyze(context.Background(), input)
	if !errors.Is(err, domain.ErrLoginRequired) {
		t.Fatalf("err = %v, want ErrLoginRequired before ErrNoImage", err)
	}
}

func TestAnalyzeCheckOrderPaywallBeforeImage(t *testing.T) {
	h := newHarness(t)

	input := accountInput(credits.Actor{Profile: &domain.Profile{ID: "p1", Credits: 0}})
	input.Image = nil

	_, err := h.analyzer.Analyze(context.Background(), input)
	if !errors.Is(err, domain.ErrUpgradeRequired) {
		t.Fatalf("err = %v, want ErrUpgradeRequired before ErrNoImage", err)
	}
}

func TestAnalyzeMissingImage(t *testing.T) {
	h := newHarness(t)
	input := accountInput(credits.Actor{Profile: &domain.Profile{ID: "p1", Credits: 2}})
	input.Image = nil

	_, err := h.analyzer.Analyze(context.Background(), input)
	if !errors.Is(err, domain.ErrNoImage) {
		t.Fatalf("err = %v, want ErrNoImage", err)
	}
}

func TestAnalyzeInvalidDietAndStrictness(t *testing.T) {
	h := newHarness(t)

	input := guestInput()
	input.Diet = "paleo"
	if _, err := h.analyzer.Analyze(context.Background(), input); !errors.Is(err, domain.ErrInvalidDiet) {
		t.Errorf("err = %v, want ErrInvalidDiet", err)
	}

	input = guestInput()
	input.Strictness = domain.StrictnessModerate // ketogenic level on carnivore
	if _, err := h.analyzer.Analyze(context.Background(), input); !errors.Is(err, domain.ErrInvalidStrictness) {
		t.Errorf("err = %v, want ErrInvalidStrictness", err)
	}
}

func TestAnalyzeProviderFailureDoesNotCharge(t *testing.T) {
	h := newHarness(t)
	h.storeKey(t)
	h.direct.analysisErr = domain.ErrProviderFailure

	_, err := h.analyzer.Analyze(context.Background(), guestInput())
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v", err)
	}
	if got := h.guests.Remaining("guest-1"); got != ledger.DailyLimitGuest {
		t.Errorf("guest charged for failed analysis: remaining = %d", got)
	}
}

func TestAnalyzeRejectsUnknownVerdict(t *testing.T) {
	h := newHarness(t)
	h.remote.analysis = &domain.AnalysisResult{Compatibility: "talvez"}

	input := accountInput(credits.Actor{Profile: &domain.Profile{ID: "p1", Credits: 2}})
	_, err := h.analyzer.Analyze(context.Background(), input)
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
	if len(h.profiles.updated) != 0 {
		t.Errorf("credits touched for malformed verdict: %+v", h.profiles.updated)
	}
}

func TestSuggestMenuGates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	menu := MenuInput{
		Protein:    domain.ProteinBeef,
		Diet:       domain.DietKetogenic,
		Strictness: domain.StrictnessVeryLow,
	}

	menu.Actor = credits.Actor{GuestID: "g"}
	if _, err := h.analyzer.SuggestMenu(ctx, menu); !errors.Is(err, domain.ErrLoginRequired) {
		t.Errorf("guest err = %v, want ErrLoginRequired", err)
	}

	menu.Actor = credits.Actor{Profile: &domain.Profile{ID: "p1", Credits: 10}}
	if _, err := h.analyzer.SuggestMenu(ctx, menu); !errors.Is(err, domain.ErrUpgradeRequired) {
		t.Errorf("free-plan err = %v, want ErrUpgradeRequired", err)
	}

	menu.Actor = credits.Actor{Profile: &domain.Profile{ID: "p1", IsPro: true}}
	menu.Protein = "tofu"
	if _, err := h.analyzer.SuggestMenu(ctx, menu); !errors.Is(err, domain.ErrInvalidProtein) {
		t.Errorf("protein err = %v, want ErrInvalidProtein", err)
	}
}

func TestSuggestMenuProDoesNotTouchCredits(t *testing.T) {
	h := newHarness(t)

	text, err := h.analyzer.SuggestMenu(context.Background(), MenuInput{
		Actor:      credits.Actor{Profile: &domain.Profile{ID: "pro", IsPro: true, Credits: 7}},
		Protein:    domain.ProteinFish,
		Diet:       domain.DietCarnivore,
		Strictness: domain.StrictnessPermissive,
	})
	if err != nil {
		t.Fatalf("SuggestMenu: %v", err)
	}
	if text != "menu" {
		t.Errorf("text = %q", text)
	}
	if len(h.profiles.updated) != 0 {
		t.Errorf("credits touched: %+v", h.profiles.updated)
	}
}
