package credits

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"mealcheck/internal/domain"
	"mealcheck/internal/ledger"
	"mealcheck/internal/localstore"
)

type fakeProfiles struct {
	updated    map[string]int
	updateErr  error
	getProfile *domain.Profile
}

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	if f.getProfile == nil {
		return nil, domain.ErrNotFound
	}
	return f.getProfile, nil
}

func (f *fakeProfiles) UpsertByGoogleSub(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	return p, nil
}

func (f *fakeProfiles) UpdateCredits(ctx context.Context, id string, credits int) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = map[string]int{}
	}
	f.updated[id] = credits
	return nil
}

type fakeUsage struct {
	events []UsageEvent
	err    error
}

func (f *fakeUsage) RecordUsage(ctx context.Context, event UsageEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func newGuestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	store, err := localstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("localstore: %v", err)
	}
	return ledger.New(store)
}

func TestSettleGuestRecordsDailyUsage(t *testing.T) {
	guests := newGuestLedger(t)
	usage := &fakeUsage{}
	rec := NewReconciler(&fakeProfiles{}, guests, usage, zerolog.Nop())

	actor := Actor{GuestID: "guest-1"}
	before, unlimited := rec.Remaining(context.Background(), actor)
	if unlimited || before != ledger.DailyLimitGuest {
		t.Fatalf("Remaining = %d, %v", before, unlimited)
	}

	rec.Settle(context.Background(), actor, "analysis", "BR")

	after, _ := rec.Remaining(context.Background(), actor)
	if after != before-1 {
		t.Errorf("remaining after settle = %d, want %d", after, before-1)
	}
	if len(usage.events) != 1 {
		t.Fatalf("events = %d", len(usage.events))
	}
	if !usage.events[0].Reconciled || usage.events[0].GuestID != "guest-1" || usage.events[0].ProfileID != "" {
		t.Errorf("event = %+v", usage.events[0])
	}
}

func TestSettleDecrementsAccountCredits(t *testing.T) {
	profiles := &fakeProfiles{}
	usage := &fakeUsage{}
	rec := NewReconciler(profiles, newGuestLedger(t), usage, zerolog.Nop())

	profile := &domain.Profile{ID: "p1", Credits: 2}
	rec.Settle(context.Background(), Actor{Profile: profile}, "analysis", "")

	if got := profiles.updated["p1"]; got != 1 {
		t.Errorf("stored credits = %d, want 1", got)
	}
	if profile.Credits != 1 {
		t.Errorf("in-memory credits = %d, want 1", profile.Credits)
	}
	if usage.events[0].ProfileID != "p1" || usage.events[0].GuestID != "" {
		t.Errorf("event = %+v", usage.events[0])
	}
}

func TestSettleAllowsNegativeBalance(t *testing.T) {
	profiles := &fakeProfiles{}
	rec := NewReconciler(profiles, newGuestLedger(t), nil, zerolog.Nop())

	profile := &domain.Profile{ID: "p1", Credits: 0}
	rec.Settle(context.Background(), Actor{Profile: profile}, "analysis", "")

	if got := profiles.updated["p1"]; got != -1 {
		t.Errorf("stored credits = %d, want -1", got)
	}
}

func TestSettleProAccountIsNoOp(t *testing.T) {
	profiles := &fakeProfiles{}
	usage := &fakeUsage{}
	rec := NewReconciler(profiles, newGuestLedger(t), usage, zerolog.Nop())

	profile := &domain.Profile{ID: "pro", IsPro: true, Credits: 0}
	remaining, unlimited := rec.Remaining(context.Background(), Actor{Profile: profile})
	if !unlimited {
		t.Fatalf("Remaining = %d, unlimited = false", remaining)
	}

	rec.Settle(context.Background(), Actor{Profile: profile}, "analysis", "")

	if len(profiles.updated) != 0 {
		t.Errorf("UpdateCredits called for pro account: %+v", profiles.updated)
	}
	if len(usage.events) != 1 || !usage.events[0].Reconciled {
		t.Errorf("events = %+v", usage.events)
	}
}

func TestSettleFailureIsObservableAndNonFatal(t *testing.T) {
	profiles := &fakeProfiles{updateErr: errors.New("connection reset")}
	usage := &fakeUsage{}
	rec := NewReconciler(profiles, newGuestLedger(t), usage, zerolog.Nop())

	profile := &domain.Profile{ID: "p1", Credits: 5}
	rec.Settle(context.Background(), Actor{Profile: profile}, "analysis", "")

	if profile.Credits != 4 {
		t.Errorf("in-memory credits = %d, want 4 despite failed persist", profile.Credits)
	}
	if len(usage.events) != 1 || usage.events[0].Reconciled {
		t.Errorf("events = %+v", usage.events)
	}
}

func TestSettleSetsEventTimestampFromClock(t *testing.T) {
	usage := &fakeUsage{}
	rec := NewReconciler(&fakeProfiles{}, newGuestLedger(t), usage, zerolog.Nop())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec.WithClock(func() time.Time { return fixed })

	rec.Settle(context.Background(), Actor{GuestID: "g"}, "menu", "BR")

	if !usage.events[0].OccurredAt.Equal(fixed) {
		t.Errorf("OccurredAt = %v", usage.events[0].OccurredAt)
	}
}
