// Package credits decides whether an actor may run an analysis and settles
// the cost afterwards. Settlement is optimistic: the verdict has already been
// delivered by the time credits are charged, so a failed charge is logged and
// surfaced as an unreconciled usage event but never reverts the analysis.
package credits

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"mealcheck/internal/domain"
	"mealcheck/internal/ledger"
)

// Actor identifies who is running a request. Exactly one of GuestID and
// Profile is meaningful: a non-nil Profile wins.
type Actor struct {
	GuestID string
	Profile *domain.Profile
}

// Guest reports whether the actor has no authenticated profile.
func (a Actor) Guest() bool {
	return a.Profile == nil
}

// UsageEvent is the audit record written after every settled (or
// unsettled) analysis.
type UsageEvent struct {
	ProfileID  string
	GuestID    string
	Kind       string
	Country    string
	Reconciled bool
	OccurredAt time.Time
}

// UsageRecorder persists usage events. Recording is itself best effort.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, event UsageEvent) error
}

// Reconciler charges analyses against guest daily quotas or account credit
// balances.
type Reconciler struct {
	profiles domain.ProfileStore
	guests   *ledger.Ledger
	usage    UsageRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

func NewReconciler(profiles domain.ProfileStore, guests *ledger.Ledger, usage UsageRecorder, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		profiles: profiles,
		guests:   guests,
		usage:    usage,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Remaining returns the actor's available analyses. The second return is
// true for accounts with an unlimited plan, in which case the count is
// meaningless.
func (r *Reconciler) Remaining(ctx context.Context, actor Actor) (int, bool) {
	if actor.Guest() {
		return r.guests.Remaining(actor.GuestID), false
	}
	if actor.Profile.Unlimited() {
		return 0, true
	}
	return actor.Profile.Credits, false
}

// Settle charges one analysis to the actor after a successful verdict. It
// never returns an error: a failed persist is logged and recorded as an
// unreconciled event while the decremented in-memory balance stands, so the
// caller publishes the new count and only the stored row is stale.
func (r *Reconciler) Settle(ctx context.Context, actor Actor, kind, country string) {
	reconciled := true
	if actor.Guest() {
		r.guests.Record(actor.GuestID)
	} else if !actor.Profile.Unlimited() {
		// The in-memory balance is decremented first and published even when
		// the write fails. Concurrent sessions can race; the balance may go
		// negative and is never clamped here.
		actor.Profile.Credits--
		if err := r.profiles.UpdateCredits(ctx, actor.Profile.ID, actor.Profile.Credits); err != nil {
			reconciled = false
			r.logger.Warn().
				Err(err).
				Str("profile_id", actor.Profile.ID).
				Int("credits", actor.Profile.Credits).
				Msg("credit reconciliation failed")
		}
	}
	r.recordUsage(ctx, actor, kind, country, reconciled)
}

func (r *Reconciler) recordUsage(ctx context.Context, actor Actor, kind, country string, reconciled bool) {
	if r.usage == nil {
		return
	}
	event := UsageEvent{
		GuestID:    actor.GuestID,
		Kind:       kind,
		Country:    country,
		Reconciled: reconciled,
		OccurredAt: r.now().UTC(),
	}
	if !actor.Guest() {
		event.ProfileID = actor.Profile.ID
		event.GuestID = ""
	}
	if err := r.usage.RecordUsage(ctx, event); err != nil {
		r.logger.Warn().Err(err).Str("kind", kind).Msg("usage event not recorded")
	}
}
