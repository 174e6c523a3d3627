package domain

import (
	"context"
	"time"
)

// SignupCredits is the balance a brand-new account starts with.
const SignupCredits = 10

// Profile represents an authenticated account and its credit balance.
type Profile struct {
	ID        string
	GoogleSub string
	Email     string
	Name      string
	Picture   string
	Locale    string
	IsPro     bool
	Credits   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Unlimited reports whether the credit balance should be treated as
// unbounded. PRO accounts never consume credits regardless of the stored
// numeric value.
func (p Profile) Unlimited() bool {
	return p.IsPro
}

// ProfileStore is the remote profile persistence collaborator. Credits are
// written with a plain overwrite; concurrent sessions for the same account
// can race and the last write wins.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	UpsertByGoogleSub(ctx context.Context, p *Profile) (*Profile, error)
	UpdateCredits(ctx context.Context, id string, credits int) error
}
