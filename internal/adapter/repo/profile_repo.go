// Package repo contains the PostgreSQL adapters behind the domain
// persistence interfaces. Every query goes through the marker-tagged
// statements in sqlinline so execution is traceable in logs.
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"mealcheck/internal/domain"
	"mealcheck/internal/infra"
	"mealcheck/internal/sqlinline"
)

// ProfileRepositoryPG implements domain.ProfileStore backed by PostgreSQL.
type ProfileRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewProfileRepository(sql infra.SQLExecutor) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{sql: sql}
}

// UpsertByGoogleSub inserts the profile on first login and refreshes the
// identity fields on every later one. Plan and credits are never overwritten
// by a login.
func (r *ProfileRepositoryPG) UpsertByGoogleSub(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertProfileByGoogleSub,
		p.GoogleSub, p.Email, p.Name, p.Picture, p.Locale, domain.SignupCredits)
	return scanProfile(row)
}

// GetByID fetches a profile by UUID.
func (r *ProfileRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return scanProfile(r.sql.QueryRow(ctx, sqlinline.QSelectProfileByID, id))
}

// GetByEmail fetches a profile by email, case-insensitively.
func (r *ProfileRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return scanProfile(r.sql.QueryRow(ctx, sqlinline.QSelectProfileByEmail, email))
}

// UpdateCredits overwrites the stored balance.
func (r *ProfileRepositoryPG) UpdateCredits(ctx context.Context, id string, credits int) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateProfileCredits, id, credits)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetPlan switches the unlimited flag and optionally resets the balance.
// A nil credits pointer leaves the balance untouched.
func (r *ProfileRepositoryPG) SetPlan(ctx context.Context, id string, isPro bool, credits *int) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QSetProfilePlan, id, isPro, credits)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.ID, &p.GoogleSub, &p.Email, &p.Name, &p.Picture, &p.Locale,
		&p.IsPro, &p.Credits, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ domain.ProfileStore = (*ProfileRepositoryPG)(nil)
