package repo

import (
	"context"

	"mealcheck/internal/credits"
	"mealcheck/internal/infra"
	"mealcheck/internal/sqlinline"
)

// UsageRepositoryPG persists the per-analysis audit trail.
type UsageRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewUsageRepository(sql infra.SQLExecutor) *UsageRepositoryPG {
	return &UsageRepositoryPG{sql: sql}
}

// RecordUsage inserts one usage event. Guest events carry a nil profile id.
func (r *UsageRepositoryPG) RecordUsage(ctx context.Context, event credits.UsageEvent) error {
	var profileID *string
	if event.ProfileID != "" {
		profileID = &event.ProfileID
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertUsageEvent,
		profileID, event.GuestID, event.Kind, event.Country, event.Reconciled, event.OccurredAt)
	return err
}

// UnreconciledLast24h counts recent analyses whose credit charge failed.
// Surfaced on the health endpoint so a broken reconciliation path is visible.
func (r *UsageRepositoryPG) UnreconciledLast24h(ctx context.Context) (int, error) {
	var count int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountUnreconciled).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

var _ credits.UsageRecorder = (*UsageRepositoryPG)(nil)
