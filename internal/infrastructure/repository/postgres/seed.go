package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
)

// BootstrapSeed loads items into an empty fixtures table. It is a no-op once
// any fixture exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, items []fixture.Fixture) (int, error) {
	repo := NewFixtureRepository(db)
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count fixtures for bootstrap seed: %w", err)
	}
	if count > 0 || len(items) == 0 {
		return 0, nil
	}

	if err := repo.Upsert(ctx, items); err != nil {
		return 0, fmt.Errorf("bootstrap seed fixtures: %w", err)
	}
	return len(items), nil
}
