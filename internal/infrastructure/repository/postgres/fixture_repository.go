package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	qb "github.com/riskibarqy/match-predictor/internal/platform/querybuilder"
)

const upsertChunkSize = 500

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListCompletedBySeasons(ctx context.Context, seasons []int) ([]fixture.Fixture, error) {
	seasonArgs := make([]any, 0, len(seasons))
	for _, season := range seasons {
		seasonArgs = append(seasonArgs, season)
	}

	query, args, err := qb.Select(fixtureColumns()...).From("fixtures").
		Where(
			qb.In("season", seasonArgs),
			qb.IsNotNull("home_score"),
			qb.IsNotNull("away_score"),
			qb.Expr("UPPER(TRIM(status)) = ANY(?)", pq.Array(fixture.FinishedStatuses())),
		).
		OrderBy("match_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select completed fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if isRetryableStatementError(err) {
		rows = rows[:0]
		err = r.db.SelectContext(ctx, &rows, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("select completed fixtures seasons=%v: %w", seasons, err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		item := row.toDomain()
		if !item.IsCompleted() {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *FixtureRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM fixtures`); err != nil {
		return 0, fmt.Errorf("count fixtures: %w", err)
	}
	return count, nil
}

// Upsert writes fixtures in chunks inside one transaction, replacing rows
// that share an id.
func (r *FixtureRepository) Upsert(ctx context.Context, items []fixture.Fixture) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert fixtures tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for start := 0; start < len(items); start += upsertChunkSize {
		end := min(start+upsertChunkSize, len(items))

		models := make([]fixtureTableModel, 0, end-start)
		for _, item := range items[start:end] {
			models = append(models, fromDomain(item))
		}

		builder, err := qb.InsertModels("fixtures", models)
		if err != nil {
			return fmt.Errorf("build upsert fixtures query: %w", err)
		}
		query, args, err := builder.OnConflictUpdate("id").ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert fixtures query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert fixtures %d-%d: %w", start, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert fixtures tx: %w", err)
	}
	return nil
}
