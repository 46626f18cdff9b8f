package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "season").
		From("fixtures").
		Where(
			In("season", []any{2022, 2023}),
			IsNotNull("home_score"),
			IsNull("deleted_at"),
			Expr("UPPER(status) = ANY(?)", "FT"),
		).
		OrderBy("match_date", "id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, season FROM fixtures WHERE season IN ($1, $2) AND home_score IS NOT NULL AND deleted_at IS NULL AND UPPER(status) = ANY($3) ORDER BY match_date, id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != 2022 || args[2] != "FT" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("fixtures").Where(In("season", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM fixtures WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}

func TestInsertBuilder_OnConflictUpdate(t *testing.T) {
	query, args, err := InsertInto("fixtures").
		Columns("id", "home_score", "away_score").
		Values(int64(1), 2, 0).
		Values(int64(2), 1, 1).
		OnConflictUpdate("id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO fixtures (id, home_score, away_score) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (id) DO UPDATE SET home_score = EXCLUDED.home_score, away_score = EXCLUDED.away_score"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		ID     int64  `db:"id"`
		Status string `db:"status"`
		note   string
		Skip   string `db:"-"`
	}

	b, err := InsertModels("fixtures", []row{{ID: 1, Status: "FT", note: "x"}, {ID: 2, Status: "NS"}})
	if err != nil {
		t.Fatalf("build insert from models: %v", err)
	}
	query, args, err := b.Suffix("RETURNING id").ToSQL()
	if err != nil {
		t.Fatalf("render insert: %v", err)
	}

	wantQuery := "INSERT INTO fixtures (id, status) VALUES ($1, $2), ($3, $4) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != int64(2) || args[3] != "NS" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, err := InsertModels[row]("fixtures", nil); err == nil {
		t.Fatalf("expected error for empty models")
	}
}
