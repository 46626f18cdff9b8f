package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID         int64         `db:"id"`
	Season     int           `db:"season"`
	LeagueID   sql.NullInt64 `db:"league_id"`
	Round      string        `db:"round"`
	Venue      string        `db:"venue"`
	HomeTeamID int64         `db:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id"`
	MatchDate  time.Time     `db:"match_date"`
	HomeScore  sql.NullInt64 `db:"home_score"`
	AwayScore  sql.NullInt64 `db:"away_score"`
	Status     string        `db:"status"`
}

func fixtureColumns() []string {
	return []string{
		"id",
		"season",
		"league_id",
		"COALESCE(round, '') AS round",
		"COALESCE(venue, '') AS venue",
		"home_team_id",
		"away_team_id",
		"match_date",
		"home_score",
		"away_score",
		"status",
	}
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:         m.ID,
		Season:     m.Season,
		LeagueID:   nullInt64ToInt64(m.LeagueID),
		Round:      m.Round,
		Venue:      m.Venue,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		MatchDate:  m.MatchDate.UTC(),
		HomeScore:  nullInt64ToIntPtr(m.HomeScore),
		AwayScore:  nullInt64ToIntPtr(m.AwayScore),
		Status:     fixture.NormalizeStatus(m.Status),
	}
}

func fromDomain(f fixture.Fixture) fixtureTableModel {
	return fixtureTableModel{
		ID:         f.ID,
		Season:     f.Season,
		LeagueID:   sql.NullInt64{Int64: f.LeagueID, Valid: f.LeagueID > 0},
		Round:      f.Round,
		Venue:      f.Venue,
		HomeTeamID: f.HomeTeamID,
		AwayTeamID: f.AwayTeamID,
		MatchDate:  f.MatchDate.UTC(),
		HomeScore:  intPtrToNullInt64(f.HomeScore),
		AwayScore:  intPtrToNullInt64(f.AwayScore),
		Status:     fixture.NormalizeStatus(f.Status),
	}
}
