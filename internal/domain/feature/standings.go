package feature

import (
	"sort"
	"time"
)

// DefaultPosition is the mid-table rank used for teams without games yet.
const DefaultPosition = 10

// StandingsRow is one team's league record as of a cutoff date.
type StandingsRow struct {
	TeamID         int64
	Rank           int
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

// StandingsTable is a ranked league table reconstructed from fixtures.
type StandingsTable struct {
	rows   []StandingsRow
	byTeam map[int64]int
}

// BuildStandings replays every eligible fixture of season before cutoff.
// Teams are ranked by points, goal difference and goals scored (all
// descending), with team id ascending as the final tie-break.
func BuildStandings(h *History, season int, cutoff time.Time) StandingsTable {
	byTeam := make(map[int64]*StandingsRow)
	row := func(teamID int64) *StandingsRow {
		r, ok := byTeam[teamID]
		if !ok {
			r = &StandingsRow{TeamID: teamID}
			byTeam[teamID] = r
		}
		return r
	}

	for _, f := range h.SeasonBefore(season, cutoff) {
		home := row(f.HomeTeamID)
		away := row(f.AwayTeamID)
		homeGoals, awayGoals := *f.HomeScore, *f.AwayScore

		home.record(homeGoals, awayGoals)
		away.record(awayGoals, homeGoals)
	}

	rows := make([]StandingsRow, 0, len(byTeam))
	for _, r := range byTeam {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})

	index := make(map[int64]int, len(rows))
	for i := range rows {
		rows[i].Rank = i + 1
		index[rows[i].TeamID] = i
	}

	return StandingsTable{rows: rows, byTeam: index}
}

func (r *StandingsRow) record(scored, conceded int) {
	r.Played++
	r.GoalsFor += scored
	r.GoalsAgainst += conceded
	r.GoalDifference += scored - conceded
	switch {
	case scored > conceded:
		r.Won++
		r.Points += pointsWin
	case scored == conceded:
		r.Drawn++
		r.Points += pointsDraw
	default:
		r.Lost++
	}
}

// Rows returns the table in rank order.
func (t StandingsTable) Rows() []StandingsRow {
	return append([]StandingsRow(nil), t.rows...)
}

func (t StandingsTable) Row(teamID int64) (StandingsRow, bool) {
	i, ok := t.byTeam[teamID]
	if !ok {
		return StandingsRow{}, false
	}
	return t.rows[i], true
}

// RowOrDefault returns the team's row, or a zeroed row at DefaultPosition.
func (t StandingsTable) RowOrDefault(teamID int64) StandingsRow {
	if r, ok := t.Row(teamID); ok {
		return r
	}
	return StandingsRow{TeamID: teamID, Rank: DefaultPosition}
}

// divisor is games played, floored at one so per-game metrics read as raw
// totals for teams without games.
func (r StandingsRow) divisor() float64 {
	if r.Played > 0 {
		return float64(r.Played)
	}
	return 1
}

func (r StandingsRow) PointsPerGame() float64 {
	return float64(r.Points) / r.divisor()
}

func (r StandingsRow) AvgGoalsScored() float64 {
	return float64(r.GoalsFor) / r.divisor()
}

func (r StandingsRow) AvgGoalsConceded() float64 {
	return float64(r.GoalsAgainst) / r.divisor()
}

func (r StandingsRow) WinPct() float64 {
	return float64(r.Won) / r.divisor()
}

func writeStandings(w *writer, home, away StandingsRow) {
	w.put("home_position", float64(home.Rank))
	w.put("away_position", float64(away.Rank))
	w.put("position_diff", float64(home.Rank-away.Rank))

	w.put("home_points", float64(home.Points))
	w.put("away_points", float64(away.Points))
	w.put("points_diff", float64(home.Points-away.Points))

	w.put("home_ppg", home.PointsPerGame())
	w.put("away_ppg", away.PointsPerGame())
	w.put("ppg_diff", home.PointsPerGame()-away.PointsPerGame())

	w.put("home_season_goals_for", float64(home.GoalsFor))
	w.put("away_season_goals_for", float64(away.GoalsFor))
	w.put("home_season_goals_against", float64(home.GoalsAgainst))
	w.put("away_season_goals_against", float64(away.GoalsAgainst))

	w.put("home_avg_goals_scored", home.AvgGoalsScored())
	w.put("away_avg_goals_scored", away.AvgGoalsScored())
	w.put("home_avg_goals_conceded", home.AvgGoalsConceded())
	w.put("away_avg_goals_conceded", away.AvgGoalsConceded())

	w.put("home_goal_diff", float64(home.GoalDifference))
	w.put("away_goal_diff", float64(away.GoalDifference))
	w.put("goal_diff_diff", float64(home.GoalDifference-away.GoalDifference))

	w.put("home_games_played", float64(home.Played))
	w.put("away_games_played", float64(away.Played))

	w.put("home_win_pct", home.WinPct())
	w.put("away_win_pct", away.WinPct())
}
