package feature

import (
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
)

// GoalStats describes scoring patterns over a team's recent games.
type GoalStats struct {
	GamesAnalyzed    int
	GoalsScoredAvg   float64
	GoalsConcededAvg float64
	TotalGoalsAvg    float64
	Over15Pct        float64
	Over25Pct        float64
	Over35Pct        float64
	BTTSPct          float64
	CleanSheetPct    float64
	FailedToScorePct float64
}

// ComputeGoalStats aggregates goal patterns over the team's last n eligible
// games. A venue other than VenueAny restricts the window to that side.
func ComputeGoalStats(h *History, teamID int64, cutoff time.Time, n int, venue Venue) GoalStats {
	games := h.TeamWindow(teamID, cutoff, n, venue)

	var s GoalStats
	var scored, conceded, over15, over25, over35, btts, cleanSheets, failedToScore int
	for _, f := range games {
		teamGoals := f.GoalsFor(teamID)
		opponentGoals := f.GoalsAgainst(teamID)
		total := teamGoals + opponentGoals

		scored += teamGoals
		conceded += opponentGoals
		if total > 1 {
			over15++
		}
		if total > 2 {
			over25++
		}
		if total > 3 {
			over35++
		}
		if teamGoals > 0 && opponentGoals > 0 {
			btts++
		}
		if opponentGoals == 0 {
			cleanSheets++
		}
		if teamGoals == 0 {
			failedToScore++
		}
	}

	s.GamesAnalyzed = len(games)
	n64 := float64(s.GamesAnalyzed)
	s.GoalsScoredAvg = ratio(float64(scored), n64)
	s.GoalsConcededAvg = ratio(float64(conceded), n64)
	s.TotalGoalsAvg = ratio(float64(scored+conceded), n64)
	s.Over15Pct = ratio(float64(over15), n64)
	s.Over25Pct = ratio(float64(over25), n64)
	s.Over35Pct = ratio(float64(over35), n64)
	s.BTTSPct = ratio(float64(btts), n64)
	s.CleanSheetPct = ratio(float64(cleanSheets), n64)
	s.FailedToScorePct = ratio(float64(failedToScore), n64)
	return s
}

func (s GoalStats) write(w *writer, prefix string) {
	w.put(prefix+"goals_scored_avg", s.GoalsScoredAvg)
	w.put(prefix+"goals_conceded_avg", s.GoalsConcededAvg)
	w.put(prefix+"total_goals_avg", s.TotalGoalsAvg)
	w.put(prefix+"over_2_5_pct", s.Over25Pct)
	w.put(prefix+"over_1_5_pct", s.Over15Pct)
	w.put(prefix+"over_3_5_pct", s.Over35Pct)
	w.put(prefix+"btts_pct", s.BTTSPct)
	w.put(prefix+"clean_sheet_pct", s.CleanSheetPct)
	w.put(prefix+"failed_to_score_pct", s.FailedToScorePct)
	w.put(prefix+"games_analyzed", float64(s.GamesAnalyzed))
}

// writeVenue emits the narrower venue-only set. Over 1.5 and 3.5 rates are
// not tracked per venue.
func (s GoalStats) writeVenue(w *writer, prefix string) {
	w.put(prefix+"goals_scored_avg", s.GoalsScoredAvg)
	w.put(prefix+"goals_conceded_avg", s.GoalsConcededAvg)
	w.put(prefix+"total_goals_avg", s.TotalGoalsAvg)
	w.put(prefix+"over_2_5_pct", s.Over25Pct)
	w.put(prefix+"btts_pct", s.BTTSPct)
	w.put(prefix+"clean_sheet_pct", s.CleanSheetPct)
	w.put(prefix+"failed_to_score_pct", s.FailedToScorePct)
}

// HeadToHeadGoalStats describes scoring in prior meetings. Team goal
// averages are attributed to the current home and away team.
type HeadToHeadGoalStats struct {
	GamesPlayed     int
	TotalGoalsAvg   float64
	Over25Pct       float64
	BTTSPct         float64
	HomeTeamGoalAvg float64
	AwayTeamGoalAvg float64
}

func ComputeHeadToHeadGoals(h *History, homeID, awayID int64, cutoff time.Time, n int) HeadToHeadGoalStats {
	meetings := h.MeetingWindow(homeID, awayID, cutoff, n)

	var homeGoals, awayGoals, over25, btts int
	for _, f := range meetings {
		homeGoals += f.GoalsFor(homeID)
		awayGoals += f.GoalsFor(awayID)
		if f.TotalGoals() > 2 {
			over25++
		}
		if bothScored(f) {
			btts++
		}
	}

	games := float64(len(meetings))
	return HeadToHeadGoalStats{
		GamesPlayed:     len(meetings),
		TotalGoalsAvg:   ratio(float64(homeGoals+awayGoals), games),
		Over25Pct:       ratio(float64(over25), games),
		BTTSPct:         ratio(float64(btts), games),
		HomeTeamGoalAvg: ratio(float64(homeGoals), games),
		AwayTeamGoalAvg: ratio(float64(awayGoals), games),
	}
}

func (s HeadToHeadGoalStats) write(w *writer) {
	w.put("h2h_total_goals_avg", s.TotalGoalsAvg)
	w.put("h2h_over_2_5_pct", s.Over25Pct)
	w.put("h2h_btts_pct", s.BTTSPct)
	w.put("h2h_home_team_goals_avg", s.HomeTeamGoalAvg)
	w.put("h2h_away_team_goals_avg", s.AwayTeamGoalAvg)
}

func bothScored(f fixture.Fixture) bool {
	return *f.HomeScore > 0 && *f.AwayScore > 0
}

// writeCombinedGoals derives match-level indicators from both teams' overall
// goal stats.
func writeCombinedGoals(w *writer, home, away GoalStats) {
	w.put("combined_goals_avg", home.GoalsScoredAvg+away.GoalsScoredAvg)
	w.put("combined_conceded_avg", home.GoalsConcededAvg+away.GoalsConcededAvg)
	w.put("combined_total_goals_avg", home.TotalGoalsAvg+away.TotalGoalsAvg)
	w.put("expected_total_goals",
		(home.GoalsScoredAvg+away.GoalsConcededAvg+away.GoalsScoredAvg+home.GoalsConcededAvg)/2)
	w.put("both_over_2_5_pct", (home.Over25Pct+away.Over25Pct)/2)
	w.put("both_btts_pct", (home.BTTSPct+away.BTTSPct)/2)
	w.put("btts_potential",
		((1-home.CleanSheetPct)*(1-away.FailedToScorePct)+(1-away.CleanSheetPct)*(1-home.FailedToScorePct))/2)
}
