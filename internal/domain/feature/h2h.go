package feature

import "time"

// HeadToHeadStats describes prior meetings from the current home team's side.
type HeadToHeadStats struct {
	GamesPlayed      int
	HomeWins         int
	AwayWins         int
	Draws            int
	HomeGoalsScored  int
	AwayGoalsScored  int
	HomeAsHomeWins   int
	HomeAsHomeGames  int
	HomeWinPct       float64
	AwayWinPct       float64
	DrawPct          float64
	AvgTotalGoals    float64
	AvgHomeGoals     float64
	AvgAwayGoals     float64
	HomeAsHomeWinPct float64
}

// ComputeHeadToHead aggregates the last n meetings between homeID and awayID.
// Results are attributed to homeID regardless of where each meeting was played.
func ComputeHeadToHead(h *History, homeID, awayID int64, cutoff time.Time, n int) HeadToHeadStats {
	var s HeadToHeadStats
	for _, f := range h.MeetingWindow(homeID, awayID, cutoff, n) {
		homeGoals := f.GoalsFor(homeID)
		awayGoals := f.GoalsFor(awayID)
		hostedByHome := f.HomeTeamID == homeID

		s.HomeGoalsScored += homeGoals
		s.AwayGoalsScored += awayGoals
		if hostedByHome {
			s.HomeAsHomeGames++
		}
		switch {
		case homeGoals > awayGoals:
			s.HomeWins++
			if hostedByHome {
				s.HomeAsHomeWins++
			}
		case homeGoals < awayGoals:
			s.AwayWins++
		default:
			s.Draws++
		}
		s.GamesPlayed++
	}

	games := float64(s.GamesPlayed)
	s.HomeWinPct = ratio(float64(s.HomeWins), games)
	s.AwayWinPct = ratio(float64(s.AwayWins), games)
	s.DrawPct = ratio(float64(s.Draws), games)
	s.AvgTotalGoals = ratio(float64(s.HomeGoalsScored+s.AwayGoalsScored), games)
	s.AvgHomeGoals = ratio(float64(s.HomeGoalsScored), games)
	s.AvgAwayGoals = ratio(float64(s.AwayGoalsScored), games)
	s.HomeAsHomeWinPct = ratio(float64(s.HomeAsHomeWins), float64(s.HomeAsHomeGames))
	return s
}

func (s HeadToHeadStats) GoalDiff() int {
	return s.HomeGoalsScored - s.AwayGoalsScored
}

func (s HeadToHeadStats) write(w *writer) {
	w.put("h2h_games_played", float64(s.GamesPlayed))
	w.put("h2h_home_wins", float64(s.HomeWins))
	w.put("h2h_away_wins", float64(s.AwayWins))
	w.put("h2h_draws", float64(s.Draws))
	w.put("h2h_home_goals_scored", float64(s.HomeGoalsScored))
	w.put("h2h_away_goals_scored", float64(s.AwayGoalsScored))
	w.put("h2h_goal_diff", float64(s.GoalDiff()))
	w.put("h2h_home_win_pct", s.HomeWinPct)
	w.put("h2h_away_win_pct", s.AwayWinPct)
	w.put("h2h_draw_pct", s.DrawPct)
	w.put("h2h_avg_total_goals", s.AvgTotalGoals)
	w.put("h2h_avg_home_goals", s.AvgHomeGoals)
	w.put("h2h_avg_away_goals", s.AvgAwayGoals)
	w.put("h2h_home_as_home_wins", float64(s.HomeAsHomeWins))
	w.put("h2h_home_as_home_games", float64(s.HomeAsHomeGames))
	w.put("h2h_home_as_home_win_pct", s.HomeAsHomeWinPct)
}
