package feature

import (
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// FormStats summarizes a team's results over a window of recent games.
type FormStats struct {
	Points           int
	Wins             int
	Draws            int
	Losses           int
	GoalsScored      int
	GoalsConceded    int
	GoalDiff         int
	CleanSheets      int
	FailedToScore    int
	GamesPlayed      int
	AvgPoints        float64
	AvgGoalsScored   float64
	AvgGoalsConceded float64
}

// ComputeForm aggregates the team's last n eligible games at either venue.
func ComputeForm(h *History, teamID int64, cutoff time.Time, n int) FormStats {
	return summarizeForm(teamID, h.TeamWindow(teamID, cutoff, n, VenueAny))
}

// ComputeVenueForm aggregates the team's last n eligible games played at venue.
func ComputeVenueForm(h *History, teamID int64, cutoff time.Time, n int, venue Venue) FormStats {
	return summarizeForm(teamID, h.TeamWindow(teamID, cutoff, n, venue))
}

func summarizeForm(teamID int64, games []fixture.Fixture) FormStats {
	var s FormStats
	for _, f := range games {
		scored := f.GoalsFor(teamID)
		conceded := f.GoalsAgainst(teamID)

		s.GoalsScored += scored
		s.GoalsConceded += conceded
		switch {
		case scored > conceded:
			s.Wins++
			s.Points += pointsWin
		case scored == conceded:
			s.Draws++
			s.Points += pointsDraw
		default:
			s.Losses++
		}
		if conceded == 0 {
			s.CleanSheets++
		}
		if scored == 0 {
			s.FailedToScore++
		}
	}

	s.GamesPlayed = len(games)
	s.GoalDiff = s.GoalsScored - s.GoalsConceded
	games64 := float64(s.GamesPlayed)
	s.AvgPoints = ratio(float64(s.Points), games64)
	s.AvgGoalsScored = ratio(float64(s.GoalsScored), games64)
	s.AvgGoalsConceded = ratio(float64(s.GoalsConceded), games64)
	return s
}

func (s FormStats) write(w *writer, prefix string) {
	w.put(prefix+"points", float64(s.Points))
	w.put(prefix+"wins", float64(s.Wins))
	w.put(prefix+"draws", float64(s.Draws))
	w.put(prefix+"losses", float64(s.Losses))
	w.put(prefix+"goals_scored", float64(s.GoalsScored))
	w.put(prefix+"goals_conceded", float64(s.GoalsConceded))
	w.put(prefix+"goal_diff", float64(s.GoalDiff))
	w.put(prefix+"clean_sheets", float64(s.CleanSheets))
	w.put(prefix+"failed_to_score", float64(s.FailedToScore))
	w.put(prefix+"games_played", float64(s.GamesPlayed))
	w.put(prefix+"avg_points", s.AvgPoints)
	w.put(prefix+"avg_goals_scored", s.AvgGoalsScored)
	w.put(prefix+"avg_goals_conceded", s.AvgGoalsConceded)
}

// writeVenue emits the reduced venue-restricted feature set.
func (s FormStats) writeVenue(w *writer, prefix string) {
	w.put(prefix+"points", float64(s.Points))
	w.put(prefix+"wins", float64(s.Wins))
	w.put(prefix+"goals_scored", float64(s.GoalsScored))
	w.put(prefix+"goals_conceded", float64(s.GoalsConceded))
	w.put(prefix+"games_played", float64(s.GamesPlayed))
	w.put(prefix+"avg_points", s.AvgPoints)
	w.put(prefix+"avg_goals_scored", s.AvgGoalsScored)
}
