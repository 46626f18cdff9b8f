package feature

import (
	"fmt"
	"time"
)

// Windows sets how many games each aggregator looks back over.
type Windows struct {
	Form           int
	VenueForm      int
	HeadToHead     int
	Goals          int
	VenueGoals     int
	HeadToHeadGoal int
}

func DefaultWindows() Windows {
	return Windows{
		Form:           5,
		VenueForm:      3,
		HeadToHead:     5,
		Goals:          10,
		VenueGoals:     5,
		HeadToHeadGoal: 5,
	}
}

// Target identifies the match a vector is built for. Scores are set only for
// played matches that should carry labels.
type Target struct {
	HomeTeamID int64
	AwayTeamID int64
	MatchDate  time.Time
	Season     int
	HomeScore  *int
	AwayScore  *int
}

// Labels returns training labels when both scores are known.
func (t Target) Labels() (Labels, bool) {
	if t.HomeScore == nil || t.AwayScore == nil {
		return Labels{}, false
	}
	return NewLabels(*t.HomeScore, *t.AwayScore), true
}

func (t Target) season() int {
	if t.Season > 0 {
		return t.Season
	}
	return SeasonForDate(t.MatchDate)
}

// Composer merges every aggregator into one market-agnostic vector.
type Composer struct {
	windows Windows
}

func NewComposer(windows Windows) *Composer {
	defaults := DefaultWindows()
	if windows.Form <= 0 {
		windows.Form = defaults.Form
	}
	if windows.VenueForm <= 0 {
		windows.VenueForm = defaults.VenueForm
	}
	if windows.HeadToHead <= 0 {
		windows.HeadToHead = defaults.HeadToHead
	}
	if windows.Goals <= 0 {
		windows.Goals = defaults.Goals
	}
	if windows.VenueGoals <= 0 {
		windows.VenueGoals = defaults.VenueGoals
	}
	if windows.HeadToHeadGoal <= 0 {
		windows.HeadToHeadGoal = defaults.HeadToHeadGoal
	}
	return &Composer{windows: windows}
}

func (c *Composer) Windows() Windows {
	return c.windows
}

// Compose builds the feature vector for target using only fixtures dated
// strictly before its match date.
func (c *Composer) Compose(h *History, target Target) (Vector, error) {
	if target.HomeTeamID == target.AwayTeamID {
		return Vector{}, fmt.Errorf("compose features: home and away team are both %d", target.HomeTeamID)
	}

	cutoff := target.MatchDate
	home, away := target.HomeTeamID, target.AwayTeamID
	win := c.windows

	v := NewVector(192)
	w := &writer{v: &v}

	homeForm := ComputeForm(h, home, cutoff, win.Form)
	awayForm := ComputeForm(h, away, cutoff, win.Form)
	homeForm.write(w, fmt.Sprintf("home_form_last_%d_", win.Form))
	awayForm.write(w, fmt.Sprintf("away_form_last_%d_", win.Form))

	ComputeVenueForm(h, home, cutoff, win.VenueForm, VenueHome).
		writeVenue(w, fmt.Sprintf("home_form_last_%d_", win.VenueForm))
	ComputeVenueForm(h, away, cutoff, win.VenueForm, VenueAway).
		writeVenue(w, fmt.Sprintf("away_form_last_%d_", win.VenueForm))

	w.put("form_points_diff", float64(homeForm.Points-awayForm.Points))
	w.put("form_goals_scored_diff", float64(homeForm.GoalsScored-awayForm.GoalsScored))
	w.put("form_goal_diff_diff", float64(homeForm.GoalDiff-awayForm.GoalDiff))

	ComputeHeadToHead(h, home, away, cutoff, win.HeadToHead).write(w)

	table := BuildStandings(h, target.season(), cutoff)
	writeStandings(w, table.RowOrDefault(home), table.RowOrDefault(away))

	homeGoals := ComputeGoalStats(h, home, cutoff, win.Goals, VenueAny)
	awayGoals := ComputeGoalStats(h, away, cutoff, win.Goals, VenueAny)
	homeGoals.write(w, "home_")
	awayGoals.write(w, "away_")

	ComputeGoalStats(h, home, cutoff, win.VenueGoals, VenueHome).writeVenue(w, "home_home_")
	ComputeGoalStats(h, away, cutoff, win.VenueGoals, VenueAway).writeVenue(w, "away_away_")

	ComputeHeadToHeadGoals(h, home, away, cutoff, win.HeadToHeadGoal).write(w)
	writeCombinedGoals(w, homeGoals, awayGoals)

	if w.err != nil {
		return Vector{}, fmt.Errorf("compose features: %w", w.err)
	}
	return v, nil
}
