package feature

import (
	"sort"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
)

// Venue restricts a team window to one side of the pitch.
type Venue int

const (
	VenueAny Venue = iota
	VenueHome
	VenueAway
)

// History is a read-only, chronologically ordered view over completed
// fixtures. All window queries exclude fixtures dated at or after the cutoff.
type History struct {
	fixtures []fixture.Fixture
}

// NewHistory copies the completed fixtures out of items and orders them by
// match date, then id.
func NewHistory(items []fixture.Fixture) *History {
	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if !item.IsCompleted() {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MatchDate.Equal(out[j].MatchDate) {
			return out[i].MatchDate.Before(out[j].MatchDate)
		}
		return out[i].ID < out[j].ID
	})

	return &History{fixtures: out}
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.fixtures)
}

// Fixtures returns a copy of every completed fixture in date order.
func (h *History) Fixtures() []fixture.Fixture {
	if h == nil {
		return nil
	}
	return append([]fixture.Fixture(nil), h.fixtures...)
}

// TeamWindow returns up to n of the team's most recent eligible fixtures
// before cutoff, newest first.
func (h *History) TeamWindow(teamID int64, cutoff time.Time, n int, venue Venue) []fixture.Fixture {
	return h.window(cutoff, n, func(f fixture.Fixture) bool {
		switch venue {
		case VenueHome:
			return f.HomeTeamID == teamID
		case VenueAway:
			return f.AwayTeamID == teamID
		default:
			return f.Involves(teamID)
		}
	})
}

// MeetingWindow returns up to n of the most recent eligible meetings between
// two teams in either venue order, newest first.
func (h *History) MeetingWindow(teamA, teamB int64, cutoff time.Time, n int) []fixture.Fixture {
	return h.window(cutoff, n, func(f fixture.Fixture) bool {
		return (f.HomeTeamID == teamA && f.AwayTeamID == teamB) ||
			(f.HomeTeamID == teamB && f.AwayTeamID == teamA)
	})
}

// SeasonBefore returns every eligible fixture of season before cutoff, oldest first.
func (h *History) SeasonBefore(season int, cutoff time.Time) []fixture.Fixture {
	if h == nil {
		return nil
	}

	end := h.cutoffIndex(cutoff)
	out := make([]fixture.Fixture, 0, end)
	for _, f := range h.fixtures[:end] {
		if f.Season != season || !f.IsEligibleBefore(cutoff) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (h *History) window(cutoff time.Time, n int, match func(fixture.Fixture) bool) []fixture.Fixture {
	if h == nil || n <= 0 {
		return nil
	}

	out := make([]fixture.Fixture, 0, n)
	for i := h.cutoffIndex(cutoff) - 1; i >= 0 && len(out) < n; i-- {
		f := h.fixtures[i]
		if !f.IsEligibleBefore(cutoff) || !match(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// cutoffIndex is the index of the first fixture dated at or after cutoff.
func (h *History) cutoffIndex(cutoff time.Time) int {
	return sort.Search(len(h.fixtures), func(i int) bool {
		return !h.fixtures[i].MatchDate.Before(cutoff)
	})
}

// SeasonForDate maps a match date to its season start year. Seasons roll over
// in August.
func SeasonForDate(t time.Time) int {
	if t.Month() >= time.August {
		return t.Year()
	}
	return t.Year() - 1
}
