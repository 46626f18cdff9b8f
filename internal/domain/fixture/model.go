package fixture

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
)

// Fixture is one historical or upcoming match between two teams.
type Fixture struct {
	ID         int64
	Season     int
	LeagueID   int64
	Round      string
	Venue      string
	HomeTeamID int64
	AwayTeamID int64
	MatchDate  time.Time
	HomeScore  *int
	AwayScore  *int
	Status     string
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusLive, "IN_PLAY", "HT", "1H", "2H", "ET":
		return true
	default:
		return false
	}
}

var finishedStatuses = []string{StatusFinished, "FT", "AET", "PEN", "MATCH FINISHED"}

// FinishedStatuses lists the normalized statuses of a completed match.
func FinishedStatuses() []string {
	return append([]string(nil), finishedStatuses...)
}

func IsFinishedStatus(status string) bool {
	normalized := NormalizeStatus(status)
	for _, finished := range finishedStatuses {
		if normalized == finished {
			return true
		}
	}
	return false
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "ABANDONED":
		return true
	default:
		return false
	}
}

// HasFinalScore reports whether both scores are known.
func (f Fixture) HasFinalScore() bool {
	return f.HomeScore != nil && f.AwayScore != nil
}

// IsCompleted reports whether the fixture can be used as history at all.
func (f Fixture) IsCompleted() bool {
	return IsFinishedStatus(f.Status) && f.HasFinalScore()
}

// IsEligibleBefore reports whether the fixture was completed strictly before cutoff.
func (f Fixture) IsEligibleBefore(cutoff time.Time) bool {
	return f.IsCompleted() && f.MatchDate.Before(cutoff)
}

func (f Fixture) Involves(teamID int64) bool {
	return f.HomeTeamID == teamID || f.AwayTeamID == teamID
}

// GoalsFor returns goals scored by teamID. Callers must check HasFinalScore first.
func (f Fixture) GoalsFor(teamID int64) int {
	if teamID == f.HomeTeamID {
		return *f.HomeScore
	}
	return *f.AwayScore
}

// GoalsAgainst returns goals conceded by teamID. Callers must check HasFinalScore first.
func (f Fixture) GoalsAgainst(teamID int64) int {
	if teamID == f.HomeTeamID {
		return *f.AwayScore
	}
	return *f.HomeScore
}

func (f Fixture) TotalGoals() int {
	if !f.HasFinalScore() {
		return 0
	}
	return *f.HomeScore + *f.AwayScore
}
