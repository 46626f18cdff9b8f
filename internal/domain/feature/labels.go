package feature

// Outcome encodings used as the 1x2 training target.
const (
	OutcomeHomeWin = 0
	OutcomeDraw    = 1
	OutcomeAwayWin = 2
)

// Labels are the supervised targets derived from a final score.
type Labels struct {
	OutcomeEncoded int
	Over15         int
	Over25         int
	Over35         int
	BTTS           int
	HomeScore      int
	AwayScore      int
	TotalGoals     int
}

// NewLabels derives every market target from a final score.
func NewLabels(homeScore, awayScore int) Labels {
	total := homeScore + awayScore
	l := Labels{
		OutcomeEncoded: OutcomeDraw,
		Over15:         boolToInt(total > 1),
		Over25:         boolToInt(total > 2),
		Over35:         boolToInt(total > 3),
		BTTS:           boolToInt(homeScore > 0 && awayScore > 0),
		HomeScore:      homeScore,
		AwayScore:      awayScore,
		TotalGoals:     total,
	}
	switch {
	case homeScore > awayScore:
		l.OutcomeEncoded = OutcomeHomeWin
	case homeScore < awayScore:
		l.OutcomeEncoded = OutcomeAwayWin
	}
	return l
}

// Value returns the label stored under a training target column name.
func (l Labels) Value(column string) (int, bool) {
	switch column {
	case "outcome_encoded":
		return l.OutcomeEncoded, true
	case "over_1_5":
		return l.Over15, true
	case "over_2_5":
		return l.Over25, true
	case "over_3_5":
		return l.Over35, true
	case "btts":
		return l.BTTS, true
	case "home_score":
		return l.HomeScore, true
	case "away_score":
		return l.AwayScore, true
	case "total_goals":
		return l.TotalGoals, true
	default:
		return 0, false
	}
}

// LabelColumns lists label column names in export order.
func LabelColumns() []string {
	return []string{
		"outcome_encoded", "over_1_5", "over_2_5", "over_3_5", "btts",
		"home_score", "away_score", "total_goals",
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
