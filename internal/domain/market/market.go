package market

import (
	"errors"
	"fmt"
	"strings"
)

// Market is a bettable outcome family with its own classifier.
type Market string

const (
	MatchResult      Market = "1x2"
	OverUnder        Market = "over_under"
	BothTeamsToScore Market = "btts"
)

var ErrUnknownMarket = errors.New("unknown market")

var all = []Market{MatchResult, OverUnder, BothTeamsToScore}

// All returns every supported market in canonical order.
func All() []Market {
	return append([]Market(nil), all...)
}

func (m Market) String() string {
	return string(m)
}

func (m Market) Valid() bool {
	switch m {
	case MatchResult, OverUnder, BothTeamsToScore:
		return true
	default:
		return false
	}
}

func Parse(raw string) (Market, error) {
	m := Market(strings.ToLower(strings.TrimSpace(raw)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMarket, raw)
	}
	return m, nil
}

// ParseList parses requested markets. An empty list selects every market and
// duplicates are collapsed keeping the first occurrence.
func ParseList(raw []string) ([]Market, error) {
	if len(raw) == 0 {
		return All(), nil
	}

	out := make([]Market, 0, len(raw))
	seen := make(map[Market]struct{}, len(raw))
	for _, item := range raw {
		m, err := Parse(item)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}

// Labels returns outcome labels in classifier class-index order.
func (m Market) Labels() []string {
	switch m {
	case MatchResult:
		return []string{"home_win", "draw", "away_win"}
	case OverUnder:
		return []string{"under_2_5", "over_2_5"}
	case BothTeamsToScore:
		return []string{"no", "yes"}
	default:
		return nil
	}
}

// TargetLabel is the training label column for the market.
func (m Market) TargetLabel() string {
	switch m {
	case MatchResult:
		return "outcome_encoded"
	case OverUnder:
		return "over_2_5"
	case BothTeamsToScore:
		return "btts"
	default:
		return ""
	}
}

// FeatureNames returns the default ordered feature list for the market.
// A loaded artifact's own list takes precedence at inference time.
func (m Market) FeatureNames() []string {
	switch m {
	case MatchResult:
		return append([]string(nil), matchResultFeatures...)
	case OverUnder, BothTeamsToScore:
		return append([]string(nil), goalFeatures...)
	default:
		return nil
	}
}
