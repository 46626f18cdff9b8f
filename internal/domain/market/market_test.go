package market

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList_DefaultsToAllMarkets(t *testing.T) {
	t.Parallel()

	got, err := ParseList(nil)
	require.NoError(t, err)
	assert.Equal(t, []Market{MatchResult, OverUnder, BothTeamsToScore}, got)
}

func TestParseList_CollapsesDuplicatesAndNormalizes(t *testing.T) {
	t.Parallel()

	got, err := ParseList([]string{" BTTS ", "1x2", "btts"})
	require.NoError(t, err)
	assert.Equal(t, []Market{BothTeamsToScore, MatchResult}, got)
}

func TestParseList_RejectsUnknownMarket(t *testing.T) {
	t.Parallel()

	_, err := ParseList([]string{"1x2", "asian_handicap"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownMarket))
	assert.Contains(t, err.Error(), "asian_handicap")
}

func TestLabelsAndTargets(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"home_win", "draw", "away_win"}, MatchResult.Labels())
	assert.Equal(t, []string{"under_2_5", "over_2_5"}, OverUnder.Labels())
	assert.Equal(t, []string{"no", "yes"}, BothTeamsToScore.Labels())
	assert.Equal(t, "outcome_encoded", MatchResult.TargetLabel())
	assert.Equal(t, "over_2_5", OverUnder.TargetLabel())
	assert.Equal(t, "btts", BothTeamsToScore.TargetLabel())
}

func TestFeatureNames_UniqueAndDefensiveCopy(t *testing.T) {
	t.Parallel()

	for _, m := range All() {
		names := m.FeatureNames()
		require.NotEmpty(t, names, m)

		seen := make(map[string]struct{}, len(names))
		for _, name := range names {
			_, dup := seen[name]
			assert.Falsef(t, dup, "duplicate feature %q in %s", name, m)
			seen[name] = struct{}{}
		}

		names[0] = "mutated"
		assert.NotEqual(t, "mutated", m.FeatureNames()[0])
	}
}
