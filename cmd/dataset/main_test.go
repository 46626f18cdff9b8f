package main

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/feature"
	"github.com/riskibarqy/match-predictor/internal/domain/market"
	"github.com/riskibarqy/match-predictor/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDatasetCSV(t *testing.T) {
	first := market.MatchResult.FeatureNames()[0]

	vector := feature.NewVector(1)
	require.NoError(t, vector.Set(first, 1.5))

	rows := []usecase.DatasetRow{{
		FixtureID:  7,
		MatchDate:  time.Date(2023, time.September, 2, 15, 0, 0, 0, time.UTC),
		Season:     2023,
		HomeTeamID: 10,
		AwayTeamID: 20,
		Features:   vector,
		Labels:     feature.NewLabels(2, 1),
	}}

	var buf bytes.Buffer
	require.NoError(t, writeDatasetCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	header, record := records[0], records[1]
	require.Len(t, record, len(header))
	assert.Equal(t, []string{"id", "match_date", "season", "home_team_id", "away_team_id"}, header[:5])
	assert.Equal(t, []string{"7", "2023-09-02T15:00:00Z", "2023", "10", "20"}, record[:5])

	byColumn := make(map[string]string, len(header))
	for i, name := range header {
		byColumn[name] = record[i]
	}
	assert.Equal(t, "1.5", byColumn[first])
	assert.Equal(t, "", byColumn[market.OverUnder.FeatureNames()[0]])
	assert.Equal(t, "0", byColumn["outcome_encoded"])
	assert.Equal(t, "1", byColumn["over_2_5"])
	assert.Equal(t, "1", byColumn["btts"])
	assert.Equal(t, "3", byColumn["total_goals"])
}

func TestDatasetHeaderHasNoDuplicates(t *testing.T) {
	seen := make(map[string]struct{})
	for _, name := range datasetHeader() {
		_, dup := seen[name]
		assert.False(t, dup, "duplicate column %s", name)
		seen[name] = struct{}{}
	}
}

func TestParseOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts, err := parseOptions(nil, []int{2022, 2023})
		require.NoError(t, err)
		assert.Equal(t, []int{2022, 2023}, opts.seasons)
		assert.Equal(t, "-", opts.output)
		assert.Zero(t, opts.minHistoryGames)
	})

	t.Run("flags", func(t *testing.T) {
		opts, err := parseOptions([]string{"-seasons", "2021, 2024", "-out", "data.csv", "-min-history", "5"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []int{2021, 2024}, opts.seasons)
		assert.Equal(t, "data.csv", opts.output)
		assert.Equal(t, 5, opts.minHistoryGames)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := parseOptions([]string{"-seasons", "x"}, nil)
		require.Error(t, err)

		_, err = parseOptions([]string{"-seasons", ""}, nil)
		require.Error(t, err)

		_, err = parseOptions([]string{"-min-history", "-1"}, []int{2023})
		require.Error(t, err)
	})
}
