package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtureRepository_ListCompletedBySeasons(t *testing.T) {
	t.Parallel()

	score := func(v int) *int { return &v }
	base := time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC)
	repo := NewFixtureRepository([]fixture.Fixture{
		{ID: 3, Season: 2023, MatchDate: base.AddDate(0, 0, 2), HomeScore: score(1), AwayScore: score(0), Status: "FT"},
		{ID: 1, Season: 2023, MatchDate: base, HomeScore: score(2), AwayScore: score(2), Status: "FT"},
		{ID: 2, Season: 2023, MatchDate: base.AddDate(0, 0, 1), Status: "NS"},
		{ID: 4, Season: 2022, MatchDate: base.AddDate(-1, 0, 0), HomeScore: score(0), AwayScore: score(1), Status: "AET"},
	})

	got, err := repo.ListCompletedBySeasons(context.Background(), []int{2023, 2022, 2023})
	require.NoError(t, err)

	ids := make([]int64, 0, len(got))
	for _, item := range got {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []int64{4, 1, 3}, ids)

	none, err := repo.ListCompletedBySeasons(context.Background(), []int{2019})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLoadSeedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": 1, "home_team_id": 10, "away_team_id": 20, "match_date": "2024-02-10", "home_score": 2, "away_score": 1, "status": "ft"},
		{"id": 2, "season": 2024, "home_team_id": 20, "away_team_id": 10, "match_date": "2024-09-01T18:30:00Z", "status": "NS"}
	]`), 0o600))

	got, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 2023, got[0].Season)
	assert.Equal(t, "FT", got[0].Status)
	require.NotNil(t, got[0].HomeScore)
	assert.Equal(t, 2, *got[0].HomeScore)
	assert.True(t, got[0].IsCompleted())

	assert.Equal(t, 2024, got[1].Season)
	assert.Nil(t, got[1].HomeScore)
	assert.Equal(t, time.Date(2024, time.September, 1, 18, 30, 0, 0, time.UTC), got[1].MatchDate)
}

func TestLoadSeedFile_RejectsBadDate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 1, "home_team_id": 1, "away_team_id": 2, "match_date": "10/02/2024"}]`), 0o600))

	_, err := LoadSeedFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10/02/2024")
}

func TestSeedFixtures_DoubleRoundRobin(t *testing.T) {
	t.Parallel()

	got := SeedFixtures(2023, 2024)
	require.Len(t, got, 60)

	ids := make(map[int64]struct{}, len(got))
	for _, item := range got {
		assert.True(t, item.IsCompleted())
		assert.NotEqual(t, item.HomeTeamID, item.AwayTeamID)
		ids[item.ID] = struct{}{}
	}
	assert.Len(t, ids, 60)
	assert.Equal(t, 2024, got[59].Season)
}
