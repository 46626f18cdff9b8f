package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/domain/market"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/artifactstore"
	cacherepo "github.com/riskibarqy/match-predictor/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:              config.EnvDev,
		HTTPAddr:            ":0",
		ReadTimeout:         time.Second,
		WriteTimeout:        time.Second,
		CORSAllowedOrigins:  []string{"*"},
		HistorySource:       config.HistorySourceMemory,
		HistorySeasons:      []int{2023},
		HistoryFetchTimeout: time.Second,
		CacheEnabled:        true,
		CacheTTL:            time.Minute,
		ModelBackend:        config.ModelBackendFile,
		ModelDir:            t.TempDir(),
		ModelFilePattern:    artifactstore.DefaultFilePattern,
		ModelLoadTimeout:    time.Second,
		ModelPreload:        true,
		BatchMaxItems:       10,
		BatchWorkers:        2,
	}
}

func TestNewHistory_MemoryWithCache(t *testing.T) {
	history, err := NewHistory(context.Background(), memoryConfig(t), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, history.Close()) })

	_, cached := history.Repository.(*cacherepo.FixtureRepository)
	assert.True(t, cached)

	items, err := history.Repository.ListCompletedBySeasons(context.Background(), []int{2023})
	require.NoError(t, err)
	assert.Len(t, items, len(memory.SeedFixtures(2023)))
}

func TestNewHistory_MemoryWithoutCache(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.CacheEnabled = false

	history, err := NewHistory(context.Background(), cfg, nil)
	require.NoError(t, err)

	_, isMemory := history.Repository.(*memory.FixtureRepository)
	assert.True(t, isMemory)
	assert.NotPanics(t, func() { history.Invalidate(context.Background()) })
}

func TestNewHistory_SeedFileErrors(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.HistorySeedPath = filepath.Join(t.TempDir(), "missing.json")

	_, err := NewHistory(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNewHistory_SeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	payload := `[
		{"id": 1, "home_team_id": 10, "away_team_id": 20, "match_date": "2023-09-02", "home_score": 2, "away_score": 1, "status": "FT"},
		{"id": 2, "home_team_id": 20, "away_team_id": 10, "match_date": "2023-09-09", "status": "NS"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	cfg := memoryConfig(t)
	cfg.HistorySeedPath = path

	history, err := NewHistory(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	items, err := history.Repository.ListCompletedBySeasons(context.Background(), []int{2023})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
}

func TestNewArtifactStore_File(t *testing.T) {
	cfg := memoryConfig(t)

	store, err := newArtifactStore(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.ModelDir, "btts_model.json"), store.Location(market.BothTeamsToScore))
}

func TestNew_ServesWithoutModels(t *testing.T) {
	cfg := memoryConfig(t)

	a, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close()) })

	a.WarmUp(context.Background())
	assert.Empty(t, a.Predictions.LoadedMarkets())

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_RequiresAddr(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.HTTPAddr = ""

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}
