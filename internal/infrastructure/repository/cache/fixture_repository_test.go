package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	fixturemock "github.com/riskibarqy/match-predictor/internal/mocks/domain/fixture"
	basecache "github.com/riskibarqy/match-predictor/internal/platform/cache"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleFixtures() []fixture.Fixture {
	home, away := 2, 1
	return []fixture.Fixture{
		{
			ID:         101,
			Season:     2023,
			HomeTeamID: 1,
			AwayTeamID: 2,
			MatchDate:  time.Date(2023, 9, 2, 15, 0, 0, 0, time.UTC),
			HomeScore:  &home,
			AwayScore:  &away,
			Status:     "FT",
		},
	}
}

func TestFixtureRepository_LoadsOncePerSeasonSet(t *testing.T) {
	t.Parallel()

	next := fixturemock.NewRepository(t)
	next.On("ListCompletedBySeasons", mock.Anything, []int{2023, 2022}).
		Return(sampleFixtures(), nil).
		Once()

	repo := NewFixtureRepository(next, basecache.NewStore[[]fixture.Fixture](time.Minute))

	first, err := repo.ListCompletedBySeasons(context.Background(), []int{2023, 2022})
	require.NoError(t, err)
	second, err := repo.ListCompletedBySeasons(context.Background(), []int{2022, 2023, 2023})
	require.NoError(t, err)

	assert.Equal(t, first, second)

	first[0].ID = 999
	third, err := repo.ListCompletedBySeasons(context.Background(), []int{2022, 2023})
	require.NoError(t, err)
	assert.Equal(t, int64(101), third[0].ID, "callers must not share the cached slice")
}

func TestFixtureRepository_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	next := fixturemock.NewRepository(t)
	next.On("ListCompletedBySeasons", mock.Anything, []int{2024}).
		Return(nil, errors.New("connection refused")).
		Once()
	next.On("ListCompletedBySeasons", mock.Anything, []int{2024}).
		Return(sampleFixtures(), nil).
		Once()

	repo := NewFixtureRepository(next, basecache.NewStore[[]fixture.Fixture](time.Minute))

	_, err := repo.ListCompletedBySeasons(context.Background(), []int{2024})
	require.Error(t, err)

	items, err := repo.ListCompletedBySeasons(context.Background(), []int{2024})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFixtureRepository_InvalidateForcesReload(t *testing.T) {
	t.Parallel()

	next := fixturemock.NewRepository(t)
	next.On("ListCompletedBySeasons", mock.Anything, []int{2023}).
		Return(sampleFixtures(), nil).
		Twice()

	repo := NewFixtureRepository(next, basecache.NewStore[[]fixture.Fixture](time.Minute))

	_, err := repo.ListCompletedBySeasons(context.Background(), []int{2023})
	require.NoError(t, err)
	repo.Invalidate(context.Background())
	_, err = repo.ListCompletedBySeasons(context.Background(), []int{2023})
	require.NoError(t, err)
}

func TestSeasonsKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fixtures:seasons:2022,2023,2024", seasonsKey([]int{2024, 2022, 2023, 2022}))
	assert.Equal(t, "fixtures:seasons:", seasonsKey(nil))
}

type stubRedis struct {
	mu      sync.Mutex
	values  map[string]string
	getErr  error
	setErr  error
	setKeys []string
}

func newStubRedis() *stubRedis {
	return &stubRedis{values: make(map[string]string)}
}

func (s *stubRedis) Get(_ context.Context, key string) *redis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return redis.NewStringResult("", s.getErr)
	}
	value, ok := s.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (s *stubRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setKeys = append(s.setKeys, key)
	if s.setErr != nil {
		return redis.NewStatusResult("", s.setErr)
	}
	switch v := value.(type) {
	case []byte:
		s.values[key] = string(v)
	case string:
		s.values[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func TestRedisFixtureRepository_MissThenHit(t *testing.T) {
	t.Parallel()

	next := fixturemock.NewRepository(t)
	next.On("ListCompletedBySeasons", mock.Anything, []int{2023}).
		Return(sampleFixtures(), nil).
		Once()

	rdb := newStubRedis()
	repo := newRedisFixtureRepository(next, rdb, time.Minute, logging.NewNop())

	first, err := repo.ListCompletedBySeasons(context.Background(), []int{2023})
	require.NoError(t, err)
	require.Equal(t, []string{"fixtures:seasons:2023"}, rdb.setKeys)

	second, err := repo.ListCompletedBySeasons(context.Background(), []int{2023})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 2, *second[0].HomeScore)
	assert.Equal(t, 1, *second[0].AwayScore)
	assert.True(t, first[0].MatchDate.Equal(second[0].MatchDate))
}

func TestRedisFixtureRepository_FallsThroughOnRedisErrors(t *testing.T) {
	t.Parallel()

	next := fixturemock.NewRepository(t)
	next.On("ListCompletedBySeasons", mock.Anything, []int{2023}).
		Return(sampleFixtures(), nil).
		Twice()

	rdb := newStubRedis()
	rdb.getErr = errors.New("dial tcp: connection refused")
	rdb.setErr = errors.New("dial tcp: connection refused")
	repo := newRedisFixtureRepository(next, rdb, time.Minute, logging.NewNop())

	for i := 0; i < 2; i++ {
		items, err := repo.ListCompletedBySeasons(context.Background(), []int{2023})
		require.NoError(t, err)
		assert.Len(t, items, 1)
	}
}

func TestRedisFixtureRepository_DiscardsCorruptPayload(t *testing.T) {
	t.Parallel()

	next := fixturemock.NewRepository(t)
	next.On("ListCompletedBySeasons", mock.Anything, []int{2023}).
		Return(sampleFixtures(), nil).
		Once()

	rdb := newStubRedis()
	rdb.values["fixtures:seasons:2023"] = "{not-json"
	repo := newRedisFixtureRepository(next, rdb, time.Minute, logging.NewNop())

	items, err := repo.ListCompletedBySeasons(context.Background(), []int{2023})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRedisFixtureRepository_PropagatesSourceErrors(t *testing.T) {
	t.Parallel()

	sourceErr := errors.New("db down")
	next := fixturemock.NewRepository(t)
	next.On("ListCompletedBySeasons", mock.Anything, []int{2023}).
		Return(nil, sourceErr).
		Once()

	repo := newRedisFixtureRepository(next, newStubRedis(), time.Minute, logging.NewNop())
	_, err := repo.ListCompletedBySeasons(context.Background(), []int{2023})
	assert.ErrorIs(t, err, sourceErr)
}
