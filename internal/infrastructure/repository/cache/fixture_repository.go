package cache

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	basecache "github.com/riskibarqy/match-predictor/internal/platform/cache"
)

const fixtureSeasonsKeyPrefix = "fixtures:seasons:"

// FixtureRepository memoizes completed-fixture lists per season set in
// process memory. Callers always receive their own copy.
type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store[[]fixture.Fixture]
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store[[]fixture.Fixture]) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) ListCompletedBySeasons(ctx context.Context, seasons []int) ([]fixture.Fixture, error) {
	items, err := r.cache.GetOrLoad(ctx, seasonsKey(seasons), func(ctx context.Context) ([]fixture.Fixture, error) {
		items, err := r.next.ListCompletedBySeasons(ctx, seasons)
		if err != nil {
			return nil, err
		}
		return append([]fixture.Fixture(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]fixture.Fixture(nil), items...), nil
}

// Invalidate drops every cached season set.
func (r *FixtureRepository) Invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, fixtureSeasonsKeyPrefix)
}

// seasonsKey is order and duplicate insensitive.
func seasonsKey(seasons []int) string {
	sorted := append([]int(nil), seasons...)
	sort.Ints(sorted)

	parts := make([]string, 0, len(sorted))
	for i, season := range sorted {
		if i > 0 && sorted[i-1] == season {
			continue
		}
		parts = append(parts, strconv.Itoa(season))
	}
	return fixtureSeasonsKeyPrefix + strings.Join(parts, ",")
}
