package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
)

type FixtureRepository struct {
	mu       sync.RWMutex
	bySeason map[int][]fixture.Fixture
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	r := &FixtureRepository{}
	r.Replace(fixtures)
	return r
}

// Replace swaps the whole data set.
func (r *FixtureRepository) Replace(fixtures []fixture.Fixture) {
	bySeason := make(map[int][]fixture.Fixture)
	for _, item := range fixtures {
		bySeason[item.Season] = append(bySeason[item.Season], item)
	}

	r.mu.Lock()
	r.bySeason = bySeason
	r.mu.Unlock()
}

func (r *FixtureRepository) ListCompletedBySeasons(_ context.Context, seasons []int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int]struct{}, len(seasons))
	out := make([]fixture.Fixture, 0, 512)
	for _, season := range seasons {
		if _, ok := seen[season]; ok {
			continue
		}
		seen[season] = struct{}{}
		for _, item := range r.bySeason[season] {
			if item.IsCompleted() {
				out = append(out, item)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MatchDate.Equal(out[j].MatchDate) {
			return out[i].MatchDate.Before(out[j].MatchDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
