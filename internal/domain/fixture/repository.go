package fixture

import "context"

// Repository exposes fixture read operations.
type Repository interface {
	// ListCompletedBySeasons returns completed fixtures with final scores,
	// ordered by match date ascending.
	ListCompletedBySeasons(ctx context.Context, seasons []int) ([]Fixture, error)
}
