package artifact

import (
	"context"
	"errors"

	"github.com/riskibarqy/match-predictor/internal/domain/market"
)

var ErrNotFound = errors.New("model artifact not found")

// Store loads serialized artifacts from their backing storage.
type Store interface {
	Load(ctx context.Context, m market.Market) (*Artifact, error)
	// Location describes where the artifact for m is expected to live.
	Location(m market.Market) string
}
