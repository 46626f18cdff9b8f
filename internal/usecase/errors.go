package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/match-predictor/internal/domain/market"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrModelUnavailable      = errors.New("model unavailable")
	ErrFeatureComputation    = errors.New("feature computation failed")
	ErrInference             = errors.New("inference failed")
)

// ModelUnavailableError reports a market whose artifact could not be loaded.
type ModelUnavailableError struct {
	Market   market.Market
	Location string
	Err      error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model for market %s unavailable at %s: %v", e.Market, e.Location, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Err
}

func (e *ModelUnavailableError) Is(target error) bool {
	return target == ErrModelUnavailable || target == ErrDependencyUnavailable
}
