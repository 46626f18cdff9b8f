package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/artifact"
	"github.com/riskibarqy/match-predictor/internal/domain/market"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
)

const DefaultModelLoadTimeout = 30 * time.Second

type ModelRegistryConfig struct {
	LoadTimeout time.Duration
	Logger      *logging.Logger
}

// modelSlot holds the resident artifact for one market. Reads are lock-free;
// mu serializes the writers (load completion and invalidation).
type modelSlot struct {
	mu         sync.Mutex
	current    atomic.Pointer[artifact.Artifact]
	generation atomic.Uint64
}

// ModelRegistry keeps one artifact resident per market and loads it lazily.
type ModelRegistry struct {
	store       artifact.Store
	slots       map[market.Market]*modelSlot
	flight      resilience.SingleFlight
	loadTimeout time.Duration
	logger      *logging.Logger
}

func NewModelRegistry(store artifact.Store, cfg ModelRegistryConfig) *ModelRegistry {
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultModelLoadTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	slots := make(map[market.Market]*modelSlot, len(market.All()))
	for _, m := range market.All() {
		slots[m] = &modelSlot{}
	}

	return &ModelRegistry{
		store:       store,
		slots:       slots,
		loadTimeout: cfg.LoadTimeout,
		logger:      cfg.Logger,
	}
}

// Get returns the resident artifact for m, loading it on first access.
// Concurrent callers share one load per market generation and failures are
// never cached.
func (r *ModelRegistry) Get(ctx context.Context, m market.Market) (*artifact.Artifact, error) {
	slot, ok := r.slots[m]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidInput, market.ErrUnknownMarket, m)
	}
	if current := slot.current.Load(); current != nil {
		return current, nil
	}

	generation := slot.generation.Load()
	key := fmt.Sprintf("%s#%d", m, generation)
	value, err, _ := r.flight.Do(key, func() (any, error) {
		if current := slot.current.Load(); current != nil {
			return current, nil
		}
		return r.load(ctx, m, slot, generation)
	})
	if err != nil {
		var unavailable *ModelUnavailableError
		if errors.As(err, &unavailable) {
			return nil, unavailable
		}
		return nil, &ModelUnavailableError{Market: m, Location: r.store.Location(m), Err: err}
	}

	loaded, _ := value.(*artifact.Artifact)
	return loaded, nil
}

func (r *ModelRegistry) load(ctx context.Context, m market.Market, slot *modelSlot, generation uint64) (*artifact.Artifact, error) {
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.loadTimeout)
	defer cancel()

	ctx, span := startUsecaseSpan(loadCtx, "usecase.ModelRegistry.load")
	start := time.Now()

	loaded, err := r.store.Load(ctx, m)
	if err == nil {
		err = checkArtifact(m, loaded)
	}
	if err != nil {
		endUsecaseSpan(span, err)
		return nil, &ModelUnavailableError{Market: m, Location: r.store.Location(m), Err: err}
	}
	span.End()

	slot.mu.Lock()
	if slot.generation.Load() == generation {
		slot.current.Store(loaded)
	}
	slot.mu.Unlock()

	r.logger.InfoContext(ctx, "model loaded",
		"market", m.String(),
		"version", loaded.Version,
		"feature_count", loaded.FeatureCount(),
		"location", loaded.Location,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return loaded, nil
}

func checkArtifact(m market.Market, a *artifact.Artifact) error {
	switch {
	case a == nil:
		return errors.New("store returned no artifact")
	case a.Classifier == nil:
		return errors.New("artifact has no classifier")
	case a.FeatureCount() == 0:
		return errors.New("artifact declares no features")
	case a.Classifier.NumClasses() != len(m.Labels()):
		return fmt.Errorf("classifier has %d classes, market %s needs %d", a.Classifier.NumClasses(), m, len(m.Labels()))
	}
	return nil
}

// Invalidate evicts the given markets. Loads already in flight finish for
// their callers but never repopulate an evicted slot.
func (r *ModelRegistry) Invalidate(markets ...market.Market) {
	for _, m := range markets {
		slot, ok := r.slots[m]
		if !ok {
			continue
		}
		slot.mu.Lock()
		slot.generation.Add(1)
		slot.current.Store(nil)
		slot.mu.Unlock()
	}
}

func (r *ModelRegistry) InvalidateAll() {
	r.Invalidate(market.All()...)
}

// Loaded reports whether an artifact for m is currently resident.
func (r *ModelRegistry) Loaded(m market.Market) bool {
	slot, ok := r.slots[m]
	if !ok {
		return false
	}
	return slot.current.Load() != nil
}

// Location is where the backing store expects the artifact for m.
func (r *ModelRegistry) Location(m market.Market) string {
	return r.store.Location(m)
}
