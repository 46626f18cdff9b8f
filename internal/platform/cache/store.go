package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
)

// DefaultLoadTimeout bounds a shared load once it is detached from the
// caller that started it.
const DefaultLoadTimeout = 30 * time.Second

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is an in-process TTL cache. A zero TTL keeps entries until deleted.
type Store[V any] struct {
	mu          sync.RWMutex
	entries     map[string]entry[V]
	ttl         time.Duration
	loadTimeout time.Duration
	flight      resilience.SingleFlight
	now         func() time.Time
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		entries:     make(map[string]entry[V]),
		ttl:         ttl,
		loadTimeout: DefaultLoadTimeout,
		now:         time.Now,
	}
}

// WithLoadTimeout sets the deadline of shared loads. Non-positive values keep
// the current one.
func (s *Store[V]) WithLoadTimeout(timeout time.Duration) *Store[V] {
	if timeout > 0 {
		s.loadTimeout = timeout
	}
	return s
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.ttl > 0 && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry[V]{
		value:     value,
		expiresAt: expiresAt,
	}
	s.mu.Unlock()
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value or runs loader once per key across
// concurrent callers. Loader errors are not cached.
//
// The shared load runs on a context detached from the caller that started it
// and bounded by the store load timeout. A cancelled caller stops waiting
// without affecting the load or the other waiters.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	done := make(chan flightResult, 1)
	go func() {
		value, err, _ := s.flight.Do(key, func() (any, error) {
			if cached, ok := s.Get(ctx, key); ok {
				return cached, nil
			}

			loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
			defer cancel()

			loaded, loadErr := loader(loadCtx)
			if loadErr != nil {
				return nil, loadErr
			}
			s.Set(loadCtx, key, loaded)
			return loaded, nil
		})
		done <- flightResult{value: value, err: err}
	}()

	var res flightResult
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return zero, res.err
	}

	out, ok := res.value.(V)
	if !ok {
		return zero, fmt.Errorf("cache key %q holds %T", key, res.value)
	}
	return out, nil
}

type flightResult struct {
	value any
	err   error
}
