package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	cacherepo "github.com/riskibarqy/match-predictor/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/match-predictor/internal/platform/cache"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
)

const redisPingTimeout = 3 * time.Second

// History is the fixture-history source with its cache layers applied.
type History struct {
	Repository fixture.Repository

	local   *cacherepo.FixtureRepository
	closers []func() error
}

// Invalidate drops the in-process history cache. Redis entries age out on
// their own TTL.
func (h *History) Invalidate(ctx context.Context) {
	if h.local != nil {
		h.local.Invalidate(ctx)
	}
}

func (h *History) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewHistory builds the history repository chain:
// in-process cache -> redis -> postgres or memory.
func NewHistory(ctx context.Context, cfg config.Config, logger *logging.Logger) (*History, error) {
	if logger == nil {
		logger = logging.Default()
	}

	history := &History{}
	var base fixture.Repository

	switch cfg.HistorySource {
	case config.HistorySourceMemory:
		items, err := memorySeed(cfg)
		if err != nil {
			return nil, err
		}
		base = memory.NewFixtureRepository(items)
		logger.InfoContext(ctx, "fixture history loaded in memory", "fixtures", len(items))
	default:
		db, err := newDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		history.closers = append(history.closers, db.Close)
		if err := bootstrapSeed(ctx, cfg, db, logger); err != nil {
			_ = history.Close()
			return nil, err
		}
		base = postgres.NewFixtureRepository(db)
	}

	repo := base
	if cfg.RedisEnabled {
		rdb, err := newRedisClient(ctx, cfg)
		if err != nil {
			_ = history.Close()
			return nil, err
		}
		history.closers = append(history.closers, rdb.Close)
		repo = cacherepo.NewRedisFixtureRepository(repo, rdb, cfg.RedisTTL, logger)
	}
	if cfg.CacheEnabled {
		store := basecache.NewStore[[]fixture.Fixture](cfg.CacheTTL).WithLoadTimeout(cfg.HistoryFetchTimeout)
		history.local = cacherepo.NewFixtureRepository(repo, store)
		repo = history.local
	}

	history.Repository = repo
	return history, nil
}

func memorySeed(cfg config.Config) ([]fixture.Fixture, error) {
	if cfg.HistorySeedPath == "" {
		return memory.SeedFixtures(cfg.HistorySeasons...), nil
	}
	items, err := memory.LoadSeedFile(cfg.HistorySeedPath)
	if err != nil {
		return nil, fmt.Errorf("load history seed: %w", err)
	}
	return items, nil
}

func bootstrapSeed(ctx context.Context, cfg config.Config, db *sqlx.DB, logger *logging.Logger) error {
	if cfg.HistorySeedPath == "" {
		return nil
	}
	items, err := memory.LoadSeedFile(cfg.HistorySeedPath)
	if err != nil {
		return fmt.Errorf("load history seed: %w", err)
	}
	inserted, err := postgres.BootstrapSeed(ctx, db, items)
	if err != nil {
		return err
	}
	if inserted > 0 {
		logger.InfoContext(ctx, "fixture history seeded", "fixtures", inserted, "path", cfg.HistorySeedPath)
	}
	return nil
}

func newRedisClient(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return rdb, nil
}
