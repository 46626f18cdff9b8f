package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/match-predictor/internal/domain/fixture"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
)

const DefaultRedisTTL = 10 * time.Minute

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisFixtureRepository shares fixture history between replicas. Redis is
// best effort: any redis failure falls through to next.
type RedisFixtureRepository struct {
	next   fixture.Repository
	rdb    redisKV
	ttl    time.Duration
	logger *logging.Logger
}

func NewRedisFixtureRepository(next fixture.Repository, rdb *redis.Client, ttl time.Duration, logger *logging.Logger) *RedisFixtureRepository {
	return newRedisFixtureRepository(next, rdb, ttl, logger)
}

func newRedisFixtureRepository(next fixture.Repository, rdb redisKV, ttl time.Duration, logger *logging.Logger) *RedisFixtureRepository {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisFixtureRepository{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

type redisFixture struct {
	ID         int64     `json:"id"`
	Season     int       `json:"season"`
	LeagueID   int64     `json:"league_id"`
	Round      string    `json:"round,omitempty"`
	Venue      string    `json:"venue,omitempty"`
	HomeTeamID int64     `json:"home_team_id"`
	AwayTeamID int64     `json:"away_team_id"`
	MatchDate  time.Time `json:"match_date"`
	HomeScore  *int      `json:"home_score"`
	AwayScore  *int      `json:"away_score"`
	Status     string    `json:"status"`
}

func (r *RedisFixtureRepository) ListCompletedBySeasons(ctx context.Context, seasons []int) ([]fixture.Fixture, error) {
	key := seasonsKey(seasons)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		items, decodeErr := decodeRedisFixtures(raw)
		if decodeErr == nil {
			return items, nil
		}
		r.logger.WarnContext(ctx, "discard undecodable cached fixtures", "key", key, "error", decodeErr)
	case errors.Is(err, redis.Nil):
	default:
		r.logger.WarnContext(ctx, "redis fixture cache read failed", "key", key, "error", err)
	}

	items, err := r.next.ListCompletedBySeasons(ctx, seasons)
	if err != nil {
		return nil, err
	}

	payload, err := encodeRedisFixtures(items)
	if err != nil {
		r.logger.WarnContext(ctx, "encode fixtures for redis failed", "key", key, "error", err)
		return items, nil
	}
	if err := r.rdb.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "redis fixture cache write failed", "key", key, "error", err)
	}

	return items, nil
}

func encodeRedisFixtures(items []fixture.Fixture) ([]byte, error) {
	out := make([]redisFixture, 0, len(items))
	for _, item := range items {
		out = append(out, redisFixture{
			ID:         item.ID,
			Season:     item.Season,
			LeagueID:   item.LeagueID,
			Round:      item.Round,
			Venue:      item.Venue,
			HomeTeamID: item.HomeTeamID,
			AwayTeamID: item.AwayTeamID,
			MatchDate:  item.MatchDate,
			HomeScore:  item.HomeScore,
			AwayScore:  item.AwayScore,
			Status:     item.Status,
		})
	}
	return sonic.Marshal(out)
}

func decodeRedisFixtures(raw []byte) ([]fixture.Fixture, error) {
	var cached []redisFixture
	if err := sonic.Unmarshal(raw, &cached); err != nil {
		return nil, err
	}

	out := make([]fixture.Fixture, 0, len(cached))
	for _, item := range cached {
		out = append(out, fixture.Fixture{
			ID:         item.ID,
			Season:     item.Season,
			LeagueID:   item.LeagueID,
			Round:      item.Round,
			Venue:      item.Venue,
			HomeTeamID: item.HomeTeamID,
			AwayTeamID: item.AwayTeamID,
			MatchDate:  item.MatchDate,
			HomeScore:  item.HomeScore,
			AwayScore:  item.AwayScore,
			Status:     item.Status,
		})
	}
	return out, nil
}
