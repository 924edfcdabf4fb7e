package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/usecase"
)

// RedisRateLimitStore counts requests in fixed windows. The window boundary
// is anchored to the first increment that lands a TTL on the key.
type RedisRateLimitStore struct {
	rdb *redis.Client
}

func NewRedisRateLimitStore(rdb *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{rdb: rdb}
}

func (s *RedisRateLimitStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	key = "rl:" + key

	// INCR and EXPIRE ride the same transaction: a counter must never
	// outlive its window. ExpireNX runs on every increment, so a key that
	// somehow lost its TTL picks one up on the next request instead of
	// counting forever.
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

var _ usecase.RateLimitStore = (*RedisRateLimitStore)(nil)
