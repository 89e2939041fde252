package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptKeyPrefix = "covera:submit:"

// RedisLimiter is a sliding window over a Redis sorted set, one member per
// attempt scored by its unix-nano timestamp. State is shared across
// replicas.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	now := time.Now()
	cutoff := now.Add(-l.window)
	redisKey := attemptKeyPrefix + key

	// Trim expired attempts, then count what is left.
	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", cutoff.UnixNano()))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("ratelimit count: %w", err)
	}

	count := int(countCmd.Val())
	if count >= l.limit {
		oldest, err := l.client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
		resetAt := now.Add(l.window)
		if err == nil && len(oldest) > 0 {
			resetAt = time.Unix(0, int64(oldest[0].Score)).Add(l.window)
		}
		return &Result{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}

	record := l.client.Pipeline()
	record.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	record.Expire(ctx, redisKey, l.window)
	if _, err := record.Exec(ctx); err != nil {
		return nil, fmt.Errorf("ratelimit record: %w", err)
	}

	return &Result{
		Allowed:   true,
		Remaining: l.limit - count - 1,
		ResetAt:   now.Add(l.window),
	}, nil
}
