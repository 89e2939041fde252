//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"covera/internal/ratelimit"
	"covera/pkg/testutil/containers"
)

type RedisLimiterSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisLimiterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLimiterSuite))
}

func (s *RedisLimiterSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RedisLimiterSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisLimiterSuite) TestBlocksAfterLimit() {
	ctx := context.Background()
	limiter := ratelimit.NewRedisLimiter(s.redis.Client, 3, time.Minute)

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, "user-1")
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(3-i-1, res.Remaining)
	}

	res, err := limiter.Allow(ctx, "user-1")
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(0, res.Remaining)
	s.True(res.ResetAt.After(time.Now()))
}

// A denied attempt must not consume capacity: once the window clears, the
// full limit is available again.
func (s *RedisLimiterSuite) TestDeniedAttemptsNotRecorded() {
	ctx := context.Background()
	limiter := ratelimit.NewRedisLimiter(s.redis.Client, 1, 500*time.Millisecond)

	res, err := limiter.Allow(ctx, "user-1")
	s.Require().NoError(err)
	s.True(res.Allowed)

	for i := 0; i < 3; i++ {
		res, err = limiter.Allow(ctx, "user-1")
		s.Require().NoError(err)
		s.False(res.Allowed)
	}

	time.Sleep(600 * time.Millisecond)

	res, err = limiter.Allow(ctx, "user-1")
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *RedisLimiterSuite) TestKeysAreIndependent() {
	ctx := context.Background()
	limiter := ratelimit.NewRedisLimiter(s.redis.Client, 1, time.Minute)

	res, err := limiter.Allow(ctx, "user-1")
	s.Require().NoError(err)
	s.True(res.Allowed)

	res, err = limiter.Allow(ctx, "user-2")
	s.Require().NoError(err)
	s.True(res.Allowed)

	res, err = limiter.Allow(ctx, "user-1")
	s.Require().NoError(err)
	s.False(res.Allowed)
}
