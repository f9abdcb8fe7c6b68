package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/findora/search-api/internal/config"
)

// RedisLimiter is a fixed-window limiter backed by Redis, for deployments
// running more than one instance behind a load balancer. Each key counts in
// a shared window via INCR; the first increment sets the window expiry.
type RedisLimiter struct {
	client *redis.Client
	size   time.Duration
}

// NewRedisLimiter connects to Redis and returns a distributed limiter.
func NewRedisLimiter(cfg config.RedisConfig, windowSize time.Duration) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if windowSize <= 0 {
		windowSize = time.Minute
	}

	return &RedisLimiter{
		client: client,
		size:   windowSize,
	}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int) (bool, time.Duration, error) {
	redisKey := "ratelimit:" + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.size)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if incr.Val() > int64(limit) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.size
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
