package services

import (
	"context"
	"time"

	"github.com/go-redis/redis"
)

// RedisRateLimiter is a fixed-window counter per key.
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, prefix string, limit int64, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow counts one hit for key. A counter left without an expiry is given one, so a key can never block forever.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	client := rl.client.WithContext(ctx)
	redisKey := rl.prefix + key

	var count *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := client.TxPipelined(func(pipe redis.Pipeliner) error {
		count = pipe.Incr(redisKey)
		ttl = pipe.TTL(redisKey)
		return nil
	})
	if err != nil {
		return false, err
	}
	if ttl.Val() < 0 {
		if err := client.Expire(redisKey, rl.window).Err(); err != nil {
			return false, err
		}
	}
	return count.Val() <= rl.limit, nil
}
