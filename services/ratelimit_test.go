package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
)

func newTestLimiter(t *testing.T, limit int64, window time.Duration) (*RedisRateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRateLimiter(client, "test:", limit, window), mr
}

func TestRedisRateLimiter_FixedWindow(t *testing.T) {
	rl, mr := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		allowed, err := rl.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("hit %d: %v", i, err)
		}
		if allowed != want {
			t.Fatalf("hit %d allowed=%v want=%v", i, allowed, want)
		}
	}
	if allowed, _ := rl.Allow(ctx, "10.0.0.2"); !allowed {
		t.Fatalf("other client should not share the counter")
	}
	if ttl := mr.TTL("test:10.0.0.1"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("ttl=%v want within window", ttl)
	}

	mr.FastForward(time.Minute)
	if allowed, _ := rl.Allow(ctx, "10.0.0.1"); !allowed {
		t.Fatalf("new window should allow again")
	}
}

func TestRedisRateLimiter_RepairsCounterWithoutExpiry(t *testing.T) {
	rl, mr := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()
	// a counter past the limit whose expiry was never set
	if err := mr.Set("test:10.0.0.1", "7"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	allowed, err := rl.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if allowed {
		t.Fatalf("counter over the limit should still block")
	}
	if ttl := mr.TTL("test:10.0.0.1"); ttl != time.Minute {
		t.Fatalf("ttl=%v want=%v", ttl, time.Minute)
	}
	mr.FastForward(time.Minute)
	if allowed, _ := rl.Allow(ctx, "10.0.0.1"); !allowed {
		t.Fatalf("key should unblock once the repaired window passes")
	}
}
