package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares fixed-window counters across replicas. The window
// starts at the first hit, when the key's expiry is set.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(client redis.UniversalClient, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisLimiter{client: client, prefix: prefix, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	k := l.prefix + ":" + key
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		ttl = p.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit incr: %w", err)
	}
	count := int(incr.Val())
	remaining := ttl.Val()
	if count == 1 || remaining < 0 {
		if err := l.client.PExpire(ctx, k, window).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit expire: %w", err)
		}
		remaining = window
	}
	now := l.now()
	return decide(count, limit, now.Add(remaining), now), nil
}
