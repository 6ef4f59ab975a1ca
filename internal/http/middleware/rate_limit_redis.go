package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var errNoRedisClient = errors.New("rate limit: redis client not configured")

// RedisWindowLimiter shares fixed-window counters between portal replicas.
// Keys look like "<prefix>:rl:<scope>:<ip>".
type RedisWindowLimiter struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisWindowLimiter(client redis.UniversalClient, prefix string) *RedisWindowLimiter {
	if prefix == "" {
		prefix = "crp"
	}
	return &RedisWindowLimiter{client: client, prefix: prefix + ":rl:"}
}

func (l *RedisWindowLimiter) Backend() string { return "redis" }

// Allow opens the window with SET NX PX, then counts the hit inside the same
// MULTI so the counter and its expiry are created together.
func (l *RedisWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	if l.client == nil {
		return false, window, errNoRedisClient
	}
	if key == "" {
		key = "unknown"
	}
	if window < time.Millisecond {
		window = time.Second
	}
	storeKey := l.prefix + key

	var (
		hits *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SetNX(ctx, storeKey, 0, window)
		hits = p.Incr(ctx, storeKey)
		ttl = p.PTTL(ctx, storeKey)
		return nil
	})
	if err != nil {
		return false, window, err
	}

	retryAfter := ttl.Val()
	if retryAfter <= 0 {
		// Counter lost its expiry; re-arm it so the key cannot pin a client forever.
		if err := l.client.PExpire(ctx, storeKey, window).Err(); err != nil {
			return false, window, err
		}
		retryAfter = window
	}
	return hits.Val() <= int64(limit), retryAfter, nil
}
