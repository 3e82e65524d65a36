package service

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter counts requests per key in fixed Redis windows. Every hit sets
// the expiry only if the key has none, so a failed EXPIRE is retried on the
// next hit and never extends a running window. Needs Redis 7 for EXPIRE NX.
type RateLimiter struct {
	cache ICacheClient
}

func NewRateLimiter(cache ICacheClient) *RateLimiter {
	return &RateLimiter{cache: cache}
}

func rateLimitKey(scope, client string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, client)
}

// Allow records one hit for client in scope. Without a cache every request is
// allowed. On a Redis error the request is allowed and the error returned.
func (l *RateLimiter) Allow(ctx context.Context, scope, client string, limit int, window time.Duration) (bool, error) {
	if l == nil || l.cache == nil {
		return true, nil
	}
	key := rateLimitKey(scope, client)
	n, err := l.cache.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if err := l.cache.ExpireNX(ctx, key, window).Err(); err != nil {
		return true, err
	}
	return n <= int64(limit), nil
}

// Forget takes back one hit, for limiters that only count failed requests.
// DECR keeps the key's TTL, so the window is not restarted.
func (l *RateLimiter) Forget(ctx context.Context, scope, client string) error {
	if l == nil || l.cache == nil {
		return nil
	}
	return l.cache.Decr(ctx, rateLimitKey(scope, client)).Err()
}
