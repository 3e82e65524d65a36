// file: service/cache.go

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"go-finance-api/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

// ICacheClient is the subset of *redis.Client the services use. A nil
// ICacheClient disables caching and rate limiting.
type ICacheClient interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Decr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

const statsCacheTTL = 10 * time.Minute

// statsCache stores monthly aggregates in one Redis hash per user and kind,
// keyed by "<year>:<month>". Any write for the user drops the whole hash.
type statsCache struct {
	client ICacheClient
	kind   string
}

func (c statsCache) key(userID int) string {
	return fmt.Sprintf("stats:%s:%d", c.kind, userID)
}

func monthField(year, month int) string {
	return fmt.Sprintf("%d:%d", year, month)
}

// get decodes a cached value into dst and reports whether it was a hit.
func (c statsCache) get(ctx context.Context, userID, year, month int, dst interface{}) bool {
	if c.client == nil {
		return false
	}
	cached, err := c.client.HGet(ctx, c.key(userID), monthField(year, month)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Warn("Stats cache read failed")
		}
		return false
	}
	return json.Unmarshal([]byte(cached), dst) == nil
}

func (c statsCache) set(ctx context.Context, userID, year, month int, value interface{}) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	key := c.key(userID)
	if err := c.client.HSet(ctx, key, monthField(year, month), data).Err(); err != nil {
		logger.Log.WithError(err).Warn("Stats cache write failed")
		return
	}
	if err := c.client.Expire(ctx, key, statsCacheTTL).Err(); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Stats cache expiry failed")
	}
}

func (c statsCache) invalidate(ctx context.Context, userID int) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Warn("Stats cache invalidation failed")
	}
}
