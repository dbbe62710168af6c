// Package ratelimit bounds how often a key (usually a user) may perform an action.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window counter shared by every instance of the service.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter allows limit calls per window for each key.
func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

// Allow increments the key's counter for the current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	bucket := time.Now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, bucket)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate counter expiry: %w", err)
		}
	}
	return count <= int64(l.limit), nil
}

// LocalLimiter keeps a token bucket per key in process memory.
type LocalLimiter struct {
	limiters sync.Map
	rps      rate.Limit
	burst    int
}

// NewLocalLimiter allows perMinute calls per minute per key with the given burst.
func NewLocalLimiter(perMinute, burst int) *LocalLimiter {
	if burst <= 0 {
		burst = 5
	}
	return &LocalLimiter{
		rps:   rate.Limit(float64(perMinute) / 60.0),
		burst: burst,
	}
}

// Allow consumes one token from the key's bucket.
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.get(key).Allow(), nil
}

func (l *LocalLimiter) get(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	actual, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rps, l.burst))
	return actual.(*rate.Limiter)
}
