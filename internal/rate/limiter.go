package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Window is one route class's budget: at most Max requests per Span.
type Window struct {
	Max  int
	Span time.Duration
}

// Config maps route class names to their windows.
type Config struct {
	Classes map[string]Window
}

// Limiter enforces per-class, per-key fixed-window ceilings backed by
// Redis counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(client redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  client,
		config: cfg,
	}
}

func counterKey(class, key string) string {
	return "grl:" + class + ":" + key
}

// Allow records one request for (class, key) and returns [ErrRateLimited]
// once the class ceiling is exceeded within the current window. Unknown
// classes are unlimited.
func (l *Limiter) Allow(ctx context.Context, class, key string) error {
	w, ok := l.config.Classes[class]
	if !ok || w.Max <= 0 {
		return nil
	}

	count, err := l.incrementWithTTL(ctx, counterKey(class, key), w.Span)
	if err != nil {
		return err
	}
	if count > int64(w.Max) {
		return ErrRateLimited
	}

	return nil
}

// Remaining returns how many requests are left in the current window for
// (class, key). Missing counters report the full budget.
func (l *Limiter) Remaining(ctx context.Context, class, key string) (int, error) {
	w, ok := l.config.Classes[class]
	if !ok {
		return 0, nil
	}

	count, err := l.redis.Get(ctx, counterKey(class, key)).Int64()
	if err != nil {
		if err == redis.Nil {
			return w.Max, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	remaining := int64(w.Max) - count
	if remaining < 0 {
		remaining = 0
	}
	return int(remaining), nil
}

// Reset clears the counter for (class, key).
func (l *Limiter) Reset(ctx context.Context, class, key string) error {
	if err := l.redis.Del(ctx, counterKey(class, key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}
