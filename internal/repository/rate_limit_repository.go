package repository

import (
	"context"
	"time"

	"CasaLinkAPI/internal/adapter"
)

// RateLimitRepository implements a fixed-window counter in redis.
type RateLimitRepository struct {
	redisAdapter *adapter.RedisAdapter
}

func NewRateLimitRepository(redisAdapter *adapter.RedisAdapter) *RateLimitRepository {
	return &RateLimitRepository{
		redisAdapter: redisAdapter,
	}
}

// Allow increments the counter for key and reports whether the caller is
// still inside the limit for the current window, plus the time until the
// window resets.
func (r *RateLimitRepository) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	client := r.redisAdapter.Client()

	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}

	if count == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return false, 0, err
		}
	}

	ttl, err := client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}

	return count <= int64(limit), ttl, nil
}
