package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
)

// CacheRepository wraps Redis for the statistics cache and the one-shot
// startup notice. A nil client degrades every operation to a miss, so the
// API runs unchanged without Redis.
type CacheRepository struct {
	client *redis.Client
}

func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{client: client}
}

// Enabled reports whether a Redis client is attached.
func (r *CacheRepository) Enabled() bool {
	return r.client != nil
}

// Get returns the raw cached value or ErrCacheMiss.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	value, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, appErrors.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set stores a value with a TTL.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	return r.client.Set(ctx, key, value, ttl).Err()
}

// DeleteByPattern removes every key matching the glob pattern, used to
// invalidate cached statistics after writes.
func (r *CacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.client == nil {
		return nil
	}

	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}

	return iter.Err()
}

// SetNotice stores a one-shot notice for the panel. Callers fall back to
// in-process storage when no Redis client is attached.
func (r *CacheRepository) SetNotice(ctx context.Context, key, message string, ttl time.Duration) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	return r.client.Set(ctx, key, message, ttl).Err()
}

// TakeNotice reads and deletes a one-shot notice; "" means none pending.
func (r *CacheRepository) TakeNotice(ctx context.Context, key string) (string, error) {
	if r.client == nil {
		return "", nil
	}

	value, err := r.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return value, nil
}
