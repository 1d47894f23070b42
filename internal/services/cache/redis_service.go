package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

// RedisClient keeps JSON encoded values of T in redis for a fixed TTL.
// A ttl of zero stores entries without expiration.
//
// Absent and undecodable entries both surface as models.ErrCacheMiss;
// undecodable ones are deleted so the next write replaces them.
type RedisClient[T any] struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger zerolog.Logger
}

func NewRedisClient[T any](rdb redis.Cmdable, logger zerolog.Logger, ttl time.Duration) *RedisClient[T] {
	return &RedisClient[T]{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With().Str("component", "RedisCache").Logger(),
	}
}

func (c *RedisClient[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

//nolint:ireturn
func (c *RedisClient[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return zero, models.ErrCacheMiss
	case err != nil:
		return zero, fmt.Errorf("cache get %s: %w", key, err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		c.evict(ctx, key, err)
		return zero, fmt.Errorf("%w: undecodable entry %s", models.ErrCacheMiss, key)
	}
	return value, nil
}

func (c *RedisClient[T]) evict(ctx context.Context, key string, cause error) {
	c.logger.Warn().
		Ctx(ctx).
		Str("key", key).
		Err(cause).
		Msg("dropping undecodable cache entry")

	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.logger.Error().
			Ctx(ctx).
			Str("key", key).
			Err(err).
			Msg("failed to drop cache entry")
	}
}
