package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/storage"
)

// Store is a KV backed by plain redis string keys without expiration.
type Store struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewStore(client *redis.Client, logger zerolog.Logger) *Store {
	return &Store{
		client: client,
		logger: logger.With().Str("component", "RedisKV").Logger(),
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrKeyNotFound
	}
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("key", key).
			Err(err).
			Msg("kv read failed")
		return "", err
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("key", key).
			Err(err).
			Msg("kv write failed")
		return err
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("key", key).
			Err(err).
			Msg("kv delete failed")
		return err
	}
	return nil
}
