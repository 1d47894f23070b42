package decorators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

type weatherResolver interface {
	Resolve(ctx context.Context, city string) (models.WeatherSnapshot, error)
}

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

// CachedService serves repeated live lookups for the same city from cache.
// Only successful resolutions are stored.
type CachedService struct {
	inner  weatherResolver
	cache  cacheClient[models.WeatherSnapshot]
	logger zerolog.Logger
}

func NewCachedService(
	inner weatherResolver,
	cache cacheClient[models.WeatherSnapshot],
	logger zerolog.Logger,
) *CachedService {
	return &CachedService{inner: inner, cache: cache, logger: logger}
}

func CacheKey(city string) string {
	return fmt.Sprintf("weather:%s", strings.ToLower(city))
}

func (s *CachedService) Resolve(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	key := CacheKey(city)

	weather, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		s.logger.Info().
			Ctx(ctx).
			Str("city", city).
			Str("key", key).
			Msg("cache hit")
		return weather, nil
	case errors.Is(err, models.ErrCacheMiss):
		s.logger.Debug().
			Ctx(ctx).
			Str("city", city).
			Str("key", key).
			Msg("cache miss")
	default:
		s.logger.Warn().
			Ctx(ctx).
			Str("city", city).
			Str("key", key).
			Err(err).
			Msg("cache unavailable, resolving directly")
	}

	weather, err = s.inner.Resolve(ctx, city)
	if err != nil {
		return models.WeatherSnapshot{}, err
	}

	if err := s.cache.Set(ctx, key, weather); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("city", city).
			Str("key", key).
			Err(err).
			Msg("cache set failed")
	}

	return weather, nil
}
