package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// BreakerClient guards a live provider with a circuit breaker. Unknown cities
// do not count as failures.
type BreakerClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped Provider
}

func NewBreakerClient(cfg BreakerConfig, wrapped Provider) *BreakerClient {
	name := wrapped.Name()
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, models.ErrNotFound)
		},
	}
	return &BreakerClient{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerClient) Name() string {
	return b.name
}

func (b *BreakerClient) Fetch(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Fetch(ctx, city)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return models.WeatherSnapshot{},
			fmt.Errorf("%w: %s unavailable: %w", models.ErrProvider, b.name, err)
	}
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("%s: %w", b.name, err)
	}
	res, ok := result.(models.WeatherSnapshot)
	if !ok {
		return models.WeatherSnapshot{},
			fmt.Errorf("%w: %s returned unexpected result", models.ErrProvider, b.name)
	}
	return res, nil
}
