package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

// Provider produces a snapshot for a city. Resolver is built around exactly one.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city string) (models.WeatherSnapshot, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type resolveRecorder interface {
	ObserveResolve(provider, result string, duration time.Duration)
}

type Option func(*Resolver)

func WithRecorder(r resolveRecorder) Option {
	return func(res *Resolver) {
		res.recorder = r
	}
}

// Resolver turns a city name into current weather using the provider chosen at
// construction. Every error it returns wraps models.ErrNotFound,
// models.ErrProvider or models.ErrNetwork.
type Resolver struct {
	provider Provider
	logger   zerolog.Logger
	recorder resolveRecorder
}

func NewResolver(provider Provider, logger zerolog.Logger, opts ...Option) *Resolver {
	r := &Resolver{provider: provider, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Mode() string {
	return r.provider.Name()
}

func (r *Resolver) Resolve(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	start := time.Now()
	r.logger.Info().
		Ctx(ctx).
		Str("provider", r.provider.Name()).
		Str("city", city).
		Msg("resolving weather")

	data, err := r.provider.Fetch(ctx, city)
	duration := time.Since(start)
	if err != nil {
		err = classify(err)
		r.logger.Error().
			Ctx(ctx).
			Str("provider", r.provider.Name()).
			Str("city", city).
			Err(err).
			Msg("resolve failed")
		r.record(errorKind(err), duration)
		return models.WeatherSnapshot{}, err
	}

	r.logger.Info().
		Ctx(ctx).
		Str("provider", r.provider.Name()).
		Str("city", city).
		Dur("duration_ms", duration).
		Msg("resolve succeeded")
	r.record("success", duration)
	return data, nil
}

func (r *Resolver) record(result string, d time.Duration) {
	if r.recorder != nil {
		r.recorder.ObserveResolve(r.provider.Name(), result, d)
	}
}

func classify(err error) error {
	if errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrProvider) ||
		errors.Is(err, models.ErrNetwork) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrProvider, err)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrNetwork):
		return "network_error"
	default:
		return "provider_error"
	}
}
