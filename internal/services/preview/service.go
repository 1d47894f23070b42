package preview

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

const DefaultLimit = 5

type weatherResolver interface {
	Resolve(ctx context.Context, city string) (models.WeatherSnapshot, error)
}

type Service struct {
	resolver weatherResolver
	logger   zerolog.Logger
	limit    int
}

func NewService(resolver weatherResolver, logger zerolog.Logger, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{resolver: resolver, logger: logger, limit: limit}
}

type result struct {
	city    string
	weather models.WeatherSnapshot
	ok      bool
}

// Load resolves the first entries of cities concurrently and returns the
// successful ones keyed by city. Failed lookups are left out of the map.
func (s *Service) Load(ctx context.Context, cities []string) map[string]models.WeatherSnapshot {
	if len(cities) > s.limit {
		cities = cities[:s.limit]
	}

	results := make([]result, len(cities))

	g, gctx := errgroup.WithContext(ctx)
	for i, city := range cities {
		g.Go(func() error {
			weather, err := s.resolver.Resolve(gctx, city)
			if err != nil {
				s.logger.Debug().
					Ctx(ctx).
					Str("city", city).
					Err(err).
					Msg("preview lookup failed")
				return nil
			}
			results[i] = result{city: city, weather: weather, ok: true}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]models.WeatherSnapshot, len(results))
	for _, r := range results {
		if r.ok {
			out[r.city] = r.weather
		}
	}

	s.logger.Info().
		Ctx(ctx).
		Int("requested", len(cities)).
		Int("resolved", len(out)).
		Msg("preview loaded")

	return out
}
