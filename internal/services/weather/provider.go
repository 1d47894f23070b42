package weather

import (
	"github.com/rs/zerolog"
)

// LiveConfig describes the optional live provider. An empty APIKey selects
// the synthetic generator.
type LiveConfig struct {
	APIKey  string
	APIURL  string
	Breaker BreakerConfig
}

// NewProvider picks the resolution strategy once, at construction time.
//
//nolint:ireturn
func NewProvider(cfg LiveConfig, httpClient HTTPClient, logger zerolog.Logger) Provider {
	if cfg.APIKey == "" {
		logger.Info().Msg("no live provider credential configured, using synthetic weather")
		return NewSyntheticProvider(nil, nil)
	}

	logger.Info().Str("url", cfg.APIURL).Msg("using OpenWeatherMap live provider")
	return NewBreakerClient(cfg.Breaker,
		NewClientOpenWeatherMap(cfg.APIKey, cfg.APIURL, httpClient, logger),
	)
}
