package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

const openWeatherName = "openweathermap"

type apiResponse struct {
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Visibility int `json:"visibility"`
	Sys        struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

// ClientOpenWeatherMap fetches current weather from the OpenWeatherMap API.
type ClientOpenWeatherMap struct {
	APIKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

// NewClientOpenWeatherMap constructs a new OpenWeatherMap client.
func NewClientOpenWeatherMap(apiKey, apiURL string,
	httpClient HTTPClient, logger zerolog.Logger,
) *ClientOpenWeatherMap {
	return &ClientOpenWeatherMap{APIKey: apiKey, apiURL: apiURL, client: httpClient, logger: logger}
}

func (s *ClientOpenWeatherMap) Name() string {
	return openWeatherName
}

// Fetch issues one metric-units request for city.
func (s *ClientOpenWeatherMap) Fetch(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	start := time.Now()

	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", s.APIKey)
	query.Set("units", "metric")
	reqURL := s.apiURL + "?" + query.Encode()

	s.logger.Debug().
		Ctx(ctx).
		Str("city", city).
		Msg("starting OpenWeatherMap request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("failed to create HTTP request")
		return models.WeatherSnapshot{}, fmt.Errorf("%w: build request: %w", models.ErrProvider, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("error sending HTTP request to OpenWeatherMap")
		return models.WeatherSnapshot{}, fmt.Errorf("%w: %w", models.ErrNetwork, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error().
				Err(cerr).
				Str("city", city).
				Msg("failed to close response body")
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		s.logger.Warn().
			Str("city", city).
			Msg("OpenWeatherMap does not know the city")
		return models.WeatherSnapshot{}, fmt.Errorf("%w: %s", models.ErrNotFound, city)
	case resp.StatusCode != http.StatusOK:
		s.logger.Error().
			Str("city", city).
			Str("status", resp.Status).
			Msg("OpenWeatherMap API returned non-200 status")
		return models.WeatherSnapshot{}, fmt.Errorf("%w: OpenWeatherMap status %s", models.ErrProvider, resp.Status)
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		s.logger.Error().
			Err(err).
			Str("city", city).
			Msg("failed to decode OpenWeatherMap response")
		return models.WeatherSnapshot{}, fmt.Errorf("%w: decode response: %w", models.ErrProvider, err)
	}
	if len(raw.Weather) == 0 {
		s.logger.Error().
			Str("city", city).
			Msg("no conditions in OpenWeatherMap response")
		return models.WeatherSnapshot{}, fmt.Errorf("%w: response has no weather conditions", models.ErrProvider)
	}

	data := toSnapshot(raw)

	s.logger.Info().
		Str("city", city).
		Dur("duration_ms", time.Since(start)).
		Msg("successfully fetched weather data")

	return data, nil
}

func toSnapshot(raw apiResponse) models.WeatherSnapshot {
	current := raw.Weather[0]
	return models.WeatherSnapshot{
		LocationName:         raw.Name,
		CountryCode:          raw.Sys.Country,
		ObservedAt:           raw.Dt,
		TemperatureC:         raw.Main.Temp,
		FeelsLikeC:           raw.Main.FeelsLike,
		MinC:                 raw.Main.TempMin,
		MaxC:                 raw.Main.TempMax,
		HumidityPercent:      raw.Main.Humidity,
		PressureHpa:          raw.Main.Pressure,
		WindSpeedMs:          raw.Wind.Speed,
		WindDirectionDeg:     raw.Wind.Deg,
		VisibilityMeters:     raw.Visibility,
		Condition:            models.ParseCondition(current.Main),
		ConditionDescription: current.Description,
		Icon:                 current.Icon,
		Sunrise:              raw.Sys.Sunrise,
		Sunset:               raw.Sys.Sunset,
	}
}
