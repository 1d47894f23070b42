package weather

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

const (
	syntheticName    = "synthetic"
	syntheticCountry = "XX"

	fallbackDescription = "unknown"
	fallbackIcon        = "01d"
)

var syntheticConditions = []models.Condition{
	models.ConditionClear,
	models.ConditionClouds,
	models.ConditionRain,
	models.ConditionSnow,
}

var descriptions = map[models.Condition]string{
	models.ConditionClear:  "clear sky",
	models.ConditionClouds: "few clouds",
	models.ConditionRain:   "light rain",
	models.ConditionSnow:   "light snow",
}

var icons = map[models.Condition]string{
	models.ConditionClear:  "01d",
	models.ConditionClouds: "02d",
	models.ConditionRain:   "10d",
	models.ConditionSnow:   "13d",
}

func Description(c models.Condition) string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return fallbackDescription
}

func Icon(c models.Condition) string {
	if i, ok := icons[c]; ok {
		return i
	}
	return fallbackIcon
}

// SyntheticProvider generates plausible random weather without any I/O.
type SyntheticProvider struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewSyntheticProvider(rnd *rand.Rand, now func() time.Time) *SyntheticProvider {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if now == nil {
		now = time.Now
	}
	return &SyntheticProvider{rnd: rnd, now: now}
}

func (p *SyntheticProvider) Name() string {
	return syntheticName
}

func (p *SyntheticProvider) Fetch(_ context.Context, city string) (models.WeatherSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	condition := syntheticConditions[p.rnd.IntN(len(syntheticConditions))]
	base := float64(p.rnd.IntN(30) + 5)
	now := p.now().Unix()

	return models.WeatherSnapshot{
		LocationName:         displayName(city),
		CountryCode:          syntheticCountry,
		ObservedAt:           now,
		TemperatureC:         base,
		FeelsLikeC:           base + float64(p.rnd.IntN(5)-2),
		MinC:                 base - 3,
		MaxC:                 base + 4,
		HumidityPercent:      p.rnd.IntN(40) + 40,
		PressureHpa:          p.rnd.IntN(50) + 1000,
		WindSpeedMs:          p.rnd.Float64()*10 + 1,
		WindDirectionDeg:     p.rnd.IntN(360),
		VisibilityMeters:     p.rnd.IntN(5000) + 5000,
		Condition:            condition,
		ConditionDescription: Description(condition),
		Icon:                 Icon(condition),
		Sunrise:              now - int64(time.Hour/time.Second),
		Sunset:               now + int64(time.Hour/time.Second),
	}, nil
}

// displayName upper-cases the first letter and lower-cases the rest.
func displayName(city string) string {
	r, size := utf8.DecodeRuneInString(city)
	if size == 0 {
		return city
	}
	return strings.ToUpper(string(r)) + strings.ToLower(city[size:])
}
