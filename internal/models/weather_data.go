package models

import "strings"

type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionSnow         Condition = "Snow"
	ConditionMist         Condition = "Mist"
	ConditionFog          Condition = "Fog"
	ConditionOther        Condition = "Other"
)

var knownConditions = []Condition{
	ConditionClear,
	ConditionClouds,
	ConditionRain,
	ConditionDrizzle,
	ConditionThunderstorm,
	ConditionSnow,
	ConditionMist,
	ConditionFog,
}

// ParseCondition maps a provider condition keyword onto Condition.
// Unrecognized keywords map to ConditionOther.
func ParseCondition(s string) Condition {
	s = strings.TrimSpace(s)
	for _, c := range knownConditions {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return ConditionOther
}

// WeatherSnapshot is the current weather for one resolved city. Times are unix seconds.
type WeatherSnapshot struct {
	LocationName         string    `json:"locationName"`
	CountryCode          string    `json:"countryCode"`
	ObservedAt           int64     `json:"observedAt"`
	TemperatureC         float64   `json:"temperatureC"`
	FeelsLikeC           float64   `json:"feelsLikeC"`
	MinC                 float64   `json:"minC"`
	MaxC                 float64   `json:"maxC"`
	HumidityPercent      int       `json:"humidityPercent"`
	PressureHpa          int       `json:"pressureHpa"`
	WindSpeedMs          float64   `json:"windSpeedMs"`
	WindDirectionDeg     int       `json:"windDirectionDeg"`
	VisibilityMeters     int       `json:"visibilityMeters"`
	Condition            Condition `json:"condition"`
	ConditionDescription string    `json:"conditionDescription"`
	Icon                 string    `json:"icon"`
	Sunrise              int64     `json:"sunrise"`
	Sunset               int64     `json:"sunset"`
}
