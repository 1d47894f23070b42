package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Server struct {
	Host        string `envconfig:"WEATHER_SERVER_HOST" default:"localhost"`
	Port        string `envconfig:"WEATHER_SERVER_PORT" default:"8080"`
	ReadTimeout int    `envconfig:"WEATHER_SERVER_TIMEOUT" default:"10"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Storage struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
	Source string `envconfig:"DB_NAME" default:"weather.db"`
}

type Redis struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	LiveTime int    `envconfig:"REDIS_LIVE_TIME" default:"10"`
}

type Config struct {
	// Empty key switches the resolver to synthetic data.
	OpenWeatherMapAPIKey string `envconfig:"OPEN_WEATHER_MAP_API_KEY"`
	OpenWeatherMapURL    string `envconfig:"OPEN_WEATHER_MAP_URL" default:"https://api.openweathermap.org/data/2.5/weather"`
	HTTPTimeout          int    `envconfig:"WEATHER_HTTP_TIMEOUT" default:"10"`

	CacheEnabled bool `envconfig:"WEATHER_CACHE_ENABLED" default:"false"`
	PreviewLimit int  `envconfig:"PREVIEW_LIMIT" default:"5"`

	Server  Server
	Breaker Breaker
	Storage Storage
	Redis   Redis

	LogsPath     string `envconfig:"LOGS_PATH" default:"./log/weather-lookup.log"`
	HTTPLogsPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/weather-lookup-http.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.PreviewLimit <= 0 {
		return fmt.Errorf("preview limit must be positive, got %d", c.PreviewLimit)
	}
	return nil
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (r *Redis) Address() string {
	return r.Host + ":" + r.Port
}

// LiveMode reports whether lookups go to OpenWeatherMap.
func (c *Config) LiveMode() bool {
	return c.OpenWeatherMapAPIKey != ""
}
