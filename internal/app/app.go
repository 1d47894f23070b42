package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/weather-lookup/internal/config"
	http2 "github.com/Nazarious-ucu/weather-lookup/internal/handlers/http"
	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/cache"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/history"
	loggerT "github.com/Nazarious-ucu/weather-lookup/internal/services/logger"
	metricsSvc "github.com/Nazarious-ucu/weather-lookup/internal/services/metrics"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/preview"
	serviceWeather "github.com/Nazarious-ucu/weather-lookup/internal/services/weather"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/weather/decorators"
	"github.com/Nazarious-ucu/weather-lookup/internal/storage"
	"github.com/Nazarious-ucu/weather-lookup/internal/storage/memory"
	redisStore "github.com/Nazarious-ucu/weather-lookup/internal/storage/redis"
	"github.com/Nazarious-ucu/weather-lookup/internal/storage/sqlite"
	fLogger "github.com/Nazarious-ucu/weather-lookup/pkg/logger"
)

const (
	serviceName     = "weather_lookup"
	timeoutDuration = 5 * time.Second
)

type weatherResolver interface {
	Resolve(ctx context.Context, city string) (models.WeatherSnapshot, error)
}

// ServiceContainer holds initialized dependencies for the HTTP server.
type ServiceContainer struct {
	Resolver weatherResolver
	History  *history.Service
	Preview  *preview.Service

	Router     *gin.Engine
	Srv        *http.Server
	Db         *sql.DB
	Redis      *redis.Client
	fileLogger *zap.Logger
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	reg *prometheus.Registry
}

func New(cfg config.Config, logger zerolog.Logger) *App {
	return &App{
		cfg: cfg,
		l:   logger,
		reg: prometheus.NewRegistry(),
	}
}

// Start builds the service graph, serves HTTP until ctx is done, then shuts down.
func (a *App) Start(ctx context.Context) error {
	srvContainer, err := a.Init(ctx)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.l.Info().Str("http_addr", a.cfg.ServerAddress()).Msg("HTTP server listening")
		if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.l.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			a.l.Error().Err(err).Msg("HTTP server error")
			_ = a.Shutdown(srvContainer)
			return err
		}
	}

	return a.Shutdown(srvContainer)
}

// Shutdown stops the HTTP server and releases storage and loggers.
func (a *App) Shutdown(srvContainer ServiceContainer) error {
	a.l.Info().Msg("stopping weather lookup service")

	var errs []error

	ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
	defer cancel()
	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		a.l.Error().Err(err).Msg("HTTP shutdown error")
		errs = append(errs, err)
	}

	if srvContainer.Db != nil {
		if err := srvContainer.Db.Close(); err != nil {
			a.l.Error().Err(err).Msg("database close error")
			errs = append(errs, err)
		}
	}

	if srvContainer.Redis != nil {
		if err := srvContainer.Redis.Close(); err != nil {
			a.l.Error().Err(err).Msg("redis close error")
			errs = append(errs, err)
		}
	}

	if srvContainer.fileLogger != nil {
		if err := srvContainer.fileLogger.Sync(); err != nil {
			a.l.Warn().Err(err).Msg("failed to sync file logger")
		}
	}

	a.l.Info().Msg("shutdown complete")
	return errors.Join(errs...)
}

// Init wires storage, resolver, history, preview and the router without serving.
func (a *App) Init(ctx context.Context) (ServiceContainer, error) {
	a.l.Info().
		Str("storage", a.cfg.Storage.Driver).
		Bool("live", a.cfg.LiveMode()).
		Bool("cache", a.cfg.CacheEnabled).
		Msg("initializing weather lookup service")

	var srvContainer ServiceContainer

	m := metricsSvc.NewMetrics(serviceName, a.reg)
	collector := metricsSvc.NewPromCollector(serviceName, a.reg)

	needRedis := a.cfg.Storage.Driver == config.DriverRedis ||
		(a.cfg.CacheEnabled && a.cfg.LiveMode())
	if needRedis {
		srvContainer.Redis = newRedisConnection(a.cfg.Redis.Address(), a.cfg.Redis.DB)
	}

	kv, db, err := a.newStore(ctx, srvContainer.Redis)
	if err != nil {
		return ServiceContainer{}, err
	}
	srvContainer.Db = db

	srvContainer.History = history.NewService(
		storage.NewMetricsDecorator(kv, collector),
		a.l,
		history.WithFailureHook(m.HistoryFailure),
	)

	fileLogger, err := fLogger.NewFileLogger(a.cfg.HTTPLogsPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create HTTP file logger, outbound calls are not logged")
		fileLogger = zap.NewNop()
	}
	srvContainer.fileLogger = fileLogger

	httpClient := &http.Client{
		Transport: loggerT.NewRoundTripper(fileLogger),
		Timeout:   time.Duration(a.cfg.HTTPTimeout) * time.Second,
	}

	provider := serviceWeather.NewProvider(serviceWeather.LiveConfig{
		APIKey: a.cfg.OpenWeatherMapAPIKey,
		APIURL: a.cfg.OpenWeatherMapURL,
		Breaker: serviceWeather.BreakerConfig{
			TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
			TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
			RepeatNumber: a.cfg.Breaker.RepeatNumber,
		},
	}, httpClient, fLogger.WithComponent(a.l, "WeatherProvider"))

	resolver := serviceWeather.NewResolver(provider,
		fLogger.WithComponent(a.l, "WeatherResolver"),
		serviceWeather.WithRecorder(m),
	)
	srvContainer.Resolver = resolver

	if a.cfg.CacheEnabled && a.cfg.LiveMode() {
		cacheMetrics := cache.NewMetricsDecorator[models.WeatherSnapshot](
			cache.NewRedisClient[models.WeatherSnapshot](
				srvContainer.Redis, a.l, time.Duration(a.cfg.Redis.LiveTime)*time.Minute,
			),
			collector,
		)
		srvContainer.Resolver = decorators.NewCachedService(resolver, cacheMetrics,
			fLogger.WithComponent(a.l, "WeatherCache"))
	}

	srvContainer.Preview = preview.NewService(srvContainer.Resolver,
		fLogger.WithComponent(a.l, "Preview"), a.cfg.PreviewLimit)

	router := gin.New()
	router.UseRawPath = true
	router.Use(gin.Recovery(), m.HTTPMiddleware())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{})))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": resolver.Mode()})
	})
	http2.NewHandler(srvContainer.Resolver, srvContainer.History, srvContainer.Preview,
		fLogger.WithComponent(a.l, "HTTPHandler")).Register(router)
	srvContainer.Router = router

	srvContainer.Srv = &http.Server{
		Addr:        a.cfg.ServerAddress(),
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return srvContainer, nil
}

func (a *App) newStore(ctx context.Context, redisClient *redis.Client) (storage.KV, *sql.DB, error) {
	switch a.cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil, nil
	case config.DriverRedis:
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis ping %s: %w", a.cfg.Redis.Address(), err)
		}
		return redisStore.NewStore(redisClient, a.l), nil, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(a.cfg.Storage.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", a.cfg.Storage.Source, err)
		}
		if err := sqlite.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return sqlite.NewStore(db, a.l), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
	}
}

func newRedisConnection(addr string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, DB: db})
}
