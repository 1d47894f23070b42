package cache

import (
	"context"
	"errors"
	"time"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

type cache[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

type metricsCollector interface {
	ObserveLatency(operation string, duration time.Duration)
	IncrementCounter(metric string, labels ...string)
}

type MetricsDecorator[T any] struct {
	next      cache[T]
	collector metricsCollector
}

func NewMetricsDecorator[T any](next cache[T], collector metricsCollector) *MetricsDecorator[T] {
	return &MetricsDecorator[T]{next: next, collector: collector}
}

func (m *MetricsDecorator[T]) Set(
	ctx context.Context,
	key string,
	value T,
) error {
	start := time.Now()
	err := m.next.Set(ctx, key, value)
	m.collector.ObserveLatency("cache_set", time.Since(start))
	if err != nil {
		m.collector.IncrementCounter("cache_set", "error")
	} else {
		m.collector.IncrementCounter("cache_set", "success")
	}
	return err
}

//nolint:ireturn
func (m *MetricsDecorator[T]) Get(
	ctx context.Context,
	key string,
) (T, error) {
	start := time.Now()
	data, err := m.next.Get(ctx, key)
	m.collector.ObserveLatency("cache_get", time.Since(start))
	switch {
	case errors.Is(err, models.ErrCacheMiss):
		m.collector.IncrementCounter("cache_get", "miss")
	case err != nil:
		m.collector.IncrementCounter("cache_get", "error")
	default:
		m.collector.IncrementCounter("cache_get", "hit")
	}
	return data, err
}
