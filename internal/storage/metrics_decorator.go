package storage

import (
	"context"
	"errors"
	"time"
)

type metricsCollector interface {
	ObserveLatency(operation string, duration time.Duration)
	IncrementCounter(metric string, labels ...string)
}

type MetricsDecorator struct {
	next      KV
	collector metricsCollector
}

func NewMetricsDecorator(next KV, collector metricsCollector) *MetricsDecorator {
	return &MetricsDecorator{next: next, collector: collector}
}

func (m *MetricsDecorator) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	value, err := m.next.Get(ctx, key)
	m.collector.ObserveLatency("kv_get", time.Since(start))
	switch {
	case errors.Is(err, ErrKeyNotFound):
		m.collector.IncrementCounter("kv_get", "miss")
	case err != nil:
		m.collector.IncrementCounter("kv_get", "error")
	default:
		m.collector.IncrementCounter("kv_get", "hit")
	}
	return value, err
}

func (m *MetricsDecorator) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := m.next.Set(ctx, key, value)
	m.collector.ObserveLatency("kv_set", time.Since(start))
	m.collector.IncrementCounter("kv_set", result(err))
	return err
}

func (m *MetricsDecorator) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := m.next.Delete(ctx, key)
	m.collector.ObserveLatency("kv_delete", time.Since(start))
	m.collector.IncrementCounter("kv_delete", result(err))
	return err
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
