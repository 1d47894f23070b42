package metrics

import (
	"fmt"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const divisor = 100

// Metrics holds Prometheus metric vectors for the weather lookup service.
type Metrics struct {
	// HTTP server metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Domain metrics
	ResolveTotal              *prometheus.CounterVec
	ResolveDuration           *prometheus.HistogramVec
	HistoryPersistenceFailure *prometheus.CounterVec
}

// NewMetrics constructs all service metrics and registers them on reg
// together with the Go runtime and process collectors.
func NewMetrics(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests received",
			},
			[]string{"method", "endpoint", "status_class"},
		),

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		ResolveTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "weather_resolve_total",
				Help:      "Weather resolutions by provider and outcome",
			},
			[]string{"provider", "result"},
		),

		ResolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "weather_resolve_duration_seconds",
				Help:      "Weather resolution latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),

		HistoryPersistenceFailure: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "history_persistence_failures_total",
				Help:      "Search history writes that failed and were absorbed",
			},
			[]string{"operation"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ResolveTotal,
		m.ResolveDuration,
		m.HistoryPersistenceFailure,
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(
				collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/sched/latencies:seconds")},
			),
		),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// HTTPMiddleware returns a Gin middleware to instrument HTTP endpoints.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		d := time.Since(start)

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.HTTPRequestsTotal.With(prometheus.Labels{
			"method":       c.Request.Method,
			"endpoint":     endpoint,
			"status_class": getStatusClass(c.Writer.Status()),
		}).Inc()
		m.HTTPRequestDuration.With(prometheus.Labels{
			"method":   c.Request.Method,
			"endpoint": endpoint,
		}).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveResolve(provider, result string, d time.Duration) {
	m.ResolveTotal.WithLabelValues(provider, result).Inc()
	m.ResolveDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// HistoryFailure matches history.FailureHook.
func (m *Metrics) HistoryFailure(op string, _ error) {
	m.HistoryPersistenceFailure.WithLabelValues(op).Inc()
}

func getStatusClass(code int) string {
	return fmt.Sprintf("%dxx", code/divisor)
}
