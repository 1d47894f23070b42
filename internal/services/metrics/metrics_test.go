package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-lookup/internal/services/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, c.Write(&pb))
	return pb.GetCounter().GetValue()
}

func family(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %q not registered", name)
	return nil
}

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.NewMetrics("test", prometheus.NewRegistry())

	router := gin.New()
	router.Use(m.HTTPMiddleware())
	router.GET("/api/weather", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/weather", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	assert.InDelta(t, 1, counterValue(t,
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/weather", "4xx"),
	), 0)
}

func TestDomainMetrics(t *testing.T) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())

	m.ObserveResolve("synthetic", "success", time.Millisecond)
	m.ObserveResolve("synthetic", "success", time.Millisecond)
	m.HistoryFailure("record", errors.New("disk full"))

	assert.InDelta(t, 2, counterValue(t, m.ResolveTotal.WithLabelValues("synthetic", "success")), 0)
	assert.InDelta(t, 1, counterValue(t, m.HistoryPersistenceFailure.WithLabelValues("record")), 0)
}

func TestPromCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := metrics.NewPromCollector("test", reg)

	p.ObserveLatency("kv_get", time.Millisecond)
	p.IncrementCounter("kv_get", "hit")
	p.IncrementCounter("kv_get", "miss")
	p.IncrementCounter("kv_get", "hit")

	counts := family(t, reg, "test_store_operations_total")
	require.Len(t, counts.GetMetric(), 2)

	latency := family(t, reg, "test_store_operation_duration_seconds")
	require.Len(t, latency.GetMetric(), 1)
	assert.Equal(t, uint64(1), latency.GetMetric()[0].GetHistogram().GetSampleCount())
}
