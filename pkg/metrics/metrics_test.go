package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	first := HTTPRequestsTotal

	assert.NotPanics(t, InitMetrics, "重复初始化不应重复注册")
	assert.Same(t, first, HTTPRequestsTotal)
}

func TestObserveHTTPRequest(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/orders", "200"))
	ObserveHTTPRequest("POST", "/api/v1/orders", 200, 15*time.Millisecond)
	ObserveHTTPRequest("POST", "/api/v1/orders", 200, 30*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/orders", "200"))
	assert.Equal(t, 2.0, after-before)

	h := histogramOf(t, HTTPRequestDuration.WithLabelValues("POST", "/api/v1/orders").(prometheus.Metric))
	assert.GreaterOrEqual(t, h.GetSampleCount(), uint64(2))
}

func TestTrackInFlight(t *testing.T) {
	InitMetrics()

	base := testutil.ToFloat64(HTTPRequestsInProgress)
	done := TrackInFlight()
	assert.Equal(t, base+1, testutil.ToFloat64(HTTPRequestsInProgress))
	done()
	assert.Equal(t, base, testutil.ToFloat64(HTTPRequestsInProgress))
}

func TestStockMoved_CountsAbsoluteUnits(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(StockUnitsMoved.WithLabelValues("SELL"))
	StockMoved("SELL", -3)
	StockMoved("SELL", 2)

	assert.Equal(t, 5.0, testutil.ToFloat64(StockUnitsMoved.WithLabelValues("SELL"))-before)
}

func TestCacheCounters(t *testing.T) {
	InitMetrics()

	hits := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("sales"))
	misses := testutil.ToFloat64(CacheMissesTotal.WithLabelValues("sales"))

	CacheHit("sales")
	CacheMiss("sales")
	CacheMiss("sales")

	assert.Equal(t, hits+1, testutil.ToFloat64(CacheHitsTotal.WithLabelValues("sales")))
	assert.Equal(t, misses+2, testutil.ToFloat64(CacheMissesTotal.WithLabelValues("sales")))
}

func TestBatchExecuted(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(BatchExecutionsTotal.WithLabelValues("daily", "failure"))
	BatchExecuted("daily", false, time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(BatchExecutionsTotal.WithLabelValues("daily", "failure")))
}

func TestSetCircuitBreakerState(t *testing.T) {
	InitMetrics()

	SetCircuitBreakerState("report-cache", 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("report-cache")))
	SetCircuitBreakerState("report-cache", 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("report-cache")))
}

func histogramOf(t *testing.T, m prometheus.Metric) *dto.Histogram {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	require.NotNil(t, out.Histogram)
	return out.Histogram
}
