package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olsss/timetable-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides
// lightweight snapshots for the status endpoint.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	generationDuration prometheus.Observer
	combosGenerated    prometheus.Counter
	combosRejected     prometheus.Counter
	rowsSkipped        prometheus.Counter

	requestCount         uint64
	requestDurationTotal uint64
	generationCount      uint64
	combosGeneratedCount uint64
	combosRejectedCount  uint64
	rowsSkippedCount     uint64
}

// NewMetricsService registers the core Prometheus collectors on a private
// registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "generation_duration_seconds",
		Help:    "Duration of timetable generation runs",
		Buckets: prometheus.DefBuckets,
	})

	combosGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "combinations_generated_total",
		Help: "Total candidate combinations produced by the enumerator",
	})

	combosRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "combinations_rejected_total",
		Help: "Total candidate combinations rejected by the validator",
	})

	rowsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_rows_skipped_total",
		Help: "Total catalog rows excluded during load",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, generationDuration, combosGenerated, combosRejected, rowsSkipped, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		generationDuration: generationDuration,
		combosGenerated:    combosGenerated,
		combosRejected:     combosRejected,
		rowsSkipped:        rowsSkipped,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveGeneration records one generation run with its candidate counts.
func (m *MetricsService) ObserveGeneration(duration time.Duration, generated, rejected int) {
	if m == nil {
		return
	}
	m.generationDuration.Observe(duration.Seconds())
	if generated > 0 {
		m.combosGenerated.Add(float64(generated))
		atomic.AddUint64(&m.combosGeneratedCount, uint64(generated))
	}
	if rejected > 0 {
		m.combosRejected.Add(float64(rejected))
		atomic.AddUint64(&m.combosRejectedCount, uint64(rejected))
	}
	atomic.AddUint64(&m.generationCount, 1)
}

// ObserveRowsSkipped counts catalog rows excluded during a load.
func (m *MetricsService) ObserveRowsSkipped(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.rowsSkipped.Add(float64(count))
	atomic.AddUint64(&m.rowsSkippedCount, uint64(count))
}

// Snapshot returns aggregated metrics for the status endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		GenerationsTotal:         atomic.LoadUint64(&m.generationCount),
		CombinationsGenerated:    atomic.LoadUint64(&m.combosGeneratedCount),
		CombinationsRejected:     atomic.LoadUint64(&m.combosRejectedCount),
		CatalogRowsSkipped:       atomic.LoadUint64(&m.rowsSkippedCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
