package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	chartRequests *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	degradedTotal *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	queryLatency  *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		chartRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockdeck_chart_requests_total",
				Help: "Total number of chart dataset requests by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockdeck_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		degradedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockdeck_degraded_total",
				Help: "Chart datasets served in the no-forecast degraded mode",
			},
			[]string{"symbol"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockdeck_cache_lookups_total",
				Help: "Memoized dataset lookups by result",
			},
			[]string{"result"},
		),
		queryLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockdeck_store_query_duration_seconds",
				Help:    "Duration of warehouse queries in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
}

// RecordChartRequest records one chart request by outcome (ok, degraded,
// unknown_symbol, invalid_range, no_data, store_unavailable).
func (r *Recorder) RecordChartRequest(outcome string) {
	r.chartRequests.WithLabelValues(outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordDegraded records a degraded-mode dataset for a symbol.
func (r *Recorder) RecordDegraded(symbol string) {
	r.degradedTotal.WithLabelValues(symbol).Inc()
}

// RecordCacheLookup records a memoization hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordQueryLatency records warehouse query latency in seconds.
func (r *Recorder) RecordQueryLatency(op string, seconds float64) {
	r.queryLatency.WithLabelValues(op).Observe(seconds)
}
