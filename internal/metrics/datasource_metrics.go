package metrics

import "github.com/prometheus/client_golang/prometheus"

// Supplier metrics
var (
	SupplierRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "supplier_requests_total",
		Help:      "Total number of match history requests by source and status",
	}, []string{"source", "status"})

	SupplierRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "supplier_request_duration_seconds",
		Help:      "Duration of match history requests by source",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"source"})

	SupplierCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "supplier_cache_hit_ratio",
		Help:      "Hit ratio of the match history cache",
	})

	CacheRefreshesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_refreshes_total",
		Help:      "Total number of scheduled team history refreshes by status",
	}, []string{"status"})
)

// RecordSupplierRequest records a supplier call.
func RecordSupplierRequest(source, status string, durationSeconds float64) {
	SupplierRequestsTotal.WithLabelValues(source, status).Inc()
	SupplierRequestDuration.WithLabelValues(source).Observe(durationSeconds)
}

// UpdateCacheHitRatio sets the current cache hit ratio.
func UpdateCacheHitRatio(ratio float64) {
	SupplierCacheHitRatio.Set(ratio)
}

// RecordCacheRefresh records a scheduled refresh of one team.
func RecordCacheRefresh(status string) {
	CacheRefreshesTotal.WithLabelValues(status).Inc()
}
