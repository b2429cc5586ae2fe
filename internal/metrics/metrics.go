// Package metrics provides the centralized Prometheus metrics registry for match-odds.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "match_odds"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	FixtureAnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fixture_analyses_total",
		Help:      "Total number of fixture analyses by status",
	}, []string{"status"})
	FallbackRatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_rates_total",
		Help:      "Total number of team rates that used the configured fallback",
	}, []string{"side", "metric"})
	ValueAssessmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_assessments_total",
		Help:      "Total number of value assessments by outcome",
	}, []string{"outcome"})
	RecommendationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Total number of picks recommended",
	})
)

// Histogram metrics
var (
	FixtureAnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fixture_analysis_duration_seconds",
		Help:      "Duration of fixture analyses including data fetch",
		Buckets:   prometheus.DefBuckets,
	})
	ExpectedGoals = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "expected_goals",
		Help:      "Distribution of computed expected goals per side",
		Buckets:   []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2, 2.5, 3, 4},
	}, []string{"side"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(FixtureAnalysesTotal)
		registry.MustRegister(FallbackRatesTotal)
		registry.MustRegister(ValueAssessmentsTotal)
		registry.MustRegister(RecommendationsTotal)

		registry.MustRegister(FixtureAnalysisDuration)
		registry.MustRegister(ExpectedGoals)

		registry.MustRegister(SupplierRequestsTotal)
		registry.MustRegister(SupplierRequestDuration)
		registry.MustRegister(SupplierCacheHitRatio)
		registry.MustRegister(CacheRefreshesTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordFixtureAnalysis records a finished analysis and its duration.
func RecordFixtureAnalysis(status string, durationSeconds float64) {
	FixtureAnalysesTotal.WithLabelValues(status).Inc()
	FixtureAnalysisDuration.Observe(durationSeconds)
}

// RecordFallbackRate records a team rate that used the fallback.
func RecordFallbackRate(side, metric string) {
	FallbackRatesTotal.WithLabelValues(side, metric).Inc()
}

// RecordExpectedGoals records the lambdas of an analysed fixture.
func RecordExpectedGoals(home, away float64) {
	ExpectedGoals.WithLabelValues("home").Observe(home)
	ExpectedGoals.WithLabelValues("away").Observe(away)
}

// RecordValueAssessment records a value assessment outcome: value, no_value or invalid_odds.
func RecordValueAssessment(outcome string) {
	ValueAssessmentsTotal.WithLabelValues(outcome).Inc()
}

// RecordRecommendation records a recommended pick.
func RecordRecommendation() {
	RecommendationsTotal.Inc()
}
