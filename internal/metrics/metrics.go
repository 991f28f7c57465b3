// Package metrics provides Prometheus metrics for the recommendation service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for RecommendationsTotal.
const (
	OutcomeMatched = "matched"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

var (
	// Recommendation metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powerparts_recommendations_total",
			Help: "Total number of suggestion calls by family and outcome",
		},
		[]string{"family", "outcome"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "powerparts_recommendation_duration_seconds",
			Help:    "Time taken to load, match and rank one family",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"family"},
	)

	CandidatesReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "powerparts_candidates_returned",
			Help:    "Number of ranked candidates returned per suggestion call",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50, 100},
		},
		[]string{"family"},
	)

	// Catalog metrics
	CatalogRowWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powerparts_catalog_row_warnings_total",
			Help: "Total number of catalog row fields that could not be normalized",
		},
		[]string{"family"},
	)

	DesignsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powerparts_designs_total",
			Help: "Total number of design plans computed by circuit and status",
		},
		[]string{"circuit", "status"},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "powerparts_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// ObserveRecommendation records one suggestion call.
func ObserveRecommendation(family string, start time.Time, count int, err error) {
	RecommendationDuration.WithLabelValues(family).Observe(time.Since(start).Seconds())
	switch {
	case err != nil:
		RecommendationsTotal.WithLabelValues(family, OutcomeError).Inc()
	case count == 0:
		RecommendationsTotal.WithLabelValues(family, OutcomeEmpty).Inc()
		CandidatesReturned.WithLabelValues(family).Observe(0)
	default:
		RecommendationsTotal.WithLabelValues(family, OutcomeMatched).Inc()
		CandidatesReturned.WithLabelValues(family).Observe(float64(count))
	}
}
