// AnabAI - Personalized Travel Itinerary Recommendation Engine
// Copyright 2026 Smile2578
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Smile2578/anabai-ml

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anabai_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "anabai_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "anabai_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anabai_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Pipeline metrics

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "anabai_generation_duration_seconds",
			Help:    "Itinerary generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "anabai_recommendation_duration_seconds",
			Help:    "Recommendation ranking duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"outcome"},
	)

	ItineraryStops = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "anabai_itinerary_stops",
			Help:    "Number of stops in generated itineraries",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 10, 12},
		},
	)

	// Score cache metrics

	ScoreCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "anabai_score_cache_hits_total",
			Help: "Total number of score cache hits",
		},
	)

	ScoreCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "anabai_score_cache_misses_total",
			Help: "Total number of score cache misses",
		},
	)

	ScoreCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "anabai_score_cache_entries",
			Help: "Current number of cached score entries",
		},
	)

	// Feedback loop metrics

	FeedbackEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anabai_feedback_events_total",
			Help: "Feedback events by publication result",
		},
		[]string{"result"}, // published, dropped, malformed
	)

	FeedbackApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "anabai_feedback_applied_total",
			Help: "Total number of feedback events folded into the weights",
		},
	)

	WeightsVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "anabai_weights_version",
			Help: "Current learned weights snapshot version",
		},
	)

	// External feed metrics

	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anabai_feed_requests_total",
			Help: "External feed requests by outcome",
		},
		[]string{"feed", "outcome"}, // success, failure, rejected
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "anabai_feed_circuit_breaker_state",
			Help: "Feed circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"feed"},
	)

	CatalogPlaces = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "anabai_catalog_places",
			Help: "Current number of places in the catalog",
		},
	)
)

// RecordGeneration records one itinerary generation attempt.
func RecordGeneration(duration time.Duration, stops int, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	GenerationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if err == nil {
		ItineraryStops.Observe(float64(stops))
	}
}

// RecordRecommendation records one recommendation request.
func RecordRecommendation(duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	RecommendationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordFeedback counts a feedback event by publication result.
func RecordFeedback(result string) {
	FeedbackEvents.WithLabelValues(result).Inc()
}

// RecordFeedRequest counts one external feed request.
func RecordFeedRequest(feed, outcome string) {
	FeedRequests.WithLabelValues(feed, outcome).Inc()
}

// RecordAPIRequest records one handled HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
