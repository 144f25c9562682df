// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

// Package metrics provides Prometheus instrumentation for:
//   - Recommendation latency, fallback levels, and stop conditions
//   - Feedback pipeline throughput
//   - Catalog source health (fetches, circuit breaker state)
//   - API endpoint latency and throughput
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_recommendations_total",
			Help: "Total number of recommendation requests by outcome level",
		},
		[]string{"level"}, // "none", "relaxed_tags", "relaxed_runtime", "exhausted"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelpick_recommendation_duration_seconds",
			Help:    "Duration of a full recommendation pipeline pass",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	StopConditionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_stop_conditions_total",
			Help: "Total number of exhausted recommendations by stop condition",
		},
		[]string{"condition"},
	)

	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_fallbacks_total",
			Help: "Total number of recommendations served from a fallback level",
		},
		[]string{"level"}, // "relaxed_tags", "relaxed_runtime"
	)

	// Feedback Pipeline Metrics
	FeedbackEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_feedback_events_total",
			Help: "Total number of feedback events by action",
		},
		[]string{"action"},
	)

	FeedbackErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_feedback_errors_total",
			Help: "Total number of feedback processing errors",
		},
		[]string{"error_type"}, // "decode", "store", "publish"
	)

	FeedbackProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelpick_feedback_processing_duration_seconds",
			Help:    "Duration of one feedback event application",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Catalog Metrics
	CatalogFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_catalog_fetches_total",
			Help: "Total number of catalog fetches by result",
		},
		[]string{"result"}, // "success", "error", "breaker_open"
	)

	CatalogFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelpick_catalog_fetch_duration_seconds",
			Help:    "Duration of catalog fetches",
			Buckets: prometheus.DefBuckets,
		},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelpick_catalog_entries",
			Help: "Number of titles in the current catalog snapshot",
		},
	)

	CatalogSnapshotAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelpick_catalog_snapshot_timestamp",
			Help: "Unix timestamp of the current catalog snapshot",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelpick_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelpick_store_operation_duration_seconds",
			Help:    "Duration of learned-state store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "get", "put", "delete"
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_store_errors_total",
			Help: "Total number of learned-state store errors",
		},
		[]string{"operation"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelpick_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelpick_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

// RecordRecommendation records the outcome of one recommendation pass.
func RecordRecommendation(level string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(level).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	if level != "none" && level != "exhausted" {
		FallbacksTotal.WithLabelValues(level).Inc()
	}
}

// RecordStopCondition records an exhausted recommendation.
func RecordStopCondition(condition string) {
	StopConditionsTotal.WithLabelValues(condition).Inc()
}

// RecordFeedbackEvent records one processed feedback event.
func RecordFeedbackEvent(action string, duration time.Duration) {
	FeedbackEventsTotal.WithLabelValues(action).Inc()
	FeedbackProcessingDuration.Observe(duration.Seconds())
}

// RecordFeedbackError records a feedback processing failure.
func RecordFeedbackError(errorType string) {
	FeedbackErrors.WithLabelValues(errorType).Inc()
}

// RecordCatalogFetch records a catalog fetch attempt.
func RecordCatalogFetch(result string, duration time.Duration) {
	CatalogFetchesTotal.WithLabelValues(result).Inc()
	CatalogFetchDuration.Observe(duration.Seconds())
}

// UpdateCatalogSnapshot records the size and timestamp of a fresh snapshot.
func UpdateCatalogSnapshot(entries int, loadedAt time.Time) {
	CatalogSize.Set(float64(entries))
	CatalogSnapshotAge.Set(float64(loadedAt.Unix()))
}

// RecordStoreOperation records one learned-state store operation.
func RecordStoreOperation(operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records the outcome of one API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
