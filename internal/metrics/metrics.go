// Package metrics declares the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uta_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uta_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Spotify Web API
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uta_spotify_requests_total",
			Help: "Total number of Spotify Web API calls",
		},
		[]string{"operation", "outcome"}, // outcome: ok, rate_limited, client_error, server_error, transport_error
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uta_spotify_request_duration_seconds",
			Help:    "Spotify Web API call latency in seconds, retries included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "uta_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uta_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Recommendation engines
	AggregatorSourceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uta_aggregator_source_total",
			Help: "Live aggregator source runs by outcome",
		},
		[]string{"source", "outcome"}, // outcome: ok, failed
	)

	AggregatorCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uta_aggregator_candidates",
			Help:    "Number of candidates contributed by a source",
			Buckets: []float64{0, 1, 5, 10, 20, 40, 80},
		},
		[]string{"source"},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uta_recommendations_served_total",
			Help: "Tracks returned to callers by engine",
		},
		[]string{"engine"}, // catalog, live, seeded, playlist
	)

	CatalogRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "uta_catalog_rows",
			Help: "Rows loaded into the in-memory catalog",
		},
	)
)

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordUpstreamRequest records one Spotify call.
func RecordUpstreamRequest(operation, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(operation, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSource records the outcome of one aggregator source.
func RecordSource(source string, candidates int, err error) {
	if err != nil {
		AggregatorSourceTotal.WithLabelValues(source, "failed").Inc()
		return
	}
	AggregatorSourceTotal.WithLabelValues(source, "ok").Inc()
	AggregatorCandidates.WithLabelValues(source).Observe(float64(candidates))
}

// RecordServed adds n tracks to the served counter of engine.
func RecordServed(engine string, n int) {
	RecommendationsServed.WithLabelValues(engine).Add(float64(n))
}
