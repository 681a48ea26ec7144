// Package metrics exposes the Prometheus instruments shared across the
// service. Everything registers on the default registry and is served by the
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storybeats"

var (
	// RecommendationsTotal counts full pipeline runs.
	RecommendationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Number of recommendation pipeline runs.",
	})

	// DegradedRuns counts runs that fell back to estimated audio features.
	DegradedRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degraded_runs_total",
		Help:      "Pipeline runs served with estimated audio features only.",
	})

	// CandidatesHarvested counts tracks pulled from the catalog before filtering.
	CandidatesHarvested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidates_harvested_total",
		Help:      "Candidate tracks harvested across all runs.",
	})

	// SessionHits counts load-more calls served from the session cache.
	SessionHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_cache_hits_total",
		Help:      "Load-more requests answered from the session cache.",
	})

	// SessionMisses counts load-more calls that needed the fallback pipeline.
	SessionMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_cache_misses_total",
		Help:      "Load-more requests that missed the session cache.",
	})

	// ActiveSessions tracks live entries in the session cache.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Sessions currently held in the pagination cache.",
	})

	// RerankOutcomes counts detached rerank jobs by result.
	RerankOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rerank_jobs_total",
		Help:      "Detached rerank jobs by outcome.",
	}, []string{"outcome"})

	// HTTPRequests counts API requests by route and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"route", "status"})
)
