// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

// Package metrics provides Prometheus instrumentation for the ranking
// engine, the swipe engine, catalog acquisition, snapshot persistence,
// and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ranking metrics
	VotesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rank_votes_total",
			Help: "Total number of pairwise votes applied",
		},
	)

	PairRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rank_pair_requests_total",
			Help: "Total number of pair selections, by outcome",
		},
		[]string{"outcome"}, // "cached", "sampled", "insufficient_data"
	)

	CoverageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rank_coverage_ratio",
			Help: "Fraction of unordered item pairs compared at least once",
		},
	)

	// Swipe metrics
	SwipeDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipe_decisions_total",
			Help: "Total number of swipe decisions, by outcome",
		},
		[]string{"decision"}, // "like", "dislike"
	)

	SwipeMatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swipe_matches_total",
			Help: "Total number of items matched by all participants",
		},
	)

	// Catalog metrics
	CatalogFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_fetch_duration_seconds",
			Help:    "Duration of Jellyfin catalog fetches in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Number of items in the current catalog",
		},
	)

	PosterDownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_poster_downloads_total",
			Help: "Total poster downloads, by result",
		},
		[]string{"result"}, // "ok", "skipped", "error"
	)

	TMDBLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_tmdb_lookups_total",
			Help: "Total TMDB title lookups, by result",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)

	// Persistence metrics
	SnapshotSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_snapshot_saves_total",
			Help: "Total snapshot save attempts, by kind and result",
		},
		[]string{"kind", "result"}, // kind: "rank", "swipe"; result: "ok", "error"
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
