// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks HTTP request latency by route.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RecordsInserted counts persisted energy records.
	RecordsInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "energy_records_inserted_total",
			Help: "Total number of energy records persisted",
		},
	)

	// AnomaliesInjected counts anomalies produced by seeding runs, by category.
	AnomaliesInjected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomalies_injected_total",
			Help: "Total number of synthetic anomalies injected",
		},
		[]string{"category"},
	)

	// WSClients tracks currently connected live-feed clients.
	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connected_clients",
			Help: "Number of connected WebSocket clients",
		},
	)

	// CacheHits and CacheMisses track the analytics cache.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_cache_hits_total",
			Help: "Analytics cache hits",
		},
	)
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_cache_misses_total",
			Help: "Analytics cache misses",
		},
	)
)
