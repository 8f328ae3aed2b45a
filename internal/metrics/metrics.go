// Package metrics provides Prometheus metrics for the card scanner
// backend. Scrape these at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardscan_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardscan_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Scan Metrics
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardscan_scans_total",
			Help: "Scan attempts by result",
		},
		[]string{"result"}, // "success", "service_error", "network_error", "normalization_error"
	)

	RecognizerLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardscan_recognizer_latency_seconds",
			Help:    "Recognition service call latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	RecognizerCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardscan_recognizer_cache_hits_total",
			Help: "Recognition result cache hit count",
		},
	)

	RecognizerCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardscan_recognizer_cache_misses_total",
			Help: "Recognition result cache miss count",
		},
	)

	// Collection Metrics
	CollectionCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardscan_collection_cards_total",
			Help: "Number of cards in the collection",
		},
	)

	CollectionValueUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardscan_collection_value_usd",
			Help: "Total recorded sale value of the collection in USD",
		},
	)

	// StoreSkippedEntries tracks stored entries that failed to decode
	// during the last load. Nonzero here means data the listing silently
	// hides.
	StoreSkippedEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardscan_store_skipped_entries",
			Help: "Stored entries skipped as undecodable during the last load",
		},
	)
)

// UpdateCollectionMetrics refreshes the collection gauges after a load.
func UpdateCollectionMetrics(cards, skipped int, totalValue float64) {
	CollectionCardsTotal.Set(float64(cards))
	CollectionValueUSD.Set(totalValue)
	StoreSkippedEntries.Set(float64(skipped))
}
