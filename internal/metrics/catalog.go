// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus collectors for tvdeck.
// Labels are bounded: category ids come from config, never from requests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch results.
const (
	FetchSuccess        = "success"
	FetchHTTPError      = "http_error"
	FetchTransportError = "transport_error"
	FetchReadError      = "read_error"
)

var (
	catalogFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvdeck_catalog_fetch_total",
		Help: "Playlist fetches by category and result",
	}, []string{"category", "result"})

	catalogCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvdeck_catalog_cache_hits_total",
		Help: "Category selections served from the in-process cache",
	}, []string{"category"})

	catalogChannels = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tvdeck_catalog_channels",
		Help: "Channels parsed from the last successful fetch per category",
	}, []string{"category"})

	catalogFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tvdeck_catalog_fetch_duration_seconds",
		Help:    "Playlist fetch latency including parsing",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	}, []string{"result"})
)

// RecordFetch records the outcome of one network fetch.
func RecordFetch(category, result string, d time.Duration) {
	catalogFetchTotal.WithLabelValues(category, result).Inc()
	catalogFetchDuration.WithLabelValues(result).Observe(d.Seconds())
}

// RecordCacheHit records a fetch answered from cache.
func RecordCacheHit(category string) {
	catalogCacheHits.WithLabelValues(category).Inc()
}

// SetCategoryChannels records the parsed channel count for a category.
func SetCategoryChannels(category string, n int) {
	catalogChannels.WithLabelValues(category).Set(float64(n))
}
