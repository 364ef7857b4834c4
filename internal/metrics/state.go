// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	favoritesCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tvdeck_favorites",
		Help: "Number of favorited channels",
	})

	recentsCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tvdeck_recents",
		Help: "Number of recently watched channels",
	})

	storeWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvdeck_store_write_errors_total",
		Help: "Failed persistent store writes by key",
	}, []string{"key"})
)

// SetFavorites records the current favorites count.
func SetFavorites(n int) { favoritesCount.Set(float64(n)) }

// SetRecents records the current recents count.
func SetRecents(n int) { recentsCount.Set(float64(n)) }

// RecordStoreWriteError counts a failed write of key.
func RecordStoreWriteError(key string) {
	storeWriteErrors.WithLabelValues(key).Inc()
}
