// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	playbackStarts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvdeck_playback_starts_total",
		Help: "Playback attempts by path (adaptive|native|unsupported|invalid)",
	}, []string{"path"})

	playbackPhase = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvdeck_playback_phase_transitions_total",
		Help: "Player phase transitions by target phase",
	}, []string{"phase"})

	playbackErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvdeck_playback_errors_total",
		Help: "Playback failures by kind (fatal|media|unsupported|invalid_url)",
	}, []string{"kind"})
)

// RecordPlaybackStart counts a playback attempt.
func RecordPlaybackStart(path string) {
	playbackStarts.WithLabelValues(path).Inc()
}

// RecordPhase counts a transition into phase.
func RecordPhase(phase string) {
	playbackPhase.WithLabelValues(phase).Inc()
}

// RecordPlaybackError counts a playback failure.
func RecordPlaybackError(kind string) {
	playbackErrors.WithLabelValues(kind).Inc()
}
