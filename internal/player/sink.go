// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package player

import (
	"math"
	"strings"
	"sync"
)

// Path is how a stream reaches the media element.
type Path string

const (
	PathAdaptive    Path = "adaptive"
	PathNative      Path = "native"
	PathUnsupported Path = "unsupported"
	PathInvalid     Path = "invalid"
)

// Sink is the media element plus the player chrome around it.
type Sink interface {
	// Reset pauses, detaches the source and reloads the element.
	Reset()
	Attach(src string, path Path, opts SessionOptions)
	Play() error
	CanPlayType(mime string) bool
	AdaptiveSupported() bool
	SetVolume(v float64)
	Overlay(visible bool, text string)
	Error(visible bool, text string)
	Status(text string)
	NowPlaying(name string)
	Switching(on bool)
}

// Default banner texts.
const (
	DefaultOverlayText = "Loading stream…"
	DefaultErrorText   = "We could not load this stream."
)

// Banner is an overlay or error panel.
type Banner struct {
	Visible bool   `json:"visible"`
	Text    string `json:"text"`
}

// Capabilities are reported by the browser on page load.
type Capabilities struct {
	Adaptive bool `json:"adaptive"`
	Native   bool `json:"native"`
}

// Snapshot is the desired media-element state the browser follows.
type Snapshot struct {
	Revision   uint64          `json:"revision"`
	Session    uint64          `json:"session"`
	Source     string          `json:"source,omitempty"`
	Path       Path            `json:"path,omitempty"`
	Options    *SessionOptions `json:"hls,omitempty"`
	Playing    bool            `json:"playing"`
	Volume     float64         `json:"volume"`
	Overlay    Banner          `json:"overlay"`
	Error      Banner          `json:"error"`
	Status     string          `json:"status"`
	NowPlaying string          `json:"nowPlaying"`
	Switching  bool            `json:"switching"`
}

// MediaElement is a Sink that records desired state for the browser.
type MediaElement struct {
	mu   sync.RWMutex
	caps Capabilities
	snap Snapshot
}

var _ Sink = (*MediaElement)(nil)

// NewMediaElement returns an idle element at the given volume.
func NewMediaElement(volume float64) *MediaElement {
	return &MediaElement{
		caps: Capabilities{Adaptive: true, Native: true},
		snap: Snapshot{
			Volume:  clamp(volume),
			Overlay: Banner{Text: DefaultOverlayText},
			Error:   Banner{Text: DefaultErrorText},
			Status:  StatusIdle,
		},
	}
}

// SetCapabilities records what the browser can play.
func (m *MediaElement) SetCapabilities(c Capabilities) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caps = c
}

// Snapshot returns a copy of the desired state.
func (m *MediaElement) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.snap
	if s.Options != nil {
		opts := *s.Options
		s.Options = &opts
	}
	return s
}

func (m *MediaElement) update(fn func(*Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.snap)
	m.snap.Revision++
}

func (m *MediaElement) Reset() {
	m.update(func(s *Snapshot) {
		s.Session++
		s.Source = ""
		s.Path = ""
		s.Options = nil
		s.Playing = false
	})
}

func (m *MediaElement) Attach(src string, path Path, opts SessionOptions) {
	m.update(func(s *Snapshot) {
		s.Session++
		s.Source = src
		s.Path = path
		s.Playing = false
		s.Options = nil
		if path == PathAdaptive {
			s.Options = &opts
		}
	})
}

func (m *MediaElement) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap.Source == "" {
		return ErrNoSource
	}
	m.snap.Playing = true
	m.snap.Revision++
	return nil
}

func (m *MediaElement) CanPlayType(mime string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.caps.Native && strings.EqualFold(mime, HLSMimeType)
}

func (m *MediaElement) AdaptiveSupported() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.caps.Adaptive
}

func (m *MediaElement) SetVolume(v float64) {
	m.update(func(s *Snapshot) { s.Volume = clamp(v) })
}

func (m *MediaElement) Overlay(visible bool, text string) {
	if text == "" {
		text = DefaultOverlayText
	}
	m.update(func(s *Snapshot) { s.Overlay = Banner{Visible: visible, Text: text} })
}

func (m *MediaElement) Error(visible bool, text string) {
	if text == "" {
		text = DefaultErrorText
	}
	m.update(func(s *Snapshot) { s.Error = Banner{Visible: visible, Text: text} })
}

func (m *MediaElement) Status(text string) {
	m.update(func(s *Snapshot) { s.Status = text })
}

func (m *MediaElement) NowPlaying(name string) {
	m.update(func(s *Snapshot) { s.NowPlaying = name })
}

func (m *MediaElement) Switching(on bool) {
	m.update(func(s *Snapshot) { s.Switching = on })
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
