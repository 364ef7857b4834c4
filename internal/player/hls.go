// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	xglog "github.com/ManuGH/tvdeck/internal/log"
	"github.com/grafov/m3u8"
	"github.com/rs/zerolog"
)

const (
	defaultManifestTimeout = 10 * time.Second
	maxManifestBytes       = 4 << 20
)

// ErrEmptyManifest is returned for a master playlist without variants.
var ErrEmptyManifest = errors.New("manifest has no variants")

// HLSEngine loads manifests over HTTP and decodes them with grafov/m3u8.
type HLSEngine struct {
	client   *http.Client
	timeout  time.Duration
	disabled bool
	logger   zerolog.Logger
}

// HLSOption customizes an HLSEngine.
type HLSOption func(*HLSEngine)

// WithManifestTimeout bounds a single manifest load.
func WithManifestTimeout(d time.Duration) HLSOption {
	return func(e *HLSEngine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithAdaptiveDisabled makes Supported report false, forcing native playback.
func WithAdaptiveDisabled(disabled bool) HLSOption {
	return func(e *HLSEngine) { e.disabled = disabled }
}

// NewHLSEngine uses client for manifest requests.
func NewHLSEngine(client *http.Client, opts ...HLSOption) *HLSEngine {
	e := &HLSEngine{
		client:  client,
		timeout: defaultManifestTimeout,
		logger:  xglog.WithComponent("player.hls"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *HLSEngine) Supported() bool { return !e.disabled }

func (e *HLSEngine) NewSession(opts SessionOptions, cb Callbacks) Session {
	return &hlsSession{engine: e, opts: opts, cb: cb}
}

// Load fetches and decodes the manifest at url.
func (e *HLSEngine) Load(ctx context.Context, url string) (Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Manifest{}, fmt.Errorf("build manifest request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return Manifest{}, fmt.Errorf("fetch manifest: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Manifest{}, fmt.Errorf("fetch manifest: unexpected status %d", resp.StatusCode)
	}

	playlist, listType, err := m3u8.DecodeFrom(bufio.NewReader(io.LimitReader(resp.Body, maxManifestBytes)), true)
	if err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}

	switch listType {
	case m3u8.MASTER:
		master, ok := playlist.(*m3u8.MasterPlaylist)
		if !ok {
			return Manifest{}, fmt.Errorf("decode manifest: unexpected playlist type %T", playlist)
		}
		n := 0
		for _, v := range master.Variants {
			if v != nil {
				n++
			}
		}
		if n == 0 {
			return Manifest{}, ErrEmptyManifest
		}
		return Manifest{Kind: "master", Variants: n}, nil
	case m3u8.MEDIA:
		media, ok := playlist.(*m3u8.MediaPlaylist)
		if !ok {
			return Manifest{}, fmt.Errorf("decode manifest: unexpected playlist type %T", playlist)
		}
		return Manifest{Kind: "media", Segments: int(media.Count())}, nil
	}
	return Manifest{}, fmt.Errorf("decode manifest: unknown list type %d", listType)
}

type hlsSession struct {
	engine *HLSEngine
	opts   SessionOptions
	cb     Callbacks

	mu        sync.Mutex
	cancel    context.CancelFunc
	destroyed bool
	url       string
}

// LoadSource starts the manifest load in the background. The load outlives
// the caller's context and ends on Destroy or after the manifest timeout.
func (s *hlsSession) LoadSource(ctx context.Context, url string) {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.engine.timeout)
	s.cancel = cancel
	s.url = url
	s.mu.Unlock()

	go func() {
		defer cancel()
		m, err := s.engine.Load(loadCtx, url)
		if s.isDestroyed() {
			return
		}
		if err != nil {
			s.engine.logger.Warn().
				Err(err).
				Str(xglog.FieldEvent, "player.manifest_failed").
				Msg("manifest load failed")
			if s.cb.Fatal != nil {
				s.cb.Fatal(err)
			}
			return
		}
		s.engine.logger.Debug().
			Str(xglog.FieldEvent, "player.manifest_parsed").
			Str("kind", m.Kind).
			Int("variants", m.Variants).
			Int("segments", m.Segments).
			Msg("manifest parsed")
		if s.cb.ManifestParsed != nil {
			s.cb.ManifestParsed(m)
		}
	}()
}

// AttachMedia points sink at the loaded source in adaptive mode.
func (s *hlsSession) AttachMedia(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed || s.url == "" {
		return
	}
	sink.Attach(s.url, PathAdaptive, s.opts)
}

func (s *hlsSession) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *hlsSession) isDestroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}
