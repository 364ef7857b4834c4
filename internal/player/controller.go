// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package player drives playback of a selected channel: it tears down the
// previous session, picks adaptive or native playback, and maps engine and
// media-element events onto the user-visible player state.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"

	xglog "github.com/ManuGH/tvdeck/internal/log"
	"github.com/ManuGH/tvdeck/internal/m3u"
	"github.com/ManuGH/tvdeck/internal/metrics"
	platformnet "github.com/ManuGH/tvdeck/internal/platform/net"
	"github.com/ManuGH/tvdeck/internal/telemetry"
	"github.com/rs/zerolog"
)

// HLSMimeType is checked against canPlayType for native playback support.
const HLSMimeType = "application/vnd.apple.mpegurl"

// Status texts.
const (
	StatusIdle        = "Idle"
	StatusConnecting  = "Connecting…"
	StatusBuffering   = "Buffering"
	StatusLive        = "Live"
	StatusError       = "Error"
	StatusUnsupported = "Unsupported"
)

// Overlay and error texts.
const (
	OverlayBuffering = "Buffering stream…"
	MsgStreamFailed  = "Stream failed. Try another channel."
	MsgUnsupported   = "HLS not supported in this browser."
	MsgPlaybackError = "Playback error. Try another channel."
)

// Media element events reported by the browser.
const (
	EventWaiting = "waiting"
	EventPlaying = "playing"
	EventError   = "error"
	// EventFatal is an unrecoverable stream error raised by the browser's HLS library.
	EventFatal = "fatal"
)

var (
	// ErrUnknownEvent is returned for media events other than waiting, playing, error and fatal.
	ErrUnknownEvent = errors.New("unknown media event")
	// ErrNoSource is returned by Play on a sink without a source.
	ErrNoSource = errors.New("no source attached")
)

// Phase is the controller's playback phase.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseConnecting Phase = "connecting"
	PhaseBuffering  Phase = "buffering"
	PhaseLive       Phase = "live"
	PhaseError      Phase = "error"
)

// RecentRecorder receives every channel handed to Play.
type RecentRecorder interface {
	UpdateRecent(ch m3u.Channel)
}

// Controller is safe for concurrent use. Engine callbacks carry the session
// generation they were created for; callbacks from older sessions are dropped.
type Controller struct {
	mu sync.Mutex

	engine  Engine
	sink    Sink
	recents RecentRecorder
	opts    SessionOptions
	logger  zerolog.Logger

	session    Session
	generation uint64
	current    *m3u.Channel
	phase      Phase
	volume     float64
}

// Option customizes a Controller.
type Option func(*Controller)

// WithSessionOptions sets the options passed to new adaptive sessions.
func WithSessionOptions(opts SessionOptions) Option {
	return func(c *Controller) { c.opts = opts }
}

// NewController wires a controller. engine may be nil, in which case only
// native playback is attempted.
func NewController(engine Engine, sink Sink, recents RecentRecorder, opts ...Option) *Controller {
	c := &Controller{
		engine:  engine,
		sink:    sink,
		recents: recents,
		opts:    SessionOptions{EnableWorker: true, LowLatencyMode: true, BackBufferLength: 60},
		logger:  xglog.WithComponent("player"),
		phase:   PhaseIdle,
		volume:  1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Play switches playback to ch. Channels without a URL are ignored.
func (c *Controller) Play(ctx context.Context, ch m3u.Channel) {
	if ch.URL == "" {
		return
	}

	ctx, span := telemetry.Tracer().Start(ctx, "player.play")
	defer span.End()

	c.mu.Lock()
	selected := ch
	c.current = &selected
	c.sink.NowPlaying(ch.Name)
	c.sink.Status(StatusConnecting)
	c.sink.Error(false, "")
	c.sink.Overlay(true, OverlayBuffering)
	c.sink.Switching(true)
	c.setPhaseLocked(PhaseConnecting)

	c.teardownLocked()
	c.generation++
	gen := c.generation

	path := c.startLocked(ctx, gen, ch)
	c.mu.Unlock()

	span.SetAttributes(telemetry.PlaybackAttributes(ch.ID, ch.Name, string(path))...)
	metrics.RecordPlaybackStart(string(path))
	c.logger.Info().
		Str(xglog.FieldEvent, "player.play").
		Str(xglog.FieldChannelID, ch.ID).
		Str(xglog.FieldEngine, string(path)).
		Str(xglog.FieldStream, platformnet.SanitizeURL(ch.URL)).
		Msg("playback requested")

	if c.recents != nil {
		c.recents.UpdateRecent(ch)
	}
}

func (c *Controller) startLocked(ctx context.Context, gen uint64, ch m3u.Channel) Path {
	src, err := platformnet.ValidateURL(ch.URL, platformnet.HTTPSchemes)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "player.invalid_url").
			Str(xglog.FieldChannelID, ch.ID).
			Msg("stream url rejected")
		c.failLocked(MsgStreamFailed, "invalid_url")
		return PathInvalid
	}

	switch {
	case c.engine != nil && c.engine.Supported() && c.sink.AdaptiveSupported():
		sess := c.engine.NewSession(c.opts, Callbacks{
			ManifestParsed: func(m Manifest) { c.onManifestParsed(gen, m) },
			Fatal:          func(err error) { c.onFatal(gen, err) },
		})
		c.session = sess
		sess.LoadSource(ctx, src)
		sess.AttachMedia(c.sink)
		return PathAdaptive
	case c.sink.CanPlayType(HLSMimeType):
		c.sink.Attach(src, PathNative, c.opts)
		if err := c.sink.Play(); err != nil {
			c.logger.Debug().Err(err).Str(xglog.FieldEvent, "player.play_rejected").Msg("play rejected")
		}
		return PathNative
	default:
		c.sink.Error(true, MsgUnsupported)
		c.sink.Status(StatusUnsupported)
		c.setPhaseLocked(PhaseError)
		metrics.RecordPlaybackError("unsupported")
		return PathUnsupported
	}
}

// teardownLocked destroys the active session and resets the element.
func (c *Controller) teardownLocked() {
	if c.session != nil {
		c.session.Destroy()
		c.session = nil
	}
	c.sink.Reset()
}

func (c *Controller) onManifestParsed(gen uint64, m Manifest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.logger.Debug().
		Str(xglog.FieldEvent, "player.manifest_ready").
		Str("kind", m.Kind).
		Msg("starting playback")
	if err := c.sink.Play(); err != nil {
		c.logger.Debug().Err(err).Str(xglog.FieldEvent, "player.play_rejected").Msg("play rejected")
	}
}

func (c *Controller) onFatal(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.logger.Warn().
		Err(err).
		Str(xglog.FieldEvent, "player.fatal").
		Msg("stream failed")
	c.failLocked(MsgStreamFailed, "fatal")
}

func (c *Controller) failLocked(message, kind string) {
	c.sink.Overlay(false, "")
	c.sink.Error(true, message)
	c.sink.Status(StatusError)
	c.sink.Switching(false)
	c.setPhaseLocked(PhaseError)
	metrics.RecordPlaybackError(kind)
}

// Retry replays the last channel, if any.
func (c *Controller) Retry(ctx context.Context) {
	c.mu.Lock()
	var ch *m3u.Channel
	if c.current != nil {
		cp := *c.current
		ch = &cp
	}
	c.mu.Unlock()
	if ch == nil {
		return
	}
	c.Play(ctx, *ch)
}

// SetVolume clamps v to [0,1] and applies it.
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = clamp(v)
	c.sink.SetVolume(c.volume)
}

// HandleMediaEvent applies a media element lifecycle event.
func (c *Controller) HandleMediaEvent(_ context.Context, event string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch event {
	case EventWaiting:
		c.sink.Overlay(true, OverlayBuffering)
		c.sink.Status(StatusBuffering)
		c.setPhaseLocked(PhaseBuffering)
	case EventPlaying:
		c.sink.Overlay(false, "")
		c.sink.Status(StatusLive)
		c.sink.Switching(false)
		c.setPhaseLocked(PhaseLive)
	case EventError:
		c.failLocked(MsgPlaybackError, "media")
	case EventFatal:
		c.logger.Warn().
			Str(xglog.FieldEvent, "player.fatal").
			Str("source", "browser").
			Msg("stream failed")
		c.failLocked(MsgStreamFailed, "fatal")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	return nil
}

// Phase returns the current playback phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Current returns the last channel handed to Play.
func (c *Controller) Current() (m3u.Channel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return m3u.Channel{}, false
	}
	return *c.current, true
}

// Stop destroys the active session and returns to idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.teardownLocked()
	c.sink.Overlay(false, "")
	c.sink.Status(StatusIdle)
	c.sink.Switching(false)
	c.setPhaseLocked(PhaseIdle)
}

func (c *Controller) setPhaseLocked(p Phase) {
	if c.phase == p {
		return
	}
	c.phase = p
	metrics.RecordPhase(string(p))
	c.logger.Debug().
		Str(xglog.FieldEvent, "player.phase").
		Str(xglog.FieldPhase, string(p)).
		Msg("phase changed")
}
