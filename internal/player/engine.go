// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package player

import (
	"context"

	"github.com/ManuGH/tvdeck/internal/config"
)

// SessionOptions configures an adaptive-streaming session. The JSON form is
// handed verbatim to the browser's HLS library.
type SessionOptions struct {
	EnableWorker     bool    `json:"enableWorker"`
	LowLatencyMode   bool    `json:"lowLatencyMode"`
	BackBufferLength float64 `json:"backBufferLength"`
}

// OptionsFromConfig maps the player config section to session options.
func OptionsFromConfig(cfg config.PlayerConfig) SessionOptions {
	return SessionOptions{
		EnableWorker:     cfg.EnableWorker,
		LowLatencyMode:   cfg.LowLatency,
		BackBufferLength: cfg.BackBuffer.Seconds(),
	}
}

// Manifest summarizes a parsed HLS manifest.
type Manifest struct {
	Kind     string // master or media
	Variants int
	Segments int
}

// Callbacks are invoked from the session's own goroutine.
type Callbacks struct {
	ManifestParsed func(Manifest)
	Fatal          func(error)
}

// Engine creates adaptive-streaming sessions.
type Engine interface {
	Supported() bool
	NewSession(opts SessionOptions, cb Callbacks) Session
}

// Session is one load/attach/destroy lifecycle. After Destroy no callback fires.
type Session interface {
	LoadSource(ctx context.Context, url string)
	AttachMedia(sink Sink)
	Destroy()
}
