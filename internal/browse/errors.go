// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package browse

import "errors"

var (
	// ErrUnknownChannel means the channel id is not part of the rendered grid.
	ErrUnknownChannel = errors.New("unknown channel")
	// ErrUnknownCategory means the category id is not configured.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidMode means the view mode name is not one of all, favorites, recent.
	ErrInvalidMode = errors.New("invalid view mode")
	// ErrNoPlayer is returned for playback commands when no player is attached.
	ErrNoPlayer = errors.New("no player attached")
)
