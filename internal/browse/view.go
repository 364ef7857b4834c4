// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package browse

import (
	"context"

	"github.com/ManuGH/tvdeck/internal/catalog"
	"github.com/ManuGH/tvdeck/internal/m3u"
)

// View is the rendering surface driven by the Manager. Implementations own the
// visible-channel map: Channels replaces it, Skeleton and Empty clear it.
type View interface {
	catalog.Reporter

	// Channels renders one card per channel. favorites marks the active toggles.
	Channels(list []m3u.Channel, favorites map[string]bool)
	Heading(title, subtitle string)
	ModePressed(mode Mode)
	ActiveCategory(id string)
	Theme(theme Theme)
	// Lookup resolves a rendered channel id.
	Lookup(id string) (m3u.Channel, bool)
}

// Fetcher is the category loader used by SelectCategory.
type Fetcher interface {
	Fetch(ctx context.Context, cat catalog.Category, rep catalog.Reporter) []m3u.Channel
	Cached(categoryID string) ([]m3u.Channel, bool)
}

// Player is the playback surface commands are forwarded to.
type Player interface {
	Play(ctx context.Context, ch m3u.Channel)
	Retry(ctx context.Context)
	SetVolume(v float64)
	HandleMediaEvent(ctx context.Context, event string) error
}
