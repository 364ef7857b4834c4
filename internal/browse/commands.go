// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package browse

import (
	"context"
	"fmt"
)

// Command is a UI intent consumed by Dispatch.
type Command interface {
	command()
}

type (
	// SelectCategoryCmd selects a configured category by id.
	SelectCategoryCmd struct{ CategoryID string }
	// SetViewModeCmd switches between all, favorites and recent.
	SetViewModeCmd struct{ Mode string }
	// SearchCmd replaces the search term.
	SearchCmd struct{ Term string }
	// ToggleFavoriteCmd toggles a rendered channel's favorite state.
	ToggleFavoriteCmd struct{ ChannelID string }
	// PlayCmd starts playback of a rendered channel.
	PlayCmd struct{ ChannelID string }
	// RetryCmd replays the last channel.
	RetryCmd struct{}
	// ToggleThemeCmd switches the theme.
	ToggleThemeCmd struct{}
	// SetVolumeCmd sets playback volume in [0,1].
	SetVolumeCmd struct{ Volume float64 }
	// MediaEventCmd forwards a media element lifecycle event (waiting, playing, error).
	MediaEventCmd struct{ Event string }
)

func (SelectCategoryCmd) command() {}
func (SetViewModeCmd) command()    {}
func (SearchCmd) command()         {}
func (ToggleFavoriteCmd) command() {}
func (PlayCmd) command()           {}
func (RetryCmd) command()          {}
func (ToggleThemeCmd) command()    {}
func (SetVolumeCmd) command()      {}
func (MediaEventCmd) command()     {}

// Dispatch applies cmd. Channel ids resolve through the view's visible map, so
// only channels currently rendered can be favorited or played.
func (m *Manager) Dispatch(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case SelectCategoryCmd:
		return m.SelectCategoryByID(ctx, c.CategoryID)

	case SetViewModeCmd:
		mode, err := ParseMode(c.Mode)
		if err != nil {
			return err
		}
		return m.SetViewMode(mode)

	case SearchCmd:
		m.SetSearch(c.Term)
		return nil

	case ToggleFavoriteCmd:
		ch, ok := m.view.Lookup(c.ChannelID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownChannel, c.ChannelID)
		}
		m.ToggleFavorite(ch)
		return nil

	case PlayCmd:
		p := m.attachedPlayer()
		if p == nil {
			return ErrNoPlayer
		}
		ch, ok := m.view.Lookup(c.ChannelID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownChannel, c.ChannelID)
		}
		p.Play(ctx, ch)
		return nil

	case RetryCmd:
		p := m.attachedPlayer()
		if p == nil {
			return ErrNoPlayer
		}
		p.Retry(ctx)
		return nil

	case ToggleThemeCmd:
		m.ToggleTheme()
		return nil

	case SetVolumeCmd:
		p := m.attachedPlayer()
		if p == nil {
			return ErrNoPlayer
		}
		p.SetVolume(c.Volume)
		return nil

	case MediaEventCmd:
		p := m.attachedPlayer()
		if p == nil {
			return ErrNoPlayer
		}
		return p.HandleMediaEvent(ctx, c.Event)
	}
	return fmt.Errorf("unsupported command %T", cmd)
}

func (m *Manager) attachedPlayer() Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.player
}
