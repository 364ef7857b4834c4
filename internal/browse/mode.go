// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package browse

import "fmt"

// Mode selects which list the grid shows.
type Mode string

const (
	ModeAll       Mode = "all"
	ModeFavorites Mode = "favorites"
	ModeRecent    Mode = "recent"
)

// Modes lists the view modes in toggle order.
var Modes = []Mode{ModeAll, ModeFavorites, ModeRecent}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAll, ModeFavorites, ModeRecent:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Theme is the persisted colour scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Other returns the opposite theme. The toggle button is labelled with it.
func (t Theme) Other() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func normalizeTheme(s string) Theme {
	if Theme(s) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Heading texts per mode.
const (
	FavoritesTitle    = "Favorites"
	FavoritesSubtitle = "Saved channels"
	RecentTitle       = "Recently Watched"
	RecentSubtitle    = "Keep watching"
	CategorySubtitle  = "Streaming channels"
)

// RecentLimit caps the recently watched list.
const RecentLimit = 20
