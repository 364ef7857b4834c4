// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package browse owns the application state: selected category, view mode,
// search term, favorites, recents and theme. Every mutation goes through a
// Manager method and is rendered through a View.
package browse

import (
	"context"
	"strings"
	"sync"

	"github.com/ManuGH/tvdeck/internal/catalog"
	xglog "github.com/ManuGH/tvdeck/internal/log"
	"github.com/ManuGH/tvdeck/internal/m3u"
	"github.com/ManuGH/tvdeck/internal/metrics"
	"github.com/ManuGH/tvdeck/internal/store"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
)

// Manager is the single owner of view state. Its methods are safe for
// concurrent use; the playlist download in SelectCategory runs unlocked.
type Manager struct {
	mu sync.Mutex

	categories catalog.Categories
	fetcher    Fetcher
	store      *store.Store
	view       View
	player     Player
	logger     zerolog.Logger

	current *catalog.Category
	mode    Mode
	search  string
	theme   Theme

	favorites   []m3u.Channel
	favoriteIdx map[string]int
	recent      []m3u.Channel
}

// NewManager wires the state owner. The player is attached later with AttachPlayer
// because the player records into this manager's recents.
func NewManager(categories catalog.Categories, fetcher Fetcher, st *store.Store, view View) *Manager {
	return &Manager{
		categories:  categories,
		fetcher:     fetcher,
		store:       st,
		view:        view,
		logger:      xglog.WithComponent("browse"),
		mode:        ModeAll,
		theme:       ThemeDark,
		favoriteIdx: make(map[string]int),
	}
}

// AttachPlayer sets the player used by playback commands.
func (m *Manager) AttachPlayer(p Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.player = p
}

// Categories returns the configured categories.
func (m *Manager) Categories() catalog.Categories {
	return m.categories
}

// LoadPersisted restores favorites, recents and theme from the store.
// Missing or unreadable values fall back to empty lists and the dark theme.
func (m *Manager) LoadPersisted() {
	favorites := store.Get(m.store, store.KeyFavorites, []m3u.Channel{})
	recent := store.Get(m.store, store.KeyRecent, []m3u.Channel{})
	theme := store.Get(m.store, store.KeyTheme, string(ThemeDark))

	m.mu.Lock()
	defer m.mu.Unlock()

	m.favorites = m.favorites[:0]
	m.favoriteIdx = make(map[string]int, len(favorites))
	for _, ch := range favorites {
		if _, dup := m.favoriteIdx[ch.ID]; dup || ch.ID == "" {
			continue
		}
		m.favoriteIdx[ch.ID] = len(m.favorites)
		m.favorites = append(m.favorites, ch)
	}
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	m.recent = recent
	m.setThemeLocked(normalizeTheme(theme), false)

	metrics.SetFavorites(len(m.favorites))
	metrics.SetRecents(len(m.recent))
	m.logger.Info().
		Str(xglog.FieldEvent, "browse.state_loaded").
		Int("favorites", len(m.favorites)).
		Int("recent", len(m.recent)).
		Str("theme", string(m.theme)).
		Msg("persisted state restored")
}

// SetViewMode switches the grid between all, favorites and recent, updates the
// toggles and heading, and re-renders.
func (m *Manager) SetViewMode(mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setViewModeLocked(mode)
	return nil
}

func (m *Manager) setViewModeLocked(mode Mode) {
	m.mode = mode
	m.view.ModePressed(mode)

	switch {
	case mode == ModeFavorites:
		m.view.Heading(FavoritesTitle, FavoritesSubtitle)
	case mode == ModeRecent:
		m.view.Heading(RecentTitle, RecentSubtitle)
	case m.current != nil:
		m.view.Heading(m.current.Name, CategorySubtitle)
	}

	m.applyFiltersLocked()
}

// BaseList returns the unfiltered list for the current mode.
func (m *Manager) BaseList() []m3u.Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseListLocked()
}

func (m *Manager) baseListLocked() []m3u.Channel {
	switch m.mode {
	case ModeFavorites:
		return append([]m3u.Channel(nil), m.favorites...)
	case ModeRecent:
		return append([]m3u.Channel(nil), m.recent...)
	}
	if m.current == nil {
		return nil
	}
	channels, _ := m.fetcher.Cached(m.current.ID)
	return channels
}

// ApplyFilters renders the base list narrowed by the search term.
func (m *Manager) ApplyFilters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyFiltersLocked()
}

func (m *Manager) applyFiltersLocked() {
	m.view.Channels(Filter(m.baseListLocked(), m.search), m.favoriteSetLocked())
}

// Filter keeps channels whose name or group contains term, ignoring case.
// A blank term keeps everything.
func Filter(list []m3u.Channel, term string) []m3u.Channel {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))
	if needle == "" {
		return list
	}
	out := make([]m3u.Channel, 0, len(list))
	for _, ch := range list {
		if strings.Contains(fold.String(ch.Name), needle) || strings.Contains(fold.String(ch.Group), needle) {
			out = append(out, ch)
		}
	}
	return out
}

// SetSearch stores the raw search term and re-renders.
func (m *Manager) SetSearch(term string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.search = term
	m.applyFiltersLocked()
}

// SelectCategory makes cat current, resets the mode to all and loads its
// playlist. After the download the grid is rendered once more through the
// normal filter path, but only when cat is still current, the mode is still
// all and the download succeeded. A failed download keeps the offline state
// rendered by the fetcher.
func (m *Manager) SelectCategory(ctx context.Context, cat catalog.Category) {
	m.mu.Lock()
	selected := cat
	m.current = &selected
	m.view.ActiveCategory(cat.ID)
	m.setViewModeLocked(ModeAll)
	m.mu.Unlock()

	m.logger.Debug().
		Str(xglog.FieldEvent, "browse.category_selected").
		Str(xglog.FieldCategoryID, cat.ID).
		Msg("category selected")

	if _, cached := m.fetcher.Cached(cat.ID); cached {
		return
	}

	m.fetcher.Fetch(ctx, cat, m.view)
	if _, ok := m.fetcher.Cached(cat.ID); !ok {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.ID != cat.ID || m.mode != ModeAll {
		return
	}
	m.applyFiltersLocked()
}

// SelectCategoryByID resolves id against the configured categories.
func (m *Manager) SelectCategoryByID(ctx context.Context, id string) error {
	cat, ok := m.categories.Find(id)
	if !ok {
		return ErrUnknownCategory
	}
	m.SelectCategory(ctx, cat)
	return nil
}

// ToggleFavorite adds or removes ch, persists the list and re-renders.
func (m *Manager) ToggleFavorite(ch m3u.Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.favoriteIdx[ch.ID]; ok {
		m.favorites = append(m.favorites[:idx], m.favorites[idx+1:]...)
		delete(m.favoriteIdx, ch.ID)
		for i := idx; i < len(m.favorites); i++ {
			m.favoriteIdx[m.favorites[i].ID] = i
		}
	} else {
		m.favoriteIdx[ch.ID] = len(m.favorites)
		m.favorites = append(m.favorites, ch)
	}

	m.persistLocked(store.KeyFavorites, m.favorites)
	metrics.SetFavorites(len(m.favorites))
	m.applyFiltersLocked()
}

// UpdateRecent moves ch to the front of the recents, trims to RecentLimit and
// persists. The grid is re-rendered only while the recent view is shown.
func (m *Manager) UpdateRecent(ch m3u.Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]m3u.Channel, 0, min(len(m.recent)+1, RecentLimit))
	next = append(next, ch)
	for _, item := range m.recent {
		if len(next) == RecentLimit {
			break
		}
		if item.ID != ch.ID {
			next = append(next, item)
		}
	}
	m.recent = next

	m.persistLocked(store.KeyRecent, m.recent)
	metrics.SetRecents(len(m.recent))
	if m.mode == ModeRecent {
		m.applyFiltersLocked()
	}
}

// SetTheme applies and persists theme.
func (m *Manager) SetTheme(theme Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setThemeLocked(normalizeTheme(string(theme)), true)
}

// ToggleTheme switches between dark and light.
func (m *Manager) ToggleTheme() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.theme.Other()
	m.setThemeLocked(next, true)
	return next
}

func (m *Manager) setThemeLocked(theme Theme, persist bool) {
	m.theme = theme
	m.view.Theme(theme)
	if persist {
		m.persistLocked(store.KeyTheme, string(theme))
	}
}

// IsFavorite reports whether id is favorited.
func (m *Manager) IsFavorite(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.favoriteIdx[id]
	return ok
}

// Favorites returns the favorites in insertion order.
func (m *Manager) Favorites() []m3u.Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]m3u.Channel(nil), m.favorites...)
}

// Recent returns the recents, most recent first.
func (m *Manager) Recent() []m3u.Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]m3u.Channel(nil), m.recent...)
}

// Snapshot is a read-only copy of the view state.
type Snapshot struct {
	CategoryID string `json:"categoryId,omitempty"`
	Mode       Mode   `json:"mode"`
	Search     string `json:"search"`
	Theme      Theme  `json:"theme"`
	Favorites  int    `json:"favorites"`
	Recent     int    `json:"recent"`
}

// Snapshot returns the current view state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		Mode:      m.mode,
		Search:    m.search,
		Theme:     m.theme,
		Favorites: len(m.favorites),
		Recent:    len(m.recent),
	}
	if m.current != nil {
		s.CategoryID = m.current.ID
	}
	return s
}

func (m *Manager) favoriteSetLocked() map[string]bool {
	set := make(map[string]bool, len(m.favoriteIdx))
	for id := range m.favoriteIdx {
		set[id] = true
	}
	return set
}

// persistLocked writes through to the store. Failures are logged and counted;
// in-memory state stays authoritative.
func (m *Manager) persistLocked(key string, value any) {
	if err := m.store.Set(key, value); err != nil {
		metrics.RecordStoreWriteError(key)
		m.logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "browse.persist_failed").
			Str("key", key).
			Msg("failed to persist state")
	}
}
