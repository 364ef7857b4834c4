// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package browse

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ManuGH/tvdeck/internal/catalog"
	"github.com/ManuGH/tvdeck/internal/m3u"
	"github.com/ManuGH/tvdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct {
	mu        sync.Mutex
	visible   map[string]m3u.Channel
	rendered  [][]m3u.Channel
	favorites map[string]bool
	statuses  []string
	empties   []string
	skeletons int
	title     string
	subtitle  string
	pressed   Mode
	active    string
	theme     Theme
}

func newFakeView() *fakeView {
	return &fakeView{visible: map[string]m3u.Channel{}}
}

func (v *fakeView) Status(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, text)
}

func (v *fakeView) Skeleton(int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.skeletons++
	v.visible = map[string]m3u.Channel{}
}

func (v *fakeView) Empty(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.empties = append(v.empties, message)
	v.visible = map[string]m3u.Channel{}
}

func (v *fakeView) Channels(list []m3u.Channel, favorites map[string]bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rendered = append(v.rendered, list)
	v.favorites = favorites
	v.visible = make(map[string]m3u.Channel, len(list))
	for _, ch := range list {
		v.visible[ch.ID] = ch
	}
}

func (v *fakeView) Heading(title, subtitle string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.title, v.subtitle = title, subtitle
}

func (v *fakeView) ModePressed(mode Mode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pressed = mode
}

func (v *fakeView) ActiveCategory(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.active = id
}

func (v *fakeView) Theme(theme Theme) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.theme = theme
}

func (v *fakeView) Lookup(id string) (m3u.Channel, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	ch, ok := v.visible[id]
	return ch, ok
}

func (v *fakeView) last() []m3u.Channel {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.rendered) == 0 {
		return nil
	}
	return v.rendered[len(v.rendered)-1]
}

type fakeFetcher struct {
	mu      sync.Mutex
	results map[string][]m3u.Channel
	cache   map[string][]m3u.Channel
	calls   int
	// onFetch runs while the fetch is in flight.
	onFetch func()
}

func (f *fakeFetcher) Fetch(_ context.Context, cat catalog.Category, rep catalog.Reporter) []m3u.Channel {
	f.mu.Lock()
	if cached, ok := f.cache[cat.ID]; ok {
		f.mu.Unlock()
		return cached
	}
	f.calls++
	res, ok := f.results[cat.ID]
	hook := f.onFetch
	f.mu.Unlock()

	rep.Status(catalog.LoadingStatus(cat.Name))
	rep.Skeleton(12)
	if hook != nil {
		hook()
	}
	if !ok {
		rep.Status(catalog.StatusOffline)
		rep.Empty(catalog.EmptyOffline)
		return []m3u.Channel{}
	}
	f.mu.Lock()
	f.cache[cat.ID] = res
	f.mu.Unlock()
	rep.Status(catalog.StatusReady)
	return res
}

func (f *fakeFetcher) Cached(id string) ([]m3u.Channel, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.cache[id]
	return ch, ok
}

func channel(name, group string) m3u.Channel {
	url := "http://stream/" + name
	return m3u.Channel{ID: m3u.ChannelID(name, url), Name: name, Group: group, URL: url, Category: "News"}
}

var (
	newsCat  = catalog.Category{ID: "news", Name: "News", URL: "http://x/news.m3u"}
	musicCat = catalog.Category{ID: "music", Name: "Music", URL: "http://x/music.m3u"}
)

type fixture struct {
	m       *Manager
	view    *fakeView
	fetcher *fakeFetcher
	store   *store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	view := newFakeView()
	fetcher := &fakeFetcher{
		results: map[string][]m3u.Channel{
			"news": {channel("BBC News", "News"), channel("CNN", "US News"), channel("Sky", "Weather")},
		},
		cache: map[string][]m3u.Channel{},
	}
	st := store.New(store.NewMemoryBackend())
	m := NewManager(catalog.Categories{newsCat, musicCat}, fetcher, st, view)
	return &fixture{m: m, view: view, fetcher: fetcher, store: st}
}

func TestSelectCategory_FetchesAndRenders(t *testing.T) {
	f := newFixture(t)
	f.m.SelectCategory(context.Background(), newsCat)

	assert.Equal(t, "news", f.view.active)
	assert.Equal(t, ModeAll, f.view.pressed)
	assert.Equal(t, "News", f.view.title)
	assert.Equal(t, CategorySubtitle, f.view.subtitle)
	assert.Equal(t, []string{"Loading News…", catalog.StatusReady}, f.view.statuses)
	assert.Len(t, f.view.last(), 3)

	// first render (before download) was empty, second is the post-download render
	require.Len(t, f.view.rendered, 2)
	assert.Empty(t, f.view.rendered[0])
}

func TestSelectCategory_CachedRendersOnce(t *testing.T) {
	f := newFixture(t)
	f.m.SelectCategory(context.Background(), newsCat)
	before := len(f.view.rendered)

	f.m.SelectCategory(context.Background(), newsCat)
	assert.Equal(t, before+1, len(f.view.rendered))
	assert.Equal(t, 1, f.fetcher.calls)
	assert.Len(t, f.view.last(), 3)
}

func TestSelectCategory_FailureKeepsOfflineState(t *testing.T) {
	f := newFixture(t)
	f.m.SelectCategory(context.Background(), musicCat)

	assert.Equal(t, []string{catalog.EmptyOffline}, f.view.empties)
	assert.Equal(t, catalog.StatusOffline, f.view.statuses[len(f.view.statuses)-1])
	// only the pre-download render happened
	assert.Len(t, f.view.rendered, 1)

	f.m.SelectCategory(context.Background(), musicCat)
	assert.Equal(t, 2, f.fetcher.calls)
}

func TestSelectCategory_EmptyPlaylistReplacesSkeleton(t *testing.T) {
	f := newFixture(t)
	f.fetcher.results["music"] = []m3u.Channel{}
	f.m.SelectCategory(context.Background(), musicCat)

	assert.Empty(t, f.view.empties)
	assert.Equal(t, catalog.StatusReady, f.view.statuses[len(f.view.statuses)-1])
	// a successful fetch re-renders even when the playlist had no entries
	require.Len(t, f.view.rendered, 2)
	assert.Empty(t, f.view.last())
}

func TestSelectCategory_PostFetchRespectsSearchTerm(t *testing.T) {
	f := newFixture(t)
	f.m.SetSearch("weather")
	f.m.SelectCategory(context.Background(), newsCat)

	got := f.view.last()
	require.Len(t, got, 1)
	assert.Equal(t, "Sky", got[0].Name)
}

func TestSelectCategory_SkipsRenderWhenUserMovedOn(t *testing.T) {
	f := newFixture(t)
	f.fetcher.onFetch = func() {
		require.NoError(t, f.m.SetViewMode(ModeFavorites))
	}
	f.m.SelectCategory(context.Background(), newsCat)

	assert.Equal(t, ModeFavorites, f.m.Snapshot().Mode)
	assert.Empty(t, f.view.last())
}

func TestSetViewMode_Headings(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.m.SetViewMode(ModeAll))
	assert.Equal(t, "", f.view.title, "heading unchanged without a category")

	require.NoError(t, f.m.SetViewMode(ModeFavorites))
	assert.Equal(t, FavoritesTitle, f.view.title)
	assert.Equal(t, FavoritesSubtitle, f.view.subtitle)
	assert.Equal(t, ModeFavorites, f.view.pressed)

	require.NoError(t, f.m.SetViewMode(ModeRecent))
	assert.Equal(t, RecentTitle, f.view.title)
	assert.Equal(t, RecentSubtitle, f.view.subtitle)

	assert.ErrorIs(t, f.m.SetViewMode("popular"), ErrInvalidMode)
}

func TestBaseList(t *testing.T) {
	f := newFixture(t)
	assert.Empty(t, f.m.BaseList())

	f.m.SelectCategory(context.Background(), newsCat)
	assert.Len(t, f.m.BaseList(), 3)

	ch := channel("BBC News", "News")
	f.m.ToggleFavorite(ch)
	f.m.UpdateRecent(channel("CNN", "US News"))

	require.NoError(t, f.m.SetViewMode(ModeFavorites))
	assert.Equal(t, []m3u.Channel{ch}, f.m.BaseList())

	require.NoError(t, f.m.SetViewMode(ModeRecent))
	assert.Equal(t, "CNN", f.m.BaseList()[0].Name)
}

func TestFilter_NameOrGroupCaseInsensitive(t *testing.T) {
	list := []m3u.Channel{
		channel("BBC One", "Entertainment"),
		channel("Local", "NEWS"),
		channel("Straße TV", "Regional"),
	}

	assert.Len(t, Filter(list, "   "), 3)
	assert.Equal(t, "Local", Filter(list, " news ")[0].Name, "group-only match is kept")
	assert.Equal(t, "BBC One", Filter(list, "bbc")[0].Name)
	assert.Equal(t, "Straße TV", Filter(list, "STRASSE")[0].Name)
	assert.Empty(t, Filter(list, "sport"))
}

func TestToggleFavorite_TwiceRestoresMembershipAndStore(t *testing.T) {
	f := newFixture(t)
	a, b := channel("A", "G"), channel("B", "G")
	f.m.ToggleFavorite(a)

	before := store.Get(f.store, store.KeyFavorites, []m3u.Channel{})
	require.Equal(t, []m3u.Channel{a}, before)

	f.m.ToggleFavorite(b)
	assert.True(t, f.m.IsFavorite(b.ID))
	assert.True(t, f.view.favorites[b.ID])

	f.m.ToggleFavorite(b)
	assert.False(t, f.m.IsFavorite(b.ID))
	assert.Equal(t, before, store.Get(f.store, store.KeyFavorites, []m3u.Channel{}))
	assert.Equal(t, []m3u.Channel{a}, f.m.Favorites())
}

func TestToggleFavorite_RemoveFromMiddleKeepsOrder(t *testing.T) {
	f := newFixture(t)
	a, b, c := channel("A", "G"), channel("B", "G"), channel("C", "G")
	f.m.ToggleFavorite(a)
	f.m.ToggleFavorite(b)
	f.m.ToggleFavorite(c)
	f.m.ToggleFavorite(b)

	assert.Equal(t, []m3u.Channel{a, c}, f.m.Favorites())
	f.m.ToggleFavorite(c)
	assert.Equal(t, []m3u.Channel{a}, f.m.Favorites())
}

func TestUpdateRecent_CapDedupAndOrder(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 25; i++ {
		f.m.UpdateRecent(channel(fmt.Sprintf("ch%02d", i), "G"))
	}
	f.m.UpdateRecent(channel("ch22", "G"))

	recent := f.m.Recent()
	require.Len(t, recent, RecentLimit)
	assert.Equal(t, "ch22", recent[0].Name)
	assert.Equal(t, "ch24", recent[1].Name)

	seen := map[string]bool{}
	for _, ch := range recent {
		assert.False(t, seen[ch.ID], "duplicate id %s", ch.ID)
		seen[ch.ID] = true
	}
	assert.Equal(t, recent, store.Get(f.store, store.KeyRecent, []m3u.Channel{}))
}

func TestUpdateRecent_RendersOnlyInRecentMode(t *testing.T) {
	f := newFixture(t)
	rendered := len(f.view.rendered)
	f.m.UpdateRecent(channel("A", "G"))
	assert.Equal(t, rendered, len(f.view.rendered))

	require.NoError(t, f.m.SetViewMode(ModeRecent))
	rendered = len(f.view.rendered)
	f.m.UpdateRecent(channel("B", "G"))
	assert.Equal(t, rendered+1, len(f.view.rendered))
	assert.Equal(t, "B", f.view.last()[0].Name)
}

func TestLoadPersisted(t *testing.T) {
	f := newFixture(t)
	a := channel("A", "G")
	require.NoError(t, f.store.Set(store.KeyFavorites, []m3u.Channel{a, a}))
	require.NoError(t, f.store.Set(store.KeyRecent, []m3u.Channel{a}))
	require.NoError(t, f.store.Set(store.KeyTheme, "light"))

	f.m.LoadPersisted()
	assert.Equal(t, []m3u.Channel{a}, f.m.Favorites())
	assert.Equal(t, []m3u.Channel{a}, f.m.Recent())
	assert.Equal(t, ThemeLight, f.view.theme)
}

func TestLoadPersisted_DefaultsWhenEmpty(t *testing.T) {
	f := newFixture(t)
	f.m.LoadPersisted()
	assert.Empty(t, f.m.Favorites())
	assert.Equal(t, ThemeDark, f.view.theme)
}

func TestToggleTheme(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, ThemeLight, f.m.ToggleTheme())
	assert.Equal(t, "light", store.Get(f.store, store.KeyTheme, ""))
	assert.Equal(t, ThemeDark, f.m.ToggleTheme())
	assert.Equal(t, ThemeLight, ThemeDark.Other())

	f.m.SetTheme("neon")
	assert.Equal(t, ThemeDark, f.m.Snapshot().Theme)
}
