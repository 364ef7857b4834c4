// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package render

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"

	"github.com/ManuGH/tvdeck/internal/browse"
	"github.com/ManuGH/tvdeck/internal/catalog"
	"github.com/ManuGH/tvdeck/internal/m3u"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCategories = catalog.Categories{
	{ID: "news", Name: "News", URL: "https://example.com/news.m3u"},
	{ID: "music", Name: "Music", URL: "https://example.com/music.m3u"},
}

func newTestPage(t *testing.T) *Page {
	t.Helper()
	p, err := NewPage(testCategories, "test")
	require.NoError(t, err)
	return p
}

func channels() []m3u.Channel {
	return []m3u.Channel{
		{ID: "c1", Name: "BBC News", Logo: "https://img.example.com/bbc.png", Group: "News", URL: "https://s/bbc.m3u8"},
		{ID: "c2", Name: "cnn", Group: "US", URL: "https://s/cnn.m3u8"},
	}
}

func TestPage_Channels(t *testing.T) {
	p := newTestPage(t)
	p.Channels(channels(), map[string]bool{"c2": true})

	frame, err := p.Frame()
	require.NoError(t, err)
	assert.Equal(t, "2 channels", frame.Count)

	grid := string(frame.Grid)
	assert.Contains(t, grid, `data-id="c1"`)
	assert.Contains(t, grid, `data-src="https://img.example.com/bbc.png"`)
	assert.Contains(t, grid, `class="fav active" data-favorite="c2"`)
	assert.Contains(t, grid, `class="fav" data-favorite="c1"`)
	assert.Contains(t, grid, `class="logo no-logo"`)
	assert.Contains(t, grid, ">CN<")
	assert.Contains(t, grid, `aria-label="Toggle favorite"`)

	ch, ok := p.Lookup("c2")
	require.True(t, ok)
	assert.Equal(t, "cnn", ch.Name)
	assert.Equal(t, 2, p.Visible())
}

func TestPage_VisibleMapFollowsGrid(t *testing.T) {
	p := newTestPage(t)
	p.Channels(channels(), nil)
	require.Equal(t, 2, p.Visible())

	p.Channels(channels()[:1], nil)
	_, ok := p.Lookup("c2")
	assert.False(t, ok)

	p.Skeleton(4)
	assert.Zero(t, p.Visible())

	p.Channels(channels(), nil)
	p.Empty(catalog.EmptyOffline)
	assert.Zero(t, p.Visible())
}

func TestPage_GridStates(t *testing.T) {
	p := newTestPage(t)

	p.Skeleton(3)
	frame, err := p.Frame()
	require.NoError(t, err)
	assert.Equal(t, LoadingCount, frame.Count)
	assert.Equal(t, 3, strings.Count(string(frame.Grid), "card skeleton"))

	p.Empty(catalog.EmptyOffline)
	frame, err = p.Frame()
	require.NoError(t, err)
	assert.Equal(t, "0 channels", frame.Count)
	assert.Contains(t, string(frame.Grid), catalog.EmptyOffline)

	p.Channels(nil, nil)
	frame, err = p.Frame()
	require.NoError(t, err)
	assert.Equal(t, "0 channels", frame.Count)
	assert.Contains(t, string(frame.Grid), NoChannels)
}

func TestPage_EscapesChannelData(t *testing.T) {
	p := newTestPage(t)
	p.Channels([]m3u.Channel{{ID: "x", Name: `<script>alert(1)</script>`, Logo: "javascript:alert(1)", Group: "G"}}, nil)

	var buf bytes.Buffer
	require.NoError(t, p.WriteGrid(&buf))
	out := buf.String()
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:alert")
}

func TestPage_StateAndFullPage(t *testing.T) {
	p := newTestPage(t)
	before := p.Revision()

	p.ActiveCategory("music")
	p.Heading("Music", browse.CategorySubtitle)
	p.ModePressed(browse.ModeFavorites)
	p.Status(catalog.LoadingStatus("Music"))
	p.Theme(browse.ThemeLight)
	assert.Greater(t, p.Revision(), before)

	frame, err := p.Frame()
	require.NoError(t, err)
	assert.Equal(t, "music", frame.ActiveCategory)
	assert.Equal(t, "Loading Music…", frame.Status)
	assert.Equal(t, browse.ModeFavorites, frame.Mode)
	assert.Equal(t, "Dark", frame.ThemeLabel)

	var buf bytes.Buffer
	require.NoError(t, p.WritePage(&buf))
	page := buf.String()
	assert.Contains(t, page, `class="category active" data-category="music"`)
	assert.Contains(t, page, `class="category" data-category="news"`)
	assert.Contains(t, page, `data-mode="favorites" aria-pressed="true"`)
	assert.Contains(t, page, `data-mode="all" aria-pressed="false"`)
	assert.Contains(t, page, `data-theme="light"`)
	assert.Contains(t, page, "Streaming channels")
}

func TestThemeLabel(t *testing.T) {
	assert.Equal(t, "Light", ThemeLabel(browse.ThemeDark))
	assert.Equal(t, "Dark", ThemeLabel(browse.ThemeLight))
}

func TestBadge(t *testing.T) {
	assert.Equal(t, "BB", Badge("bbc"))
	assert.Equal(t, "A", Badge("a"))
	assert.Equal(t, "ÉT", Badge("étoile"))
	assert.Equal(t, "", Badge(""))
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"app.js", "style.css"} {
		data, err := fs.ReadFile(Static(), name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data)
	}
}
