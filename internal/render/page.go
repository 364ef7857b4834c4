// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package render turns view state into HTML. Page is the browse.View used by
// the daemon; it keeps the visible-channel map in step with the rendered grid.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strconv"
	"sync"

	"github.com/ManuGH/tvdeck/internal/browse"
	"github.com/ManuGH/tvdeck/internal/catalog"
	"github.com/ManuGH/tvdeck/internal/m3u"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded browser assets (app.js, style.css).
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Texts shown in the grid and count label.
const (
	NoChannels     = "No channels found."
	LoadingCount   = "Loading…"
	DefaultTitle   = "Channels"
	DefaultStatus  = "Ready"
	defaultSubline = "Pick a category"
)

type gridKind int

const (
	gridChannels gridKind = iota
	gridSkeleton
	gridEmpty
)

// Card is the template model of one channel tile.
type Card struct {
	ID       string
	Name     string
	Group    string
	Logo     string
	Badge    string
	Favorite bool
}

// Frame is everything the browser needs to repaint the browse area.
type Frame struct {
	Revision       uint64        `json:"revision"`
	Status         string        `json:"status"`
	Title          string        `json:"title"`
	Subtitle       string        `json:"subtitle"`
	Mode           browse.Mode   `json:"mode"`
	ActiveCategory string        `json:"activeCategory"`
	Theme          browse.Theme  `json:"theme"`
	ThemeLabel     string        `json:"themeLabel"`
	Count          string        `json:"count"`
	Grid           template.HTML `json:"grid"`
}

// Page holds the rendered state of the single browser page.
type Page struct {
	mu   sync.RWMutex
	tmpl *template.Template

	categories catalog.Categories
	version    string

	revision uint64
	active   string
	title    string
	subtitle string
	mode     browse.Mode
	status   string
	theme    browse.Theme

	kind     gridKind
	skeleton int
	message  string
	cards    []Card
	visible  map[string]m3u.Channel
}

var _ browse.View = (*Page)(nil)

// NewPage parses the embedded templates.
func NewPage(categories catalog.Categories, version string) (*Page, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"pressed": func(cur, m browse.Mode) string { return strconv.FormatBool(cur == m) },
		"seq":     func(n int) []struct{} { return make([]struct{}, n) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Page{
		tmpl:       tmpl,
		categories: categories,
		version:    version,
		title:      DefaultTitle,
		subtitle:   defaultSubline,
		mode:       browse.ModeAll,
		status:     DefaultStatus,
		theme:      browse.ThemeDark,
		kind:       gridEmpty,
		message:    NoChannels,
		visible:    make(map[string]m3u.Channel),
	}, nil
}

// ThemeLabel is the toggle caption: the theme a click switches to.
func ThemeLabel(t browse.Theme) string {
	if t.Other() == browse.ThemeLight {
		return "Light"
	}
	return "Dark"
}

// Badge is the two-letter fallback shown when a logo is missing or fails to load.
func Badge(name string) string {
	runes := []rune(name)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return cases.Upper(language.Und).String(string(runes))
}

func (p *Page) Status(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = text
	p.revision++
}

func (p *Page) Skeleton(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kind = gridSkeleton
	p.skeleton = n
	p.cards = nil
	p.visible = make(map[string]m3u.Channel)
	p.revision++
}

func (p *Page) Empty(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setEmptyLocked(message)
}

func (p *Page) setEmptyLocked(message string) {
	p.kind = gridEmpty
	p.message = message
	p.cards = nil
	p.visible = make(map[string]m3u.Channel)
	p.revision++
}

func (p *Page) Channels(list []m3u.Channel, favorites map[string]bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(list) == 0 {
		p.setEmptyLocked(NoChannels)
		return
	}
	cards := make([]Card, 0, len(list))
	visible := make(map[string]m3u.Channel, len(list))
	for _, ch := range list {
		visible[ch.ID] = ch
		cards = append(cards, Card{
			ID:       ch.ID,
			Name:     ch.Name,
			Group:    ch.Group,
			Logo:     ch.Logo,
			Badge:    Badge(ch.Name),
			Favorite: favorites[ch.ID],
		})
	}
	p.kind = gridChannels
	p.cards = cards
	p.visible = visible
	p.revision++
}

func (p *Page) Heading(title, subtitle string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title, p.subtitle = title, subtitle
	p.revision++
}

func (p *Page) ModePressed(mode browse.Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
	p.revision++
}

func (p *Page) ActiveCategory(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = id
	p.revision++
}

func (p *Page) Theme(theme browse.Theme) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme = theme
	p.revision++
}

// Lookup resolves a channel id against the current grid.
func (p *Page) Lookup(id string) (m3u.Channel, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ch, ok := p.visible[id]
	return ch, ok
}

// Visible returns the number of channels currently resolvable.
func (p *Page) Visible() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.visible)
}

// Revision increases on every state change.
func (p *Page) Revision() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.revision
}

type gridModel struct {
	Kind     string
	Skeleton int
	Message  string
	Cards    []Card
}

type pageModel struct {
	Frame
	Categories catalog.Categories
	Modes      []browse.Mode
	Version    string
}

func (p *Page) gridModelLocked() gridModel {
	g := gridModel{Skeleton: p.skeleton, Message: p.message, Cards: p.cards}
	switch p.kind {
	case gridSkeleton:
		g.Kind = "skeleton"
	case gridEmpty:
		g.Kind = "empty"
	default:
		g.Kind = "channels"
	}
	return g
}

func (p *Page) countLocked() string {
	switch p.kind {
	case gridSkeleton:
		return LoadingCount
	case gridEmpty:
		return "0 channels"
	}
	return strconv.Itoa(len(p.cards)) + " channels"
}

// Frame renders the current grid and returns it with the surrounding state.
func (p *Page) Frame() (Frame, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.frameLocked()
}

func (p *Page) frameLocked() (Frame, error) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "grid", p.gridModelLocked()); err != nil {
		return Frame{}, fmt.Errorf("render grid: %w", err)
	}
	return Frame{
		Revision:       p.revision,
		Status:         p.status,
		Title:          p.title,
		Subtitle:       p.subtitle,
		Mode:           p.mode,
		ActiveCategory: p.active,
		Theme:          p.theme,
		ThemeLabel:     ThemeLabel(p.theme),
		Count:          p.countLocked(),
		// #nosec G203 -- produced by html/template above
		Grid: template.HTML(buf.String()),
	}, nil
}

// WriteGrid writes only the grid fragment.
func (p *Page) WriteGrid(w io.Writer) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tmpl.ExecuteTemplate(w, "grid", p.gridModelLocked())
}

// WritePage writes the full HTML document.
func (p *Page) WritePage(w io.Writer) error {
	p.mu.RLock()
	frame, err := p.frameLocked()
	model := pageModel{
		Frame:      frame,
		Categories: p.categories,
		Modes:      browse.Modes,
		Version:    p.version,
	}
	p.mu.RUnlock()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "page", model); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}
