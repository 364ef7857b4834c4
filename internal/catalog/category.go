// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package catalog fetches category playlists and memoizes the parsed channels.
package catalog

import (
	"strings"

	"github.com/ManuGH/tvdeck/internal/config"
)

// Category is a named playlist location. The set is fixed at startup.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Categories is the ordered category list shown in the sidebar.
type Categories []Category

// FromConfig converts validated category config entries.
func FromConfig(entries []config.CategoryConfig) Categories {
	out := make(Categories, 0, len(entries))
	for _, e := range entries {
		out = append(out, Category{
			ID:   strings.TrimSpace(e.ID),
			Name: e.Name,
			URL:  strings.TrimSpace(e.URL),
		})
	}
	return out
}

// Find looks a category up by id.
func (c Categories) Find(id string) (Category, bool) {
	for _, cat := range c {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}
