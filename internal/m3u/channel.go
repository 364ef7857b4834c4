// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package m3u parses extended M3U channel playlists.
package m3u

import (
	"strconv"
	"unicode/utf16"
)

// Channel is one playable entry. Channels are values and never mutated after parsing.
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	Group    string `json:"group"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// ChannelID derives the stable identifier of a channel from its name and URL.
// It is a 31-multiplier rolling hash over the UTF-16 code units of "name|url"
// with 32-bit wraparound, rendered as "c" followed by the absolute value.
func ChannelID(name, url string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(name + "|" + url)) {
		h = h*31 + int32(unit)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return "c" + strconv.FormatInt(abs, 10)
}
