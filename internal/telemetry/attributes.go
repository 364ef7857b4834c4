// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by catalog and player spans.
const (
	CategoryIDKey   = "catalog.category_id"
	CategoryNameKey = "catalog.category_name"
	CacheHitKey     = "catalog.cache_hit"
	ChannelCountKey = "catalog.channels"
	FetchResultKey  = "catalog.result"
	ChannelIDKey    = "player.channel_id"
	ChannelNameKey  = "player.channel_name"
	PlaybackPathKey = "player.path"
	PlaylistKindKey = "player.playlist_kind"
	ErrorTypeKey    = "error.type"
)

// CategoryAttributes describes a category fetch.
func CategoryAttributes(id, name string, cacheHit bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(CategoryIDKey, id),
		attribute.String(CategoryNameKey, name),
		attribute.Bool(CacheHitKey, cacheHit),
	}
}

// PlaybackAttributes describes a playback attempt. Empty values are omitted.
func PlaybackAttributes(channelID, channelName, path string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if channelID != "" {
		attrs = append(attrs, attribute.String(ChannelIDKey, channelID))
	}
	if channelName != "" {
		attrs = append(attrs, attribute.String(ChannelNameKey, channelName))
	}
	if path != "" {
		attrs = append(attrs, attribute.String(PlaybackPathKey, path))
	}
	return attrs
}
