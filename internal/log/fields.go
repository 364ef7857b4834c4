// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID  = "request_id"
	FieldCategoryID = "category_id"
	FieldChannelID  = "channel_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Playback fields
	FieldPhase   = "phase"
	FieldEngine  = "engine"
	FieldStream  = "stream_url"
	FieldBackend = "backend"
)
