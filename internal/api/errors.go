// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/tvdeck/internal/browse"
	"github.com/ManuGH/tvdeck/internal/log"
	"github.com/ManuGH/tvdeck/internal/player"
)

type errorBody struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, kind := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, browse.ErrUnknownChannel), errors.Is(err, browse.ErrUnknownCategory):
		code, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, browse.ErrInvalidMode), errors.Is(err, player.ErrUnknownEvent), errors.Is(err, errBadRequest):
		code, kind = http.StatusBadRequest, "bad_request"
	case errors.Is(err, browse.ErrNoPlayer):
		code, kind = http.StatusServiceUnavailable, "unavailable"
	}

	logger := log.WithContext(r.Context(), log.WithComponent("api"))
	evt := logger.Warn()
	if code >= http.StatusInternalServerError {
		evt = logger.Error()
	}
	evt.Err(err).
		Str(log.FieldEvent, "api.request_failed").
		Int("status", code).
		Msg("request failed")

	writeJSON(w, code, errorBody{
		Error:     kind,
		Detail:    err.Error(),
		RequestID: log.RequestIDFromContext(r.Context()),
	})
}
