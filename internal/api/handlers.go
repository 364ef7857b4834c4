// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/ManuGH/tvdeck/internal/browse"
	"github.com/ManuGH/tvdeck/internal/player"
	"github.com/ManuGH/tvdeck/internal/render"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 16 << 10

var errBadRequest = errors.New("bad request")

// StateResponse is returned by every command and by GET /api/state.
type StateResponse struct {
	View   render.Frame    `json:"view"`
	Player player.Snapshot `json:"player"`
	State  browse.Snapshot `json:"state"`
}

func (s *Server) state() (StateResponse, error) {
	frame, err := s.deps.Page.Frame()
	if err != nil {
		return StateResponse{}, err
	}
	return StateResponse{
		View:   frame,
		Player: s.deps.Media.Snapshot(),
		State:  s.deps.Dispatcher.Snapshot(),
	}, nil
}

func (s *Server) writeState(w http.ResponseWriter, r *http.Request) {
	resp, err := s.state()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// dispatch runs cmd and answers with the resulting state.
func (s *Server) dispatch(ctx context.Context, w http.ResponseWriter, r *http.Request, cmd browse.Command) {
	if err := s.deps.Dispatcher.Dispatch(ctx, cmd); err != nil {
		writeError(w, r, err)
		return
	}
	s.writeState(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.deps.Page.WritePage(&buf); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.deps.Page.WriteGrid(&buf); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-View-Revision", strconv.FormatUint(s.deps.Page.Revision(), 10))
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, r)
}

// handleSelectCategory keeps the playlist download alive when the client goes
// away so a completed fetch still lands in the cache.
func (s *Server) handleSelectCategory(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	s.dispatch(ctx, w, r, browse.SelectCategoryCmd{CategoryID: chi.URLParam(r, "id")})
}

func (s *Server) handleViewMode(w http.ResponseWriter, r *http.Request) {
	s.dispatch(r.Context(), w, r, browse.SetViewModeCmd{Mode: chi.URLParam(r, "mode")})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Term string `json:"term"`
	}
	if err := decodeBody(r, &body, func(form func(string) string) { body.Term = form("term") }); err != nil {
		writeError(w, r, err)
		return
	}
	s.dispatch(r.Context(), w, r, browse.SearchCmd{Term: body.Term})
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	s.dispatch(r.Context(), w, r, browse.ToggleFavoriteCmd{ChannelID: chi.URLParam(r, "id")})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	s.dispatch(r.Context(), w, r, browse.PlayCmd{ChannelID: chi.URLParam(r, "id")})
}

func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	s.dispatch(r.Context(), w, r, browse.ToggleThemeCmd{})
}

func (s *Server) handlePlayer(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Media.Snapshot())
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	s.dispatch(r.Context(), w, r, browse.RetryCmd{})
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Volume *float64 `json:"volume"`
	}
	err := decodeBody(r, &body, func(form func(string) string) {
		if v, perr := strconv.ParseFloat(form("volume"), 64); perr == nil {
			body.Volume = &v
		}
	})
	if err == nil && body.Volume == nil {
		err = fmt.Errorf("%w: volume is required", errBadRequest)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.dispatch(r.Context(), w, r, browse.SetVolumeCmd{Volume: *body.Volume})
}

func (s *Server) handleMediaEvent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Event string `json:"event"`
	}
	if err := decodeBody(r, &body, func(form func(string) string) { body.Event = form("event") }); err != nil {
		writeError(w, r, err)
		return
	}
	s.dispatch(r.Context(), w, r, browse.MediaEventCmd{Event: body.Event})
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	var caps player.Capabilities
	if err := decodeBody(r, &caps, func(form func(string) string) {
		caps.Adaptive, _ = strconv.ParseBool(form("adaptive"))
		caps.Native, _ = strconv.ParseBool(form("native"))
	}); err != nil {
		writeError(w, r, err)
		return
	}
	s.deps.Media.SetCapabilities(caps)
	s.writeState(w, r)
}

// decodeBody reads a JSON body into dst, or calls fromForm for form posts.
// An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any, fromForm func(form func(string) string)) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %w", errBadRequest, err)
		}
		fromForm(r.PostForm.Get)
		return nil
	}
	if r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}
