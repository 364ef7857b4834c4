// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package store persists small JSON documents (favorites, recents, theme)
// behind a pluggable key/value backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	xglog "github.com/ManuGH/tvdeck/internal/log"
	"github.com/rs/zerolog"
)

// Well-known keys.
const (
	KeyFavorites = "favorites"
	KeyRecent    = "recent"
	KeyTheme     = "theme"
)

const opTimeout = 2 * time.Second

// ErrNotFound is returned by backends when a key has never been written.
var ErrNotFound = errors.New("store: key not found")

// Backend is a raw byte-oriented key/value store.
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Store reads and writes JSON values through a Backend.
type Store struct {
	backend Backend
	logger  zerolog.Logger
}

// New wraps a backend.
func New(b Backend) *Store {
	return &Store{
		backend: b,
		logger:  xglog.WithComponent("store").With().Str(xglog.FieldBackend, b.Name()).Logger(),
	}
}

// Get decodes the value stored under key. It returns fallback when the key is
// absent, the backend fails, or the stored bytes are not valid JSON for T.
func Get[T any](s *Store, key string, fallback T) T {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn().Err(err).Str("key", key).Msg("store read failed, using fallback")
		}
		return fallback
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("stored value is not valid JSON, using fallback")
		return fallback
	}
	return out
}

// Set encodes value as JSON and overwrites key unconditionally.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := s.backend.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Backend returns the backend name.
func (s *Store) Backend() string {
	return s.backend.Name()
}

// Close releases backend resources.
func (s *Store) Close() error {
	return s.backend.Close()
}
