// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"fmt"

	"github.com/ManuGH/tvdeck/internal/config"
)

// Open creates the Store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Backend {
	case config.StoreFile:
		b, err = NewFileBackend(cfg.Path)
	case config.StoreSQLite:
		b, err = OpenSQLiteBackend(ctx, cfg.Path)
	case config.StoreBadger:
		b, err = OpenBadgerBackend(cfg.Path, cfg.InMemory)
	case config.StoreRedis:
		b, err = OpenRedisBackend(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.StoreMemory, "":
		b = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	return New(b), nil
}
