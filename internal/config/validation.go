// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strings"

	platformnet "github.com/ManuGH/tvdeck/internal/platform/net"
	"github.com/ManuGH/tvdeck/internal/validate"
	"github.com/rs/zerolog"
)

// Validate checks a resolved AppConfig. All failures are wrapped with ErrInvalidConfig.
func Validate(cfg *AppConfig) error {
	v := validate.New()

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil || cfg.LogLevel == "" {
		v.AddError("logLevel", "unknown log level", cfg.LogLevel)
	}
	v.NotEmpty("dataDir", cfg.DataDir)

	v.ListenAddr("server.listenAddr", cfg.Server.ListenAddr)
	v.PositiveDuration("server.shutdownTimeout", cfg.Server.ShutdownTimeout)
	if cfg.Metrics.Enabled {
		v.ListenAddr("metrics.addr", cfg.Metrics.Addr)
		if cfg.Metrics.Addr == cfg.Server.ListenAddr {
			v.AddError("metrics.addr", "must differ from server.listenAddr", cfg.Metrics.Addr)
		}
	}

	validateStore(v, cfg.Store)
	validateCatalog(v, cfg.Catalog)

	if cfg.Player.BackBuffer < 0 {
		v.AddError("player.backBuffer", "cannot be negative", cfg.Player.BackBuffer)
	}
	v.PositiveDuration("player.manifestTimeout", cfg.Player.ManifestTimeout)

	if cfg.RateLimit.Enabled {
		v.Positive("rateLimit.requests", cfg.RateLimit.Requests)
		v.PositiveDuration("rateLimit.window", cfg.RateLimit.Window)
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	if err := v.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func validateStore(v *validate.Validator, s StoreConfig) {
	v.OneOf("store.backend", s.Backend, []string{StoreFile, StoreSQLite, StoreBadger, StoreRedis, StoreMemory})
	switch s.Backend {
	case StoreFile, StoreSQLite:
		v.NotEmpty("store.path", s.Path)
	case StoreBadger:
		if !s.InMemory {
			v.NotEmpty("store.path", s.Path)
		}
	case StoreRedis:
		v.NotEmpty("store.redisAddr", s.RedisAddr)
		v.NonNegative("store.redisDB", s.RedisDB)
	}
}

func validateCatalog(v *validate.Validator, c CatalogConfig) {
	if len(c.Categories) == 0 {
		v.AddError("catalog.categories", "at least one category is required", nil)
	}
	seen := make(map[string]struct{}, len(c.Categories))
	for i, cat := range c.Categories {
		field := fmt.Sprintf("catalog.categories[%d]", i)
		id := strings.TrimSpace(cat.ID)
		v.NotEmpty(field+".id", id)
		v.NotEmpty(field+".name", cat.Name)
		v.URL(field+".url", cat.URL, platformnet.HTTPSchemes)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			v.AddError(field+".id", "duplicate category id", id)
		}
		seen[id] = struct{}{}
	}
	v.PositiveDuration("catalog.fetchTimeout", c.FetchTimeout)
	if c.FetchRate < 0 {
		v.AddError("catalog.fetchRate", "cannot be negative", c.FetchRate)
	}
	if c.FetchRate > 0 {
		v.Positive("catalog.fetchBurst", c.FetchBurst)
	}
	v.Range("catalog.skeletonCount", c.SkeletonCount, 1, 100)
}
