// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

const iptvOrgBase = "https://iptv-org.github.io/iptv/categories/"

// DefaultCategories is the built-in category list used when the config file names none.
func DefaultCategories() []CategoryConfig {
	entries := []struct{ id, name string }{
		{"animation", "Animation"},
		{"auto", "Auto"},
		{"business", "Business"},
		{"classic", "Classic"},
		{"comedy", "Comedy"},
		{"movies", "Movies"},
		{"music", "Music"},
		{"news", "News"},
	}
	out := make([]CategoryConfig, 0, len(entries))
	for _, e := range entries {
		out = append(out, CategoryConfig{ID: e.id, Name: e.name, URL: iptvOrgBase + e.id + ".m3u"})
	}
	return out
}

// Defaults returns a configuration populated with every default value.
func Defaults() AppConfig {
	return AppConfig{
		DataDir:    "/var/lib/tvdeck",
		LogLevel:   "info",
		LogService: "tvdeck",
		Server: ServerConfig{
			ListenAddr:      ":8088",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxHeaderBytes:  1 << 20,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
		Store: StoreConfig{
			Backend:     StoreFile,
			Path:        "state",
			RedisPrefix: "tvdeck:",
		},
		Catalog: CatalogConfig{
			Categories:    DefaultCategories(),
			FetchTimeout:  20 * time.Second,
			FetchRate:     2,
			FetchBurst:    4,
			SkeletonCount: 12,
		},
		Player: PlayerConfig{
			EnableWorker:    true,
			LowLatency:      true,
			BackBuffer:      60 * time.Second,
			ManifestTimeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 600,
			Window:   time.Minute,
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			Exporter:     "http",
			Endpoint:     "localhost:4318",
			SamplingRate: 1.0,
			Environment:  "production",
		},
	}
}
