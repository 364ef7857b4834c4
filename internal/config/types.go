// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// Store backend identifiers.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreBadger = "badger"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// AppConfig is the fully resolved runtime configuration.
type AppConfig struct {
	Version string `yaml:"-"`

	DataDir    string `yaml:"dataDir"`
	LogLevel   string `yaml:"logLevel"`
	LogService string `yaml:"logService"`

	Server    ServerConfig    `yaml:"server"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Store     StoreConfig     `yaml:"store"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Player    PlayerConfig    `yaml:"player"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds HTTP listener settings for the UI/API server.
type ServerConfig struct {
	ListenAddr      string        `yaml:"listenAddr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	MaxHeaderBytes  int           `yaml:"maxHeaderBytes"`
}

// MetricsConfig controls the separate Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// StoreConfig selects and configures the persistence backend for favorites,
// recents and theme.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	// Path is a directory for "file" and "badger", and a database file for "sqlite".
	// Relative paths are resolved against DataDir.
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"inMemory"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	RedisPrefix   string `yaml:"redisPrefix"`
}

// CategoryConfig is one selectable category and its playlist location.
type CategoryConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// CatalogConfig configures playlist retrieval.
type CatalogConfig struct {
	Categories    []CategoryConfig `yaml:"categories"`
	FetchTimeout  time.Duration    `yaml:"fetchTimeout"`
	FetchRate     float64          `yaml:"fetchRate"` // requests per second, 0 disables limiting
	FetchBurst    int              `yaml:"fetchBurst"`
	SkeletonCount int              `yaml:"skeletonCount"`
}

// PlayerConfig carries the adaptive-streaming session options handed to the engine.
type PlayerConfig struct {
	EnableWorker     bool          `yaml:"enableWorker"`
	LowLatency       bool          `yaml:"lowLatency"`
	BackBuffer       time.Duration `yaml:"backBuffer"`
	ManifestTimeout  time.Duration `yaml:"manifestTimeout"`
	AdaptiveDisabled bool          `yaml:"adaptiveDisabled"`
}

// RateLimitConfig bounds API request rates per client IP.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
	Environment  string  `yaml:"environment"`
}
