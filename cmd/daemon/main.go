// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ManuGH/tvdeck/internal/api"
	"github.com/ManuGH/tvdeck/internal/browse"
	"github.com/ManuGH/tvdeck/internal/cache"
	"github.com/ManuGH/tvdeck/internal/catalog"
	"github.com/ManuGH/tvdeck/internal/config"
	"github.com/ManuGH/tvdeck/internal/daemon"
	"github.com/ManuGH/tvdeck/internal/health"
	xglog "github.com/ManuGH/tvdeck/internal/log"
	"github.com/ManuGH/tvdeck/internal/m3u"
	"github.com/ManuGH/tvdeck/internal/platform/httpx"
	"github.com/ManuGH/tvdeck/internal/player"
	"github.com/ManuGH/tvdeck/internal/render"
	"github.com/ManuGH/tvdeck/internal/store"
	"github.com/ManuGH/tvdeck/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

const defaultVolume = 0.8

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:]))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:]))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe defaults until the config is loaded.
	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: "tvdeck",
		Version: version,
	})
	logger := xglog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	effectiveConfigPath := strings.TrimSpace(*configPath)
	if effectiveConfigPath == "" {
		effectiveConfigPath = resolveDefaultConfigPath()
	}

	loader := config.NewLoader(effectiveConfigPath, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xglog.FieldEvent, "config.load_failed").
			Str("config_path", effectiveConfigPath).
			Msg("failed to load configuration")
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})
	logger = xglog.WithComponent("daemon")

	source := "env+defaults"
	if effectiveConfigPath != "" {
		source = "file"
	}
	logger.Info().
		Str(xglog.FieldEvent, "config.loaded").
		Str("source", source).
		Str("path", effectiveConfigPath).
		Msg("configuration loaded")

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		logger.Fatal().Err(err).Str("data_dir", cfg.DataDir).Msg("failed to create data directory")
	}

	logger.Info().
		Str(xglog.FieldEvent, "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.Server.ListenAddr).
		Str(xglog.FieldBackend, cfg.Store.Backend).
		Int("categories", len(cfg.Catalog.Categories)).
		Msg("starting tvdeck")

	holder := config.NewHolder(cfg, loader, effectiveConfigPath)
	holder.OnReload(func(old, next config.AppConfig) {
		if old.LogLevel != next.LogLevel && !xglog.SetLevel(next.LogLevel) {
			logger.Warn().Str("level", next.LogLevel).Msg("ignoring unknown log level")
		}
	})

	tp, err := telemetry.NewProvider(ctx, telemetry.FromAppConfig(cfg))
	if err != nil {
		logger.Fatal().Err(err).Str(xglog.FieldEvent, "telemetry.init_failed").Msg("failed to initialise tracing")
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		logger.Fatal().Err(err).Str(xglog.FieldEvent, "store.open_failed").Msg("failed to open store")
	}

	client := httpx.NewClient(cfg.Catalog.FetchTimeout)
	playlists := cache.NewMemory[[]m3u.Channel]()
	fetcher := catalog.NewFetcher(client,
		catalog.WithRateLimit(cfg.Catalog.FetchRate, cfg.Catalog.FetchBurst),
		catalog.WithSkeletonCount(cfg.Catalog.SkeletonCount),
		catalog.WithCache(playlists),
	)
	categories := catalog.FromConfig(cfg.Catalog.Categories)

	page, err := render.NewPage(categories, version)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse page templates")
	}
	browser := browse.NewManager(categories, fetcher, st, page)

	media := player.NewMediaElement(defaultVolume)
	engine := player.NewHLSEngine(httpx.NewClient(cfg.Player.ManifestTimeout),
		player.WithManifestTimeout(cfg.Player.ManifestTimeout),
		player.WithAdaptiveDisabled(cfg.Player.AdaptiveDisabled),
	)
	ctrl := player.NewController(engine, media, browser,
		player.WithSessionOptions(player.OptionsFromConfig(cfg.Player)),
	)
	browser.AttachPlayer(ctrl)

	hm := health.NewManager(version)
	hm.RegisterChecker(health.NewStoreChecker(st))
	hm.RegisterChecker(health.NewDataDirChecker(cfg.DataDir))
	hm.RegisterChecker(health.NewCheckFunc("catalog", func(context.Context) health.CheckResult {
		cached := playlists.Stats().CurrentSize
		return health.CheckResult{
			Status:  health.StatusHealthy,
			Message: fmt.Sprintf("%d/%d categories cached", cached, len(categories)),
		}
	}))

	srv := api.New(cfg, api.Deps{
		Dispatcher: browser,
		Page:       page,
		Media:      media,
		Health:     hm,
	})

	deps := daemon.Deps{
		Logger:     logger,
		APIHandler: srv.Handler(),
	}
	if cfg.Metrics.Enabled {
		deps.MetricsHandler = promhttp.Handler()
		deps.MetricsAddr = strings.TrimSpace(cfg.Metrics.Addr)
	}

	mgr, err := daemon.NewManager(cfg.Server, deps)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xglog.FieldEvent, "manager.creation.failed").
			Msg("failed to create daemon manager")
	}

	// LIFO: the player stops first, the tracer flushes last.
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)
	mgr.RegisterShutdownHook("store", func(context.Context) error { return st.Close() })
	mgr.RegisterShutdownHook("player", func(context.Context) error {
		ctrl.Stop()
		return nil
	})

	app := daemon.NewApp(logger, mgr, holder, browser, hm)
	if err := app.Run(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str(xglog.FieldEvent, "manager.failed").
			Msg("daemon app failed")
	}

	logger.Info().Msg("server exiting")
}

// resolveDefaultConfigPath returns ${TVDECK_DATA}/config.yaml when it exists.
func resolveDefaultConfigPath() string {
	dataDir := strings.TrimSpace(config.ParseString(config.EnvPrefix+"DATA", ""))
	if dataDir == "" {
		return ""
	}
	autoPath := filepath.Join(dataDir, "config.yaml")
	if _, err := os.Stat(autoPath); err == nil {
		return autoPath
	}
	return ""
}
