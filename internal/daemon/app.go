// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/tvdeck/internal/catalog"
	"github.com/ManuGH/tvdeck/internal/config"
	xglog "github.com/ManuGH/tvdeck/internal/log"
	"github.com/rs/zerolog"
)

// Browser is the part of the state manager the daemon drives at startup.
type Browser interface {
	LoadPersisted()
	Categories() catalog.Categories
	SelectCategory(ctx context.Context, cat catalog.Category)
}

// ReadyMarker flips readiness once startup has completed.
type ReadyMarker interface {
	MarkReady(ready bool)
}

// App owns the long-lived runtime lifecycle (config watcher, reload signal,
// initial category load) and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	cfgHolder    *config.Holder
	browser      Browser
	ready        ReadyMarker
	reloadSignal os.Signal
}

// NewApp creates a new App orchestrator. cfgHolder, browser and ready may be nil.
func NewApp(logger zerolog.Logger, manager Manager, cfgHolder *config.Holder, browser Browser, ready ReadyMarker) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		cfgHolder:    cfgHolder,
		browser:      browser,
		ready:        ready,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run starts all owned background subsystems and blocks until ctx is cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	// Config watcher is best-effort: startup should not fail if watcher cannot be started.
	if a.cfgHolder != nil {
		if err := a.cfgHolder.StartWatcher(ctx); err != nil {
			a.logger.Warn().Err(err).Str(xglog.FieldEvent, "config.watcher_start_failed").Msg("failed to start config watcher")
		}
	}

	if a.cfgHolder != nil && a.reloadSignal != nil {
		g.Go(func() error {
			hupChan := make(chan os.Signal, 1)
			signal.Notify(hupChan, a.reloadSignal)
			defer signal.Stop(hupChan)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.logger.Info().
						Str(xglog.FieldEvent, "config.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal, reloading config")

					if err := a.cfgHolder.Reload(ctx); err != nil {
						a.logger.Warn().
							Err(err).
							Str(xglog.FieldEvent, "config.reload_failed").
							Msg("config reload failed")
					}
				}
			}
		})
	}

	// Initial state runs alongside the listeners so the UI answers while the
	// first playlist downloads; readiness follows the first load.
	g.Go(func() error {
		a.warmup(ctx)
		return nil
	})

	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})

	return g.Wait()
}

func (a *App) warmup(ctx context.Context) {
	if a.browser != nil {
		a.browser.LoadPersisted()
		if cats := a.browser.Categories(); len(cats) > 0 {
			a.logger.Info().
				Str(xglog.FieldEvent, "startup.initial_category").
				Str(xglog.FieldCategoryID, cats[0].ID).
				Msg("loading initial category")
			a.browser.SelectCategory(ctx, cats[0])
		}
	}
	if ctx.Err() != nil {
		return
	}
	if a.ready != nil {
		a.ready.MarkReady(true)
	}
	a.logger.Info().Str(xglog.FieldEvent, "startup.ready").Msg("startup complete")
}
