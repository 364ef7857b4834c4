// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves the browser UI and the command endpoints that drive the
// view state manager and the player.
package api

import (
	"context"
	"net/http"

	"github.com/ManuGH/tvdeck/internal/api/middleware"
	"github.com/ManuGH/tvdeck/internal/browse"
	"github.com/ManuGH/tvdeck/internal/config"
	"github.com/ManuGH/tvdeck/internal/player"
	"github.com/ManuGH/tvdeck/internal/render"
	"github.com/go-chi/chi/v5"
)

// Dispatcher consumes typed commands; *browse.Manager implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd browse.Command) error
	Snapshot() browse.Snapshot
}

// HealthHandler serves /healthz and /readyz; *health.Manager implements it.
type HealthHandler interface {
	ServeHealth(w http.ResponseWriter, r *http.Request)
	ServeReady(w http.ResponseWriter, r *http.Request)
}

// Deps are the collaborators the server routes to.
type Deps struct {
	Dispatcher Dispatcher
	Page       *render.Page
	Media      *player.MediaElement
	Health     HealthHandler
}

// Server is the UI/API HTTP handler.
type Server struct {
	cfg  config.AppConfig
	deps Deps
}

// New creates the server. Call Handler to obtain the routed http.Handler.
func New(cfg config.AppConfig, deps Deps) *Server {
	return &Server{cfg: cfg, deps: deps}
}

// Handler builds the chi router with the full middleware stack.
func (s *Server) Handler() http.Handler {
	service := ""
	if s.cfg.Telemetry.Enabled {
		service = s.cfg.LogService
		if service == "" {
			service = "tvdeck"
		}
	}
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        service,
		EnableLogging:         true,
		EnableRateLimit:       s.cfg.RateLimit.Enabled,
		RateLimit:             s.cfg.RateLimit.Requests,
		RateWindow:            s.cfg.RateLimit.Window,
	})

	if s.deps.Health != nil {
		r.Get("/healthz", s.deps.Health.ServeHealth)
		r.Get("/readyz", s.deps.Health.ServeReady)
	}

	r.Get("/", s.handleIndex)
	r.Get("/fragments/grid", s.handleGrid)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(render.Static()))))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/categories/{id}/select", s.handleSelectCategory)
		r.Post("/view/{mode}", s.handleViewMode)
		r.Post("/search", s.handleSearch)
		r.Post("/channels/{id}/favorite", s.handleFavorite)
		r.Post("/channels/{id}/play", s.handlePlay)
		r.Post("/theme/toggle", s.handleThemeToggle)

		r.Route("/player", func(r chi.Router) {
			r.Get("/", s.handlePlayer)
			r.Post("/retry", s.handleRetry)
			r.Post("/volume", s.handleVolume)
			r.Post("/events", s.handleMediaEvent)
			r.Post("/capabilities", s.handleCapabilities)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found"})
	})
	return r
}
