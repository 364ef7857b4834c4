// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ManuGH/tvdeck/internal/cache"
	xglog "github.com/ManuGH/tvdeck/internal/log"
	"github.com/ManuGH/tvdeck/internal/m3u"
	"github.com/ManuGH/tvdeck/internal/metrics"
	platformnet "github.com/ManuGH/tvdeck/internal/platform/net"
	"github.com/ManuGH/tvdeck/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

// User-visible texts announced during a fetch.
const (
	StatusReady   = "Ready"
	StatusOffline = "Offline"
	EmptyOffline  = "Unable to load playlist. Check your connection."

	DefaultSkeletonCount = 12

	maxPlaylistBytes = 32 << 20
)

// LoadingStatus is the status text shown while a category downloads.
func LoadingStatus(name string) string {
	return "Loading " + name + "…"
}

// Reporter receives the visible side effects of a fetch.
type Reporter interface {
	Status(text string)
	Skeleton(n int)
	Empty(message string)
}

// Fetcher downloads category playlists and caches successful parses by category id.
// Concurrent fetches of one category are not coalesced; the last to finish wins the cache slot.
type Fetcher struct {
	client   *http.Client
	cache    cache.Cache[[]m3u.Channel]
	limiter  *rate.Limiter
	skeleton int
	logger   zerolog.Logger
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithRateLimit bounds outbound playlist requests. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(f *Fetcher) {
		if rps <= 0 {
			f.limiter = nil
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithSkeletonCount sets how many placeholders are shown while loading.
func WithSkeletonCount(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.skeleton = n
		}
	}
}

// WithCache replaces the default never-expiring in-memory cache.
func WithCache(c cache.Cache[[]m3u.Channel]) Option {
	return func(f *Fetcher) { f.cache = c }
}

// NewFetcher builds a fetcher around client.
func NewFetcher(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   client,
		cache:    cache.NewMemory[[]m3u.Channel](),
		skeleton: DefaultSkeletonCount,
		logger:   xglog.WithComponent("catalog"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Cached returns the cached channels of a category without fetching.
func (f *Fetcher) Cached(categoryID string) ([]m3u.Channel, bool) {
	return f.cache.Get(categoryID)
}

// Fetch returns the channels of cat. A cache hit returns immediately without
// touching rep. Network and HTTP failures are reported through rep, logged and
// swallowed: the result is then empty and the cache is left untouched.
func (f *Fetcher) Fetch(ctx context.Context, cat Category, rep Reporter) []m3u.Channel {
	if channels, ok := f.cache.Get(cat.ID); ok {
		metrics.RecordCacheHit(cat.ID)
		return channels
	}

	ctx, span := telemetry.Tracer().Start(ctx, "catalog.fetch")
	span.SetAttributes(telemetry.CategoryAttributes(cat.ID, cat.Name, false)...)
	defer span.End()

	logger := xglog.WithContext(ctx, f.logger).With().Str(xglog.FieldCategoryID, cat.ID).Logger()

	rep.Status(LoadingStatus(cat.Name))
	rep.Skeleton(f.skeleton)

	start := time.Now()
	channels, result, err := f.download(ctx, cat)
	metrics.RecordFetch(cat.ID, result, time.Since(start))
	span.SetAttributes(attribute.String(telemetry.FetchResultKey, result))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "catalog.fetch_failed").
			Str("result", result).
			Str("url", platformnet.SanitizeURL(cat.URL)).
			Msg("playlist fetch failed")
		rep.Status(StatusOffline)
		rep.Empty(EmptyOffline)
		return []m3u.Channel{}
	}

	f.cache.Set(cat.ID, channels, cache.NoExpiry)
	metrics.SetCategoryChannels(cat.ID, len(channels))
	span.SetAttributes(attribute.Int(telemetry.ChannelCountKey, len(channels)))
	logger.Info().
		Str(xglog.FieldEvent, "catalog.fetch_ok").
		Int("channels", len(channels)).
		Dur("duration", time.Since(start)).
		Msg("playlist loaded")
	rep.Status(StatusReady)
	return channels
}

func (f *Fetcher) download(ctx context.Context, cat Category) ([]m3u.Channel, string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, metrics.FetchTransportError, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cat.URL, nil)
	if err != nil {
		return nil, metrics.FetchTransportError, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, metrics.FetchTransportError, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, metrics.FetchHTTPError, fmt.Errorf("playlist fetch failed: %s", resp.Status)
	}

	body := io.LimitReader(resp.Body, maxPlaylistBytes)
	channels, err := m3u.ParseReader(body, cat.Name)
	if err != nil {
		return nil, metrics.FetchReadError, fmt.Errorf("read playlist: %w", err)
	}
	if channels == nil {
		channels = []m3u.Channel{}
	}
	return channels, metrics.FetchSuccess, nil
}
