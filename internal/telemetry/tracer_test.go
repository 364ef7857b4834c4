// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"context"
	"testing"

	"github.com/ManuGH/tvdeck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.NoError(t, p.Shutdown(context.Background()))

	_, span := Tracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsSampled())
	span.End()
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, ExporterType: "zipkin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported exporter type")
}

func TestNewProvider_HTTPExporter(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{
		Enabled:      true,
		ServiceName:  "tvdeck-test",
		ExporterType: "http",
		Endpoint:     "127.0.0.1:1",
		SamplingRate: 0.5,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = NewProvider(context.Background(), Config{})
	})
	// the collector is unreachable; shutdown may report the export failure
	_ = p.Shutdown(context.Background())
}

func TestFromAppConfig(t *testing.T) {
	app := config.Defaults()
	app.Version = "v9"
	app.Telemetry.Enabled = true
	cfg := FromAppConfig(app)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "tvdeck", cfg.ServiceName)
	assert.Equal(t, "v9", cfg.ServiceVersion)
	assert.Equal(t, "http", cfg.ExporterType)
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOn")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOff")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestAttributes(t *testing.T) {
	attrs := CategoryAttributes("news", "News", true)
	assert.Equal(t, []attribute.KeyValue{
		attribute.String(CategoryIDKey, "news"),
		attribute.String(CategoryNameKey, "News"),
		attribute.Bool(CacheHitKey, true),
	}, attrs)

	assert.Len(t, PlaybackAttributes("c1", "", "native"), 2)
	assert.Empty(t, PlaybackAttributes("", "", ""))
}
