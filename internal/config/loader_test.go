// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsOnly(t *testing.T) {
	t.Setenv("TVDECK_DATA", t.TempDir())

	cfg, err := NewLoader("", "1.2.3").Load()
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, ":8088", cfg.Server.ListenAddr)
	assert.Equal(t, StoreFile, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(cfg.DataDir, "state"), cfg.Store.Path)
	assert.Len(t, cfg.Catalog.Categories, 8)
	assert.Equal(t, "animation", cfg.Catalog.Categories[0].ID)
	assert.Equal(t, "https://iptv-org.github.io/iptv/categories/news.m3u", cfg.Catalog.Categories[7].URL)
	assert.Equal(t, 12, cfg.Catalog.SkeletonCount)
	assert.Equal(t, 60*time.Second, cfg.Player.BackBuffer)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
dataDir: `+dir+`
logLevel: debug
server:
  listenAddr: "127.0.0.1:9000"
store:
  backend: sqlite
  path: state.db
catalog:
  fetchTimeout: 5s
  categories:
    - id: news
      name: News
      url: https://example.com/news.m3u
`)
	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.ListenAddr)
	assert.Equal(t, StoreSQLite, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "state.db"), cfg.Store.Path)
	assert.Equal(t, 5*time.Second, cfg.Catalog.FetchTimeout)
	require.Len(t, cfg.Catalog.Categories, 1)
	assert.Equal(t, "News", cfg.Catalog.Categories[0].Name)
	// untouched sections keep their defaults
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "dataDir: "+t.TempDir()+"\nserver:\n  listenAddr: \":9000\"\n")
	t.Setenv("TVDECK_LISTEN", ":9100")
	t.Setenv("TVDECK_STORE_BACKEND", "MEMORY")
	t.Setenv("TVDECK_FETCH_RATE", "0.5")

	l := NewLoader(path, "")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.ListenAddr)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.InDelta(t, 0.5, cfg.Catalog.FetchRate, 1e-9)
	assert.Contains(t, l.ConsumedEnvKeys, "TVDECK_LISTEN")
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	path := writeConfig(t, "dataDir: /tmp\nbogus: true\n")
	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownConfigField)
}

func TestLoad_MultipleDocumentsRejected(t *testing.T) {
	path := writeConfig(t, "logLevel: info\n---\nlogLevel: debug\n")
	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only YAML supported")
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	t.Setenv("TVDECK_DATA", t.TempDir())
	path := writeConfig(t, "")
	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfig(t, "logLevel: warn\n")
	cfg, err := LoadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, ":8088", cfg.Server.ListenAddr)
}
