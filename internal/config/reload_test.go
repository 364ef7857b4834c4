// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder_ReloadSwapsConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "dataDir: "+dir+"\nlogLevel: info\n")
	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewHolder(initial, loader, path)
	var seen atomic.Value
	h.OnReload(func(_, next AppConfig) { seen.Store(next.LogLevel) })

	require.NoError(t, os.WriteFile(path, []byte("dataDir: "+dir+"\nlogLevel: debug\n"), 0o600))
	require.NoError(t, h.Reload(context.Background()))

	assert.Equal(t, "debug", h.Get().LogLevel)
	assert.Equal(t, "debug", seen.Load())
}

func TestHolder_ReloadKeepsOldOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "dataDir: "+dir+"\nlogLevel: warn\n")
	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)
	h := NewHolder(initial, loader, path)

	require.NoError(t, os.WriteFile(path, []byte("logLevel: [broken\n"), 0o600))
	require.Error(t, h.Reload(context.Background()))
	assert.Equal(t, "warn", h.Get().LogLevel)
}

func TestHolder_WatcherTriggersReload(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "dataDir: "+dir+"\nlogLevel: info\n")
	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)
	h := NewHolder(initial, loader, path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, h.StartWatcher(ctx))

	require.NoError(t, os.WriteFile(path, []byte("dataDir: "+dir+"\nlogLevel: error\n"), 0o600))
	assert.Eventually(t, func() bool { return h.Get().LogLevel == "error" }, 5*time.Second, 50*time.Millisecond)
}

func TestHolder_WatcherDisabledWithoutPath(t *testing.T) {
	h := NewHolder(Defaults(), NewLoader("", ""), "")
	assert.NoError(t, h.StartWatcher(context.Background()))
}
