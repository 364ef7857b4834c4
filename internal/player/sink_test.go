// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package player

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaElement_Defaults(t *testing.T) {
	m := NewMediaElement(0.8)
	snap := m.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, Banner{Text: DefaultOverlayText}, snap.Overlay)
	assert.Equal(t, Banner{Text: DefaultErrorText}, snap.Error)
	assert.InDelta(t, 0.8, snap.Volume, 1e-9)

	m.Overlay(true, "")
	m.Error(true, "")
	snap = m.Snapshot()
	assert.Equal(t, DefaultOverlayText, snap.Overlay.Text)
	assert.Equal(t, DefaultErrorText, snap.Error.Text)
}

func TestMediaElement_SessionLifecycle(t *testing.T) {
	m := NewMediaElement(1)
	assert.ErrorIs(t, m.Play(), ErrNoSource)

	m.Attach("https://a/live.m3u8", PathNative, SessionOptions{EnableWorker: true})
	first := m.Snapshot()
	assert.Nil(t, first.Options)
	require.NoError(t, m.Play())
	assert.True(t, m.Snapshot().Playing)

	m.Reset()
	snap := m.Snapshot()
	assert.Greater(t, snap.Session, first.Session)
	assert.Greater(t, snap.Revision, first.Revision)
	assert.Empty(t, snap.Source)
	assert.False(t, snap.Playing)
}

func TestMediaElement_SnapshotIsCopy(t *testing.T) {
	m := NewMediaElement(1)
	m.Attach("https://a/live.m3u8", PathAdaptive, SessionOptions{BackBufferLength: 60})
	snap := m.Snapshot()
	snap.Options.BackBufferLength = 1
	assert.InDelta(t, 60.0, m.Snapshot().Options.BackBufferLength, 1e-9)
}

func TestMediaElement_Capabilities(t *testing.T) {
	m := NewMediaElement(1)
	assert.True(t, m.AdaptiveSupported())
	assert.True(t, m.CanPlayType(HLSMimeType))
	assert.False(t, m.CanPlayType("video/mp4"))

	m.SetCapabilities(Capabilities{Adaptive: false, Native: false})
	assert.False(t, m.AdaptiveSupported())
	assert.False(t, m.CanPlayType(HLSMimeType))
}

func TestClamp(t *testing.T) {
	assert.Zero(t, clamp(math.NaN()))
	assert.Zero(t, clamp(-0.1))
	assert.InDelta(t, 1.0, clamp(1.5), 1e-9)
	assert.InDelta(t, 0.3, clamp(0.3), 1e-9)
}
