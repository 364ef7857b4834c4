// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseHelpers(t *testing.T) {
	t.Setenv("TVDECK_TEST_STR", "value")
	t.Setenv("TVDECK_TEST_INT", " 42 ")
	t.Setenv("TVDECK_TEST_BAD_INT", "forty")
	t.Setenv("TVDECK_TEST_FLOAT", "1.5")
	t.Setenv("TVDECK_TEST_DUR", "750ms")
	t.Setenv("TVDECK_TEST_BAD_DUR", "soon")
	t.Setenv("TVDECK_TEST_BOOL", "yes")
	t.Setenv("TVDECK_TEST_BAD_BOOL", "maybe")
	t.Setenv("TVDECK_TEST_EMPTY", "")

	assert.Equal(t, "value", ParseString("TVDECK_TEST_STR", "def"))
	assert.Equal(t, "def", ParseString("TVDECK_TEST_EMPTY", "def"))
	assert.Equal(t, "def", ParseString("TVDECK_TEST_MISSING", "def"))

	assert.Equal(t, 42, ParseInt("TVDECK_TEST_INT", 1))
	assert.Equal(t, 1, ParseInt("TVDECK_TEST_BAD_INT", 1))

	assert.InDelta(t, 1.5, ParseFloat("TVDECK_TEST_FLOAT", 0), 1e-9)

	assert.Equal(t, 750*time.Millisecond, ParseDuration("TVDECK_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, ParseDuration("TVDECK_TEST_BAD_DUR", time.Second))

	assert.True(t, ParseBool("TVDECK_TEST_BOOL", false))
	assert.True(t, ParseBool("TVDECK_TEST_BAD_BOOL", true))
	assert.False(t, ParseBool("TVDECK_TEST_MISSING", false))
}

func TestIsSensitive(t *testing.T) {
	assert.True(t, isSensitive("TVDECK_REDIS_PASSWORD"))
	assert.False(t, isSensitive("TVDECK_LISTEN"))
}
