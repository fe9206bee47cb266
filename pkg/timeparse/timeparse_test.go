package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumericTs(t *testing.T) {
	ts, ok, err := Parse("1739051292.0042", "--since")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 1739051292.0042, ts, 0.0001)

	ts, ok, err = Parse("1739051292", "--since")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, float64(1739051292), ts)
}

func TestParseDurations(t *testing.T) {
	now := float64(time.Now().Unix())
	for value, back := range map[string]float64{
		"30s": 30,
		"45m": 45 * 60,
		"2h":  2 * 3600,
		"1d":  86400,
		"1w":  604800,
	} {
		ts, ok, err := Parse(value, "--since")
		require.NoError(t, err, value)
		assert.True(t, ok)
		assert.InDelta(t, now-back, ts, 2, value)
	}
}

func TestParseEmptyMeansUnset(t *testing.T) {
	ts, ok, err := Parse("", "--since")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, ts)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, value := range []string{"soon", "2x", "h2", "-5m", "1.5h"} {
		_, _, err := Parse(value, "--until")
		assert.Error(t, err, value)
		assert.ErrorContains(t, err, "--until")
	}
}

func TestBounds(t *testing.T) {
	oldest, latest, err := Bounds("2h", "1h")
	require.NoError(t, err)
	assert.Less(t, oldest, latest)

	oldest, latest, err = Bounds("", "")
	require.NoError(t, err)
	assert.Zero(t, oldest)
	assert.Zero(t, latest)
}

func TestBoundsRejectsInvertedWindow(t *testing.T) {
	_, _, err := Bounds("1h", "2h")
	require.Error(t, err)
	assert.ErrorContains(t, err, "--since cannot be later than --until")
}
