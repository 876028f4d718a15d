package hashcat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusLineProgress(t *testing.T) {
	update, ok := ParseStatusLine("Progress.........: 500/1000 (50.00%)")
	require.True(t, ok)
	assert.Equal(t, 50.0, update.Progress)
}

func TestParseStatusLineSpeed(t *testing.T) {
	update, ok := ParseStatusLine("Speed.#1.........:  1234.5 kH/s (0.52ms) @ Accel:1024")
	require.True(t, ok)
	assert.Equal(t, "1234.5 kH/s", update.Speed)
	assert.Zero(t, update.Progress)
}

func TestParseStatusLineETA(t *testing.T) {
	update, ok := ParseStatusLine("Time.Estimated...: Fri Aug 29 10:00:00 2026 (5 mins)")
	require.True(t, ok)
	assert.Equal(t, "Fri Aug 29 10:00:00 2026 (5 mins)", update.ETA)
}

func TestParseStatusLineRecovered(t *testing.T) {
	update, ok := ParseStatusLine("Recovered........: 1/2 (50.00%) Digests")
	require.True(t, ok)
	assert.Equal(t, 1, update.Recovered)
	assert.Equal(t, 2, update.Total)
	// The percentage on a Recovered line must not be mistaken for progress
	assert.Zero(t, update.Progress)
}

func TestParseStatusLineNoMatch(t *testing.T) {
	lines := []string{
		"",
		"hashcat (v6.2.6) starting",
		"Session..........: hashcat",
		"Guess.Base.......: File (rockyou.txt)",
	}
	for _, line := range lines {
		update, ok := ParseStatusLine(line)
		assert.False(t, ok, "line %q should not parse", line)
		assert.Nil(t, update)
	}
}

func TestParseStatusLineIntegerProgress(t *testing.T) {
	update, ok := ParseStatusLine("Progress.........: 1000/1000 (100%)")
	require.True(t, ok)
	assert.Equal(t, 100.0, update.Progress)
}
