package sidecar

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFrequencyAxisRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freq.bin")
	axis := []float64{100, 200.5, -300}

	require.NoError(t, WriteFrequencyAxis(path, axis))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 24)

	for i, want := range axis {
		bits := binary.LittleEndian.Uint64(got[i*8 : i*8+8])
		assert.Equal(t, want, math.Float64frombits(bits))
	}
}

func TestComputeWindowFullFifteenMinuteCapture(t *testing.T) {
	w, err := ComputeWindow("14:30:00", 3600, 250*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, 14, w.Start.Hour())
	assert.Equal(t, 30, w.Start.Minute())
	assert.Equal(t, 0, w.Start.Second())

	assert.Equal(t, 899750*time.Millisecond, w.End.Sub(w.Start))
}

func TestComputeWindowInvalidScheduleTime(t *testing.T) {
	_, err := ComputeWindow("not-a-time", 3600, 250*time.Millisecond)
	assert.Error(t, err)
}

func TestTimestampsHasOneEntryPerTick(t *testing.T) {
	w, err := ComputeWindow("14:30:00", 3600, 250*time.Millisecond)
	require.NoError(t, err)

	ts := w.Timestamps(250 * time.Millisecond)
	require.Len(t, ts, 3600)

	assert.InDelta(t, float64(w.Start.Unix()), ts[0], 1.0)
	assert.InDelta(t, ts[1]-ts[0], 0.25, 1e-6)
}

func TestWriteHeaderHasFiveLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "header.txt")
	w, err := ComputeWindow("08:05:09", 3600, 250*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, WriteHeader(path, w))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(got), "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Regexp(t, `^\d{4}/\d{2}/\d{2}$`, lines[0])
	assert.Regexp(t, `^08:05:09\.\d{3}$`, lines[1])
	assert.Regexp(t, `^\d{4}/\d{2}/\d{2}$`, lines[2])
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}\.\d{3}$`, lines[3])
	assert.Equal(t, "29109", lines[4])
}
