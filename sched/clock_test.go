package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheduleTime(t *testing.T) {
	target, err := ParseScheduleTime("14:30:00")
	require.NoError(t, err)

	now := time.Now()
	assert.Equal(t, now.Year(), target.Year())
	assert.Equal(t, now.Month(), target.Month())
	assert.Equal(t, now.Day(), target.Day())
	assert.Equal(t, 14, target.Hour())
	assert.Equal(t, 30, target.Minute())
	assert.Equal(t, 0, target.Second())
}

func TestParseScheduleTimeInvalid(t *testing.T) {
	_, err := ParseScheduleTime("not-a-time")
	assert.Error(t, err)
}

func TestSleepUntilPastReturnsImmediately(t *testing.T) {
	start := time.Now()
	d := SleepUntil(start.Add(-time.Hour))
	elapsed := time.Since(start)
	assert.Less(t, d, time.Duration(0))
	assert.Less(t, elapsed, 50*time.Millisecond)
}

func TestTickerAnchorsAbsoluteDeadlines(t *testing.T) {
	start := time.Now().Add(-3 * TickInterval)
	ticker := NewTicker(start)

	// All three deadlines already passed, so these three calls return
	// immediately without drifting off `start`.
	begin := time.Now()
	assert.Equal(t, 0, ticker.Next())
	assert.Equal(t, 1, ticker.Next())
	assert.Equal(t, 2, ticker.Next())
	assert.Less(t, time.Since(begin), 50*time.Millisecond)
}
