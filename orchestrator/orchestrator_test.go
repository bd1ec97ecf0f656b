package orchestrator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/rf"

	"hz.tools/callisto/device/mock"
	"hz.tools/callisto/dsp"
)

func TestRunProducesSidecarAndDataFiles(t *testing.T) {
	dir := t.TempDir()

	drv := mock.New(mock.Config{
		CenterFrequency: rf.Hz(45_000_000),
		SampleRate:      1_000_000,
		Gen:             mock.ToneGenerator(rf.Hz(10_000), 1000),
	})

	// Schedule the window to start immediately (already "past" from
	// sched.SleepUntil's point of view) so the test doesn't wait.
	past := pastScheduleTime()

	cfg := Config{
		CenterFrequency: rf.Hz(45_000_000),
		SampleRate:      1_000_000,
		FFTSize:         64,
		Integration:     2,
		Mode:            dsp.ScaleLinear,
		ScheduleTimes:   []string{past},
		Ticks:           3,
		RingSlots:       16,
		DataDir:         dir,
	}

	require.NoError(t, Run(drv, cfg))

	assert.FileExists(t, filepath.Join(dir, "freq.bin"))

	tag := scheduleTimeTag(past)
	assert.FileExists(t, filepath.Join(dir, "time_"+tag+".bin"))
	assert.FileExists(t, filepath.Join(dir, "header_"+tag+".txt"))

	fftPath := filepath.Join(dir, "fft_data_"+tag+".bin")
	assert.FileExists(t, fftPath)

	data, err := os.ReadFile(fftPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Ticks*(cfg.FFTSize/2), len(data))
}

func TestRunRewritesConfigWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.cfg")
	require.NoError(t, os.WriteFile(configPath,
		[]byte("last_time_scheluded=                                            #\ncontrol_external_generation=0\n"),
		0o644))

	drv := mock.New(mock.Config{SampleRate: 1_000_000})
	past := pastScheduleTime()

	cfg := Config{
		SampleRate:    1_000_000,
		FFTSize:       32,
		Integration:   1,
		Mode:          dsp.ScaleLinear,
		ScheduleTimes: []string{past},
		Ticks:         2,
		RingSlots:     8,
		DataDir:       dir,
		ConfigPath:    configPath,
	}

	require.NoError(t, Run(drv, cfg))

	got, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(got), "control_external_generation=1")
}

func TestScheduleTimeTagIsVerbatim(t *testing.T) {
	assert.Equal(t, "14:30:00", scheduleTimeTag("14:30:00"))
}

// pastScheduleTime returns an "HH:MM:SS" string that sched.SleepUntil
// treats as already elapsed, so tests don't block on a future wall-clock
// time.
func pastScheduleTime() string {
	return time.Now().Add(-time.Minute).Format("15:04:05")
}
