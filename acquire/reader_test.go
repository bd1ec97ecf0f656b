package acquire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/rf"

	"hz.tools/callisto/device/mock"
	"hz.tools/callisto/iq"
	"hz.tools/callisto/ring"
)

func TestReaderFeedsRingBuffer(t *testing.T) {
	const fftSize = 64

	drv := mock.New(mock.Config{
		CenterFrequency: rf.Hz(45_000_000),
		SampleRate:      1_000_000,
		Gen:             mock.ToneGenerator(rf.Hz(10_000), 1000),
	})

	rb, err := ring.New(16, fftSize, iq.FormatI16)
	require.NoError(t, err)

	r, err := NewReader(drv, rb, fftSize)
	require.NoError(t, err)
	require.NoError(t, r.Start())

	require.Eventually(t, func() bool {
		return rb.Len() > 0
	}, time.Second, time.Millisecond)

	require.NoError(t, r.Stop())

	ok, drop := r.Stats()
	assert.Greater(t, ok, uint64(0))
	assert.Equal(t, uint64(0), drop)
}

func TestReaderCountsShortReadsAsDrops(t *testing.T) {
	const fftSize = 32

	drv := &shortReadDriver{fftSize: fftSize}
	rb, err := ring.New(4, fftSize, iq.FormatI16)
	require.NoError(t, err)

	r, err := NewReader(drv, rb, fftSize)
	require.NoError(t, err)
	require.NoError(t, r.Start())

	require.Eventually(t, func() bool {
		_, drop := r.Stats()
		return drop > 0
	}, time.Second, time.Millisecond)

	require.NoError(t, r.Stop())
}
