package fft

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateTone(n int, cyclesPerWindow float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Cos(2 * math.Pi * cyclesPerWindow * float64(i) / float64(n))
	}
	return out
}

func TestForwardFFTFindsPeakBin(t *testing.T) {
	planner := NewPlanner()

	for _, bin := range []float64{0, 10, 64, 200} {
		time := generateTone(1024, bin)
		freq := make([]complex128, 1024/2+1)

		plan, err := planner(time, freq, Forward)
		require.NoError(t, err)
		require.NoError(t, plan.Transform())
		require.NoError(t, plan.Close())

		peakI, peakMag := -1, 0.0
		for i, c := range freq {
			mag := cmplx.Abs(c)
			if mag > peakMag {
				peakMag = mag
				peakI = i
			}
		}
		assert.Equal(t, int(bin), peakI)
	}
}

func TestBackwardFFTRoundTrip(t *testing.T) {
	planner := NewPlanner()
	n := 256

	time := generateTone(n, 5)
	freq := make([]complex128, n/2+1)

	fplan, err := planner(time, freq, Forward)
	require.NoError(t, err)
	require.NoError(t, fplan.Transform())

	reconstructed := make([]float64, n)
	bplan, err := planner(reconstructed, freq, Backward)
	require.NoError(t, err)
	require.NoError(t, bplan.Transform())

	for i := range time {
		assert.InDelta(t, time[i], reconstructed[i], 1e-9)
	}
}

func TestPlannerSizeMismatch(t *testing.T) {
	planner := NewPlanner()

	_, err := planner(make([]float64, 1024), make([]complex128, 128), Forward)
	assert.Equal(t, ErrSizeMismatch, err)
}

func TestTransformOnce(t *testing.T) {
	planner := NewPlanner()
	time := generateTone(512, 3)
	freq := make([]complex128, 512/2+1)

	require.NoError(t, TransformOnce(planner, time, freq, Forward))

	peakI, peakMag := -1, 0.0
	for i, c := range freq {
		mag := cmplx.Abs(c)
		if mag > peakMag {
			peakMag = mag
			peakI = i
		}
	}
	assert.Equal(t, 3, peakI)
}
