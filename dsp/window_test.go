package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHannWindowEndpointsAreZero(t *testing.T) {
	w := hannWindow(512)
	assert.InDelta(t, 0, w[0], 1e-9)
	assert.InDelta(t, 0, w[len(w)-1], 1e-9)
}

func TestHannWindowPeaksAtCenter(t *testing.T) {
	w := hannWindow(512)
	max, maxI := 0.0, -1
	for i, v := range w {
		if v > max {
			max = v
			maxI = i
		}
	}
	assert.InDelta(t, 1.0, max, 1e-9)
	assert.InDelta(t, float64(len(w)-1)/2, float64(maxI), 1)
}

func TestHannWindowSingleSample(t *testing.T) {
	w := hannWindow(1)
	assert.Equal(t, []float64{1}, w)
}

func TestWindowCacheReusesBuffer(t *testing.T) {
	wc := NewWindowCache()
	a := wc.Get(512)
	b := wc.Get(512)
	assert.Same(t, &a[0], &b[0])
}
