// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

// Package dsp implements the windowed/integrated FFT pipeline that turns a
// tick's worth of SampleBlocks into one quantized SpectrumRow.
package dsp

import (
	"math"
)

const tau = 2 * math.Pi

// hannWindow generates a symmetric Hann window of the given size: zero at
// both endpoints, peak of 1 at the center. This replaces the teacher's
// Blackman coefficients (a0/a1/a2) with the single-cosine Hann shape this
// spectrum analysis needs - kept to the same "generate once per size,
// cache it" idiom.
func hannWindow(size int) []float64 {
	buf := make([]float64, size)
	if size == 1 {
		buf[0] = 1
		return buf
	}
	for i := range buf {
		buf[i] = 0.5 - 0.5*math.Cos(tau*float64(i)/float64(size-1))
	}
	return buf
}

// WindowCache caches Hann windows by size so repeated ticks against the
// same SampleBlock length never regenerate one.
type WindowCache struct {
	cached map[int][]float64
}

// NewWindowCache returns an empty WindowCache.
func NewWindowCache() *WindowCache {
	return &WindowCache{cached: map[int][]float64{}}
}

// Get returns the Hann window for the given size, generating and caching
// it on first use.
func (wc *WindowCache) Get(size int) []float64 {
	if w, ok := wc.cached[size]; ok {
		return w
	}
	w := hannWindow(size)
	wc.cached[size] = w
	return w
}

// vim: foldmethod=marker
