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

package fft

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// gonumPlan adapts gonum's real-input FFT to the Plan interface.
type gonumPlan struct {
	fft       *fourier.FFT
	time      []float64
	frequency []complex128
	direction Direction
}

// Transform implements the Plan interface.
func (p *gonumPlan) Transform() error {
	if p.direction == Forward {
		p.fft.Coefficients(p.frequency, p.time)
	} else {
		p.fft.Sequence(p.time, p.frequency)
		// gonum's inverse is unnormalized; scale by 1/n so a Forward then
		// Backward round trip reproduces the original time series.
		scale := 1 / float64(len(p.time))
		for i := range p.time {
			p.time[i] *= scale
		}
	}
	return nil
}

// Close implements the Plan interface. gonum's *fourier.FFT holds no
// external resources, so there's nothing to release.
func (p *gonumPlan) Close() error {
	return nil
}

// NewPlanner returns a Planner backed by gonum.org/v1/gonum/dsp/fourier,
// the concrete real-input FFT transform behind this package's Planner/Plan
// abstraction.
func NewPlanner() Planner {
	return func(time []float64, frequency []complex128, direction Direction) (Plan, error) {
		n := len(time)
		if len(frequency) != n/2+1 {
			return nil, ErrSizeMismatch
		}
		return &gonumPlan{
			fft:       fourier.NewFFT(n),
			time:      time,
			frequency: frequency,
			direction: direction,
		}, nil
	}
}

// vim: foldmethod=marker
