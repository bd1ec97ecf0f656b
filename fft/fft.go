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

// Package fft contains a common interface to perform FFTs between a
// real-valued time-series SampleBlock and its complex frequency-domain
// representation.
//
// Unlike the teacher's complex-to-complex Planner, every time-domain
// buffer in this capture is real-valued (the RX-888 MkII front end at the
// S16 stream configuration this runs at hands back one int16 per sample,
// not an I/Q pair), so a real-input FFT only ever needs to produce the
// non-negative half of the spectrum, n/2+1 bins. The Planner/Plan split
// itself - precompute a transform once, call Transform() many times - is
// kept unchanged.
package fft

import (
	"fmt"
)

// ErrSizeMismatch is returned when the time and frequency buffers handed
// to a Planner aren't sized consistently for a real-input FFT.
var ErrSizeMismatch = fmt.Errorf("fft: time/frequency buffer sizes are inconsistent")

// Direction indicates if this is either a Forward or Backward FFT.
type Direction bool

var (
	// Forward reads the real-valued time-series buffer and writes the
	// computed frequency-domain coefficients.
	Forward Direction = true

	// Backward reads the frequency-domain coefficients and writes the
	// reconstructed real-valued time-series buffer.
	Backward Direction = false
)

// Planner will compute an FFT plan for the provided time-series and
// frequency buffers, performing either a forward or inverse real FFT
// depending on the provided Direction.
//
// len(frequency) must equal len(time)/2+1, the number of complex bins a
// real-input FFT produces.
type Planner func(
	time []float64, frequency []complex128,
	direction Direction,
) (Plan, error)

// Plan is used to perform an FFT over the time or frequency domain data,
// writing to the buffers it was built against.
type Plan interface {
	// Transform will execute the generated plan, performing the FFT.
	Transform() error

	// Close will free any allocated resources or opened handles.
	Close() error
}

// TransformOnce will perform either a time-to-frequency or
// frequency-to-time domain transformation once, building a new Plan on
// every call. The DSP pipeline calls it once per drained row.
func TransformOnce(
	planner Planner,
	time []float64,
	frequency []complex128,
	direction Direction,
) error {
	plan, err := planner(time, frequency, direction)
	if err != nil {
		return err
	}
	return plan.Transform()
}

// vim: foldmethod=marker
