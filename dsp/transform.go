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

package dsp

import (
	"fmt"
	"math"
)

// ScaleMode selects which amplitude transfer function maps this capture's
// raw FFT magnitude onto the CALLISTO receiver's linear scale, so output
// from this front end is directly comparable to a real CALLISTO station.
type ScaleMode uint8

const (
	// ScaleLinear applies a single linear gain factor.
	ScaleLinear ScaleMode = iota

	// ScaleExponential applies an exponential transfer function tuned
	// against a reference CALLISTO receiver.
	ScaleExponential

	// ScaleExponentialLowFixed applies an exponential transfer function
	// with its low end pinned to a fixed floor, for receivers whose
	// noise floor sits higher than ScaleExponential assumes.
	ScaleExponentialLowFixed
)

// String implements fmt.Stringer.
func (m ScaleMode) String() string {
	switch m {
	case ScaleLinear:
		return "linear"
	case ScaleExponential:
		return "exponential"
	case ScaleExponentialLowFixed:
		return "exponential-low-fixed"
	default:
		return "unknown"
	}
}

// ParseScaleMode parses the `-d/--data_transform_mode` CLI value ("0", "1",
// or "2") into a ScaleMode.
func ParseScaleMode(s string) (ScaleMode, error) {
	switch s {
	case "0":
		return ScaleLinear, nil
	case "1":
		return ScaleExponential, nil
	case "2":
		return ScaleExponentialLowFixed, nil
	default:
		return 0, fmt.Errorf("dsp: unknown data transform mode %q", s)
	}
}

// These constants are the CALLISTO-referenced transfer function
// parameters and clip bounds; they come out the same way regardless of
// FFT size or sample rate, since they calibrate the RX-888 MkII's linear
// FFT magnitude against a reference CALLISTO receiver's own scale.
const (
	linearGain = 89958.629068

	expGain     = 566080346
	expExponent = 7.32e-05

	expLowFixedGain     = 192944935
	expLowFixedExponent = 1.15e-04

	clipMin = 1.0
	clipMax = 6958564947.100452

	digitsGain = 255 * 25.4 / 2500
	digitsMax  = 255
	digitsMin  = 0
)

// Scale applies the selected ScaleMode's transfer function to one
// magnitude value, mapping RX-888 MkII linear FFT magnitude onto
// CALLISTO's linear scale.
func Scale(mode ScaleMode, magnitude float64) float64 {
	switch mode {
	case ScaleExponential:
		return expGain * (math.Exp(expExponent*magnitude) - 1)
	case ScaleExponentialLowFixed:
		return expLowFixedGain * (math.Exp(expLowFixedExponent*magnitude) - 1)
	default:
		return linearGain * magnitude
	}
}

// Clip saturates a scaled linear value to the range CALLISTO's digit scale
// can represent, [1, 6958564947.100452].
func Clip(scaled float64) float64 {
	if scaled < clipMin {
		return clipMin
	}
	if scaled > clipMax {
		return clipMax
	}
	return scaled
}

// ToDecibels converts a clipped linear value to decibels.
func ToDecibels(clipped float64) float64 {
	return 10 * math.Log10(clipped)
}

// Quantize converts a decibel value to a CALLISTO digit in [0, 255],
// rounding to nearest and saturating at both ends.
func Quantize(db float64) uint8 {
	d := math.Round(db * digitsGain)
	if d < digitsMin {
		return digitsMin
	}
	if d > digitsMax {
		return digitsMax
	}
	return uint8(d)
}

// QuantizeMagnitude runs one integrated FFT magnitude value through the
// full scale -> clip -> dB -> quantize chain, producing one CALLISTO
// digit.
func QuantizeMagnitude(mode ScaleMode, magnitude float64) uint8 {
	return Quantize(ToDecibels(Clip(Scale(mode, magnitude))))
}

// vim: foldmethod=marker
