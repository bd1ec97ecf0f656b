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

// Package iq contains the sample vector types moved between the SDR driver,
// the ring buffer, and the DSP pipeline.
//
// Unlike a general purpose IQ library, every format in this package is
// real-valued: the RX-888 MkII front end, at the 130 MS/s / S16 stream
// configuration this capture runs at, hands back one int16 per time-domain
// sample rather than an interleaved I/Q pair. SampleFormat still exists so
// the ring buffer and the byte codecs stay format-aware instead of hard
// coding int16 or uint8 everywhere.
package iq

import (
	"fmt"
)

var (
	// ErrSampleFormatMismatch will be returned when there's a mismatch between
	// sample formats.
	ErrSampleFormatMismatch = fmt.Errorf("iq: sample formats do not match")

	// ErrSampleFormatUnknown will be returned when a specific format is not
	// implemented.
	ErrSampleFormatUnknown = fmt.Errorf("iq: sample format is not understood")

	// ErrDstTooSmall will be returned when attempting to perform an operation
	// and the target buffer is too small to use.
	ErrDstTooSmall = fmt.Errorf("iq: destination buffer is too small")
)

// Samples represents a vector of real-valued samples.
//
// This is an interface, not a typedef, so the generic helpers in this
// package (CopySamples, the byte codecs, the pool) can operate without a
// type switch at every call site.
type Samples interface {
	// Format returns the type of this vector.
	Format() SampleFormat

	// Length returns the number of samples in this vector.
	Length() int

	// Slice returns a slice of the sample buffer between the two offsets.
	// As with a native Go slice, mutating the result mutates the backing
	// array of the value this was sliced from.
	Slice(int, int) Samples
}

// SampleFormat identifies the concrete type backing a Samples value.
type SampleFormat uint8

const (
	// FormatI16 is the format delivered by the SDR driver: one int16 per
	// real-valued time-domain sample. See SamplesI16.
	FormatI16 SampleFormat = iota + 1

	// FormatU8 is the CALLISTO digit format: one quantized uint8 per
	// frequency bin of a SpectrumRow. See SamplesU8.
	FormatU8
)

// Size returns the number of bytes needed to represent one sample in this
// format.
func (sf SampleFormat) Size() int {
	switch sf {
	case FormatI16:
		return 2
	case FormatU8:
		return 1
	default:
		return 0
	}
}

// String returns the format name as a human readable string.
func (sf SampleFormat) String() string {
	switch sf {
	case FormatI16:
		return "int16"
	case FormatU8:
		return "uint8 (CALLISTO digits)"
	default:
		return "unknown"
	}
}

// MakeSamples allocates a new buffer of the given format and length.
func MakeSamples(format SampleFormat, length int) (Samples, error) {
	switch format {
	case FormatI16:
		return make(SamplesI16, length), nil
	case FormatU8:
		return make(SamplesU8, length), nil
	default:
		return nil, ErrSampleFormatUnknown
	}
}

// Reader is implemented by anything that hands back vectors of samples of
// a single, fixed SampleFormat - ByteReader returns one.
type Reader interface {
	// Read will read samples into the provided buffer, returning the
	// number of samples read.
	Read(Samples) (int, error)

	// SampleFormat returns the format of Samples this Reader produces.
	SampleFormat() SampleFormat
}

// Writer is implemented by anything that accepts vectors of samples of a
// single, fixed SampleFormat - ByteWriter returns one.
type Writer interface {
	// Write will write the provided buffer, returning the number of
	// samples written.
	Write(Samples) (int, error)

	// SampleFormat returns the format of Samples this Writer accepts.
	SampleFormat() SampleFormat
}

// vim: foldmethod=marker
