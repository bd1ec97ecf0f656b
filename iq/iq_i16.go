// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020-2021
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

package iq

// SamplesI16 is a vector of real-valued int16 time-domain samples, as
// delivered by the SDR driver's read call. Values range from -32768 to
// +32767.
//
// This is a SampleBlock once it has been copied out of the driver's
// reusable read buffer: fixed length (FFT_SIZE), one element per sample,
// not an interleaved I/Q pair.
type SamplesI16 []int16

// Format implements the Samples interface.
func (s SamplesI16) Format() SampleFormat {
	return FormatI16
}

// Length implements the Samples interface.
func (s SamplesI16) Length() int {
	return len(s)
}

// Slice implements the Samples interface.
func (s SamplesI16) Slice(start, end int) Samples {
	return s[start:end]
}

// SamplesU8 is a vector of quantized CALLISTO digits: one uint8 per
// frequency bin of a SpectrumRow, in [0, 255].
type SamplesU8 []uint8

// Format implements the Samples interface.
func (s SamplesU8) Format() SampleFormat {
	return FormatU8
}

// Length implements the Samples interface.
func (s SamplesU8) Length() int {
	return len(s)
}

// Slice implements the Samples interface.
func (s SamplesU8) Slice(start, end int) Samples {
	return s[start:end]
}

// vim: foldmethod=marker
