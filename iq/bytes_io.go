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

package iq

import (
	"encoding/binary"
	"io"
)

// byteWriter wraps an io.Writer and encodes Samples as a flat run of bytes
// in the given byte order. Unlike the teacher's native/foreign split, this
// package has no unsafe reinterpret-cast path: CALLISTO digit rows are one
// byte per sample already, and the int16 path is small enough that
// binary.Write's reflection cost never shows up against the 250ms cadence
// this runs at.
type byteWriter struct {
	w                io.Writer
	byteOrder        binary.ByteOrder
	samplesPerSecond uint
	sampleFormat     SampleFormat
}

func (bw byteWriter) Write(samples Samples) (int, error) {
	if samples.Format() != bw.sampleFormat {
		return 0, ErrSampleFormatMismatch
	}

	switch buf := samples.(type) {
	case SamplesU8:
		n, err := bw.w.Write(buf)
		return n, err
	case SamplesI16:
		if err := binary.Write(bw.w, bw.byteOrder, buf); err != nil {
			return 0, err
		}
		return len(buf), nil
	default:
		return 0, ErrSampleFormatUnknown
	}
}

func (bw byteWriter) SampleRate() uint {
	return bw.samplesPerSecond
}

func (bw byteWriter) SampleFormat() SampleFormat {
	return bw.sampleFormat
}

// ByteWriter wraps an io.Writer, writing encoded samples out as a series of
// raw bytes in the given byte order. SamplesU8 rows are written byte for
// byte; SamplesI16 vectors are encoded with binary.Write.
func ByteWriter(
	w io.Writer,
	byteOrder binary.ByteOrder,
	samplesPerSecond uint,
	sf SampleFormat,
) Writer {
	return byteWriter{
		w:                w,
		byteOrder:        byteOrder,
		samplesPerSecond: samplesPerSecond,
		sampleFormat:     sf,
	}
}

type byteReader struct {
	r                io.Reader
	byteOrder        binary.ByteOrder
	samplesPerSecond uint
	sampleFormat     SampleFormat
}

func (br byteReader) Read(samples Samples) (int, error) {
	if samples.Format() != br.sampleFormat {
		return 0, ErrSampleFormatMismatch
	}

	switch buf := samples.(type) {
	case SamplesU8:
		return br.r.Read(buf)
	case SamplesI16:
		if err := binary.Read(br.r, br.byteOrder, buf); err != nil {
			return 0, err
		}
		return buf.Length(), nil
	default:
		return 0, ErrSampleFormatUnknown
	}
}

func (br byteReader) SampleFormat() SampleFormat {
	return br.sampleFormat
}

func (br byteReader) SampleRate() uint {
	return br.samplesPerSecond
}

// ByteReader wraps an io.Reader, decoding a flat run of bytes into Samples
// of the given format and byte order.
func ByteReader(
	r io.Reader,
	byteOrder binary.ByteOrder,
	samplesPerSecond uint,
	sf SampleFormat,
) Reader {
	return byteReader{
		r:                r,
		byteOrder:        byteOrder,
		samplesPerSecond: samplesPerSecond,
		sampleFormat:     sf,
	}
}

// vim: foldmethod=marker
