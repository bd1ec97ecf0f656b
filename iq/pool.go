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
	"sync"
)

// SamplesPool creates a dynamically sized buffer pool of a set size and
// sample format. This allows code to reuse buffers, and avoid allocations
// if a buffer is ready for use.
//
// The SDR reader uses one of these for its steady-state read loop: every
// read pulls a SampleBlock-sized SamplesI16 buffer, the ring buffer copies
// it into one of its own slots, and the buffer goes straight back through
// Put.
type SamplesPool struct {
	pool *sync.Pool
}

// Put will return a buffer to the pool. In the future this is likely to
// panic if the buffer returned is not the same size as the buffer that was
// taken out, but since the size won't shrink, it's not a problem in
// practice.
func (sp *SamplesPool) Put(s Samples) {
	sp.pool.Put(s)
}

// Get will either return an unused buffer, or allocate a new one for your
// use.
//
// The smallest size of a buffer returned will be the length passed to the
// NewSamplesPool constructor, of the provided SampleFormat.
func (sp *SamplesPool) Get() Samples {
	return sp.pool.Get().(Samples)
}

// NewSamplesPool will create a new SamplesPool that creates buffers of the
// provided sample format and length.
func NewSamplesPool(format SampleFormat, length int) (*SamplesPool, error) {
	switch format {
	case FormatI16, FormatU8:
		break
	default:
		return nil, ErrSampleFormatUnknown
	}

	return &SamplesPool{
		pool: &sync.Pool{
			New: func() interface{} {
				buf, _ := MakeSamples(format, length)
				return buf
			},
		},
	}, nil
}

// vim: foldmethod=marker
