// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2022
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

// Package ring implements the SampleBlock ring buffer sitting between the
// SDR Reader and the DSP Pipeline.
//
// This is a single mutex-guarded slot array, the same shape as a classic
// SDR ring buffer: no allocation on the hot path, short critical sections,
// slots reused in place. Where it differs from a capture-to-disk ring is
// drain order - the Reader is the only writer and always appends the
// freshest block, but a DSP tick only ever wants the most recent samples
// and is allowed to drop whatever it didn't get to in time. So Append
// evicts the oldest slot when full (as any ring does), but the drain side
// is PopNewest, not PopOldest: it hands back the most recently written
// block first, and anything older than the last few ticks is simply
// overwritten and lost, never queued up behind it.
package ring

import (
	"fmt"
	"sync"

	"hz.tools/callisto/iq"
)

// ErrSlotTooSmall is returned by Append when the provided SampleBlock is
// longer than the Buffer's configured slot length.
var ErrSlotTooSmall = fmt.Errorf("ring: sample block is larger than the configured slot length")

// ErrEmpty is returned by PopNewest when there is no data left to drain.
var ErrEmpty = fmt.Errorf("ring: buffer is empty")

// Buffer is a fixed-capacity, mutex-guarded ring of SampleBlocks, drained
// newest-first.
//
// Buffer is safe for concurrent use by one writer (the SDR Reader calling
// Append) and one reader (the DSP Pipeline calling PopNewest), or any
// other combination - every operation holds the lock for the duration of
// a single slot copy, never longer.
type Buffer struct {
	mu sync.Mutex

	buf        iq.Samples
	bufn       []int
	format     iq.SampleFormat
	slots      int
	slotLength int

	start int
	count int

	dropped uint64
}

// New allocates a Buffer with room for `slots` SampleBlocks of up to
// `slotLength` samples each, in the given format.
func New(slots, slotLength int, format iq.SampleFormat) (*Buffer, error) {
	if slots <= 0 || slotLength <= 0 {
		return nil, fmt.Errorf("ring.New: slots and slotLength must both be greater than 0")
	}

	buf, err := iq.MakeSamples(format, slots*slotLength)
	if err != nil {
		return nil, err
	}

	return &Buffer{
		buf:        buf,
		bufn:       make([]int, slots),
		format:     format,
		slots:      slots,
		slotLength: slotLength,
	}, nil
}

// slot returns the full-length window backing the nth physical slot.
func (rb *Buffer) slot(n int) iq.Samples {
	base := n * rb.slotLength
	return rb.buf.Slice(base, base+rb.slotLength)
}

// Len returns the number of live (unpopped) blocks currently held.
func (rb *Buffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Cap returns the configured slot count.
func (rb *Buffer) Cap() int {
	return rb.slots
}

// Dropped returns the running count of blocks evicted by Append before
// ever being drained by PopNewest.
func (rb *Buffer) Dropped() uint64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.dropped
}

// Append adds a SampleBlock to the buffer. If the buffer is already at
// capacity, the oldest live block is evicted to make room - Append never
// blocks and never fails because the buffer is full.
func (rb *Buffer) Append(src iq.Samples) error {
	if src.Format() != rb.format {
		return iq.ErrSampleFormatMismatch
	}
	if src.Length() > rb.slotLength {
		return ErrSlotTooSmall
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	var idx int
	if rb.count == rb.slots {
		// Full: the physical slot at `start` is the oldest block. Advance
		// start past it (evicting it) and reuse that exact slot for the
		// new block, so the write below never needs a second index.
		idx = rb.start
		rb.start = (rb.start + 1) % rb.slots
		rb.dropped++
	} else {
		idx = (rb.start + rb.count) % rb.slots
		rb.count++
	}

	n, err := iq.CopySamples(rb.slot(idx), src)
	rb.bufn[idx] = n
	return err
}

// PopNewest removes and returns the most recently appended SampleBlock,
// copying it into dst. It returns ErrEmpty if the buffer currently holds
// nothing. Once a block has been popped it cannot be popped again - each
// live block is handed to exactly one caller.
func (rb *Buffer) PopNewest(dst iq.Samples) (int, error) {
	if dst.Format() != rb.format {
		return 0, iq.ErrSampleFormatMismatch
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.count == 0 {
		return 0, ErrEmpty
	}

	idx := (rb.start + rb.count - 1) % rb.slots
	slot := rb.slot(idx).Slice(0, rb.bufn[idx])
	n, err := iq.CopySamples(dst, slot)
	rb.bufn[idx] = 0
	rb.count--
	return n, err
}

// DrainNewest pops up to max blocks, newest first, invoking fn with each
// one. It stops early if fn returns an error, or once the buffer is
// empty, and returns the number of blocks drained. This is how the DSP
// Pipeline collects the K most recent blocks for one integration tick.
func (rb *Buffer) DrainNewest(max int, scratch iq.Samples, fn func(iq.Samples) error) (int, error) {
	drained := 0
	for drained < max {
		n, err := rb.PopNewest(scratch)
		if err == ErrEmpty {
			return drained, nil
		}
		if err != nil {
			return drained, err
		}
		if err := fn(scratch.Slice(0, n)); err != nil {
			return drained, err
		}
		drained++
	}
	return drained, nil
}

// SampleFormat returns the format this Buffer was constructed with.
func (rb *Buffer) SampleFormat() iq.SampleFormat {
	return rb.format
}

// vim: foldmethod=marker
