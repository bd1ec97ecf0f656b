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

// Package acquire runs the tight SDR read loop that feeds the ring buffer.
package acquire

import (
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"hz.tools/callisto/device"
	"hz.tools/callisto/iq"
	"hz.tools/callisto/ring"
)

// dropBackoff is how long the read loop sleeps after a short or failed
// read before trying again, mirroring the original acquisition script's
// backoff on an unexpected readStream error.
const dropBackoff = 1 * time.Millisecond

// Reader continuously pulls SampleBlocks from a device.Stream and appends
// them to a ring.Buffer on its own goroutine, until stopped.
type Reader struct {
	driver  device.Driver
	rb      *ring.Buffer
	pool    *iq.SamplesPool
	fftSize int

	stream device.Stream

	stopCh chan struct{}
	doneCh chan struct{}

	readsOK   uint64
	readsDrop uint64
}

// NewReader builds a Reader that will draw fftSize-sample SampleBlocks
// from driver and append them to rb.
func NewReader(driver device.Driver, rb *ring.Buffer, fftSize int) (*Reader, error) {
	pool, err := iq.NewSamplesPool(iq.FormatI16, fftSize)
	if err != nil {
		return nil, err
	}
	return &Reader{
		driver:  driver,
		rb:      rb,
		pool:    pool,
		fftSize: fftSize,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start silences the underlying SDR library's own log handler, activates
// the stream, and begins the read loop on a new goroutine.
func (r *Reader) Start() error {
	r.driver.SilenceLog()

	if err := r.driver.SetupStream(r.fftSize); err != nil {
		return err
	}

	stream, err := r.driver.ActivateStream()
	if err != nil {
		return err
	}
	r.stream = stream

	go r.run()
	return nil
}

func (r *Reader) run() {
	defer close(r.doneCh)

	for {
		select {
		case <-r.stopCh:
			return
		default:
		}

		buf := r.pool.Get().(iq.SamplesI16)
		n, err := r.stream.ReadInto(buf)
		if err != nil || n != len(buf) {
			atomic.AddUint64(&r.readsDrop, 1)
			r.pool.Put(buf)
			time.Sleep(dropBackoff)
			continue
		}

		atomic.AddUint64(&r.readsOK, 1)
		if err := r.rb.Append(buf); err != nil {
			log.Errorf("[READER] append to ring buffer failed: %v", err)
		}
		r.pool.Put(buf)
	}
}

// Stop signals the read loop to exit, waits for it to finish, and
// deactivates the stream. Stop is idempotent-unsafe: call it exactly
// once, after the final scheduled capture has completed.
func (r *Reader) Stop() error {
	close(r.stopCh)
	<-r.doneCh
	return r.stream.Deactivate()
}

// Stats returns the running count of successful and dropped reads.
func (r *Reader) Stats() (ok, drop uint64) {
	return atomic.LoadUint64(&r.readsOK), atomic.LoadUint64(&r.readsDrop)
}

// vim: foldmethod=marker
