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

// Package sched implements the drift-free tick scheduling a capture runs
// its DSP pipeline against: one tick every 250ms, timed off an absolute
// deadline rather than a cumulative sleep, so per-tick jitter never
// compounds into schedule drift over a 15 minute capture.
package sched

import (
	"fmt"
	"time"
)

// TickInterval is the fixed cadence between DSP Pipeline ticks.
const TickInterval = 250 * time.Millisecond

// ParseScheduleTime parses an "HH:MM:SS" schedule time against today's
// date (in the local timezone), returning the absolute time it refers to.
func ParseScheduleTime(s string) (time.Time, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sched: invalid schedule_time %q: %w", s, err)
	}
	now := time.Now()
	return time.Date(
		now.Year(), now.Month(), now.Day(),
		t.Hour(), t.Minute(), t.Second(), 0,
		now.Location(),
	), nil
}

// SleepUntil blocks until the target time, returning immediately if the
// target is already in the past. It reports how long it actually slept.
func SleepUntil(target time.Time) time.Duration {
	d := time.Until(target)
	if d > 0 {
		time.Sleep(d)
	}
	return d
}

// Ticker drives a fixed number of absolute-deadline ticks starting from a
// reference time, so the Nth tick always lands at start+N*TickInterval
// regardless of how long tick N-1 took to process.
type Ticker struct {
	start time.Time
	n     int
}

// NewTicker creates a Ticker anchored to start.
func NewTicker(start time.Time) *Ticker {
	return &Ticker{start: start}
}

// Next blocks until the next absolute deadline is reached, then returns
// the tick index (0-based) that just elapsed.
func (t *Ticker) Next() int {
	deadline := t.start.Add(time.Duration(t.n) * TickInterval)
	SleepUntil(deadline)
	n := t.n
	t.n++
	return n
}

// vim: foldmethod=marker
