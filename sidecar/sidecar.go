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

// Package sidecar emits the small frequency-axis, timestamp, and header
// files that ride alongside a capture's binary spectrum data and carry
// the metadata a later FITS-assembly step needs to place it on disk.
package sidecar

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/lestrrat-go/strftime"
)

// dateLayout and timeLayout match the original acquisition script's
// header fields exactly: a slash-separated date and a colon-separated
// time, with milliseconds appended separately since strftime's %f is
// microseconds, not the three-digit milliseconds the header wants.
const (
	dateLayout = "%Y/%m/%d"
	timeLayout = "%H:%M:%S"
)

// WriteFrequencyAxis writes axis (Hz, DC-to-last ordering already
// applied by dsp.FrequencyAxis) to path as raw little-endian float64s.
// This file is written once per process, before any schedule loop
// begins, since the frequency axis never changes for a fixed FFT size
// and sample rate.
func WriteFrequencyAxis(path string, axis []float64) error {
	return writeFloat64s(path, axis)
}

// Window describes the absolute start and end time of one scheduled
// 15-minute capture.
type Window struct {
	Start time.Time
	End   time.Time
}

// ComputeWindow derives the absolute start/end time of a capture from
// its HH:MM:SS schedule time, the tick count it will run for, and the
// nominal tick cadence. It anchors to today's local date, matching the
// original script's combination of datetime.now().date() with the
// parsed time-of-day.
func ComputeWindow(scheduleTime string, nIter int, tick time.Duration) (Window, error) {
	timeOfDay, err := time.Parse("15:04:05", scheduleTime)
	if err != nil {
		return Window{}, fmt.Errorf("sidecar: invalid schedule time %q: %w", scheduleTime, err)
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), timeOfDay.Second(), 0, now.Location())

	// Reproduces the original's timedelta(minutes=(n_iter/(4*60))-1,
	// seconds=59, milliseconds=750) exactly, including its fractional
	// minute count when n_iter isn't a multiple of 4*60.
	ticksPerMinute := float64(time.Minute) / float64(tick)
	minutes := float64(nIter)/ticksPerMinute - 1
	tail := 59*time.Second + 750*time.Millisecond
	end := start.Add(time.Duration(minutes*float64(time.Minute)) + tail)

	return Window{Start: start, End: end}, nil
}

// Timestamps returns the POSIX-epoch timestamp of every tick in the
// window, spaced tick apart and anchored to w.Start (not wall clock),
// matching the original's t_list/t_timestamps construction.
func (w Window) Timestamps(tick time.Duration) []float64 {
	span := w.End.Sub(w.Start)
	count := int(span.Milliseconds()/tick.Milliseconds()) + 1

	out := make([]float64, count)
	for i := 0; i < count; i++ {
		ts := w.Start.Add(time.Duration(i) * tick)
		out[i] = float64(ts.UnixNano()) / 1e9
	}
	return out
}

// WriteTimestamps writes the window's per-tick POSIX timestamps to path
// as raw little-endian float64s.
func WriteTimestamps(path string, w Window, tick time.Duration) error {
	return writeFloat64s(path, w.Timestamps(tick))
}

// WriteHeader writes the five-line plaintext header a later FITS
// assembly step reads to place this capture's data on the sky/time
// axes: start date, start time (with milliseconds), end date, end time
// (with milliseconds), and start-of-capture seconds-since-midnight.
func WriteHeader(path string, w Window) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)

	startDate, err := strftime.Format(dateLayout, w.Start)
	if err != nil {
		return err
	}
	startTime, err := strftime.Format(timeLayout, w.Start)
	if err != nil {
		return err
	}
	endDate, err := strftime.Format(dateLayout, w.End)
	if err != nil {
		return err
	}
	endTime, err := strftime.Format(timeLayout, w.End)
	if err != nil {
		return err
	}

	secondsSinceMidnight := w.Start.Hour()*3600 + w.Start.Minute()*60 + w.Start.Second()

	fmt.Fprintf(bw, "%s\n", startDate)
	fmt.Fprintf(bw, "%s.%03d\n", startTime, w.Start.Nanosecond()/int(time.Millisecond))
	fmt.Fprintf(bw, "%s\n", endDate)
	fmt.Fprintf(bw, "%s.%03d\n", endTime, w.End.Nanosecond()/int(time.Millisecond))
	fmt.Fprintf(bw, "%d\n", secondsSinceMidnight)

	return bw.Flush()
}

func writeFloat64s(path string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	buf := make([]byte, 8)
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// vim: foldmethod=marker
