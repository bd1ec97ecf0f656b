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

// Package storage writes quantized SpectrumRows out to the per-schedule-slot
// data file, off of the DSP Pipeline's goroutine, and flips the two
// config.cfg flags the downstream FITS assembly step watches for.
package storage

import (
	"bufio"
	"fmt"
	"os"
	"regexp"

	log "github.com/sirupsen/logrus"

	"hz.tools/callisto/iq"
)

// queueDepth is the capacity of the bounded channel between the DSP
// Pipeline and the Writer goroutine. A Pipeline tick that can't enqueue a
// row within this backlog blocks on the channel send - that's the
// backpressure policy, no custom queue needed.
const queueDepth = 10

// Writer appends SpectrumRows to a single file on its own goroutine.
type Writer struct {
	path string
	rows chan iq.SamplesU8
	done chan error
}

// NewWriter opens path for writing and starts the sink goroutine. Rows
// sent via Enqueue are appended in the order they're received.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		path: path,
		rows: make(chan iq.SamplesU8, queueDepth),
		done: make(chan error, 1),
	}

	go w.run(f)
	return w, nil
}

func (w *Writer) run(f *os.File) {
	bw := bufio.NewWriter(f)
	var err error
	for row := range w.rows {
		if _, werr := bw.Write(row); werr != nil {
			err = werr
			break
		}
	}
	if ferr := bw.Flush(); err == nil {
		err = ferr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	w.done <- err
}

// Enqueue appends row to the output file, blocking if the sink goroutine
// is backlogged past queueDepth pending rows.
func (w *Writer) Enqueue(row iq.SamplesU8) {
	w.rows <- row
}

// Close signals the sink goroutine that no more rows are coming, by
// closing the channel (the sentinel, per the original architecture's
// Queue(None) convention), and waits for the file to be flushed and
// closed.
func (w *Writer) Close() error {
	close(w.rows)
	return <-w.done
}

var (
	lastTimeScheduledRe = regexp.MustCompile(`last_time_scheluded=[^#]*#`)
	controlExternalRe   = regexp.MustCompile(`control_external_generation=0`)
)

// UpdateConfig rewrites the two flags in the config.cfg at path that the
// downstream FITS assembly step watches: it stamps the schedule time that
// was just captured into last_time_scheluded (preserving the field's
// padded-comment formatting) and flips control_external_generation from 0
// to 1 to signal that new data is ready.
//
// This is deliberately a line-oriented bufio.Scanner + regexp edit, not a
// structured config/INI library: config.cfg's columns are hand-padded for
// human readability downstream, and a round-trip through a generic parser
// would not preserve that padding.
func UpdateConfig(path, scheduleTimePrevious string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	closeErr := f.Close()
	if scanErr := scanner.Err(); scanErr != nil {
		return scanErr
	}
	if closeErr != nil {
		return closeErr
	}

	replacement := fmt.Sprintf("last_time_scheluded=%s                            #", scheduleTimePrevious)
	for i, line := range lines {
		line = lastTimeScheduledRe.ReplaceAllString(line, replacement)
		line = controlExternalRe.ReplaceAllString(line, "control_external_generation=1")
		lines[i] = line
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			out.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	log.Infof("[STORAGE] config.cfg updated: last_time_scheluded=%s, control_external_generation=1", scheduleTimePrevious)
	return nil
}

// vim: foldmethod=marker
