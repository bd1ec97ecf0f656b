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

// Package device defines the narrow receive-only SDR contract this capture
// runs against, along with the HardwareInfo type every backend reports.
//
// Unlike the generic Sdr/Transceiver split a full SDR library needs, this
// capture only ever receives on a single fixed frequency at a single fixed
// sample rate for the lifetime of the process, so Driver is deliberately
// smaller than a general purpose hardware abstraction: it's the literal
// lifecycle a CALLISTO acquisition run drives a SoapySDR device through -
// enumerate, open, configure, start streaming, read, stop, close.
package device

import (
	"fmt"

	"hz.tools/rf"

	"hz.tools/callisto/iq"
)

// ErrNotSupported is returned when a Driver does not support a requested
// feature.
var ErrNotSupported = fmt.Errorf("device: feature not supported by this driver")

// HardwareInfo describes the connected SDR.
//
// As with the teacher's HardwareInfo, no field here is a hard requirement;
// a driver populates whatever the underlying hardware reports.
type HardwareInfo struct {
	// Driver is the name of the underlying driver module (e.g. "rx888").
	Driver string

	// Manufacturer is the person, company or group that created this SDR.
	Manufacturer string

	// Product is the name of the specific SDR product connected.
	Product string

	// Serial is an identifier unique to the connected SDR, if the
	// hardware exposes one.
	Serial string
}

// Stream is a live, activated receive stream. ReadInto fills buf with
// real-valued int16 samples and returns how many were read; timed out or
// empty reads return (0, nil), not an error, so the Reader can apply its
// own backoff policy rather than have the driver bake one in.
type Stream interface {
	// ReadInto reads up to buf.Length() samples into buf, blocking for at
	// most the driver's configured read timeout.
	ReadInto(buf iq.SamplesI16) (int, error)

	// Deactivate stops the stream. The Driver's Stream is unusable after
	// this call; a new one must be requested via SetupStream.
	Deactivate() error
}

// Driver is implemented by any SDR backend this capture can run against -
// the real SoapySDR binding, and the in-process mock used for tests and
// local development.
type Driver interface {
	// Enumerate returns the HardwareInfo for every device this driver can
	// see, before any of them have been opened.
	Enumerate() ([]HardwareInfo, error)

	// Open claims the device identified by serial ("" selects the first
	// device Enumerate reports) for exclusive use.
	Open(serial string) error

	// Close releases the device. After this call every other method
	// becomes undefined behavior.
	Close() error

	// SetCenterFrequency tunes the device.
	SetCenterFrequency(rf.Hz) error

	// SetSampleRate configures the number of real-valued samples per
	// second the device should produce once streaming.
	SetSampleRate(uint) error

	// GetSampleRate returns the currently configured sample rate.
	GetSampleRate() (uint, error)

	// SilenceLog installs a no-op log handler with the underlying SDR
	// library, so its own diagnostic chatter doesn't interleave with
	// this process's structured logging. This mirrors the
	// registerLogHandler call the original acquisition script makes
	// before starting to stream.
	SilenceLog()

	// SetupStream prepares (but does not start) a receive stream sized
	// to deliver blocks of up to maxSamples real-valued samples at a
	// time.
	SetupStream(maxSamples int) error

	// ActivateStream starts the configured stream and returns the handle
	// used to read samples from it.
	ActivateStream() (Stream, error)

	// HardwareInfo returns information about the currently open device.
	HardwareInfo() HardwareInfo
}

// vim: foldmethod=marker
