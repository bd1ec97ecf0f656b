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

// Package mock implements an in-process device.Driver, used by the --mock
// development CLI flag and by the acquire/orchestrator test suites so
// they never need real SoapySDR hardware attached.
package mock

import (
	"math"

	"hz.tools/rf"

	"hz.tools/callisto/device"
	"hz.tools/callisto/iq"
)

// Config is the set of default values and optional behaviors of the mock
// driver.
type Config struct {
	// CenterFrequency is the initial center frequency in Hz.
	CenterFrequency rf.Hz

	// SampleRate is the initial sample rate.
	SampleRate uint

	// HardwareInfo is returned by Enumerate/HardwareInfo. If zero-valued,
	// a stock "hz.tools mocksdr" identity is reported.
	HardwareInfo device.HardwareInfo

	// Gen, if set, is called to fill each ReadInto request with
	// real-valued int16 samples. If nil, ReadInto fills the buffer with
	// zeros.
	Gen func(buf iq.SamplesI16, sampleRate uint)
}

type driver struct {
	cfg        Config
	opened     bool
	maxSamples int
	sampleNum  uint64
}

// New creates a mock device.Driver from the provided Config.
func New(cfg Config) device.Driver {
	return &driver{cfg: cfg}
}

func (d *driver) Enumerate() ([]device.HardwareInfo, error) {
	return []device.HardwareInfo{d.HardwareInfo()}, nil
}

func (d *driver) Open(serial string) error {
	d.opened = true
	return nil
}

func (d *driver) Close() error {
	d.opened = false
	return nil
}

func (d *driver) SetCenterFrequency(freq rf.Hz) error {
	d.cfg.CenterFrequency = freq
	return nil
}

func (d *driver) SetSampleRate(sps uint) error {
	d.cfg.SampleRate = sps
	return nil
}

func (d *driver) GetSampleRate() (uint, error) {
	return d.cfg.SampleRate, nil
}

func (d *driver) SilenceLog() {
	// No SDR library log handler to silence in the mock.
}

func (d *driver) SetupStream(maxSamples int) error {
	d.maxSamples = maxSamples
	return nil
}

func (d *driver) ActivateStream() (device.Stream, error) {
	return &stream{d: d}, nil
}

func (d *driver) HardwareInfo() device.HardwareInfo {
	if d.cfg.HardwareInfo == (device.HardwareInfo{}) {
		return device.HardwareInfo{
			Driver:       "mock",
			Manufacturer: "hz.tools",
			Product:      "mocksdr",
		}
	}
	return d.cfg.HardwareInfo
}

type stream struct {
	d *driver
}

func (s *stream) ReadInto(buf iq.SamplesI16) (int, error) {
	if s.d.cfg.Gen != nil {
		s.d.cfg.Gen(buf, s.d.cfg.SampleRate)
	} else {
		for i := range buf {
			buf[i] = 0
		}
	}
	s.d.sampleNum += uint64(len(buf))
	return len(buf), nil
}

func (s *stream) Deactivate() error {
	return nil
}

// ToneGenerator returns a Config.Gen implementation that synthesizes a
// single real-valued tone at freq, scaled to amplitude (max int16 range),
// continuing phase across successive ReadInto calls so a plan run against
// consecutive blocks sees a continuous carrier instead of one with a phase
// discontinuity every 250ms tick.
func ToneGenerator(freq rf.Hz, amplitude int16) func(buf iq.SamplesI16, sampleRate uint) {
	var sampleNum uint64
	return func(buf iq.SamplesI16, sampleRate uint) {
		if sampleRate == 0 {
			for i := range buf {
				buf[i] = 0
			}
			return
		}
		tau := 2 * math.Pi
		carrier := float64(freq)
		rate := float64(sampleRate)
		for i := range buf {
			now := float64(sampleNum+uint64(i)) / rate
			buf[i] = int16(float64(amplitude) * math.Sin(tau*carrier*now))
		}
		sampleNum += uint64(len(buf))
	}
}

// vim: foldmethod=marker
