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

// Package soapysdr binds an RX-888 MkII (or any other SoapySDR-supported
// direct-sampling receiver) through the SoapySDR C API. Unlike a
// quadrature receiver, these devices stream a single real-valued S16
// channel, so this binding only ever opens an RX channel in
// SOAPY_SDR_S16 format - there is no I/Q pair to de-interleave.
package soapysdr

// #cgo pkg-config: SoapySDR
//
// #include <stdint.h>
// #include <stdlib.h>
//
// #include <SoapySDR/Device.h>
// #include <SoapySDR/Formats.h>
// #include <SoapySDR/Logger.h>
// #include <SoapySDR/Types.h>
//
// extern void callistoLogHandler(SoapySDRLogLevel level, const char *message);
import "C"

import (
	"fmt"
	"unsafe"

	"hz.tools/rf"

	"hz.tools/callisto/device"
	"hz.tools/callisto/iq"
)

// readTimeoutUs is the blocking timeout, in microseconds, passed to every
// SoapySDRDevice_readStream call - matching the original acquisition
// script's own readStream(..., timeoutUs=50000) call.
const readTimeoutUs = 50000

func rvToErr(rv C.int) error {
	if rv == 0 {
		return nil
	}
	return fmt.Errorf("soapysdr: %s", C.GoString(C.SoapySDRDevice_lastError()))
}

//export callistoLogHandler
func callistoLogHandler(level C.SoapySDRLogLevel, message *C.char) {
	// Discarded: device.Driver.SilenceLog installs this handler so the
	// underlying library's own log chatter never interleaves with this
	// process's structured logging.
	_ = level
	_ = message
}

// driver is a device.Driver backed by a live SoapySDR device handle.
type driver struct {
	args       string
	handle     *C.SoapySDRDevice
	stream     *C.SoapySDRStream
	channel    C.size_t
	info       device.HardwareInfo
	maxSamples int
}

// New returns an unopened device.Driver. args is a SoapySDR device filter
// string, such as "driver=rx888", used to select which enumerated device
// Open should claim.
func New(args string) device.Driver {
	return &driver{args: args, channel: 0}
}

func (d *driver) Enumerate() ([]device.HardwareInfo, error) {
	var length C.size_t
	results := C.SoapySDRDevice_enumerate(nil, &length)
	if results == nil {
		return nil, nil
	}
	defer C.SoapySDRKwargsList_clear(results, length)

	kwargsSlice := unsafe.Slice(results, int(length))
	out := make([]device.HardwareInfo, 0, length)
	for _, kwargs := range kwargsSlice {
		out = append(out, kwargsToHardwareInfo(kwargs))
	}
	return out, nil
}

func (d *driver) Open(serial string) error {
	args := d.args
	if serial != "" {
		if args != "" {
			args += ","
		}
		args += fmt.Sprintf("serial=%s", serial)
	}
	cArgs := C.CString(args)
	defer C.free(unsafe.Pointer(cArgs))

	handle := C.SoapySDRDevice_makeStrArgs(cArgs)
	if handle == nil {
		return fmt.Errorf("soapysdr: %s", C.GoString(C.SoapySDRDevice_lastError()))
	}
	d.handle = handle

	cDriverKey := C.SoapySDRDevice_getDriverKey(d.handle)
	defer C.free(unsafe.Pointer(cDriverKey))
	cHardwareKey := C.SoapySDRDevice_getHardwareKey(d.handle)
	defer C.free(unsafe.Pointer(cHardwareKey))

	d.info = device.HardwareInfo{
		Driver:  C.GoString(cDriverKey),
		Product: C.GoString(cHardwareKey),
		Serial:  serial,
	}
	return nil
}

func (d *driver) Close() error {
	return rvToErr(C.SoapySDRDevice_unmake(d.handle))
}

func (d *driver) SetCenterFrequency(freq rf.Hz) error {
	return rvToErr(C.SoapySDRDevice_setFrequency(
		d.handle, C.SOAPY_SDR_RX, d.channel, C.double(freq), nil))
}

func (d *driver) SetSampleRate(sps uint) error {
	return rvToErr(C.SoapySDRDevice_setSampleRate(
		d.handle, C.SOAPY_SDR_RX, d.channel, C.double(sps)))
}

func (d *driver) GetSampleRate() (uint, error) {
	return uint(C.SoapySDRDevice_getSampleRate(d.handle, C.SOAPY_SDR_RX, d.channel)), nil
}

// SilenceLog installs a log handler with SoapySDR_registerLogHandler that
// discards every message, matching the original acquisition script's
// registerLogHandler(no-op) call before streaming starts.
func (d *driver) SilenceLog() {
	C.SoapySDR_registerLogHandler((C.SoapySDRLogHandler)(C.callistoLogHandler))
}

func (d *driver) SetupStream(maxSamples int) error {
	d.maxSamples = maxSamples

	cFormat := C.CString(C.SOAPY_SDR_S16)
	defer C.free(unsafe.Pointer(cFormat))

	var channel C.size_t = d.channel
	stream := C.SoapySDRDevice_setupStream(
		d.handle, C.SOAPY_SDR_RX, cFormat, &channel, 1, nil)
	if stream == nil {
		return fmt.Errorf("soapysdr: %s", C.GoString(C.SoapySDRDevice_lastError()))
	}
	d.stream = stream
	return nil
}

func (d *driver) ActivateStream() (device.Stream, error) {
	if err := rvToErr(C.SoapySDRDevice_activateStream(
		d.handle, d.stream, 0, 0, 0)); err != nil {
		return nil, err
	}
	return &stream{driver: d}, nil
}

func (d *driver) HardwareInfo() device.HardwareInfo {
	return d.info
}

// stream is a live, activated SoapySDR RX stream.
type stream struct {
	driver *driver
}

// ReadInto reads up to buf.Length() real-valued int16 samples from the
// stream, blocking for at most readTimeoutUs. A timeout or overflow from
// SoapySDRDevice_readStream is reported as (0, nil), not an error, so the
// caller's own backoff policy decides what to do about a slow read - this
// mirrors the original acquisition script treating a short readStream
// call as routine rather than fatal.
func (s *stream) ReadInto(buf iq.SamplesI16) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	buffs := []unsafe.Pointer{unsafe.Pointer(&buf[0])}
	var flags C.int
	var timeNs C.longlong

	n := C.SoapySDRDevice_readStream(
		s.driver.handle, s.driver.stream,
		(*unsafe.Pointer)(unsafe.Pointer(&buffs[0])),
		C.size_t(len(buf)), &flags, &timeNs, readTimeoutUs)

	if n < 0 {
		if n == C.SOAPY_SDR_TIMEOUT || n == C.SOAPY_SDR_OVERFLOW {
			return 0, nil
		}
		return 0, fmt.Errorf("soapysdr: readStream failed: %d", int(n))
	}
	return int(n), nil
}

func (s *stream) Deactivate() error {
	if err := rvToErr(C.SoapySDRDevice_deactivateStream(
		s.driver.handle, s.driver.stream, 0, 0)); err != nil {
		return err
	}
	return rvToErr(C.SoapySDRDevice_closeStream(s.driver.handle, s.driver.stream))
}

func kwargsToHardwareInfo(kwargs C.SoapySDRKwargs) device.HardwareInfo {
	get := func(key string) string {
		cKey := C.CString(key)
		defer C.free(unsafe.Pointer(cKey))
		cVal := C.SoapySDRKwargs_get(&kwargs, cKey)
		if cVal == nil {
			return ""
		}
		return C.GoString(cVal)
	}
	return device.HardwareInfo{
		Driver:       get("driver"),
		Manufacturer: get("manufacturer"),
		Product:      get("label"),
		Serial:       get("serial"),
	}
}

// vim: foldmethod=marker
