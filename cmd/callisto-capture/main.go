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

// callisto-capture runs a scheduled RX-888 MkII acquisition, producing a
// CALLISTO-compatible quantized dynamic spectrum plus its sidecar
// metadata files for one or more scheduled capture windows.
package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"hz.tools/rf"

	"hz.tools/callisto/device"
	"hz.tools/callisto/device/mock"
	"hz.tools/callisto/device/soapysdr"
	"hz.tools/callisto/dsp"
	"hz.tools/callisto/orchestrator"
)

func main() {
	var (
		centerFrequency = pflag.Float64P("frequency", "f", 45_000_000, "Center frequency, in Hz.")
		sampleRate      = pflag.UintP("sample-rate", "s", 130_000_000, "Real-valued sample rate, in samples per second.")
		fftSize         = pflag.IntP("fft-size", "n", 512, "FFT size, in samples.")
		integration     = pflag.IntP("integration", "i", 100, "Number of consecutive FFTs averaged into one spectrum row.")
		scheduleTime    = pflag.StringP("schedule_time", "t", "", "Comma-separated list of HH:MM:SS local capture start times.")
		mode            = pflag.StringP("data_transform_mode", "d", "0", "Amplitude scaling mode: 0 (linear), 1 (exponential), 2 (exponential, low-fixed).")
		dataDir         = pflag.String("data-dir", "temp_data", "Directory sidecar and spectrum files are written under.")
		configPath      = pflag.String("config", "", "config.cfg path to update after each capture window (empty disables the rewrite).")
		soapyArgs       = pflag.String("soapy-args", "driver=rx888", "SoapySDR device filter string.")
		serial          = pflag.String("serial", "", "Device serial number (empty selects the first enumerated device).")
		useMock         = pflag.Bool("mock", false, "Use an in-process mock SDR instead of real hardware, for local development.")
		verbose         = pflag.BoolP("verbose", "v", false, "Enable debug-level logging.")
		help            = pflag.Bool("help", false, "Display help text.")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if *scheduleTime == "" {
		log.Fatal("[MAIN] -t/--schedule_time is required")
	}

	scaleMode, err := dsp.ParseScaleMode(*mode)
	if err != nil {
		log.Fatalf("[MAIN] invalid -d/--data_transform_mode: %v", err)
	}

	var driver device.Driver
	if *useMock {
		log.Warn("[MAIN] running against the mock SDR, not real hardware")
		driver = mock.New(mock.Config{
			CenterFrequency: rf.Hz(*centerFrequency),
			SampleRate:      *sampleRate,
			Gen:             mock.ToneGenerator(rf.Hz(10_000), 1000),
		})
	} else {
		driver = soapysdr.New(*soapyArgs)
	}

	cfg := orchestrator.Config{
		CenterFrequency: rf.Hz(*centerFrequency),
		SampleRate:      *sampleRate,
		FFTSize:         *fftSize,
		Integration:     *integration,
		Mode:            scaleMode,
		ScheduleTimes:   splitScheduleTimes(*scheduleTime),
		Ticks:           3600,
		RingSlots:       25000,
		DataDir:         *dataDir,
		ConfigPath:      *configPath,
		Serial:          *serial,
	}

	if err := orchestrator.Run(driver, cfg); err != nil {
		log.Fatalf("[MAIN] %v", err)
	}
}

func splitScheduleTimes(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
