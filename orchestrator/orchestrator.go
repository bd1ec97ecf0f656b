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

// Package orchestrator drives the full lifecycle of a CALLISTO-compatible
// capture: open the SDR, start the background reader, emit the
// frequency-axis sidecar once, run the per-schedule-time capture loop,
// then tear everything down.
package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"hz.tools/rf"

	"hz.tools/callisto/acquire"
	"hz.tools/callisto/device"
	"hz.tools/callisto/dsp"
	"hz.tools/callisto/iq"
	"hz.tools/callisto/ring"
	"hz.tools/callisto/sched"
	"hz.tools/callisto/sidecar"
	"hz.tools/callisto/storage"
)

// Config holds everything the orchestrator needs to run a capture, the
// Go-native equivalent of the original acquisition script's parsed CLI
// arguments plus its compile-time constants.
type Config struct {
	// CenterFrequency is the frequency the SDR is tuned to for the
	// duration of the process.
	CenterFrequency rf.Hz

	// SampleRate is the real-valued sample rate the SDR streams at.
	SampleRate uint

	// FFTSize is the number of real-valued samples consumed per FFT.
	FFTSize int

	// Integration is the number of consecutive FFTs averaged into one
	// SpectrumRow.
	Integration int

	// Mode selects the amplitude scaling curve applied before
	// quantization.
	Mode dsp.ScaleMode

	// ScheduleTimes are "HH:MM:SS" local times, one capture window per
	// entry, run back to back in the order given.
	ScheduleTimes []string

	// Ticks is the number of 250ms ticks each capture window runs for.
	// 3600 ticks is the original 15-minute window.
	Ticks int

	// RingSlots is the capacity, in SampleBlocks, of the ring buffer
	// between the Reader and the DSP Pipeline.
	RingSlots int

	// DataDir is the directory sidecar and storage files are written
	// under (the original script's "temp_data/").
	DataDir string

	// ConfigPath is the config.cfg file storage.UpdateConfig rewrites
	// after each capture window completes. Empty disables the rewrite,
	// e.g. for local/mock runs with no downstream FITS pipeline.
	ConfigPath string

	// Serial selects which enumerated device driver.Open claims. Empty
	// selects the first device the driver enumerates.
	Serial string
}

// Run drives driver through a full capture lifecycle according to cfg:
// open, prime the ring buffer, emit the frequency axis, run every
// scheduled capture window back to back, then tear down.
func Run(driver device.Driver, cfg Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("orchestrator: creating data dir: %w", err)
	}

	if err := driver.Open(cfg.Serial); err != nil {
		return fmt.Errorf("orchestrator: opening device: %w", err)
	}
	defer func() {
		if err := driver.Close(); err != nil {
			log.Errorf("[ORCHESTRATOR] closing device: %v", err)
		}
	}()

	if err := driver.SetCenterFrequency(cfg.CenterFrequency); err != nil {
		return fmt.Errorf("orchestrator: setting center frequency: %w", err)
	}
	if err := driver.SetSampleRate(cfg.SampleRate); err != nil {
		return fmt.Errorf("orchestrator: setting sample rate: %w", err)
	}

	info := driver.HardwareInfo()
	log.Infof("[ORCHESTRATOR] using device %s (%s %s, serial %q)",
		info.Driver, info.Manufacturer, info.Product, info.Serial)

	rb, err := ring.New(cfg.RingSlots, cfg.FFTSize, iq.FormatI16)
	if err != nil {
		return fmt.Errorf("orchestrator: allocating ring buffer: %w", err)
	}

	reader, err := acquire.NewReader(driver, rb, cfg.FFTSize)
	if err != nil {
		return fmt.Errorf("orchestrator: building reader: %w", err)
	}
	if err := reader.Start(); err != nil {
		return fmt.Errorf("orchestrator: starting reader: %w", err)
	}

	// Give the reader a moment to prime the ring buffer before the first
	// capture window starts draining it.
	time.Sleep(1 * time.Second)

	sampleRate, err := driver.GetSampleRate()
	if err != nil {
		return fmt.Errorf("orchestrator: reading back sample rate: %w", err)
	}

	axis := dsp.FrequencyAxis(cfg.FFTSize, float64(sampleRate))
	freqPath := filepath.Join(cfg.DataDir, "freq.bin")
	if err := sidecar.WriteFrequencyAxis(freqPath, axis); err != nil {
		return fmt.Errorf("orchestrator: writing frequency axis: %w", err)
	}

	pipeline := dsp.NewPipeline(cfg.FFTSize, cfg.Integration, cfg.Mode)

	for _, scheduleTime := range cfg.ScheduleTimes {
		if err := runCaptureWindow(rb, pipeline, scheduleTime, cfg); err != nil {
			log.Errorf("[ORCHESTRATOR] capture window %s failed: %v", scheduleTime, err)
		}
	}

	if err := reader.Stop(); err != nil {
		log.Errorf("[ORCHESTRATOR] stopping reader: %v", err)
	}

	return nil
}

// runCaptureWindow emits the time/header sidecar files, waits for the
// scheduled start time, and then ticks the DSP Pipeline once every
// sched.TickInterval for cfg.Ticks iterations, handing each resulting
// SpectrumRow to a storage.Writer. Once the window completes, the output
// file is flushed and closed and, if cfg.ConfigPath is set, config.cfg is
// updated to point the downstream FITS pipeline at the new data.
func runCaptureWindow(rb *ring.Buffer, pipeline *dsp.Pipeline, scheduleTime string, cfg Config) error {
	window, err := sidecar.ComputeWindow(scheduleTime, cfg.Ticks, sched.TickInterval)
	if err != nil {
		return err
	}

	tag := scheduleTimeTag(scheduleTime)
	timePath := filepath.Join(cfg.DataDir, fmt.Sprintf("time_%s.bin", tag))
	headerPath := filepath.Join(cfg.DataDir, fmt.Sprintf("header_%s.txt", tag))
	fftPath := filepath.Join(cfg.DataDir, fmt.Sprintf("fft_data_%s.bin", tag))

	if err := sidecar.WriteTimestamps(timePath, window, sched.TickInterval); err != nil {
		return fmt.Errorf("orchestrator: writing timestamps: %w", err)
	}
	if err := sidecar.WriteHeader(headerPath, window); err != nil {
		return fmt.Errorf("orchestrator: writing header: %w", err)
	}

	start, err := sched.ParseScheduleTime(scheduleTime)
	if err != nil {
		return err
	}

	log.Infof("[ORCHESTRATOR] waiting until %s to start acquisition", scheduleTime)
	sched.SleepUntil(start)
	log.Infof("[ORCHESTRATOR] starting acquisition for %s, %d ticks", scheduleTime, cfg.Ticks)

	writer, err := storage.NewWriter(fftPath)
	if err != nil {
		return fmt.Errorf("orchestrator: opening output file: %w", err)
	}

	pipeline.ResetForCapture()
	ticker := sched.NewTicker(start)

	for n := 0; n < cfg.Ticks; n++ {
		ticker.Next()

		row, err := pipeline.Tick(rb)
		if err != nil {
			log.Errorf("[ORCHESTRATOR] tick %d failed: %v", n, err)
			continue
		}
		writer.Enqueue(row)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("orchestrator: closing output file: %w", err)
	}

	if cfg.ConfigPath != "" {
		if err := storage.UpdateConfig(cfg.ConfigPath, tag); err != nil {
			return fmt.Errorf("orchestrator: updating config.cfg: %w", err)
		}
	}

	log.Infof("[ORCHESTRATOR] acquisition for %s complete", scheduleTime)
	return nil
}

// scheduleTimeTag returns the schedule time exactly as given on the
// command line, since the downstream consumer expects fft_data_<tag>.bin
// / time_<tag>.bin / header_<tag>.txt to use the schedule time verbatim,
// colons included, matching the original script's use of schedule_time
// itself as the filename component.
func scheduleTimeTag(scheduleTime string) string {
	return scheduleTime
}
