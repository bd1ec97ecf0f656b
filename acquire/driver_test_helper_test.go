package acquire

import (
	"hz.tools/rf"

	"hz.tools/callisto/device"
	"hz.tools/callisto/iq"
)

// shortReadDriver is a minimal device.Driver whose Stream always returns
// fewer samples than requested, to exercise the Reader's drop-counting
// path without needing real hardware or timeout plumbing.
type shortReadDriver struct {
	fftSize int
}

func (d *shortReadDriver) Enumerate() ([]device.HardwareInfo, error) {
	return []device.HardwareInfo{d.HardwareInfo()}, nil
}

func (d *shortReadDriver) Open(serial string) error { return nil }
func (d *shortReadDriver) Close() error              { return nil }

func (d *shortReadDriver) SetCenterFrequency(rf.Hz) error { return nil }
func (d *shortReadDriver) SetSampleRate(uint) error       { return nil }
func (d *shortReadDriver) GetSampleRate() (uint, error)   { return 0, nil }

func (d *shortReadDriver) SilenceLog() {}

func (d *shortReadDriver) SetupStream(maxSamples int) error {
	d.fftSize = maxSamples
	return nil
}

func (d *shortReadDriver) ActivateStream() (device.Stream, error) {
	return &shortReadStream{}, nil
}

func (d *shortReadDriver) HardwareInfo() device.HardwareInfo {
	return device.HardwareInfo{Driver: "short-read-test"}
}

type shortReadStream struct{}

func (s *shortReadStream) ReadInto(buf iq.SamplesI16) (int, error) {
	// Always short by one sample, so the Reader counts every read as a
	// drop instead of appending it to the ring.
	return len(buf) - 1, nil
}

func (s *shortReadStream) Deactivate() error { return nil }
