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

package dsp

import (
	"math"
	"sync"

	log "github.com/sirupsen/logrus"

	"hz.tools/callisto/fft"
	"hz.tools/callisto/iq"
	"hz.tools/callisto/ring"
)

// FrequencyAxis computes the descending, non-negative half of the FFT bin
// frequencies for an fftSize-point real FFT sampled at sampleRate Hz. The
// order matches the Y-axis flip the Pipeline applies to every SpectrumRow:
// index 0 is the highest frequency bin, the last index is DC.
func FrequencyAxis(fftSize int, sampleRate float64) []float64 {
	half := fftSize / 2
	axis := make([]float64, half)
	for i := 0; i < half; i++ {
		axis[half-1-i] = float64(i) * sampleRate / float64(fftSize)
	}
	return axis
}

// Pipeline turns the K most recent SampleBlocks drained from a ring.Buffer
// into one quantized SpectrumRow, once per scheduling tick.
//
// A Pipeline is built once per capture (it owns an FFT planner, a Hann
// window cache keyed by size, and a per-capture "degraded integration"
// warning gate) and its Tick
// method is called once every 250ms.
type Pipeline struct {
	fftSize     int
	integration int
	mode        ScaleMode

	planner fft.Planner
	windows *WindowCache

	degradedWarnOnce sync.Once
}

// NewPipeline builds a Pipeline for the given FFT size, integration count
// (K), and amplitude scaling mode.
func NewPipeline(fftSize, integration int, mode ScaleMode) *Pipeline {
	return &Pipeline{
		fftSize:     fftSize,
		integration: integration,
		mode:        mode,
		planner:     fft.NewPlanner(),
		windows:     NewWindowCache(),
	}
}

// ResetForCapture clears the per-capture "degraded integration" warning
// gate, so a new schedule slot gets its own first-warning.
func (p *Pipeline) ResetForCapture() {
	p.degradedWarnOnce = sync.Once{}
}

// Tick drains up to the configured integration count of SampleBlocks from
// rb, newest first, and reduces them to one quantized SpectrumRow:
//
//  1. DC removal in the int16 domain (subtract the rounded mean).
//  2. Hann windowing.
//  3. Forward real FFT.
//  4. Positive-half magnitude.
//  5. Integration (mean across the drained rows).
//  6. Frequency-axis flip.
//  7. Amplitude scaling, clipping, dB conversion, and quantization to a
//     CALLISTO digit per bin.
//
// If the ring buffer could not supply the full integration count, Tick
// logs exactly one warning for the current capture (see ResetForCapture)
// and integrates over however many rows it did get. If the ring buffer
// had nothing to offer at all, Tick returns an all-zero SpectrumRow.
func (p *Pipeline) Tick(rb *ring.Buffer) (iq.SamplesU8, error) {
	half := p.fftSize / 2
	scratch := make(iq.SamplesI16, p.fftSize)

	rows := make([]iq.SamplesI16, 0, p.integration)
	drained, err := rb.DrainNewest(p.integration, scratch, func(s iq.Samples) error {
		row := make(iq.SamplesI16, s.Length())
		copy(row, s.(iq.SamplesI16))
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if drained < p.integration {
		p.degradedWarnOnce.Do(func() {
			log.Warnf(
				"[DSP] not enough resources to perform the %d FFT integration, performing a %d FFT integration instead",
				p.integration, drained,
			)
		})
	}

	out := make(iq.SamplesU8, half)
	if drained == 0 {
		return out, nil
	}

	window := p.windows.Get(p.fftSize)
	freq := make([]complex128, half+1)
	timeDomain := make([]float64, p.fftSize)
	integrated := make([]float64, half)

	for _, row := range rows {
		removeDC(row)

		for i, v := range row {
			timeDomain[i] = float64(v) * window[i]
		}

		if err := fft.TransformOnce(p.planner, timeDomain, freq, fft.Forward); err != nil {
			return nil, err
		}

		for i := 0; i < half; i++ {
			integrated[i] += cmplxAbs(freq[i])
		}
	}

	n := float64(len(rows))
	for i := 0; i < half; i++ {
		magnitude := integrated[i] / n
		// Flip the frequency axis: bin 0 (DC) lands at the last index.
		out[half-1-i] = QuantizeMagnitude(p.mode, magnitude)
	}

	return out, nil
}

// removeDC subtracts the rounded mean of row from every sample, matching
// the int16-domain DC removal the original acquisition performs before
// windowing.
func removeDC(row iq.SamplesI16) {
	var sum int64
	for _, v := range row {
		sum += int64(v)
	}
	mean := int16(math.Round(float64(sum) / float64(len(row))))
	for i, v := range row {
		row[i] = v - mean
	}
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// vim: foldmethod=marker
