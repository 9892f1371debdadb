// Package apply rewrites PCM with a previously solved gain: either a single
// scalar (static normalization) or a per-frame envelope (dynamic
// normalization).
package apply

import (
	"github.com/go-loudnorm/loudnorm/pkg/dsp/gain"
	"github.com/go-loudnorm/loudnorm/pkg/dsp/interpolation"
)

// Scalar multiplies every sample in buf by a single linear gain, in place.
func Scalar(buf []float32, linearGain float64) {
	gain.ApplyBuffer(buf, float32(linearGain))
}

// Envelope applies a per-frame gain sequence to an interleaved buffer using
// sample-accurate piecewise-linear interpolation, in place: final[i] applies
// at the first sample of frame i and the gain ramps linearly to final[i+1]
// at the first sample of frame i+1; the last frame holds its own gain. frameSamples is the interleaved sample span of one frame
// (samples-per-channel * channel count); it must be > 0 whenever final has
// more than one entry.
func Envelope(buf []float32, final []float64, frameSamples int) {
	if len(final) == 0 {
		return
	}
	if len(final) == 1 || frameSamples <= 0 {
		gain.ApplyBuffer(buf, float32(final[0]))
		return
	}

	last := len(final) - 1
	for s := range buf {
		p := float64(s) / float64(frameSamples)
		i := int(p)
		if i > last {
			i = last
		}
		t := p - float64(i)

		next := i
		if i < last {
			next = i + 1
		}

		g := interpolation.Linear(float32(final[i]), float32(final[next]), float32(t))
		buf[s] *= g
	}
}
