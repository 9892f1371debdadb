// Package gain provides the dB/linear conversion primitives and scalar
// gain application the loudness engine is built from.
package gain

import (
	"math"

	"github.com/go-loudnorm/loudnorm/pkg/dsp"
)

// LinearToDb converts a linear amplitude value to decibels.
// Returns dsp.MinDB for values <= 0.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return dsp.MinDB
	}
	return 20.0 * math.Log10(linear)
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= dsp.MinDB return 0.
func DbToLinear(db float64) float64 {
	if db <= dsp.MinDB {
		return 0
	}
	return math.Pow(10.0, db/20.0)
}

// ApplyBuffer applies gain to an entire buffer in-place.
func ApplyBuffer(buffer []float32, gain float32) {
	for i := range buffer {
		buffer[i] *= gain
	}
}

// ApplyDbBuffer applies a dB gain to an entire buffer in-place.
func ApplyDbBuffer(buffer []float32, db float64) {
	ApplyBuffer(buffer, float32(DbToLinear(db)))
}
