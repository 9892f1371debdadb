// Package filter provides the second-order IIR sections the loudness engine
// is built from.
package filter

// Biquad implements a second-order IIR filter in Direct Form II Transposed.
// State is two memory cells per channel rather than four delay taps, which
// keeps the round-trip-after-reset invariant (processing silence drives both
// cells toward zero) a one-line check instead of four.
type Biquad struct {
	// Coefficients. a0 is always normalized to 1.0 and not stored.
	b0, b1, b2 float32
	a1, a2     float32

	// Per-channel state.
	z1, z2 []float32
}

// NewBiquad creates a biquad filter with per-channel state for the given
// channel count. Coefficients default to an identity pass-through (b0=1).
func NewBiquad(channels int) *Biquad {
	return &Biquad{
		b0: 1.0,
		z1: make([]float32, channels),
		z2: make([]float32, channels),
	}
}

// Reset clears the filter state for every channel.
func (b *Biquad) Reset() {
	for i := range b.z1 {
		b.z1[i] = 0
		b.z2[i] = 0
	}
}

// SetCoefficients sets the filter coefficients directly, normalizing by a0.
func (b *Biquad) SetCoefficients(b0, b1, b2, a0, a1, a2 float32) {
	invA0 := 1.0 / a0
	b.b0 = b0 * invA0
	b.b1 = b1 * invA0
	b.b2 = b2 * invA0
	b.a1 = a1 * invA0
	b.a2 = a2 * invA0
}

// Process applies the filter to a single channel of an interleaved buffer
// in place, no allocations. stride is the channel count (1 for a
// non-interleaved mono buffer); offset selects the channel.
func (b *Biquad) Process(buffer []float32, offset, stride, channel int) {
	z1 := b.z1[channel]
	z2 := b.z2[channel]

	for i := offset; i < len(buffer); i += stride {
		x := buffer[i]
		y := b.b0*x + z1

		z1 = b.b1*x - b.a1*y + z2
		z2 = b.b2*x - b.a2*y

		buffer[i] = y
	}

	b.z1[channel] = z1
	b.z2[channel] = z2
}

// ProcessInterleaved runs Process across every channel of an N-channel
// interleaved buffer.
func (b *Biquad) ProcessInterleaved(buffer []float32, channels int) {
	for ch := 0; ch < channels && ch < len(b.z1); ch++ {
		b.Process(buffer, ch, channels, ch)
	}
}
