package filter

import "math"

// KWeighting holds the two cascaded biquads ITU-R BS.1770-4 defines as the
// "K" in K-weighted loudness: a high-shelf pre-filter approximating the
// acoustic effect of the head, followed by an RLB high-pass that models the
// ear's reduced sensitivity to low frequencies.
type KWeighting struct {
	Pre *Biquad
	RLB *Biquad
}

// NewKWeighting builds both stages for the given sample rate and channel
// count. Coefficients come from the BS.1770-4 bilinear prewarp evaluated at
// the stream's rate; they depend only on sample rate, so one pair serves
// every block of an analysis.
func NewKWeighting(sampleRate float64, channels int) *KWeighting {
	k := &KWeighting{
		Pre: NewBiquad(channels),
		RLB: NewBiquad(channels),
	}
	k.Pre.SetCoefficients(preFilterCoefficients(sampleRate))
	k.RLB.SetCoefficients(rlbCoefficients(sampleRate))
	return k
}

// Reset clears both stages' per-channel state.
func (k *KWeighting) Reset() {
	k.Pre.Reset()
	k.RLB.Reset()
}

// ProcessInterleaved runs the pre-filter then the RLB high-pass across every
// channel of an interleaved buffer, in place.
func (k *KWeighting) ProcessInterleaved(buffer []float32, channels int) {
	k.Pre.ProcessInterleaved(buffer, channels)
	k.RLB.ProcessInterleaved(buffer, channels)
}

// preFilterCoefficients derives the BS.1770-4 high-shelf "pre-filter" stage.
func preFilterCoefficients(sampleRate float64) (b0, b1, b2, a0, a1, a2 float32) {
	const (
		f0 = 1681.974450955533
		q  = 0.7071752369554196
		g  = 3.999843853973347
	)

	k := math.Tan(math.Pi * f0 / sampleRate)
	vh := math.Pow(10.0, g/20.0)
	vb := math.Pow(vh, 0.4996667741545416)

	a0f := 1.0 + k/q + k*k

	return float32((vh + vb*k/q + k*k) / a0f),
		float32(2.0 * (k*k - vh) / a0f),
		float32((vh - vb*k/q + k*k) / a0f),
		1.0,
		float32(2.0 * (k*k - 1.0) / a0f),
		float32((1.0 - k/q + k*k) / a0f)
}

// rlbCoefficients derives the BS.1770-4 "RLB" high-pass stage.
func rlbCoefficients(sampleRate float64) (b0, b1, b2, a0, a1, a2 float32) {
	const (
		f0 = 38.13547087602444
		q  = 0.5003270373238773
	)

	k := math.Tan(math.Pi * f0 / sampleRate)
	a0f := 1.0 + k/q + k*k

	return float32(1.0 / a0f),
		float32(-2.0 / a0f),
		float32(1.0 / a0f),
		1.0,
		float32(2.0 * (k*k - 1.0) / a0f),
		float32((1.0 - k/q + k*k) / a0f)
}
