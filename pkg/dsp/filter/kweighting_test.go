package filter

import (
	"math"
	"testing"
)

func Test1kHzPassesKWeightingNearUnity(t *testing.T) {
	const sampleRate = 48000.0
	k := NewKWeighting(sampleRate, 1)

	n := 8192
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = float32(math.Sin(2 * math.Pi * 1000 * float64(i) / sampleRate))
	}
	k.ProcessInterleaved(buf, 1)

	// Skip the filter's settling transient, then compare RMS of in vs out.
	settle := 1024
	var sumOut float64
	for i := settle; i < n; i++ {
		sumOut += float64(buf[i]) * float64(buf[i])
	}
	rmsOut := math.Sqrt(sumOut / float64(n-settle))
	rmsIn := 1.0 / math.Sqrt2

	ratioDB := 20 * math.Log10(rmsOut/rmsIn)
	if math.Abs(ratioDB) > 0.5 {
		t.Errorf("K-weighting gain at 1kHz = %.2f dB, want ~0 dB", ratioDB)
	}
}

func TestKWeightingResetClearsBothStages(t *testing.T) {
	k := NewKWeighting(48000, 1)
	buf := make([]float32, 256)
	buf[0] = 1.0
	k.ProcessInterleaved(buf, 1)

	k.Reset()

	if k.Pre.z1[0] != 0 || k.Pre.z2[0] != 0 || k.RLB.z1[0] != 0 || k.RLB.z2[0] != 0 {
		t.Fatal("Reset did not clear both stages")
	}
}
