package filter

import (
	"math"
	"testing"
)

func TestBiquadPassthrough(t *testing.T) {
	b := NewBiquad(1)
	// Identity coefficients (b0=1, everything else 0).
	b.SetCoefficients(1, 0, 0, 1, 0, 0)

	input := []float32{0.1, -0.2, 0.3, 0.4, -0.5}
	buf := append([]float32(nil), input...)
	b.Process(buf, 0, 1, 0)

	for i := range input {
		if buf[i] != input[i] {
			t.Errorf("sample %d: got %f, want %f", i, buf[i], input[i])
		}
	}
}

func TestBiquadResetRoundTrip(t *testing.T) {
	b := NewBiquad(1)
	b.SetCoefficients(preFilterCoefficients(48000))

	x := make([]float32, 2048)
	for i := range x {
		x[i] = float32(math.Sin(float64(i) * 0.05))
	}

	first := append([]float32(nil), x...)
	b.Process(first, 0, 1, 0)

	b.Reset()

	second := append([]float32(nil), x...)
	b.Process(second, 0, 1, 0)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d diverged after reset: %f vs %f", i, first[i], second[i])
		}
	}
}

func TestBiquadResetDrainsState(t *testing.T) {
	b := NewBiquad(1)
	b.SetCoefficients(preFilterCoefficients(48000))

	impulse := make([]float32, 1024)
	impulse[0] = 1.0
	b.Process(impulse, 0, 1, 0)

	if b.z1[0] == 0 && b.z2[0] == 0 {
		t.Fatal("expected nonzero filter state after an impulse")
	}

	b.Reset()

	if b.z1[0] != 0 || b.z2[0] != 0 {
		t.Fatalf("Reset left state: z1=%f z2=%f", b.z1[0], b.z2[0])
	}
}

func TestBiquadInterleavedChannelsIndependent(t *testing.T) {
	b := NewBiquad(2)
	b.SetCoefficients(preFilterCoefficients(48000))

	// Channel 0 gets an impulse, channel 1 stays silent.
	buf := make([]float32, 8*2)
	buf[0] = 1.0
	b.ProcessInterleaved(buf, 2)

	for i := 1; i < len(buf); i += 2 {
		if buf[i] != 0 {
			t.Fatalf("channel 1 should remain silent, got %f at index %d", buf[i], i)
		}
	}
}
