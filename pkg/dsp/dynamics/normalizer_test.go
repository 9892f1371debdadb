package dynamics

import (
	"math"
	"testing"

	"github.com/go-loudnorm/loudnorm/pkg/dsp"
)

func sineAt(freq, sampleRate, amplitude float64, seconds float64) []float32 {
	n := int(seconds * sampleRate)
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
	}
	return buf
}

func TestGaussianKernelIsPartitionOfUnity(t *testing.T) {
	raw := make([]float64, 100)
	for i := range raw {
		raw[i] = 1.0
	}
	smoothed := gaussianSmooth(raw, 31, 7.0)
	for i, v := range smoothed {
		if math.Abs(v-1.0) > dsp.Epsilon {
			t.Errorf("smoothed[%d] = %f, want 1.0 (partition of unity on constant input)", i, v)
		}
	}
}

func TestGaussianSmoothForcesOddSize(t *testing.T) {
	raw := make([]float64, 50)
	for i := range raw {
		raw[i] = float64(i)
	}
	// Even size (30) should behave like 31 without panicking on a centered kernel.
	smoothed := gaussianSmooth(raw, 30, 5.0)
	if len(smoothed) != len(raw) {
		t.Fatalf("len(smoothed) = %d, want %d", len(smoothed), len(raw))
	}
}

func TestMirrorIndexReflectsAtBoundaries(t *testing.T) {
	cases := map[int]int{
		-1: 0,
		-2: 1,
		0:  0,
		4:  4,
		5:  4,
		6:  3,
	}
	for idx, want := range cases {
		if got := mirrorIndex(idx, 5); got != want {
			t.Errorf("mirrorIndex(%d, 5) = %d, want %d", idx, got, want)
		}
	}
}

func TestNormalizeShortBufferFallsBackToUnitGain(t *testing.T) {
	buf := sineAt(1000, 48000, 0.1, 0.1) // well under two frames at 0.5s/frame
	r := Normalize(buf, 48000, 1, VoiceConfig())

	if len(r.FinalGain) != 1 || r.FinalGain[0] != 1.0 {
		t.Fatalf("expected single-frame unit gain fallback, got %+v", r.FinalGain)
	}
	if len(r.ProblemSpots) != 0 {
		t.Errorf("expected no problem spots, got %d", len(r.ProblemSpots))
	}
}

func TestNormalizeBetweenOneAndTwoFramesFallsBack(t *testing.T) {
	// 0.75s at 0.5s/frame: more than one frame but short of two, which is
	// still too short to derive a meaningful envelope.
	buf := sineAt(1000, 48000, 0.1, 0.75)
	r := Normalize(buf, 48000, 1, VoiceConfig())

	if len(r.FinalGain) != 1 || r.FinalGain[0] != 1.0 {
		t.Fatalf("expected single-frame unit gain fallback, got %+v", r.FinalGain)
	}
}

func TestNormalizeTwoToneProducesProblemSpots(t *testing.T) {
	const sampleRate = 48000.0
	quiet := sineAt(1000, sampleRate, dbToLinearForTest(-30), 5.0)
	loud := sineAt(1000, sampleRate, dbToLinearForTest(-10), 5.0)
	buf := append(quiet, loud...)

	r := Normalize(buf, sampleRate, 1, VoiceConfig())

	if len(r.ProblemSpots) == 0 {
		t.Fatal("expected problem spots for the quiet half needing a large boost")
	}

	var sawTooQuiet bool
	for _, s := range r.ProblemSpots {
		if s.TooQuiet {
			sawTooQuiet = true
		}
	}
	if !sawTooQuiet {
		t.Error("expected at least one too-quiet problem spot")
	}
}

func TestNormalizeFinalGainRespectsTruePeakLimit(t *testing.T) {
	const sampleRate = 48000.0
	buf := sineAt(1000, sampleRate, 0.95, 3.0)
	cfg := VoiceConfig()
	// A 0 dB RMS target on a ~-3.5 dB RMS sine asks for a boost of about
	// +3.5 dB, pushing the -0.45 dB peak past the -1 dB limit, so the peak
	// cap must engage.
	cfg.TargetRMSdB = 0
	cfg.MaxGainDB = 40

	r := Normalize(buf, sampleRate, 1, cfg)
	for i, g := range r.FinalGain {
		peakDBApplied := 20*math.Log10(0.95) + 20*math.Log10(g)
		if peakDBApplied > cfg.TruePeakLimitDB+0.01 {
			t.Errorf("frame %d: applied peak %f dB exceeds limit %f dB", i, peakDBApplied, cfg.TruePeakLimitDB)
		}
	}
}

func TestNormalizeEnvelopeIsContinuousAcrossFrames(t *testing.T) {
	const sampleRate = 48000.0
	quiet := sineAt(1000, sampleRate, dbToLinearForTest(-35), 4.0)
	loud := sineAt(1000, sampleRate, dbToLinearForTest(-12), 4.0)
	buf := append(quiet, loud...)

	r := Normalize(buf, sampleRate, 1, VoiceConfig())

	maxStep := 0.0
	for i := 1; i < len(r.FinalGain); i++ {
		step := math.Abs(r.FinalGain[i] - r.FinalGain[i-1])
		if step > maxStep {
			maxStep = step
		}
	}
	// Gaussian smoothing bounds the frame-to-frame step; it should never
	// equal the full gap between the envelope's smallest and largest gains.
	minGain, maxGain := math.Inf(1), math.Inf(-1)
	for _, g := range r.FinalGain {
		minGain = math.Min(minGain, g)
		maxGain = math.Max(maxGain, g)
	}
	totalSpan := maxGain - minGain
	if maxStep >= totalSpan {
		t.Errorf("max per-frame step %f should be smaller than the envelope's total span %f", maxStep, totalSpan)
	}
}

func dbToLinearForTest(db float64) float64 {
	return math.Pow(10, db/20.0)
}
