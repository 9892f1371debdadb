// Package dynamics implements frame-local (time-varying) loudness
// normalization: per-frame RMS targeting, Gaussian-smoothed gain envelopes,
// and per-frame true-peak capping.
package dynamics

import (
	"math"
	"sort"

	"github.com/go-loudnorm/loudnorm/pkg/dsp"
	"github.com/go-loudnorm/loudnorm/pkg/dsp/utility"
)

// Config controls a dynamic normalization pass. Zero-valued fields are not
// defaults; use one of the preset constructors below.
type Config struct {
	TargetRMSdB        float64
	FrameDuration      float64 // seconds
	GaussianSize       int     // forced odd
	GaussianSigma      float64 // in frame units
	MaxGainDB          float64
	MinGainDB          float64
	TruePeakLimitDB    float64
	SilenceThresholdDB float64
}

// VoiceConfig is tuned for spoken-word content: a moderate target, a
// half-second frame, and a fairly wide smoothing window.
func VoiceConfig() Config {
	return Config{
		TargetRMSdB:        -20,
		FrameDuration:      0.5,
		GaussianSize:       31,
		GaussianSigma:      7.0,
		MaxGainDB:          20,
		MinGainDB:          -20,
		TruePeakLimitDB:    -1.0,
		SilenceThresholdDB: -50,
	}
}

// MeditationConfig favours a gentler target and faster-responding frames,
// appropriate for long-form calm narration.
func MeditationConfig() Config {
	return Config{
		TargetRMSdB:        -18,
		FrameDuration:      0.4,
		GaussianSize:       21,
		GaussianSigma:      5.0,
		MaxGainDB:          24,
		MinGainDB:          -15,
		TruePeakLimitDB:    -1.0,
		SilenceThresholdDB: -45,
	}
}

// MusicConfig uses a louder target, one-second frames, and heavier
// smoothing to avoid audible pumping on musical material.
func MusicConfig() Config {
	return Config{
		TargetRMSdB:        -16,
		FrameDuration:      1.0,
		GaussianSize:       41,
		GaussianSigma:      10.0,
		MaxGainDB:          12,
		MinGainDB:          -12,
		TruePeakLimitDB:    -1.0,
		SilenceThresholdDB: -60,
	}
}

// ProblemSpot flags a frame whose applied gain was large enough to be
// audible: more than 6dB of correction.
type ProblemSpot struct {
	FrameIndex int
	Time       float64 // seconds
	GainDB     float64
	TooQuiet   bool // true if the frame needed boosting, false if it needed cutting
}

// Result holds the three stages of the gain envelope the normalizer
// produces, kept separately for diagnostics, plus the frame geometry needed
// to apply the final envelope to PCM.
type Result struct {
	RawGain      []float64
	SmoothedGain []float64
	FinalGain    []float64
	FrameSamples int // interleaved samples per frame (samples-per-channel * channels)
	ProblemSpots []ProblemSpot
}

// Normalize runs the full five-stage dynamic normalization pass over an
// interleaved f32 buffer.
func Normalize(buf []float32, sampleRate float64, channels int, cfg Config) Result {
	samplesPerFrame := int(math.Round(cfg.FrameDuration * sampleRate))
	if samplesPerFrame <= 0 || channels <= 0 {
		return singleFrameFallback()
	}
	frameSamples := samplesPerFrame * channels

	// A buffer shorter than two whole frames degrades to a single
	// unit-gain frame rather than running the pipeline on a truncated
	// second frame.
	if len(buf) < 2*frameSamples {
		return Result{
			RawGain:      []float64{dsp.UnityGain},
			SmoothedGain: []float64{dsp.UnityGain},
			FinalGain:    []float64{dsp.UnityGain},
			FrameSamples: frameSamples,
			ProblemSpots: nil,
		}
	}
	numFrames := (len(buf) + frameSamples - 1) / frameSamples

	rmsDB := make([]float64, numFrames)
	peakDB := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		start := i * frameSamples
		end := start + frameSamples
		if end > len(buf) {
			end = len(buf)
		}
		frame := buf[start:end]

		rmsDB[i] = toDBOrInf(float64(dsp.RMS(frame)))
		peakDB[i] = toDBOrInf(float64(dsp.Peak(frame)))
	}

	raw := make([]float64, numFrames)
	for i, r := range rmsDB {
		if math.IsInf(r, -1) || r < cfg.SilenceThresholdDB {
			raw[i] = dsp.UnityGain
			continue
		}
		rawDB := utility.ClampParameter(cfg.TargetRMSdB-r, cfg.MinGainDB, cfg.MaxGainDB)
		raw[i] = math.Pow(10, rawDB/20.0)
	}

	smoothed := gaussianSmooth(raw, cfg.GaussianSize, cfg.GaussianSigma)

	final := make([]float64, numFrames)
	for i, s := range smoothed {
		if !math.IsInf(peakDB[i], -1) && peakDB[i]+20*math.Log10(s) > cfg.TruePeakLimitDB {
			final[i] = math.Pow(10, (cfg.TruePeakLimitDB-peakDB[i])/20.0)
		} else {
			final[i] = s
		}
	}

	var spots []ProblemSpot
	for i, f := range final {
		if math.IsInf(rmsDB[i], -1) || rmsDB[i] <= cfg.SilenceThresholdDB {
			continue
		}
		gainDB := 20 * math.Log10(f)
		if math.Abs(gainDB) <= 6.0 {
			continue
		}
		spots = append(spots, ProblemSpot{
			FrameIndex: i,
			Time:       float64(i) * cfg.FrameDuration,
			GainDB:     gainDB,
			TooQuiet:   gainDB > 0,
		})
	}
	sort.Slice(spots, func(a, b int) bool {
		return math.Abs(spots[a].GainDB) > math.Abs(spots[b].GainDB)
	})

	return Result{
		RawGain:      raw,
		SmoothedGain: smoothed,
		FinalGain:    final,
		FrameSamples: frameSamples,
		ProblemSpots: spots,
	}
}

func singleFrameFallback() Result {
	return Result{
		RawGain:      []float64{dsp.UnityGain},
		SmoothedGain: []float64{dsp.UnityGain},
		FinalGain:    []float64{dsp.UnityGain},
		FrameSamples: 0,
		ProblemSpots: nil,
	}
}

// toDBOrInf converts a linear amplitude to dB, mapping zero to -Inf.
func toDBOrInf(linear float64) float64 {
	if linear <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}

// gaussianSmooth convolves a gain sequence with a normalised Gaussian
// kernel, mirror-padding at the edges so the output length matches the
// input length.
func gaussianSmooth(raw []float64, size int, sigma float64) []float64 {
	if size%2 == 0 {
		size++
	}
	if size < 1 {
		size = 1
	}
	half := size / 2

	kernel := make([]float64, size)
	sum := 0.0
	for j := 0; j < size; j++ {
		x := float64(j - half)
		w := math.Exp(-(x * x) / (2 * sigma * sigma))
		kernel[j] = w
		sum += w
	}
	for j := range kernel {
		kernel[j] /= sum
	}

	n := len(raw)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		acc := 0.0
		for j, w := range kernel {
			idx := mirrorIndex(i+j-half, n)
			acc += w * raw[idx]
		}
		out[i] = acc
	}
	return out
}

// mirrorIndex reflects an out-of-range index back into [0, n) by mirroring
// at each boundary, rather than clamping or wrapping.
func mirrorIndex(idx, n int) int {
	if n == 1 {
		return 0
	}
	for idx < 0 || idx >= n {
		if idx < 0 {
			idx = -idx - 1
		}
		if idx >= n {
			idx = 2*n - 1 - idx
		}
	}
	return idx
}
