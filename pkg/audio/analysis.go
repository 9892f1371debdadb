package audio

import (
	"fmt"
	"math"

	"github.com/go-loudnorm/loudnorm/pkg/dsp/analysis"
	"github.com/go-loudnorm/loudnorm/pkg/dsp/dynamics"
	"github.com/go-loudnorm/loudnorm/pkg/dsp/gain"
)

// Levels is a snapshot of the four headline measurements at one point in
// time: before a normalization pass, or as a projected after-state.
type Levels struct {
	PeakDB     float64
	RMSDB      float64
	LUFS       float64
	TruePeakDB float64
}

// Preview projects a method's effect from measurements alone, without
// re-running the engine on the output PCM.
type Preview struct {
	Method           string
	Before           Levels
	After            Levels
	AppliedGainDB    float64
	ProblemSpotCount int
}

// PreviewForPeak projects a peak(target) pass: the new sample peak is the
// target itself, and RMS shifts by the same gain.
func PreviewForPeak(before Levels, targetDB, gainDB float64) Preview {
	after := before
	after.PeakDB = targetDB
	after.RMSDB = before.RMSDB + gainDB
	return Preview{Method: "peak", Before: before, After: after, AppliedGainDB: gainDB}
}

// PreviewForRMS projects an rms(target) pass: the new RMS is the target
// itself, and peak shifts by the same gain.
func PreviewForRMS(before Levels, targetDB, gainDB float64) Preview {
	after := before
	after.PeakDB = before.PeakDB + gainDB
	after.RMSDB = targetDB
	return Preview{Method: "rms", Before: before, After: after, AppliedGainDB: gainDB}
}

// PreviewForLUFS projects an lufs(target, tpLimit) pass: peak and RMS shift
// by the solved gain, integrated loudness becomes the target, and true peak
// is capped at the ceiling.
func PreviewForLUFS(before Levels, targetLUFS, tpLimitDB, gainDB float64) Preview {
	after := before
	after.PeakDB = before.PeakDB + gainDB
	after.RMSDB = before.RMSDB + gainDB
	after.LUFS = targetLUFS
	after.TruePeakDB = math.Min(before.TruePeakDB+gainDB, tpLimitDB)
	return Preview{Method: "lufs", Before: before, After: after, AppliedGainDB: gainDB}
}

// PreviewForDynamic projects a dynamic(cfg) pass: peak shifts by the mean
// per-frame gain, RMS becomes the configured target, and the problem-spot
// count is carried through unchanged.
func PreviewForDynamic(before Levels, targetRMSdB, avgGainDB float64, problemSpotCount int) Preview {
	after := before
	after.PeakDB = before.PeakDB + avgGainDB
	after.RMSDB = targetRMSdB
	return Preview{
		Method:           "dynamic",
		Before:           before,
		After:            after,
		AppliedGainDB:    avgGainDB,
		ProblemSpotCount: problemSpotCount,
	}
}

// AudioAnalysis is the aggregate result of a single Analyze call.
type AudioAnalysis struct {
	PeakDB         float64
	RMSDB          float64
	ChannelPeaksDB []float64
	ChannelRMSDB   []float64
	Channels       int

	RequiredGain float64 // linear

	Integrated float64
	ShortTerm  *float64
	Range      *float64
	TruePeakDB float64

	Dynamic *dynamics.Result

	Preview Preview
}

// Analyze measures buf and solves the gain called for by cfg. It never
// panics on degenerate audio (silence, a single frame): those degrade to a
// unit-gain result per the core's data-error-vs-I/O-error split. It returns
// ErrInvalidInput only for malformed buffers (no samples, non-positive
// sample rate/channel count, or a sample count not divisible by the
// channel count).
func Analyze(buf Buffer, cfg NormalizationConfig) (AudioAnalysis, error) {
	if len(buf.Samples) == 0 || buf.Channels <= 0 || buf.SampleRate <= 0 {
		return AudioAnalysis{}, fmt.Errorf("%w: buffer has no samples, or a non-positive channel count/sample rate", ErrInvalidInput)
	}
	if len(buf.Samples)%buf.Channels != 0 {
		return AudioAnalysis{}, fmt.Errorf("%w: %d samples is not a multiple of %d channels", ErrInvalidInput, len(buf.Samples), buf.Channels)
	}

	channelPeaksDB, channelRMSDB, peakDB, rmsDB := channelStats(buf.Samples, buf.Channels)

	loud := analysis.AnalyzeLoudness(buf.Samples, buf.SampleRate, buf.Channels)
	tp := analysis.TruePeakAccurate(buf.Samples, buf.Channels)

	result := AudioAnalysis{
		PeakDB:         peakDB,
		RMSDB:          rmsDB,
		ChannelPeaksDB: channelPeaksDB,
		ChannelRMSDB:   channelRMSDB,
		Channels:       buf.Channels,
		Integrated:     loud.Integrated,
		ShortTerm:      loud.ShortTerm,
		Range:          loud.Range,
		TruePeakDB:     tp.DB,
	}

	before := Levels{PeakDB: peakDB, RMSDB: rmsDB, LUFS: loud.Integrated, TruePeakDB: tp.DB}

	switch cfg.Method {
	case MethodPeak:
		sr := gain.SolvePeak(cfg.PeakTargetDB, peakDB)
		result.RequiredGain = sr.Gain
		result.Preview = PreviewForPeak(before, cfg.PeakTargetDB, sr.GainDB)

	case MethodRMS:
		sr := gain.SolveRMS(cfg.RMSTargetDB, peakDB, rmsDB)
		result.RequiredGain = sr.Gain
		result.Preview = PreviewForRMS(before, cfg.RMSTargetDB, sr.GainDB)

	case MethodLUFS:
		sr := gain.SolveLUFS(cfg.LUFSTargetDB, loud.Integrated, tp.DB, cfg.TruePeakLimitDB)
		result.RequiredGain = sr.Gain
		result.Preview = PreviewForLUFS(before, cfg.LUFSTargetDB, cfg.TruePeakLimitDB, sr.GainDB)

	case MethodDynamic:
		dr := dynamics.Normalize(buf.Samples, buf.SampleRate, buf.Channels, cfg.Dynamic)
		result.Dynamic = &dr
		result.RequiredGain = 1.0
		avgGainDB := averageGainDB(dr.FinalGain)
		result.Preview = PreviewForDynamic(before, cfg.Dynamic.TargetRMSdB, avgGainDB, len(dr.ProblemSpots))
	}

	// Pure silence degrades to a no-op for every method: unit gain and a
	// preview whose after-state equals its before-state.
	if math.IsInf(peakDB, -1) {
		result.RequiredGain = 1.0
		result.Preview.After = result.Preview.Before
		result.Preview.AppliedGainDB = 0
	}

	return result, nil
}

// channelStats runs a single streaming pass over an interleaved buffer,
// producing per-channel peak/RMS in dB alongside the overall (max-across-
// channels) peak and RMS in dB.
func channelStats(buf []float32, channels int) (peaksDB, rmsDB []float64, overallPeakDB, overallRMSDB float64) {
	peaks := make([]float64, channels)
	sumSq := make([]float64, channels)
	counts := make([]int, channels)

	for i, s := range buf {
		ch := i % channels
		a := math.Abs(float64(s))
		if a > peaks[ch] {
			peaks[ch] = a
		}
		sumSq[ch] += float64(s) * float64(s)
		counts[ch]++
	}

	peaksDB = make([]float64, channels)
	rmsDB = make([]float64, channels)
	overallPeakLinear, overallRMSLinear := 0.0, 0.0

	for ch := 0; ch < channels; ch++ {
		peaksDB[ch] = toDBOrInf(peaks[ch])
		if peaks[ch] > overallPeakLinear {
			overallPeakLinear = peaks[ch]
		}

		rms := 0.0
		if counts[ch] > 0 {
			rms = math.Sqrt(sumSq[ch] / float64(counts[ch]))
		}
		rmsDB[ch] = toDBOrInf(rms)
		if rms > overallRMSLinear {
			overallRMSLinear = rms
		}
	}

	return peaksDB, rmsDB, toDBOrInf(overallPeakLinear), toDBOrInf(overallRMSLinear)
}

func toDBOrInf(linear float64) float64 {
	if linear <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}

// averageGainDB is the arithmetic mean of a gain envelope's per-frame dB
// values, used for the dynamic method's preview projection.
func averageGainDB(finalGain []float64) float64 {
	if len(finalGain) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range finalGain {
		sum += 20 * math.Log10(g)
	}
	return sum / float64(len(finalGain))
}
