package audio

import "github.com/go-loudnorm/loudnorm/pkg/dsp/dynamics"

// Method selects which normalization strategy Analyze runs.
type Method int

const (
	MethodPeak Method = iota
	MethodRMS
	MethodLUFS
	MethodDynamic
)

func (m Method) String() string {
	switch m {
	case MethodPeak:
		return "peak"
	case MethodRMS:
		return "rms"
	case MethodLUFS:
		return "lufs"
	case MethodDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Default targets, matching the common presets for each method.
const (
	DefaultPeakTargetDB    = -0.1
	DefaultRMSTargetDB     = -20.0
	DefaultTruePeakLimitDB = -1.0
)

// NormalizationConfig is the tagged union of every normalization method:
// only the fields relevant to Method are read.
type NormalizationConfig struct {
	Method Method

	PeakTargetDB float64

	RMSTargetDB float64

	LUFSTargetDB    float64
	TruePeakLimitDB float64

	Dynamic dynamics.Config
}

// PeakNormalization targets a sample-peak ceiling in dBFS.
func PeakNormalization(targetDB float64) NormalizationConfig {
	return NormalizationConfig{Method: MethodPeak, PeakTargetDB: targetDB}
}

// RMSNormalization targets an RMS level in dBFS, implicitly clipped-guarded
// at the solver stage.
func RMSNormalization(targetDB float64) NormalizationConfig {
	return NormalizationConfig{Method: MethodRMS, RMSTargetDB: targetDB}
}

// LUFSNormalization targets an integrated loudness in LUFS, bounded by a
// true-peak ceiling in dBTP.
func LUFSNormalization(targetLUFS, truePeakLimitDB float64) NormalizationConfig {
	return NormalizationConfig{
		Method:          MethodLUFS,
		LUFSTargetDB:    targetLUFS,
		TruePeakLimitDB: truePeakLimitDB,
	}
}

// DynamicNormalization runs the frame-local normalizer with the supplied
// configuration (see dynamics.VoiceConfig / MeditationConfig / MusicConfig).
func DynamicNormalization(cfg dynamics.Config) NormalizationConfig {
	return NormalizationConfig{Method: MethodDynamic, Dynamic: cfg}
}
