// Package analysis implements ITU-R BS.1770-4 / EBU R128 loudness metering
// and true-peak estimation over a fixed in-memory PCM buffer.
package analysis

import (
	"math"
	"sort"

	"github.com/go-loudnorm/loudnorm/pkg/dsp/filter"
)

const (
	absoluteGateLUFS = -70.0
	relativeGateLU   = -10.0
	lraRelativeLU    = -20.0
	lraMinBlocks     = 20
	shortTermBlocks  = 30 // 30 x 100ms hops = 3s
)

// Loudness is the result of a single-shot BS.1770-4 analysis pass over an
// interleaved PCM buffer.
type Loudness struct {
	// Integrated is the gated program loudness in LUFS. -70 when no block
	// survives the absolute gate.
	Integrated float64

	// Momentary is the loudest single 400ms block, in LUFS. -Inf for an
	// empty or all-silent buffer.
	Momentary float64

	// ShortTerm is the loudest 3s (30-block) window, in LUFS, present only
	// when the buffer covers at least 3 seconds.
	ShortTerm *float64

	// Range is the loudness range (LRA) in LU, present only when at least
	// 20 blocks survive the LRA gating.
	Range *float64

	// BlockLoudness is the per-block (400ms window, 100ms hop) LUFS series
	// in temporal order, ungated, kept for diagnostics.
	BlockLoudness []float64
}

// channelWeights returns the BS.1770-4 channel weighting vector for a given
// channel count. 5.1 zeroes the LFE and boosts the surrounds by 1.41.
func channelWeights(channels int) []float64 {
	switch channels {
	case 1:
		return []float64{1.0}
	case 2:
		return []float64{1.0, 1.0}
	case 6:
		return []float64{1.0, 1.0, 1.0, 0.0, 1.41, 1.41}
	default:
		w := make([]float64, channels)
		for i := range w {
			w[i] = 1.0
		}
		return w
	}
}

// AnalyzeLoudness runs the K-weighted, two-stage-gated BS.1770-4 measurement
// over an interleaved f32 buffer. It never errors: an empty buffer yields
// -Inf momentary and integrated-at-floor metrics, not a panic or an error
// return.
func AnalyzeLoudness(buf []float32, sampleRate float64, channels int) Loudness {
	result := Loudness{
		Integrated: absoluteGateLUFS,
		Momentary:  math.Inf(-1),
	}

	if len(buf) == 0 || channels <= 0 || sampleRate <= 0 {
		return result
	}

	filtered := append([]float32(nil), buf...)
	k := filter.NewKWeighting(sampleRate, channels)
	k.ProcessInterleaved(filtered, channels)

	blockFrames := int(math.Round(0.4 * sampleRate))
	hopFrames := int(math.Round(0.1 * sampleRate))
	if blockFrames <= 0 || hopFrames <= 0 {
		return result
	}

	totalFrames := len(buf) / channels
	weights := channelWeights(channels)

	var blocks []float64
	for start := 0; start+blockFrames <= totalFrames; start += hopFrames {
		blocks = append(blocks, blockLoudness(filtered, channels, weights, start, blockFrames))
	}
	result.BlockLoudness = blocks

	if len(blocks) == 0 {
		return result
	}

	for _, l := range blocks {
		if l > result.Momentary {
			result.Momentary = l
		}
	}

	if len(blocks) >= shortTermBlocks {
		best := math.Inf(-1)
		for start := 0; start+shortTermBlocks <= len(blocks); start++ {
			window := blocks[start : start+shortTermBlocks]
			l := meanPowerToLUFS(window)
			if l > best {
				best = l
			}
		}
		result.ShortTerm = &best
	}

	result.Integrated = integratedLoudness(blocks)

	if lra := loudnessRange(blocks, result.Integrated); lra != nil {
		result.Range = lra
	}

	return result
}

// blockLoudness computes the BS.1770-4 loudness of one 400ms window starting
// at frame `start`, after K-weighting has already been applied to `filtered`.
func blockLoudness(filtered []float32, channels int, weights []float64, start, blockFrames int) float64 {
	combined := 0.0
	for ch := 0; ch < channels; ch++ {
		w := 0.0
		if ch < len(weights) {
			w = weights[ch]
		}
		if w == 0 {
			continue
		}

		sumSq := 0.0
		for f := start; f < start+blockFrames; f++ {
			s := float64(filtered[f*channels+ch])
			sumSq += s * s
		}
		meanSq := sumSq / float64(blockFrames)
		combined += w * meanSq
	}

	return -0.691 + 10.0*math.Log10(math.Max(combined, 1e-10))
}

// meanPowerToLUFS converts a slice of block LUFS values to the LUFS of their
// mean power (10^(L/10) averaged, then back to the log domain).
func meanPowerToLUFS(blocks []float64) float64 {
	sum := 0.0
	for _, l := range blocks {
		sum += math.Pow(10.0, l/10.0)
	}
	return 10.0 * math.Log10(sum/float64(len(blocks)))
}

// integratedLoudness applies BS.1770-4's two-stage gating to a block series.
func integratedLoudness(blocks []float64) float64 {
	absGated := make([]float64, 0, len(blocks))
	for _, l := range blocks {
		if l > absoluteGateLUFS {
			absGated = append(absGated, l)
		}
	}
	if len(absGated) == 0 {
		return absoluteGateLUFS
	}

	ungated := meanPowerToLUFS(absGated)
	relThreshold := ungated + relativeGateLU

	relGated := make([]float64, 0, len(absGated))
	for _, l := range absGated {
		if l > relThreshold {
			relGated = append(relGated, l)
		}
	}
	if len(relGated) == 0 {
		return ungated
	}

	return meanPowerToLUFS(relGated)
}

// loudnessRange computes the EBU R128 loudness range: absolute-gate the
// block series, then relative-gate at integrated-20 LU, then take the
// 95th-10th percentile spread. EBU Tech 3342 is ambiguous about the
// percentile at small n; this uses exact floor(n*p) indexing rather than an
// interpolated quantile.
func loudnessRange(blocks []float64, integrated float64) *float64 {
	threshold := integrated + lraRelativeLU

	gated := make([]float64, 0, len(blocks))
	for _, l := range blocks {
		if l > absoluteGateLUFS && l > threshold {
			gated = append(gated, l)
		}
	}
	if len(gated) < lraMinBlocks {
		return nil
	}

	sort.Float64s(gated)
	n := len(gated)
	idx10 := int(float64(n) * 0.10)
	idx95 := int(float64(n) * 0.95)
	if idx95 >= n {
		idx95 = n - 1
	}

	lra := gated[idx95] - gated[idx10]
	return &lra
}
