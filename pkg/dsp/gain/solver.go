package gain

import "math"

// SolveResult is the outcome of a static gain-solving pass: a scalar gain in
// dB plus its linear equivalent.
type SolveResult struct {
	GainDB float64
	Gain   float64
}

func solveResult(gainDB float64) SolveResult {
	return SolveResult{GainDB: gainDB, Gain: DbToLinear(gainDB)}
}

// SolvePeak targets a sample-peak ceiling: GainDB = targetDB - peakDB. No
// additional clamp is applied, since the target is itself a peak ceiling.
// A silent (-Inf peak) input returns unit gain.
func SolvePeak(targetDB, peakDB float64) SolveResult {
	if math.IsInf(peakDB, -1) {
		return solveResult(0)
	}
	return solveResult(targetDB - peakDB)
}

// SolveRMS targets an RMS level, then clamps the gain so the resulting
// sample peak never exceeds -0.1 dBFS. A silent (-Inf RMS) input returns
// unit gain.
func SolveRMS(targetDB, peakDB, rmsDB float64) SolveResult {
	if math.IsInf(rmsDB, -1) {
		return solveResult(0)
	}

	gainDB := targetDB - rmsDB
	const clipGuardDB = -0.1
	if !math.IsInf(peakDB, -1) && peakDB+gainDB > clipGuardDB {
		gainDB = clipGuardDB - peakDB
	}
	return solveResult(gainDB)
}

// SolveLUFS targets an integrated loudness, then clamps the gain so the
// true peak never exceeds tpLimitDB. A silent input returns unit gain: the
// meter floors integrated loudness at -70 LUFS for pure silence, so a -Inf
// true peak is the reliable silence marker here.
func SolveLUFS(targetLUFS, integratedLUFS, truePeakDB, tpLimitDB float64) SolveResult {
	if math.IsInf(integratedLUFS, -1) || math.IsInf(truePeakDB, -1) {
		return solveResult(0)
	}

	gainDB := targetLUFS - integratedLUFS
	if truePeakDB+gainDB > tpLimitDB {
		gainDB = tpLimitDB - truePeakDB
	}
	return solveResult(gainDB)
}
