package gain

import (
	"math"
	"testing"
)

func TestSolvePeakMatchesSceneOne(t *testing.T) {
	// S1: 1kHz sine amplitude 0.5, sample peak -6.02dB, target -0.1dB.
	r := SolvePeak(-0.1, -6.02)
	wantGain := 1.977
	if math.Abs(r.Gain-wantGain) > 0.01 {
		t.Errorf("Gain = %f, want ~%f", r.Gain, wantGain)
	}
}

func TestSolvePeakSilenceReturnsUnitGain(t *testing.T) {
	r := SolvePeak(-0.1, math.Inf(-1))
	if r.GainDB != 0 || r.Gain != 1.0 {
		t.Errorf("got %+v, want unit gain", r)
	}
}

func TestSolveRMSClampsToClipGuard(t *testing.T) {
	// Target would push peak above -0.1dB; expect it clamped there instead.
	r := SolveRMS(-10, -1.0, -20.0)
	resultingPeak := -1.0 + r.GainDB
	if resultingPeak > -0.1+1e-9 {
		t.Errorf("resulting peak %f exceeds clip guard -0.1dB", resultingPeak)
	}
}

func TestSolveRMSUnclamped(t *testing.T) {
	// Target gain doesn't risk clipping: no clamp should apply.
	r := SolveRMS(-20, -20.0, -30.0)
	want := -20.0 - (-30.0)
	if math.Abs(r.GainDB-want) > 1e-9 {
		t.Errorf("GainDB = %f, want %f", r.GainDB, want)
	}
}

func TestSolveRMSSilenceReturnsUnitGain(t *testing.T) {
	r := SolveRMS(-20, math.Inf(-1), math.Inf(-1))
	if r.GainDB != 0 {
		t.Errorf("got %+v, want unit gain", r)
	}
}

func TestSolveLUFSClampsToTruePeakCeiling(t *testing.T) {
	r := SolveLUFS(-14, -23, 3.0, -1.0)
	resultingTP := 3.0 + r.GainDB
	if resultingTP > -1.0+1e-9 {
		t.Errorf("resulting true peak %f exceeds ceiling -1.0dB", resultingTP)
	}
}

func TestSolveLUFSUnclamped(t *testing.T) {
	r := SolveLUFS(-14, -20, -10, -1.0)
	want := -14.0 - (-20.0)
	if math.Abs(r.GainDB-want) > 1e-9 {
		t.Errorf("GainDB = %f, want %f", r.GainDB, want)
	}
}

func TestSolveLUFSSilenceReturnsUnitGain(t *testing.T) {
	r := SolveLUFS(-14, math.Inf(-1), math.Inf(-1), -1.0)
	if r.GainDB != 0 {
		t.Errorf("got %+v, want unit gain", r)
	}
}

func TestSolveLUFSFlooredSilenceReturnsUnitGain(t *testing.T) {
	// The meter reports -70 (the gate floor) for silence, not -Inf; the
	// -Inf true peak is what marks the input as silent.
	r := SolveLUFS(-14, -70, math.Inf(-1), -1.0)
	if r.GainDB != 0 || r.Gain != 1.0 {
		t.Errorf("got %+v, want unit gain", r)
	}
}
