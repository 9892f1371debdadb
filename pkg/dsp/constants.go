// Package dsp provides buffer-level numeric helpers shared by the loudness
// engine's analysis and gain packages.
package dsp

const (
	// MinDB is the floor used whenever a dB value would otherwise be -Inf.
	MinDB = -200.0

	// UnityGain is the pass-through linear gain degenerate inputs fall
	// back to.
	UnityGain = 1.0

	// Epsilon is the tolerance used by near-zero and partition-of-unity checks.
	Epsilon = 1e-6
)
