// Package analysis provides the static, single-shot measurements the
// loudness engine composes: K-weighted gated loudness (ITU-R BS.1770-4 /
// EBU R128, see loudness.go) and inter-sample true peak (see truepeak.go).
//
// Both operate on a fixed interleaved f32 buffer with a known sample rate
// and channel count; neither retains state between calls.
package analysis
