// Package testutil provides deterministic signals and comparison
// helpers shared by package tests.
package testutil

import "math"

// Sine returns n samples of a pure tone with the given amplitude.
func Sine(freqHz, sampleRate, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// Blocks cuts samples into consecutive blocks of size n. A short tail
// is dropped so every block has exactly n samples.
func Blocks(samples []float64, n int) [][]float64 {
	if n < 1 {
		return nil
	}

	out := make([][]float64, 0, len(samples)/n)
	for i := 0; i+n <= len(samples); i += n {
		out = append(out, samples[i:i+n])
	}

	return out
}

// Ramp returns n samples counting up from start in steps of one.
func Ramp(start float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}

	return out
}
