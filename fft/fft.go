// Package fft wraps the real-input discrete Fourier transform used by
// the spectral analyzer. Builds without cgo run on gonum; cgo builds
// swap in FFTW.
package fft

import "math"

// Real transforms fixed-length blocks of real samples into their
// half-spectrum coefficients.
type Real struct {
	n   int
	eng *engine
}

// NewReal returns a transform for blocks of n samples.
func NewReal(n int) *Real {
	return &Real{n: n, eng: newEngine(n)}
}

// Len returns the block length the transform was built for.
func (r *Real) Len() int {
	return r.n
}

// Bins returns the number of output bins, n/2 + 1.
func (r *Real) Bins() int {
	return r.n/2 + 1
}

// Transform writes the coefficients of src into dst and returns dst.
// len(src) must equal Len and len(dst) must equal Bins.
func (r *Real) Transform(dst []complex128, src []float64) []complex128 {
	return r.eng.coefficients(dst, src)
}

// Magnitudes fills dst with the modulus of each coefficient.
func Magnitudes(dst []float64, coeffs []complex128) {
	for i, c := range coeffs {
		dst[i] = math.Hypot(real(c), imag(c))
	}
}
