//go:build !cgo

package fft

import "gonum.org/v1/gonum/dsp/fourier"

// FFTW is false when built without cgo; gonum does the transforms.
const FFTW = false

type engine struct {
	fft *fourier.FFT
}

func newEngine(n int) *engine {
	return &engine{fft: fourier.NewFFT(n)}
}

func (e *engine) coefficients(dst []complex128, src []float64) []complex128 {
	return e.fft.Coefficients(dst, src)
}
