//go:build cgo

package fft

// The only binding here is the one plan shape the analyzer needs,
// fftw_plan_dft_r2c_1d.

// #cgo pkg-config: fftw3
// #include <fftw3.h>
import "C"

import (
	"runtime"
	"unsafe"
)

// FFTW is true when built with cgo; FFTW does the transforms.
const FFTW = true

// engine owns the plan's input and output arrays; FFTW binds the plan
// to their addresses at creation.
type engine struct {
	in   []float64
	out  []complex128
	plan C.fftw_plan
}

func newEngine(n int) *engine {
	e := &engine{
		in:  make([]float64, n),
		out: make([]complex128, n/2+1),
	}

	e.plan = C.fftw_plan_dft_r2c_1d(
		C.int(n),
		(*C.double)(unsafe.Pointer(&e.in[0])),
		(*C.fftw_complex)(unsafe.Pointer(&e.out[0])),
		C.FFTW_MEASURE,
	)

	// Rely on the runtime to free the plan.
	runtime.SetFinalizer(e, (*engine).destroy)

	return e
}

func (e *engine) destroy() {
	C.fftw_destroy_plan(e.plan)
}

func (e *engine) coefficients(dst []complex128, src []float64) []complex128 {
	copy(e.in, src)
	C.fftw_execute(e.plan)
	copy(dst, e.out)
	return dst
}
