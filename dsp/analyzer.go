// Package dsp locates the dominant frequency of audio blocks.
//
// Some notes:
//
// https://ccrma.stanford.edu/~jos/sasp/Quadratic_Interpolation_Spectral_Peaks.html
// https://dsp.stackexchange.com/questions/2807/frequency-estimation-by-interpolation
package dsp

import (
	"math"

	"github.com/mjibson/go-dsp/window"
	"github.com/pkg/errors"

	"github.com/winterveil/purr/fft"
)

// Peak is a located spectral maximum.
type Peak struct {
	Bin     int     // index of the winning magnitude bin
	BinFreq float64 // center frequency of that bin in Hz
	Freq    float64 // sub-bin refined frequency in Hz
	Mag     float64 // linear magnitude of the bin
}

// AnalyzerConfig is the analyzer setup.
type AnalyzerConfig struct {
	// SampleRate is the rate blocks were captured at
	SampleRate float64
	// SampleSize is the number of samples per block
	SampleSize int
	// MinFreq is the lowest frequency considered in the peak search.
	// Bins below it are ignored, as is the DC bin always.
	MinFreq float64
	// NoiseFloor is the linear magnitude a bin must exceed before it
	// counts as a peak. Blocks that stay under it report silence.
	NoiseFloor float64
}

// Analyzer finds the dominant spectral peak of fixed-size sample
// blocks. The scratch buffers are reused between calls, so one Analyze
// may run at a time.
type Analyzer struct {
	cfg AnalyzerConfig

	plan    *fft.Real
	win     []float64
	scratch []float64
	coeffs  []complex128
	mags    []float64

	binWidth float64
	minBin   int
}

// NewAnalyzer validates cfg and builds the transform plan, the window
// table and the scratch buffers.
func NewAnalyzer(cfg AnalyzerConfig) (*Analyzer, error) {
	switch {
	case cfg.SampleRate <= 0:
		return nil, errors.New("sample rate must be positive")

	case cfg.SampleSize < 4:
		return nil, errors.New("sample size too small (4+ required)")

	case cfg.NoiseFloor < 0:
		return nil, errors.New("noise floor must not be negative")

	case cfg.MinFreq < 0:
		return nil, errors.New("minimum frequency must not be negative")

	case cfg.MinFreq >= cfg.SampleRate/2:
		return nil, errors.New("minimum frequency above the nyquist limit")
	}

	binWidth := cfg.SampleRate / float64(cfg.SampleSize)

	// The DC bin never competes in the peak search.
	minBin := 1
	if b := int(math.Ceil(cfg.MinFreq / binWidth)); b > minBin {
		minBin = b
	}

	plan := fft.NewReal(cfg.SampleSize)

	return &Analyzer{
		cfg:      cfg,
		plan:     plan,
		win:      window.Hann(cfg.SampleSize),
		scratch:  make([]float64, cfg.SampleSize),
		coeffs:   make([]complex128, plan.Bins()),
		mags:     make([]float64, plan.Bins()),
		binWidth: binWidth,
		minBin:   minBin,
	}, nil
}

// BinWidth returns the spacing between spectrum bins in Hz.
func (a *Analyzer) BinWidth() float64 {
	return a.binWidth
}

// SampleSize returns the block length the analyzer was built for.
func (a *Analyzer) SampleSize() int {
	return a.cfg.SampleSize
}

// Analyze windows the block, transforms it and returns the dominant
// spectral peak. ok is false when no bin rises above the noise floor.
// The block is left untouched and must hold exactly SampleSize samples.
func (a *Analyzer) Analyze(block []float64) (peak Peak, ok bool) {
	for i := range a.scratch {
		a.scratch[i] = block[i] * a.win[i]
	}

	a.plan.Transform(a.coeffs, a.scratch)
	fft.Magnitudes(a.mags, a.coeffs)

	k := a.minBin
	for i := a.minBin + 1; i < len(a.mags); i++ {
		if a.mags[i] > a.mags[k] {
			k = i
		}
	}

	// Not-greater instead of less-or-equal so NaN magnitudes from
	// garbage input also land on the silence path.
	if !(a.mags[k] > a.cfg.NoiseFloor) {
		return Peak{}, false
	}

	peak = Peak{
		Bin:     k,
		BinFreq: float64(k) * a.binWidth,
		Mag:     a.mags[k],
	}
	peak.Freq = (float64(k) + refine(a.mags, k)) * a.binWidth

	return peak, true
}

// refine estimates how far the true peak sits from bin k, in bins,
// by fitting a parabola through the neighboring magnitudes. Edge bins
// have a missing neighbor and keep a zero offset, as does a flat top
// whose curvature vanishes. The result is always in [-0.5, 0.5].
func refine(mags []float64, k int) float64 {
	if k <= 0 || k >= len(mags)-1 {
		return 0
	}

	alpha, beta, gamma := mags[k-1], mags[k], mags[k+1]

	denom := alpha - 2*beta + gamma
	if math.Abs(denom) < 1e-12 {
		return 0
	}

	delta := 0.5 * (alpha - gamma) / denom

	switch {
	case delta > 0.5:
		return 0.5
	case delta < -0.5:
		return -0.5
	}

	return delta
}
