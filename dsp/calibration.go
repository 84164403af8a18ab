package dsp

import "github.com/pkg/errors"

// ErrDegenerateCalibration is returned by DeriveCalibration when both
// reference tones measured identically, leaving the scale undefined.
var ErrDegenerateCalibration = errors.New("calibration tones measured identically")

// Calibration corrects systematic measurement bias with an affine map.
// It is immutable; build a new value to recalibrate.
type Calibration struct {
	// Scale multiplies the raw frequency
	Scale float64
	// OffsetHz is added after scaling
	OffsetHz float64
}

// Identity is the no-op calibration used when none has been derived.
var Identity = Calibration{Scale: 1}

// Apply returns the calibrated frequency raw*Scale + OffsetHz.
func (c Calibration) Apply(rawHz float64) float64 {
	return rawHz*c.Scale + c.OffsetHz
}

// DeriveCalibration solves the affine correction from two reference
// tones f1 and f2 and their uncalibrated measurements m1 and m2. It is
// an offline helper; the pipeline only ever applies the result.
func DeriveCalibration(f1, f2, m1, m2 float64) (Calibration, error) {
	if m2 == m1 {
		return Calibration{}, ErrDegenerateCalibration
	}

	scale := (f2 - f1) / (m2 - m1)

	return Calibration{
		Scale:    scale,
		OffsetHz: f1 - scale*m1,
	}, nil
}
