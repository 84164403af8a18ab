// Package util holds small statistics helpers used by the display.
package util

import "math"

// MovingWindow tracks the mean and standard deviation of the most
// recent values pushed into it.
type MovingWindow struct {
	values []float64
	head   int
	length int

	sum   float64
	sumSq float64
}

// NewMovingWindow returns a window over the last size values.
func NewMovingWindow(size int) *MovingWindow {
	return &MovingWindow{values: make([]float64, size)}
}

// Update pushes a value, evicting the oldest when the window is full,
// and returns the updated mean and standard deviation.
func (mw *MovingWindow) Update(value float64) (mean, stddev float64) {
	if mw.length == len(mw.values) {
		old := mw.values[mw.head]
		mw.sum -= old
		mw.sumSq -= old * old
	} else {
		mw.length++
	}

	mw.values[mw.head] = value
	mw.head = (mw.head + 1) % len(mw.values)

	mw.sum += value
	mw.sumSq += value * value

	return mw.Stats()
}

// Stats returns the current mean and standard deviation.
func (mw *MovingWindow) Stats() (mean, stddev float64) {
	if mw.length == 0 {
		return 0, 0
	}

	mean = mw.sum / float64(mw.length)

	if mw.length > 1 {
		// Running sums drift a little; clamp the variance at zero.
		variance := mw.sumSq/float64(mw.length) - mean*mean
		stddev = math.Sqrt(math.Max(variance, 0))
	}

	return mean, stddev
}

// Mean returns the current average on its own.
func (mw *MovingWindow) Mean() float64 {
	if mw.length == 0 {
		return 0
	}

	return mw.sum / float64(mw.length)
}

// Drop evicts the n oldest values and returns the updated stats.
func (mw *MovingWindow) Drop(n int) (mean, stddev float64) {
	if n > mw.length {
		n = mw.length
	}

	if n > 0 {
		oldest := (mw.head - mw.length + len(mw.values)) % len(mw.values)

		for ; n > 0; n-- {
			v := mw.values[oldest]
			mw.sum -= v
			mw.sumSq -= v * v
			mw.length--

			oldest = (oldest + 1) % len(mw.values)
		}
	}

	return mw.Stats()
}

// Len returns how many values the window currently holds.
func (mw *MovingWindow) Len() int {
	return mw.length
}

// Cap returns the window size.
func (mw *MovingWindow) Cap() int {
	return len(mw.values)
}
