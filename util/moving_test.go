package util

import (
	"math"
	"testing"

	"github.com/winterveil/purr/internal/testutil"
)

func TestMovingWindowStats(t *testing.T) {
	mw := NewMovingWindow(4)

	mean, stddev := mw.Update(2)
	testutil.RequireNear(t, mean, 2, 1e-12)
	testutil.RequireNear(t, stddev, 0, 1e-12)

	mw.Update(4)
	mw.Update(4)
	mean, stddev = mw.Update(6)

	testutil.RequireNear(t, mean, 4, 1e-12)
	// Population deviation of {2, 4, 4, 6}.
	testutil.RequireNear(t, stddev, math.Sqrt(2), 1e-12)
}

func TestMovingWindowEvictsOldest(t *testing.T) {
	mw := NewMovingWindow(3)

	for _, v := range []float64{100, 1, 2, 3} {
		mw.Update(v)
	}

	if mw.Len() != 3 || mw.Cap() != 3 {
		t.Fatalf("Len/Cap = %d/%d, want 3/3", mw.Len(), mw.Cap())
	}

	mean, _ := mw.Stats()
	testutil.RequireNear(t, mean, 2, 1e-12)
}

func TestMovingWindowEmpty(t *testing.T) {
	mw := NewMovingWindow(2)

	mean, stddev := mw.Stats()
	if mean != 0 || stddev != 0 {
		t.Fatalf("empty window stats = %v/%v, want 0/0", mean, stddev)
	}
}

func TestMovingWindowMean(t *testing.T) {
	mw := NewMovingWindow(4)

	if mw.Mean() != 0 {
		t.Fatalf("empty window mean = %v, want 0", mw.Mean())
	}

	mw.Update(1)
	mw.Update(3)

	testutil.RequireNear(t, mw.Mean(), 2, 1e-12)
}

func TestMovingWindowDrop(t *testing.T) {
	mw := NewMovingWindow(4)

	for _, v := range []float64{10, 2, 4, 6} {
		mw.Update(v)
	}

	mean, _ := mw.Drop(1)
	testutil.RequireNear(t, mean, 4, 1e-12)

	if mw.Len() != 3 {
		t.Fatalf("Len = %d after Drop(1), want 3", mw.Len())
	}

	// Dropping past the end just empties the window.
	mean, stddev := mw.Drop(10)
	if mw.Len() != 0 || mean != 0 || stddev != 0 {
		t.Fatalf("over-drop left Len %d, stats %v/%v", mw.Len(), mean, stddev)
	}

	// The window keeps working after a full drain.
	mean, _ = mw.Update(7)
	testutil.RequireNear(t, mean, 7, 1e-12)
}

func TestMovingWindowDropAfterWrap(t *testing.T) {
	mw := NewMovingWindow(3)

	// Pushes 1..5; the window holds {3, 4, 5} with a wrapped head.
	for v := 1.0; v <= 5; v++ {
		mw.Update(v)
	}

	mean, _ := mw.Drop(2)
	testutil.RequireNear(t, mean, 5, 1e-12)

	if mw.Len() != 1 {
		t.Fatalf("Len = %d, want 1", mw.Len())
	}
}
