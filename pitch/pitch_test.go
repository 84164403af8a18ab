package pitch

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/winterveil/purr/internal/testutil"
)

func mustMap(t *testing.T, hz float64) Reading {
	t.Helper()

	r, err := FromFrequency(hz)
	if err != nil {
		t.Fatalf("FromFrequency(%v): %v", hz, err)
	}

	return r
}

func TestConcertA(t *testing.T) {
	r := mustMap(t, 440)

	if r.MIDI != 69 {
		t.Fatalf("MIDI = %v, want exactly 69", r.MIDI)
	}

	if r.MIDINote != 69 || r.Name != "A" || r.Octave != 4 {
		t.Fatalf("got %s%d (MIDI %d), want A4 (MIDI 69)", r.Name, r.Octave, r.MIDINote)
	}

	testutil.RequireNear(t, r.Cents, 0, 1e-9)
}

func TestSemitoneAboveConcertA(t *testing.T) {
	r := mustMap(t, 440*math.Pow(2, 1.0/12))

	if r.MIDINote != 70 || r.Name != "A#" || r.Octave != 4 {
		t.Fatalf("got %s%d (MIDI %d), want A#4 (MIDI 70)", r.Name, r.Octave, r.MIDINote)
	}

	testutil.RequireNear(t, r.Cents, 0, 1e-9)
}

func TestNoteTable(t *testing.T) {
	tests := []struct {
		midi   int
		name   string
		octave int
	}{
		{60, "C", 4},
		{61, "C#", 4},
		{59, "B", 3},
		{69, "A", 4},
		{21, "A", 0},
		{108, "C", 8},
		{0, "C", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hz := 440 * math.Pow(2, float64(tt.midi-69)/12)
			r := mustMap(t, hz)

			if r.MIDINote != tt.midi || r.Name != tt.name || r.Octave != tt.octave {
				t.Fatalf("got %s%d (MIDI %d), want %s%d (MIDI %d)",
					r.Name, r.Octave, r.MIDINote, tt.name, tt.octave, tt.midi)
			}

			testutil.RequireNear(t, r.Cents, 0, 1e-9)
		})
	}
}

func TestKnownCentsOffset(t *testing.T) {
	// 441 Hz sits 1200*log2(441/440) ≈ 3.93 cents above A4.
	r := mustMap(t, 441)

	if r.MIDINote != 69 || r.Name != "A" {
		t.Fatalf("got %s (MIDI %d), want A (MIDI 69)", r.Name, r.MIDINote)
	}

	testutil.RequireNear(t, r.Cents, 3.93, 0.01)
}

func TestCentsStayInRange(t *testing.T) {
	// Sweep four octaves in uneven steps, crossing every rounding
	// boundary on the way.
	for hz := 27.5; hz < 440.0; hz *= 1.013 {
		r := mustMap(t, hz)

		if r.Cents < -50 || r.Cents >= 50 {
			t.Fatalf("map(%v): cents %v out of [-50, 50)", hz, r.Cents)
		}

		if r.Name != NoteNames[((r.MIDINote%12)+12)%12] {
			t.Fatalf("map(%v): name %q does not match MIDI %d", hz, r.Name, r.MIDINote)
		}

		testutil.RequireFinite(t, r.MIDI, r.Cents)
	}
}

func TestVeryLowFrequencyStillMaps(t *testing.T) {
	r := mustMap(t, 5)

	if r.Name == "" {
		t.Fatal("empty note name")
	}

	if r.Cents < -50 || r.Cents >= 50 {
		t.Fatalf("cents %v out of [-50, 50)", r.Cents)
	}

	if r.Octave >= 0 {
		t.Fatalf("octave = %d, want negative for 5 Hz", r.Octave)
	}
}

func TestFromFrequencyRejectsInvalid(t *testing.T) {
	for _, hz := range []float64{0, -440, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := FromFrequency(hz); !errors.Is(err, ErrInvalidFrequency) {
			t.Fatalf("FromFrequency(%v) err = %v, want ErrInvalidFrequency", hz, err)
		}
	}
}

func TestReadingString(t *testing.T) {
	tests := []struct {
		name string
		r    Reading
		want string
	}{
		{
			"sharp above",
			Reading{Frequency: 440.06, Name: "A", Octave: 4, Cents: 0.3},
			"440.1 Hz – A4 (+0.3 cents)",
		},
		{
			"flat below",
			Reading{Frequency: 261.2, Name: "C", Octave: 4, Cents: -2.84},
			"261.2 Hz – C4 (-2.8 cents)",
		},
		{
			"dead on",
			Reading{Frequency: 440, Name: "A", Octave: 4, Cents: 0},
			"440.0 Hz – A4 (+0.0 cents)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoundingBoundary(t *testing.T) {
	// Just below the halfway point stays on the lower note near +50
	// cents; just above rounds up and reads near -50. Together they pin
	// the half-open [-50, 50) interval.
	below := mustMap(t, 440*math.Pow(2, 0.4999999/12))
	if below.MIDINote != 69 {
		t.Fatalf("below boundary: MIDI note = %d, want 69", below.MIDINote)
	}
	testutil.RequireNear(t, below.Cents, 50, 1e-4)

	above := mustMap(t, 440*math.Pow(2, 0.5000001/12))
	if above.MIDINote != 70 {
		t.Fatalf("above boundary: MIDI note = %d, want 70", above.MIDINote)
	}
	testutil.RequireNear(t, above.Cents, -50, 1e-4)
}
