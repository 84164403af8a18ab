// Package pitch maps frequencies onto the twelve-tone scale.
package pitch

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// NoteNames spells the twelve chromatic steps starting at C. Sharps are
// the fixed convention; no key-dependent flats.
var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// ErrInvalidFrequency is returned by FromFrequency for values no pitch
// can be derived from.
var ErrInvalidFrequency = errors.New("frequency must be positive and finite")

// Reading is a frequency expressed as a musical pitch.
type Reading struct {
	Frequency float64 // calibrated frequency in Hz
	MIDI      float64 // fractional MIDI note number, 69 = A4 = 440 Hz
	MIDINote  int     // nearest MIDI note number
	Name      string  // note name from NoteNames
	Octave    int     // scientific octave, MIDI 60 = C4
	Cents     float64 // deviation from the nearest note, in [-50, 50)
}

// FromFrequency derives the Reading for a frequency in Hz. The
// frequency must be positive; silence never reaches this mapping.
func FromFrequency(hz float64) (Reading, error) {
	if math.IsNaN(hz) || math.IsInf(hz, 0) || hz <= 0 {
		return Reading{}, errors.Wrapf(ErrInvalidFrequency, "got %g Hz", hz)
	}

	midi := 69 + 12*math.Log2(hz/440)

	// Round half up so the cents deviation stays in [-50, 50) on both
	// sides of a note.
	note := int(math.Floor(midi + 0.5))

	return Reading{
		Frequency: hz,
		MIDI:      midi,
		MIDINote:  note,
		Name:      NoteNames[((note%12)+12)%12],
		Octave:    floorDiv(note, 12) - 1,
		Cents:     (midi - float64(note)) * 100,
	}, nil
}

// String renders the display title text, e.g. "440.1 Hz – A4 (+0.3 cents)".
func (r Reading) String() string {
	return fmt.Sprintf("%.1f Hz – %s%d (%+.1f cents)", r.Frequency, r.Name, r.Octave, r.Cents)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}
