package pitch

import (
	"fmt"
	"math"
)

// RefFrequency is the equal-tempered approximation of middle C (C4).
const RefFrequency = 261.6

// Octave of RefFrequency
const refOctave = 4

// All note names in chromatic order
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note represents a musical note
type Note struct {
	Name      string  // e.g., "A", "A#", "B"
	Octave    int     // e.g., 4 for middle C (C4)
	Frequency float64 // Frequency in Hz
	Cents     float64 // Cents deviation from the nearest semitone (-50 to +50)
}

// Label returns the note name with its octave, e.g. "C#3"
func (n Note) Label() string {
	return fmt.Sprintf("%s%d", n.Name, n.Octave)
}

// Same reports whether both notes are the same pitch class in the same octave
func (n Note) Same(other Note) bool {
	return n.Name == other.Name && n.Octave == other.Octave
}

// ToNote maps a positive frequency to the nearest equal-tempered note
func ToNote(frequency float64) Note {
	// Semitones from C4
	semitones := 12 * math.Log2(frequency/RefFrequency)

	// math.Round rounds half away from zero
	nearest := math.Round(semitones)
	cents := 100 * (semitones - nearest)

	n := int(nearest)
	return Note{
		Name:      noteNames[mod(n, 12)],
		Octave:    refOctave + floorDiv(n, 12),
		Frequency: frequency,
		Cents:     cents,
	}
}

// floorDiv divides rounding toward negative infinity: floorDiv(-12, 12) == -1,
// floorDiv(-13, 12) == -2.
func floorDiv(a, b int) int {
	return int(math.Floor(float64(a) / float64(b)))
}

// mod returns a in [0, b) for positive b.
func mod(a, b int) int {
	return ((a % b) + b) % b
}
