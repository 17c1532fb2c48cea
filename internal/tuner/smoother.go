// Package tuner turns analysis windows into a smoothed display reading.
package tuner

import (
	"math"

	"github.com/0xlemi/rtuner/internal/pitch"
)

// HistorySize is the number of readings averaged for display.
const HistorySize = 10

// DefaultLockThreshold is the average deviation, in cents, under which the
// reading counts as in tune.
const DefaultLockThreshold = 2.5

// NoNote is the label shown before any note has been detected.
const NoNote = "N/A"

// Reading is what the display shows
type Reading struct {
	Label    string  // e.g. "A4", NoNote before the first detection
	AvgCents float64 // Average deviation over the history
	Locked   bool    // AvgCents is within the lock threshold
	HasNote  bool
}

// Smoother averages cents readings for the note currently being played.
// It is not safe for concurrent use; see Display.
type Smoother struct {
	history       [HistorySize]float64
	pos           int
	current       pitch.Note
	hasNote       bool
	lockThreshold float64
}

// NewSmoother creates a smoother. A non-positive threshold selects the default.
func NewSmoother(lockThreshold float64) *Smoother {
	if lockThreshold <= 0 {
		lockThreshold = DefaultLockThreshold
	}
	return &Smoother{lockThreshold: lockThreshold}
}

// OnReading records one detection. A nil note leaves the state untouched.
// A note with a different name or octave than the one being tracked clears
// the history first, so it never averages another note's deviations.
func (s *Smoother) OnReading(note *pitch.Note) Reading {
	if note == nil {
		return s.Reading()
	}

	if !s.hasNote || !s.current.Same(*note) {
		s.history = [HistorySize]float64{}
		s.pos = 0
		s.hasNote = true
	}
	s.current = *note

	s.history[s.pos] = note.Cents
	s.pos = (s.pos + 1) % HistorySize

	return s.Reading()
}

// Reading returns the current display values. Slots not yet written count as
// zero, which damps the first readings of a new note toward in tune.
func (s *Smoother) Reading() Reading {
	if !s.hasNote {
		return Reading{Label: NoNote}
	}

	sum := 0.0
	for _, c := range s.history {
		sum += c
	}
	avg := sum / HistorySize

	return Reading{
		Label:    s.current.Label(),
		AvgCents: avg,
		Locked:   math.Abs(avg) < s.lockThreshold,
		HasNote:  true,
	}
}
