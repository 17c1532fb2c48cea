package tuner

import (
	"testing"

	"github.com/0xlemi/rtuner/internal/pitch"
	"github.com/stretchr/testify/assert"
)

func note(name string, octave int, cents float64) *pitch.Note {
	return &pitch.Note{Name: name, Octave: octave, Cents: cents}
}

func TestSmootherInitialReading(t *testing.T) {
	s := NewSmoother(0)

	r := s.Reading()
	assert.Equal(t, NoNote, r.Label)
	assert.False(t, r.HasNote)
	assert.False(t, r.Locked)
	assert.Zero(t, r.AvgCents)
}

func TestSmootherFullHistoryAveragesToReading(t *testing.T) {
	s := NewSmoother(DefaultLockThreshold)

	var r Reading
	for i := 0; i < HistorySize; i++ {
		r = s.OnReading(note("A", 4, 12.5))
	}
	assert.Equal(t, "A4", r.Label)
	assert.InDelta(t, 12.5, r.AvgCents, 1e-9)
	assert.False(t, r.Locked)
}

func TestSmootherDampsEarlyReadings(t *testing.T) {
	s := NewSmoother(DefaultLockThreshold)

	r := s.OnReading(note("E", 2, 20))
	assert.InDelta(t, 20.0/HistorySize, r.AvgCents, 1e-9)
	assert.True(t, r.Locked)

	r = s.OnReading(note("E", 2, 20))
	assert.InDelta(t, 40.0/HistorySize, r.AvgCents, 1e-9)
	assert.False(t, r.Locked)
}

func TestSmootherNoteChangeClearsHistory(t *testing.T) {
	s := NewSmoother(DefaultLockThreshold)
	for i := 0; i < HistorySize; i++ {
		s.OnReading(note("A", 4, -30))
	}

	r := s.OnReading(note("A#", 4, 15))
	assert.Equal(t, "A#4", r.Label)
	// Only the new reading contributes, none of A4's -30s remain
	assert.InDelta(t, 15.0/HistorySize, r.AvgCents, 1e-9)

	// Same pitch class in another octave is a different note
	r = s.OnReading(note("A#", 3, 5))
	assert.Equal(t, "A#3", r.Label)
	assert.InDelta(t, 5.0/HistorySize, r.AvgCents, 1e-9)
}

func TestSmootherIgnoresAbsentReadings(t *testing.T) {
	s := NewSmoother(DefaultLockThreshold)
	s.OnReading(note("G", 3, 8))
	before := s.OnReading(note("G", 3, 8))

	during := s.OnReading(nil)
	assert.Equal(t, before, during)

	after := s.OnReading(note("G", 3, 8))
	assert.InDelta(t, 24.0/HistorySize, after.AvgCents, 1e-9)
}

func TestSmootherWrapsHistory(t *testing.T) {
	s := NewSmoother(DefaultLockThreshold)
	for i := 0; i < HistorySize; i++ {
		s.OnReading(note("D", 3, 10))
	}

	// Overwrite the oldest half
	var r Reading
	for i := 0; i < HistorySize/2; i++ {
		r = s.OnReading(note("D", 3, -10))
	}
	assert.InDelta(t, 0, r.AvgCents, 1e-9)
	assert.True(t, r.Locked)
}

func TestSmootherLockThreshold(t *testing.T) {
	s := NewSmoother(1)
	var r Reading
	for i := 0; i < HistorySize; i++ {
		r = s.OnReading(note("C", 4, 1.5))
	}
	assert.False(t, r.Locked)

	s = NewSmoother(2)
	for i := 0; i < HistorySize; i++ {
		r = s.OnReading(note("C", 4, -1.5))
	}
	assert.True(t, r.Locked)
}
