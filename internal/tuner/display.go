package tuner

import (
	"sync"

	"github.com/0xlemi/rtuner/internal/pitch"
)

// Display is the state shared between the audio callback and the render
// loop. The lock is held only while the smoother is updated or copied.
type Display struct {
	mu        sync.Mutex
	smoother  *Smoother
	reading   Reading
	streamErr error
}

// NewDisplay creates an empty display
func NewDisplay(lockThreshold float64) *Display {
	s := NewSmoother(lockThreshold)
	return &Display{
		smoother: s,
		reading:  s.Reading(),
	}
}

// Update feeds one detection, or nil for none, into the smoother
func (d *Display) Update(note *pitch.Note) Reading {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.reading = d.smoother.OnReading(note)
	return d.reading
}

// Snapshot returns a copy of the latest reading
func (d *Display) Snapshot() Reading {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reading
}

// SetStreamError records the latest transient audio error, nil to clear it
func (d *Display) SetStreamError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.streamErr = err
}

// StreamError returns the latest transient audio error
func (d *Display) StreamError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.streamErr
}
