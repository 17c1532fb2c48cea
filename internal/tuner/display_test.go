package tuner

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplaySnapshotTracksUpdates(t *testing.T) {
	d := NewDisplay(DefaultLockThreshold)
	assert.Equal(t, NoNote, d.Snapshot().Label)

	got := d.Update(note("B", 2, 3))
	assert.Equal(t, got, d.Snapshot())
	assert.Equal(t, "B2", d.Snapshot().Label)

	d.Update(nil)
	assert.Equal(t, got, d.Snapshot())
}

func TestDisplayConcurrentAccess(t *testing.T) {
	d := NewDisplay(DefaultLockThreshold)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			d.Update(note("A", 4, float64(i%7)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			r := d.Snapshot()
			if r.HasNote {
				assert.Equal(t, "A4", r.Label)
			}
		}
	}()
	wg.Wait()

	assert.Equal(t, "A4", d.Snapshot().Label)
}

func TestDisplayStreamError(t *testing.T) {
	d := NewDisplay(0)
	assert.NoError(t, d.StreamError())

	errOverflow := errors.New("overflow")
	d.SetStreamError(errOverflow)
	assert.ErrorIs(t, d.StreamError(), errOverflow)

	d.SetStreamError(nil)
	assert.NoError(t, d.StreamError())
}
