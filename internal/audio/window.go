package audio

// Window accumulates chunks into fixed-size, non-overlapping analysis windows.
type Window struct {
	buffer AudioBuffer
	cursor int
}

// NewWindow creates a window holding capacity samples at sampleRate
func NewWindow(capacity, sampleRate int) *Window {
	return &Window{
		buffer: AudioBuffer{
			Samples:    make([]float32, capacity),
			SampleRate: sampleRate,
		},
	}
}

// Push copies the prefix of chunk that fits into the window and reports how
// many samples it took. When the window fills, Push returns it and rewinds
// the cursor; the returned buffer aliases the window storage and is only
// valid until the next Push. Samples beyond the fill point are left to the
// caller.
func (w *Window) Push(chunk []float32) (full *AudioBuffer, consumed int) {
	consumed = copy(w.buffer.Samples[w.cursor:], chunk)
	w.cursor += consumed

	if w.cursor == len(w.buffer.Samples) {
		w.cursor = 0
		return &w.buffer, consumed
	}
	return nil, consumed
}

// Len returns the number of samples buffered toward the next window
func (w *Window) Len() int { return w.cursor }

// Cap returns the window size in samples
func (w *Window) Cap() int { return len(w.buffer.Samples) }

// SampleRate returns the sample rate of the buffered audio
func (w *Window) SampleRate() int { return w.buffer.SampleRate }

// Reset discards any partially filled window
func (w *Window) Reset() { w.cursor = 0 }
