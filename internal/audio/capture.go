package audio

import (
	"errors"
)

// Errors
var (
	ErrNoInputDevice    = errors.New("no audio input device found")
	ErrAlreadyCapturing = errors.New("audio capture already started")
	ErrNotCapturing     = errors.New("audio capture not started")
	ErrInputOverflow    = errors.New("audio input overflow")
	ErrInputUnderflow   = errors.New("audio input underflow")
)

// AudioBuffer represents a buffer of audio samples
type AudioBuffer struct {
	Samples    []float32
	SampleRate int
}

// SampleHandler receives each mono chunk on the audio delivery path. The
// slice is only valid for the duration of the call.
type SampleHandler func(samples []float32)

// Capturer defines the interface for audio capture
type Capturer interface {
	// Start begins audio capture, delivering chunks to handler
	Start(handler SampleHandler) error

	// Stop ends audio capture
	Stop() error

	// IsCapturing returns true if currently capturing audio
	IsCapturing() bool

	// Errors reports transient stream errors. Sends never block the audio
	// path, so errors are dropped while the channel is full.
	Errors() <-chan error
}

// Downmix averages interleaved frames into dst and returns the filled prefix.
// dst must hold at least len(in)/channels samples.
func Downmix(dst, in []float32, channels int) []float32 {
	if channels <= 1 {
		n := copy(dst, in)
		return dst[:n]
	}

	frames := len(in) / channels
	for i := 0; i < frames; i++ {
		sum := float32(0)
		for ch := 0; ch < channels; ch++ {
			sum += in[i*channels+ch]
		}
		dst[i] = sum / float32(channels)
	}
	return dst[:frames]
}
