package pitch

import (
	"github.com/0xlemi/rtuner/internal/audio"
)

// Estimate is a fundamental frequency found in one analysis window
type Estimate struct {
	Frequency float64 // Frequency in Hz
	Clarity   float64 // Periodicity of the window, 0 (noise) to 1 (pure tone)
}

// Detector defines the interface for pitch detection
type Detector interface {
	// Estimate analyzes one full window. ok is false when no pitch was
	// found with enough confidence; that is not an error.
	Estimate(buffer *audio.AudioBuffer) (est Estimate, ok bool)
}
