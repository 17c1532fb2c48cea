package tuner

import (
	"io"
	"log/slog"

	"github.com/0xlemi/rtuner/internal/audio"
	"github.com/0xlemi/rtuner/internal/pitch"
)

// Result describes one analysed window
type Result struct {
	Estimate pitch.Estimate
	Note     *pitch.Note // nil when no pitch was detected
	Reading  Reading
}

// Tuner runs the analysis chain for each chunk delivered by the capturer
type Tuner struct {
	window   *audio.Window
	detector pitch.Detector
	display  *Display
	observer func(Result)
	logger   *slog.Logger
}

// Option configures a Tuner
type Option func(*Tuner)

// WithObserver registers a function called after every analysed window
func WithObserver(fn func(Result)) Option {
	return func(t *Tuner) { t.observer = fn }
}

// WithLogger sets the logger for per-window debug output
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tuner) { t.logger = logger }
}

// New creates a Tuner
func New(window *audio.Window, detector pitch.Detector, display *Display, opts ...Option) *Tuner {
	t := &Tuner{
		window:   window,
		detector: detector,
		display:  display,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Process consumes one chunk. It matches audio.SampleHandler and runs on the
// audio delivery path. Samples left over after a window fills start the next
// window.
func (t *Tuner) Process(chunk []float32) {
	for len(chunk) > 0 {
		full, n := t.window.Push(chunk)
		chunk = chunk[n:]
		if full != nil {
			t.analyze(full)
		}
	}
}

// Display returns the shared display state
func (t *Tuner) Display() *Display {
	return t.display
}

func (t *Tuner) analyze(window *audio.AudioBuffer) {
	// Estimation runs outside the display lock
	est, ok := t.detector.Estimate(window)

	var note *pitch.Note
	if ok {
		n := pitch.ToNote(est.Frequency)
		note = &n
		t.logger.Debug("pitch detected",
			"frequency", est.Frequency,
			"clarity", est.Clarity,
			"note", n.Label(),
			"cents", n.Cents)
	}

	reading := t.display.Update(note)

	if t.observer != nil {
		t.observer(Result{Estimate: est, Note: note, Reading: reading})
	}
}
