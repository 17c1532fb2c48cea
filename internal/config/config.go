// Package config holds the tuner's runtime settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment variables read by Load.
const (
	EnvLogFile = "TUNER_LOG_FILE"
	EnvDebug   = "TUNER_DEBUG"
)

// Config holds audio, analysis and display settings
type Config struct {
	// Audio settings
	SampleRate      int `validate:"gte=8000,lte=192000"`
	Channels        int `validate:"gte=1,lte=2"`
	FramesPerBuffer int `validate:"gte=64,lte=16384"`

	// Analysis settings
	WindowSize      int     `validate:"gte=256,lte=32768"`
	LowestFrequency float64 `validate:"gt=0"`
	Threshold       float64 `validate:"gt=0,lt=1"`
	ConfidenceFloor float64 `validate:"gte=0,lte=1"`

	// Display settings
	LockThreshold float64       `validate:"gt=0,lte=50"`
	TickInterval  time.Duration `validate:"gte=10ms,lte=5s"`

	// LogFile receives logs while the UI owns the terminal. Empty discards them.
	LogFile string `validate:"omitempty,max=4096"`
	Debug   bool   // Log every analysed window
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the settings used when nothing is overridden
func Default() Config {
	return Config{
		SampleRate:      44100,
		Channels:        1,
		FramesPerBuffer: 1024,
		WindowSize:      2048,
		LowestFrequency: 80.0, // E2 on guitar is ~82 Hz
		Threshold:       0.3,
		ConfidenceFloor: 0.9,
		LockThreshold:   2.5,
		TickInterval:    200 * time.Millisecond,
	}
}

// Load returns the default settings with environment overrides applied, validated.
func Load() (Config, error) {
	cfg := Default()
	cfg.LogFile = os.Getenv(EnvLogFile)
	cfg.Debug = os.Getenv(EnvDebug) != ""
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and that the window can resolve LowestFrequency.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", e.Field(), e.Tag(), e.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	// The window must hold at least two periods of the lowest note, and the
	// lag search only covers half the window.
	period := float64(c.SampleRate) / c.LowestFrequency
	if float64(c.WindowSize) < 2*period {
		return fmt.Errorf("invalid config: window of %d samples is shorter than two periods of %.1f Hz (%.0f samples)",
			c.WindowSize, c.LowestFrequency, 2*period)
	}
	return nil
}

// WindowDuration is the audio time covered by one analysis window.
func (c Config) WindowDuration() time.Duration {
	return time.Duration(float64(c.WindowSize) / float64(c.SampleRate) * float64(time.Second))
}
