package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/0xlemi/rtuner/internal/audio"
	"github.com/0xlemi/rtuner/internal/config"
	"github.com/0xlemi/rtuner/internal/pitch"
	"github.com/0xlemi/rtuner/internal/tuner"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze FILE.wav",
		Short: "Run the tuner over a WAV file and print every analysed window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeFile(cmd.OutOrStdout(), args[0], *cfg)
		},
	}
}

// analyzeFile feeds a WAV file through the same pipeline as live capture,
// one capture-sized chunk at a time.
func analyzeFile(w io.Writer, path string, cfg config.Config) error {
	r, err := audio.OpenWAV(path)
	if err != nil {
		return err
	}
	defer r.Close()

	cfg.SampleRate = r.SampleRate()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cannot analyze %s: %w", path, err)
	}
	slog.Debug("analyzing file", "path", path, "sample_rate", cfg.SampleRate, "channels", r.Channels())

	windows := 0
	report := func(res tuner.Result) {
		at := float64(windows*cfg.WindowSize) / float64(cfg.SampleRate)
		windows++

		if res.Note == nil {
			fmt.Fprintf(w, "%8.3fs  %-4s\n", at, "-")
			return
		}
		fmt.Fprintf(w, "%8.3fs  %-4s %8.2f Hz  clarity %.3f  cents %+6.2f  avg %+6.2f\n",
			at, res.Note.Label(), res.Estimate.Frequency, res.Estimate.Clarity, res.Note.Cents, res.Reading.AvgCents)
	}

	t := tuner.New(
		audio.NewWindow(cfg.WindowSize, cfg.SampleRate),
		pitch.NewYINDetector(cfg.Threshold, cfg.ConfidenceFloor),
		tuner.NewDisplay(cfg.LockThreshold),
		tuner.WithObserver(report),
		tuner.WithLogger(slog.Default()),
	)

	for {
		chunk, err := r.Read(cfg.FramesPerBuffer)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		t.Process(chunk)
	}

	final := t.Display().Snapshot()
	fmt.Fprintf(w, "final: %s %+.2f cents locked=%t windows=%d\n", final.Label, final.AvgCents, final.Locked, windows)
	return nil
}
