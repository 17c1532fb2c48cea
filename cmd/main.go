package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xlemi/rtuner/internal/audio"
	"github.com/0xlemi/rtuner/internal/config"
	"github.com/0xlemi/rtuner/internal/pitch"
	"github.com/0xlemi/rtuner/internal/tuner"
	"github.com/0xlemi/rtuner/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("rtuner failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "rtuner",
		Short:         "Real-time chromatic instrument tuner",
		Long:          "Listens to the default input device and shows the nearest note and its deviation in cents. Press q to quit.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg.Debug))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTuner(cmd.Context(), cfg)
		},
	}

	root.AddCommand(newAnalyzeCmd(&cfg))
	return root
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// redirectLogs points the default logger away from the terminal while the UI
// owns it and returns a function restoring the previous logger.
func redirectLogs(cfg config.Config) (func(), error) {
	previous := slog.Default()

	if cfg.LogFile == "" {
		slog.SetDefault(newLogger(io.Discard, cfg.Debug))
		return func() { slog.SetDefault(previous) }, nil
	}

	f, err := tea.LogToFile(cfg.LogFile, "rtuner")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	slog.SetDefault(newLogger(f, cfg.Debug))
	return func() {
		slog.SetDefault(previous)
		f.Close()
	}, nil
}

func runTuner(ctx context.Context, cfg config.Config) error {
	capturer, err := audio.NewPortAudioCapturer(cfg.SampleRate, cfg.Channels, cfg.FramesPerBuffer)
	if err != nil {
		return fmt.Errorf("failed to create audio capturer: %w", err)
	}
	slog.Info("using input device",
		"device", capturer.DeviceName(),
		"sample_rate", cfg.SampleRate,
		"window", cfg.WindowSize,
		"window_duration", cfg.WindowDuration())

	restore, err := redirectLogs(cfg)
	if err != nil {
		return err
	}
	defer restore()

	display := tuner.NewDisplay(cfg.LockThreshold)
	t := tuner.New(
		audio.NewWindow(cfg.WindowSize, cfg.SampleRate),
		pitch.NewYINDetector(cfg.Threshold, cfg.ConfidenceFloor),
		display,
		tuner.WithLogger(slog.Default()),
	)

	if err := capturer.Start(t.Process); err != nil {
		return fmt.Errorf("failed to start audio capture: %w", err)
	}
	defer func() {
		if err := capturer.Stop(); err != nil {
			slog.Error("failed to stop audio capture", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(ui.NewModel(display, cfg.TickInterval), tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("error running program: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return forwardStreamErrors(gctx, capturer.Errors(), display)
	})

	return g.Wait()
}

// forwardStreamErrors logs transient stream errors and shows the latest one
// in the UI until ctx is done. Capture keeps running.
func forwardStreamErrors(ctx context.Context, errs <-chan error, display *tuner.Display) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			slog.Warn("audio stream error", "error", err)
			display.SetStreamError(err)
		}
	}
}
