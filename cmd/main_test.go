package main

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/0xlemi/rtuner/internal/audio"
	"github.com/0xlemi/rtuner/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTone(t *testing.T, freq float64, seconds float64) string {
	t.Helper()
	const sampleRate = 44100
	samples := make([]float32, int(seconds*sampleRate))
	for i := range samples {
		samples[i] = float32(0.6 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, audio.WriteWAV(path, samples, sampleRate))
	return path
}

func TestAnalyzeCommandA4(t *testing.T) {
	path := writeTone(t, 440, 1)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"analyze", path})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	// 44100 samples hold 21 full windows of 2048
	assert.Contains(t, out.String(), "A4")
	assert.Contains(t, out.String(), "final: A4")
	assert.Contains(t, out.String(), "locked=true windows=21")
}

func TestAnalyzeSilenceHasNoNote(t *testing.T) {
	path := writeTone(t, 0, 0.5)

	var out bytes.Buffer
	require.NoError(t, analyzeFile(&out, path, config.Default()))
	assert.Contains(t, out.String(), "final: N/A")
}

func TestAnalyzeOctaveBelowReference(t *testing.T) {
	path := writeTone(t, 130.8, 1)

	var out bytes.Buffer
	require.NoError(t, analyzeFile(&out, path, config.Default()))
	assert.Contains(t, out.String(), "final: C3")
}

func TestAnalyzeMissingFile(t *testing.T) {
	var out bytes.Buffer
	err := analyzeFile(&out, filepath.Join(t.TempDir(), "nope.wav"), config.Default())
	assert.Error(t, err)
}

func TestRootRejectsArguments(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"unexpected"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
