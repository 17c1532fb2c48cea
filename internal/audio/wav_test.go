package audio

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWAVRoundTrip(t *testing.T) {
	const sampleRate = 44100
	samples := make([]float32, 3000)
	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/sampleRate))
	}

	path := filepath.Join(t.TempDir(), "a4.wav")
	require.NoError(t, WriteWAV(path, samples, sampleRate))

	r, err := OpenWAV(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, sampleRate, r.SampleRate())
	assert.Equal(t, 1, r.Channels())

	var got []float32
	for {
		chunk, err := r.Read(1024)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, chunk...)
	}

	require.Len(t, got, len(samples))
	for i := range samples {
		assert.InDelta(t, samples[i], got[i], 1e-4)
	}
}

func TestOpenWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not RIFF"), 0o644))

	_, err := OpenWAV(path)
	assert.ErrorIs(t, err, ErrInvalidWAV)
}

func TestOpenWAVMissingFile(t *testing.T) {
	_, err := OpenWAV(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}
