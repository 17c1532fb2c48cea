package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned for files the WAV decoder cannot read.
var ErrInvalidWAV = errors.New("invalid WAV file format")

// WAVReader reads a PCM WAV file as mono float samples.
type WAVReader struct {
	file     *os.File
	decoder  *wav.Decoder
	channels int
	divisor  float32
	pcm      *goaudio.IntBuffer
	mono     []float32
}

// OpenWAV opens a WAV file for reading.
func OpenWAV(path string) (*WAVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		f.Close()
		return nil, ErrInvalidWAV
	}

	divisor, err := audioDivisor(int(decoder.BitDepth))
	if err != nil {
		f.Close()
		return nil, err
	}

	channels := int(decoder.NumChans)
	if channels < 1 {
		f.Close()
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidWAV, channels)
	}

	return &WAVReader{
		file:     f,
		decoder:  decoder,
		channels: channels,
		divisor:  divisor,
	}, nil
}

// SampleRate returns the file's sample rate in Hz.
func (r *WAVReader) SampleRate() int {
	return int(r.decoder.SampleRate)
}

// Channels returns the channel count stored in the file.
func (r *WAVReader) Channels() int {
	return r.channels
}

// Read returns up to frames mono samples, averaging channels. It returns
// io.EOF once the file is exhausted. The slice is reused by the next call.
func (r *WAVReader) Read(frames int) ([]float32, error) {
	want := frames * r.channels
	if r.pcm == nil || len(r.pcm.Data) != want {
		r.pcm = &goaudio.IntBuffer{
			Data:   make([]int, want),
			Format: &goaudio.Format{SampleRate: r.SampleRate(), NumChannels: r.channels},
		}
		r.mono = make([]float32, frames)
	}

	n, err := r.decoder.PCMBuffer(r.pcm)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error reading WAV data: %w", err)
	}
	if n == 0 {
		return nil, io.EOF
	}

	got := n / r.channels
	for i := 0; i < got; i++ {
		sum := float32(0)
		for ch := 0; ch < r.channels; ch++ {
			sum += float32(r.pcm.Data[i*r.channels+ch]) / r.divisor
		}
		r.mono[i] = sum / float32(r.channels)
	}
	return r.mono[:got], nil
}

// Close closes the underlying file.
func (r *WAVReader) Close() error {
	return r.file.Close()
}

// WriteWAV writes mono samples as a 16-bit PCM WAV file.
func WriteWAV(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	data := make([]int, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * 32767)
		data[i] = int(math.Max(-32768, math.Min(32767, v)))
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	if err := enc.Write(&goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{SampleRate: sampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}); err != nil {
		return fmt.Errorf("failed to write to WAV encoder: %w", err)
	}
	return enc.Close()
}

// audioDivisor returns the full-scale value for normalizing integer PCM.
func audioDivisor(bitDepth int) (float32, error) {
	switch bitDepth {
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}
}
