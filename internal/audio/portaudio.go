package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const errorQueueSize = 8

// PortAudioCapturer implements audio capture using PortAudio
type PortAudioCapturer struct {
	mu              sync.Mutex
	isCapturing     bool
	stream          *portaudio.Stream
	device          *portaudio.DeviceInfo
	sampleRate      int
	channels        int
	framesPerBuffer int
	monoBuffer      []float32
	handler         SampleHandler
	errs            chan error
}

// NewPortAudioCapturer initializes PortAudio and resolves the default input device
func NewPortAudioCapturer(sampleRate, channels, framesPerBuffer int) (*PortAudioCapturer, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	device, err := portaudio.DefaultInputDevice()
	if err != nil || device == nil {
		portaudio.Terminate()
		if err == nil {
			return nil, ErrNoInputDevice
		}
		return nil, fmt.Errorf("%w: %v", ErrNoInputDevice, err)
	}

	return &PortAudioCapturer{
		device:          device,
		sampleRate:      sampleRate,
		channels:        channels,
		framesPerBuffer: framesPerBuffer,
		monoBuffer:      make([]float32, framesPerBuffer),
		errs:            make(chan error, errorQueueSize),
	}, nil
}

// DeviceName returns the name of the input device in use
func (c *PortAudioCapturer) DeviceName() string {
	return c.device.Name
}

// Start opens the default input stream and begins delivering chunks
func (c *PortAudioCapturer) Start(handler SampleHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isCapturing {
		return ErrAlreadyCapturing
	}
	c.handler = handler

	stream, err := portaudio.OpenDefaultStream(
		c.channels, // input channels
		0,          // output channels (we don't need output)
		float64(c.sampleRate),
		c.framesPerBuffer,
		c.processAudio,
	)
	if err != nil {
		return fmt.Errorf("failed to open input stream on %q: %w", c.device.Name, err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	c.stream = stream
	c.isCapturing = true
	return nil
}

// Stop stops and closes the stream, then terminates PortAudio
func (c *PortAudioCapturer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCapturing {
		return ErrNotCapturing
	}
	c.isCapturing = false

	if err := c.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop input stream: %w", err)
	}
	if err := c.stream.Close(); err != nil {
		return fmt.Errorf("failed to close input stream: %w", err)
	}
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// IsCapturing returns true if currently capturing audio
func (c *PortAudioCapturer) IsCapturing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isCapturing
}

// Errors reports input overflow and underflow conditions
func (c *PortAudioCapturer) Errors() <-chan error {
	return c.errs
}

// processAudio is the stream callback. It runs on PortAudio's thread and
// must not block.
func (c *PortAudioCapturer) processAudio(in, _ []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
	if flags&portaudio.InputOverflow != 0 {
		c.report(ErrInputOverflow)
	}
	if flags&portaudio.InputUnderflow != 0 {
		c.report(ErrInputUnderflow)
	}

	frames := len(in) / c.channels
	if frames > len(c.monoBuffer) {
		c.monoBuffer = make([]float32, frames)
	}
	c.handler(Downmix(c.monoBuffer, in, c.channels))
}

func (c *PortAudioCapturer) report(err error) {
	select {
	case c.errs <- err:
	default:
	}
}
