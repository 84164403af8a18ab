//go:build cgo

// Package portaudio captures microphone audio through the PortAudio
// host API.
package portaudio

import (
	"context"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"

	"github.com/winterveil/purr/input"
)

func init() {
	input.RegisterBackend("portaudio", &Backend{})
}

// Backend wraps the PortAudio host. The zero value is a valid
// instance.
type Backend struct {
	mu      sync.Mutex
	started bool
}

func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return errors.Wrap(err, "failed to initialize portaudio")
	}

	b.started = true
	return nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started {
		return nil
	}

	b.started = false
	return portaudio.Terminate()
}

// Devices lists every device with at least one input channel.
func (b *Backend) Devices() ([]input.Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}

	var out []input.Device
	for _, dev := range devices {
		if dev.MaxInputChannels < 1 {
			continue
		}
		out = append(out, Device{dev})
	}

	return out, nil
}

func (b *Backend) DefaultDevice() (input.Device, error) {
	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get default input device")
	}

	return Device{dev}, nil
}

func (b *Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// Device represents a PortAudio capture device.
type Device struct {
	*portaudio.DeviceInfo
}

// String returns the device name.
func (d Device) String() string {
	return d.Name
}

// Session is one capture stream on a PortAudio device.
type Session struct {
	device  Device
	cfg     input.SessionConfig
	scratch []input.Sample
}

// NewSession prepares a capture session on the configured device.
func NewSession(cfg input.SessionConfig) (*Session, error) {
	dv, ok := cfg.Device.(Device)
	if !ok {
		return nil, errors.Errorf("device is of unknown type %T", cfg.Device)
	}

	return &Session{
		device:  dv,
		cfg:     cfg,
		scratch: make([]input.Sample, cfg.SampleSize),
	}, nil
}

// Start opens a mono float32 stream and submits one full block to dst
// at a time until ctx ends or capture fails. The driver callback only
// converts and submits; the sink's no-block contract keeps it from
// ever stalling the device.
func (s *Session) Start(ctx context.Context, dst input.Sink) error {
	fail := make(chan error, 1)

	param := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   s.device.DeviceInfo,
			Channels: 1,
			Latency:  s.device.DefaultLowInputLatency,
		},
		SampleRate:      s.cfg.SampleRate,
		FramesPerBuffer: s.cfg.SampleSize,
		Flags:           portaudio.ClipOff | portaudio.DitherOff,
	}

	// The callback normally hands over exactly one block, but the
	// host is allowed to split it. Refill across calls and submit on
	// every full block.
	fill := 0
	stream, err := portaudio.OpenStream(param, func(in []float32) {
		for _, v := range in {
			s.scratch[fill] = input.Sample(v)
			fill++

			if fill < len(s.scratch) {
				continue
			}
			fill = 0

			if err := dst.Submit(s.scratch); err != nil {
				select {
				case fail <- err:
				default:
				}
				return
			}
		}
	})
	if err != nil {
		return errors.Wrap(err, "failed to open stream")
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return errors.Wrap(err, "failed to start stream")
	}
	defer stream.Stop()

	select {
	case <-ctx.Done():
		return nil
	case err := <-fail:
		return errors.Wrap(err, "failed to hand a block to the pipeline")
	}
}
