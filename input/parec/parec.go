// Package parec captures PulseAudio sources through the parec
// command-line recorder.
package parec

import (
	"fmt"

	"github.com/lawl/pulseaudio"
	"github.com/pkg/errors"

	"github.com/winterveil/purr/input"
	"github.com/winterveil/purr/input/common/execread"
)

func init() {
	input.RegisterBackend("parec", Backend{})
}

type Backend struct{}

func (Backend) Init() error {
	return nil
}

func (Backend) Close() error {
	return nil
}

// Devices asks the PulseAudio daemon for its sources.
func (Backend) Devices() ([]input.Device, error) {
	c, err := pulseaudio.NewClient()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to pulseaudio")
	}
	defer c.Close()

	sources, err := c.Sources()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sources")
	}

	devices := make([]input.Device, len(sources))
	for i, source := range sources {
		devices[i] = PulseDevice(source.Name)
	}

	return devices, nil
}

// DefaultDevice defers the choice to the daemon.
func (Backend) DefaultDevice() (input.Device, error) {
	return PulseDevice("default"), nil
}

func (Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// PulseDevice is a PulseAudio source name.
type PulseDevice string

func (d PulseDevice) String() string {
	return string(d)
}

// InputArgs selects the source for an ffmpeg pulse grab.
func (d PulseDevice) InputArgs() []string {
	return []string{"-f", "pulse", "-i", string(d)}
}

// NewSession builds the parec command for cfg's device.
func NewSession(cfg input.SessionConfig) (*execread.Session, error) {
	dv, ok := cfg.Device.(PulseDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return execread.NewSession([]string{
		"parec",
		"--format=float32le",
		fmt.Sprintf("--rate=%.0f", cfg.SampleRate),
		"--channels=1",
		"-d", dv.String(),
	}, true, cfg), nil
}
