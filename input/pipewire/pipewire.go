// Package pipewire captures PipeWire sources through pw-cat.
package pipewire

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/winterveil/purr/input"
	"github.com/winterveil/purr/input/common/execread"
)

func init() {
	input.RegisterBackend("pipewire", Backend{})
}

type Backend struct{}

func (p Backend) Init() error {
	return nil
}

func (p Backend) Close() error {
	return nil
}

// Devices lists the capture nodes pw-dump reports.
func (p Backend) Devices() ([]input.Device, error) {
	pwObjs, err := pwDump(context.Background())
	if err != nil {
		return nil, err
	}

	pwSources := pwObjs.Filter(func(o pwObject) bool {
		return o.Type == pwInterfaceNode &&
			o.Info.Props.MediaClass == pwAudioSource
	})

	devices := make([]input.Device, len(pwSources))
	for i, device := range pwSources {
		devices[i] = AudioDevice{device.Info.Props.NodeName}
	}

	return devices, nil
}

// DefaultDevice lets the session manager pick.
func (p Backend) DefaultDevice() (input.Device, error) {
	return AudioDevice{"auto"}, nil
}

func (p Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// AudioDevice is a PipeWire node name.
type AudioDevice struct {
	name string
}

func (d AudioDevice) String() string {
	return d.name
}

// NewSession builds the pw-cat command for cfg's device.
func NewSession(cfg input.SessionConfig) (*execread.Session, error) {
	dv, ok := cfg.Device.(AudioDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	args := []string{
		"pw-cat",
		"--record",
		"--format", "f32",
		"--rate", fmt.Sprint(cfg.SampleRate),
		"--latency", fmt.Sprint(cfg.SampleSize),
		"--channels", "1",
		"--target", dv.name,
		"--quality", "0",
		"--media-category", "Capture",
		"--media-role", "DSP",
	}

	// pw-cat 1.4.0 introduces explicit stdout support, needs --raw arg
	// see https://gitlab.freedesktop.org/pipewire/pipewire/-/issues/4629#top
	useRawArg, err := checkNeedRawArg()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check need of pipewire '--raw' arg")
	}

	if useRawArg {
		args = append(args, "--raw")
	}

	// output to STDOUT
	args = append(args, "-")

	return execread.NewSession(args, true, cfg), nil
}

func checkNeedRawArg() (bool, error) {
	cmd := exec.Command("pw-cat", "--help")

	out, err := cmd.Output()
	if err != nil {
		return false, err
	}

	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "--raw") {
			return true, nil
		}
	}

	return false, nil
}
