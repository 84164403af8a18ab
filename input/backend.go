// Package input defines capture backends and the session interface the
// pipeline pulls microphone blocks through.
package input

import (
	"context"
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
)

// Sample is one mono audio sample.
type Sample = float64

var (
	// ErrNoBackend means the named backend is not compiled in.
	ErrNoBackend = errors.New("backend not found")
	// ErrBadDevice means the named device is not known to the backend.
	ErrBadDevice = errors.New("device not found")
)

// Sink receives capture blocks. Submit must not block capture; the
// pipeline's sink drops old blocks instead of stalling the driver.
type Sink interface {
	Submit(block []Sample) error
}

// Device is an opaque handle for a capture device. String returns the
// name used to select it on the command line.
type Device interface {
	String() string
}

// SessionConfig describes one capture stream.
type SessionConfig struct {
	Device     Device  // device to capture from
	SampleRate float64 // capture rate in Hz
	SampleSize int     // samples per submitted block
}

// Session is a live capture stream.
type Session interface {
	// Start captures until ctx is done or capture fails, submitting
	// one SampleSize block at a time to dst. It blocks for the whole
	// session.
	Start(ctx context.Context, dst Sink) error
}

// Backend produces capture sessions for one audio system.
type Backend interface {
	// Init should do nothing if called more than once.
	Init() error
	Close() error

	Devices() ([]Device, error)
	DefaultDevice() (Device, error)
	Start(SessionConfig) (Session, error)
}

type NamedBackend struct {
	Name string
	Backend
}

var Backends []NamedBackend

// RegisterBackend registers a backend globally. This function is not
// thread-safe, and most packages should call it on init().
func RegisterBackend(name string, b Backend) {
	Backends = append(Backends, NamedBackend{
		Name:    name,
		Backend: b,
	})
}

// GetAllBackendNames returns the names of all compiled-in backends.
func GetAllBackendNames() []string {
	out := make([]string, len(Backends))
	for i, backend := range Backends {
		out[i] = backend.Name
	}
	return out
}

// DefaultBackend picks the preferred backend for this platform. It
// returns an empty string when nothing is compiled in.
func DefaultBackend() string {
	if HasBackend("portaudio") {
		return "portaudio"
	}

	if runtime.GOOS == "linux" {
		if path, _ := exec.LookPath("parec"); path != "" && HasBackend("parec") {
			return "parec"
		}
	}

	if len(Backends) > 0 {
		return Backends[0].Name
	}

	return ""
}

// FindBackend is a helper function that finds a backend. It returns
// nil if the backend is not found.
func FindBackend(name string) Backend {
	for _, backend := range Backends {
		if backend.Name == name {
			return backend
		}
	}
	return nil
}

func HasBackend(name string) bool {
	return FindBackend(name) != nil
}

// InitBackend looks the backend up by name and initializes it.
func InitBackend(name string) (Backend, error) {
	backend := FindBackend(name)
	if backend == nil {
		return nil, errors.Wrapf(ErrNoBackend, "%q; check list-backends", name)
	}

	if err := backend.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize input backend")
	}

	return backend, nil
}

// GetDevice resolves a device name through the backend, falling back
// to the backend's default for an empty name.
func GetDevice(backend Backend, device string) (Device, error) {
	if device == "" {
		def, err := backend.DefaultDevice()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default device")
		}
		return def, nil
	}

	devices, err := backend.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get devices")
	}

	for idx := range devices {
		if devices[idx].String() == device {
			return devices[idx], nil
		}
	}

	return nil, errors.Wrapf(ErrBadDevice, "%q; check list-devices", device)
}
