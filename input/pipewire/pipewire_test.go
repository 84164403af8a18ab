package pipewire

import (
	"testing"

	"github.com/winterveil/purr/input"
)

type foreignDevice struct{}

func (foreignDevice) String() string { return "foreign" }

func TestNewSessionRejectsForeignDevice(t *testing.T) {
	_, err := NewSession(input.SessionConfig{
		Device:     foreignDevice{},
		SampleRate: 44100,
		SampleSize: 1024,
	})
	if err == nil {
		t.Fatal("expected an error for a device from another backend")
	}
}

func TestAudioDeviceString(t *testing.T) {
	d := AudioDevice{"alsa_input.usb-mic"}

	if d.String() != "alsa_input.usb-mic" {
		t.Fatalf("String() = %q", d.String())
	}
}
