package input

import (
	"context"
	"testing"

	"github.com/pkg/errors"
)

type fakeDevice string

func (d fakeDevice) String() string { return string(d) }

type fakeSession struct{}

func (fakeSession) Start(context.Context, Sink) error { return nil }

type fakeBackend struct {
	inits   int
	devices []Device
}

func (b *fakeBackend) Init() error  { b.inits++; return nil }
func (b *fakeBackend) Close() error { return nil }

func (b *fakeBackend) Devices() ([]Device, error) { return b.devices, nil }

func (b *fakeBackend) DefaultDevice() (Device, error) {
	return fakeDevice("default"), nil
}

func (b *fakeBackend) Start(SessionConfig) (Session, error) {
	return fakeSession{}, nil
}

func swapBackends(t *testing.T, named ...NamedBackend) {
	t.Helper()

	old := Backends
	Backends = named
	t.Cleanup(func() { Backends = old })
}

func TestFindBackend(t *testing.T) {
	b := &fakeBackend{}
	swapBackends(t, NamedBackend{Name: "fake", Backend: b})

	if FindBackend("fake") == nil {
		t.Fatal("registered backend not found")
	}

	if FindBackend("other") != nil {
		t.Fatal("found a backend that was never registered")
	}

	if !HasBackend("fake") || HasBackend("other") {
		t.Fatal("HasBackend disagrees with FindBackend")
	}
}

func TestGetAllBackendNames(t *testing.T) {
	swapBackends(t,
		NamedBackend{Name: "one", Backend: &fakeBackend{}},
		NamedBackend{Name: "two", Backend: &fakeBackend{}},
	)

	names := GetAllBackendNames()
	if len(names) != 2 || names[0] != "one" || names[1] != "two" {
		t.Fatalf("names = %v, want [one two]", names)
	}
}

func TestInitBackend(t *testing.T) {
	b := &fakeBackend{}
	swapBackends(t, NamedBackend{Name: "fake", Backend: b})

	got, err := InitBackend("fake")
	if err != nil {
		t.Fatalf("InitBackend: %v", err)
	}

	if got == nil || b.inits != 1 {
		t.Fatalf("backend not initialized (inits = %d)", b.inits)
	}

	if _, err := InitBackend("missing"); !errors.Is(err, ErrNoBackend) {
		t.Fatalf("err = %v, want ErrNoBackend", err)
	}
}

func TestGetDevice(t *testing.T) {
	b := &fakeBackend{devices: []Device{fakeDevice("mic1"), fakeDevice("mic2")}}

	dev, err := GetDevice(b, "")
	if err != nil {
		t.Fatalf("GetDevice default: %v", err)
	}
	if dev.String() != "default" {
		t.Fatalf("default device = %q, want %q", dev, "default")
	}

	dev, err = GetDevice(b, "mic2")
	if err != nil {
		t.Fatalf("GetDevice named: %v", err)
	}
	if dev.String() != "mic2" {
		t.Fatalf("device = %q, want %q", dev, "mic2")
	}

	if _, err := GetDevice(b, "nope"); !errors.Is(err, ErrBadDevice) {
		t.Fatalf("err = %v, want ErrBadDevice", err)
	}
}

func TestDefaultBackendPrefersPortaudio(t *testing.T) {
	swapBackends(t,
		NamedBackend{Name: "other", Backend: &fakeBackend{}},
		NamedBackend{Name: "portaudio", Backend: &fakeBackend{}},
	)

	if got := DefaultBackend(); got != "portaudio" {
		t.Fatalf("DefaultBackend = %q, want portaudio", got)
	}
}

func TestDefaultBackendFallsBackToFirst(t *testing.T) {
	swapBackends(t, NamedBackend{Name: "other", Backend: &fakeBackend{}})

	if got := DefaultBackend(); got != "other" {
		t.Fatalf("DefaultBackend = %q, want other", got)
	}
}

func TestDefaultBackendEmpty(t *testing.T) {
	swapBackends(t)

	if got := DefaultBackend(); got != "" {
		t.Fatalf("DefaultBackend = %q, want empty", got)
	}
}
