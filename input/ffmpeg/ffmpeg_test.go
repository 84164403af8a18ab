package ffmpeg

import "testing"

func TestParseALSADevice(t *testing.T) {
	tests := []struct {
		in      string
		want    ALSADevice
		wantErr bool
	}{
		{in: "00-00", want: "hw:0,0"},
		{in: "01-00", want: "hw:1,0"},
		{in: "02-31", want: "hw:2,31"},
		{in: "00", want: "hw:0"},
		{in: "00-00-00", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseALSADevice(tt.in)

		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseALSADevice(%q) accepted", tt.in)
			}
			continue
		}

		if err != nil {
			t.Fatalf("ParseALSADevice(%q): %v", tt.in, err)
		}

		if got != tt.want {
			t.Fatalf("ParseALSADevice(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestALSADeviceInputArgs(t *testing.T) {
	args := ALSADevice("hw:1,0").InputArgs()

	want := []string{"-f", "alsa", "-i", "hw:1,0"}
	if len(args) != len(want) {
		t.Fatalf("got %d args, want %d", len(args), len(want))
	}

	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestSndioDeviceInputArgs(t *testing.T) {
	args := SndioDevice("/dev/audio0").InputArgs()

	if args[len(args)-1] != "/dev/audio0" {
		t.Fatalf("last arg = %q, want the device path", args[len(args)-1])
	}
}
