package execread

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/winterveil/purr/input"
)

type collector struct {
	blocks [][]input.Sample
	failAt int // fail the nth Submit, 0 for never
	err    error
}

func (c *collector) Submit(block []input.Sample) error {
	if c.failAt > 0 && len(c.blocks)+1 == c.failAt {
		return c.err
	}

	c.blocks = append(c.blocks, append([]input.Sample(nil), block...))
	return nil
}

// writeRaw dumps values to a temp file in the given width and returns
// its path.
func writeRaw(t *testing.T, f32 bool, values []float64) string {
	t.Helper()

	var buf bytes.Buffer
	for _, v := range values {
		var err error
		if f32 {
			err = binary.Write(&buf, binary.LittleEndian, float32(v))
		} else {
			err = binary.Write(&buf, binary.LittleEndian, v)
		}
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "samples.raw")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	return path
}

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / 8
	}
	return out
}

func TestSessionReadsBlocks(t *testing.T) {
	for _, f32 := range []bool{true, false} {
		name := "f64"
		if f32 {
			name = "f32"
		}

		t.Run(name, func(t *testing.T) {
			const size = 8

			values := ramp(3 * size)
			path := writeRaw(t, f32, values)

			cfg := input.SessionConfig{SampleRate: 44100, SampleSize: size}
			s := NewSession([]string{"cat", path}, f32, cfg)

			var dst collector
			if err := s.Start(context.Background(), &dst); err != nil {
				t.Fatalf("Start: %v", err)
			}

			if len(dst.blocks) != 3 {
				t.Fatalf("got %d blocks, want 3", len(dst.blocks))
			}

			for b, block := range dst.blocks {
				for i, got := range block {
					if want := values[b*size+i]; got != want {
						t.Fatalf("block %d sample %d = %v, want %v", b, i, got, want)
					}
				}
			}
		})
	}
}

func TestSessionDropsShortTail(t *testing.T) {
	const size = 8

	// Two full blocks and half of a third.
	path := writeRaw(t, true, ramp(2*size+size/2))

	cfg := input.SessionConfig{SampleRate: 44100, SampleSize: size}
	s := NewSession([]string{"cat", path}, true, cfg)

	var dst collector
	if err := s.Start(context.Background(), &dst); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if len(dst.blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(dst.blocks))
	}
}

func TestSessionStopsWhenSinkRejects(t *testing.T) {
	const size = 8

	path := writeRaw(t, true, ramp(4*size))

	cfg := input.SessionConfig{SampleRate: 44100, SampleSize: size}
	s := NewSession([]string{"cat", path}, true, cfg)

	sentinel := errors.New("full")
	dst := collector{failAt: 2, err: sentinel}

	err := s.Start(context.Background(), &dst)
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want the sink's", err)
	}

	if len(dst.blocks) != 1 {
		t.Fatalf("got %d blocks before the failure, want 1", len(dst.blocks))
	}
}

func TestSessionOnStart(t *testing.T) {
	const size = 4

	path := writeRaw(t, true, ramp(size))

	cfg := input.SessionConfig{SampleRate: 44100, SampleSize: size}
	s := NewSession([]string{"cat", path}, true, cfg)

	var called bool
	s.OnStart = func(ctx context.Context, cmd *exec.Cmd) error {
		called = true
		return nil
	}

	var dst collector
	if err := s.Start(context.Background(), &dst); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if !called {
		t.Fatal("OnStart never ran")
	}
}

func TestFloatReader(t *testing.T) {
	values := []float64{0, 1, -1, 0.5, -0.25}

	var f32le, f64le bytes.Buffer
	for _, v := range values {
		binary.Write(&f32le, binary.LittleEndian, float32(v))
		binary.Write(&f64le, binary.LittleEndian, v)
	}

	r := FloatReader{Order: binary.LittleEndian}
	r.Reset(f32le.Bytes())
	for i, want := range values {
		if got := r.Next(); got != want {
			t.Fatalf("f32 value %d = %v, want %v", i, got, want)
		}
	}

	r = FloatReader{Order: binary.LittleEndian, F64: true}
	r.Reset(f64le.Bytes())
	for i, want := range values {
		if got := r.Next(); got != want {
			t.Fatalf("f64 value %d = %v, want %v", i, got, want)
		}
	}
}

func TestFloatReaderBigEndian(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, float32(math.Pi))

	r := FloatReader{Order: binary.BigEndian}
	r.Reset(buf.Bytes())

	if got, want := r.Next(), float64(float32(math.Pi)); got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}
