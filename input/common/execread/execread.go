// Package execread provides a shared session that runs a recorder
// command and submits the float samples it writes to stdout.
package execread

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/winterveil/purr/input"
)

// Session reads little-endian floats from a recorder's stdout, one
// block per SampleSize samples.
type Session struct {
	// OnStart is called once the recorder process is up. Nil by
	// default.
	OnStart func(ctx context.Context, cmd *exec.Cmd) error

	argv []string
	cfg  input.SessionConfig

	f32mode bool
}

// NewSession creates a new execread session. f32mode selects 32-bit
// floats over 64-bit ones. It panics if argv is empty.
func NewSession(argv []string, f32mode bool, cfg input.SessionConfig) *Session {
	if len(argv) < 1 {
		panic("argv has no arg0")
	}

	return &Session{
		argv:    argv,
		cfg:     cfg,
		f32mode: f32mode,
	}
}

// Start runs the recorder and pumps its output into dst until ctx
// ends, the recorder closes its stdout, or dst rejects a block.
func (s *Session) Start(ctx context.Context, dst input.Sink) error {
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.Stderr = os.Stderr

	out, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start "+s.argv[0])
	}

	defer func() {
		// Reap the recorder no matter how we leave.
		cmd.Process.Kill()
		cmd.Wait()
	}()

	if s.OnStart != nil {
		if err := s.OnStart(ctx, cmd); err != nil {
			return err
		}
	}

	width := 8
	if s.f32mode {
		width = 4
	}

	raw := make([]byte, s.cfg.SampleSize*width)
	block := make([]input.Sample, s.cfg.SampleSize)

	reader := FloatReader{
		Order: binary.LittleEndian,
		F64:   !s.f32mode,
	}

	for {
		if _, err := io.ReadFull(out, raw); err != nil {
			// A recorder that goes away cleanly or was killed along
			// with ctx ends the session without an error.
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || ctx.Err() != nil {
				return nil
			}

			return errors.Wrap(err, "failed to read from "+s.argv[0])
		}

		reader.Reset(raw)
		for i := range block {
			block[i] = reader.Next()
		}

		if err := dst.Submit(block); err != nil {
			return errors.Wrap(err, "failed to submit a block")
		}
	}
}

// FloatReader decodes a packed stream of floats.
type FloatReader struct {
	Order binary.ByteOrder
	F64   bool

	buf []byte
}

// Reset points the reader at a fresh buffer.
func (f *FloatReader) Reset(b []byte) {
	f.buf = b
}

// Next decodes one float and advances.
func (f *FloatReader) Next() float64 {
	if f.F64 {
		b := f.buf[:8]
		f.buf = f.buf[8:]
		return math.Float64frombits(f.Order.Uint64(b))
	}

	b := f.buf[:4]
	f.buf = f.buf[4:]
	return float64(math.Float32frombits(f.Order.Uint32(b)))
}
