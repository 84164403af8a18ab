// Package stdinput reads raw samples piped to stdin, mostly for
// running recordings through the pipeline:
//
//	sox tone.wav -t raw -e float -b 32 - | purr -b stdin
package stdinput

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/winterveil/purr/input"
	"github.com/winterveil/purr/input/common/execread"
	"github.com/winterveil/purr/input/utils/endian"
)

func init() {
	input.RegisterBackend("stdin", StdinBackend{})
}

type StdinBackend struct{}

func (b StdinBackend) Init() error {
	return nil
}

func (b StdinBackend) Close() error {
	return nil
}

func (b StdinBackend) Devices() ([]input.Device, error) {
	return []input.Device{StdinDevice{}}, nil
}

func (b StdinBackend) DefaultDevice() (input.Device, error) {
	return StdinDevice{}, nil
}

func (b StdinBackend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(os.Stdin, cfg), nil
}

type StdinDevice struct{}

func (d StdinDevice) String() string {
	return "stdin"
}

// Session decodes native-endian 32-bit floats from a reader.
type Session struct {
	src io.Reader
	cfg input.SessionConfig
}

func NewSession(src io.Reader, cfg input.SessionConfig) *Session {
	return &Session{src: src, cfg: cfg}
}

// Start submits one block per SampleSize samples until the stream
// ends. A short tail is discarded.
func (s *Session) Start(ctx context.Context, dst input.Sink) error {
	// The read below cannot be interrupted; closing the source can.
	if closer, ok := s.src.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { closer.Close() })
		defer stop()
	}

	reader := execread.FloatReader{Order: endian.Native()}

	raw := make([]byte, s.cfg.SampleSize*4)
	block := make([]input.Sample, s.cfg.SampleSize)

	for {
		if _, err := io.ReadFull(s.src, raw); err != nil {
			if ctx.Err() != nil ||
				errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}

			return errors.Wrap(err, "failed to read samples")
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
