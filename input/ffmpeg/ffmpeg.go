// Package ffmpeg captures audio through ffmpeg's platform grabbers.
package ffmpeg

import (
	"fmt"

	"github.com/winterveil/purr/input"
	"github.com/winterveil/purr/input/common/execread"
)

// FFmpegBackend is a capture source ffmpeg knows how to read.
type FFmpegBackend interface {
	InputArgs() []string
}

// NewSession builds an ffmpeg command that resamples b down to one
// channel of f64le on stdout.
func NewSession(b FFmpegBackend, cfg input.SessionConfig) (*execread.Session, error) {
	args := []string{"ffmpeg", "-hide_banner", "-loglevel", "panic"}
	args = append(args, b.InputArgs()...)
	args = append(args,
		"-ar", fmt.Sprintf("%.0f", cfg.SampleRate),
		"-ac", "1",
		"-f", "f64le",
		"-",
	)

	return execread.NewSession(args, false, cfg), nil
}
