package purr

import (
	"context"
	"errors"
	"fmt"

	"github.com/winterveil/purr/dsp"
	"github.com/winterveil/purr/processor"
)

// MaxSampleSize bounds the block length; anything larger stops being
// a realtime pipeline.
const MaxSampleSize = 1 << 15

type (
	// SetupFunc runs once the pipeline is built, before anything
	// starts. The collaborator that will poll the processor hooks in
	// here.
	SetupFunc func(proc *processor.Processor) error
	// StartFunc starts the collaborator and may derive the context the
	// pipeline runs under.
	StartFunc func(ctx context.Context) (context.Context, error)
	// CleanupFunc runs on the way out, after the pipeline stopped.
	CleanupFunc func() error
)

type Config struct {
	// The name of the backend from the input package. Empty picks the
	// platform default.
	Backend string
	// The name of the device to pull samples from
	Device string
	// The rate that samples are read at
	SampleRate float64
	// The number of samples per block
	SampleSize int
	// Seconds of waveform history kept for the display
	WindowSeconds float64
	// Queued blocks before the oldest is dropped (0 for the default)
	QueueDepth int
	// The lowest frequency the peak search considers
	MinFrequency float64
	// Linear magnitude a bin must exceed to count as a pitch
	NoiseFloor float64
	// Correction applied to raw peak frequencies
	Calibration dsp.Calibration
	// Called with the sequence number of every dropped block
	OnDrop func(seq uint64)

	// Function to call when setting up the pipeline
	SetupFunc SetupFunc
	// Function to call when starting the pipeline
	StartFunc StartFunc
	// Function to call when cleaning up the pipeline
	CleanupFunc CleanupFunc
}

// NewZeroConfig returns the default config: concert-pitch tuning off a
// 44.1 kHz microphone in ~46 ms blocks.
func NewZeroConfig() Config {
	return Config{
		SampleRate:    44100,
		SampleSize:    2048,
		WindowSeconds: 2,
		QueueDepth:    processor.DefaultQueueDepth,
		MinFrequency:  20,
		NoiseFloor:    1,
		Calibration:   dsp.Identity,
	}
}

func (cfg *Config) Validate() error {
	switch {
	case cfg.SampleRate < float64(cfg.SampleSize):
		return errors.New("sample rate lower than sample size")

	case cfg.SampleSize < 4:
		return errors.New("sample size too small (4+ required)")

	case cfg.SampleSize > MaxSampleSize:
		return fmt.Errorf("sample size too large (%d max)", MaxSampleSize)

	case cfg.WindowSeconds <= 0:
		return errors.New("window seconds must be positive")

	case cfg.WindowSeconds*cfg.SampleRate < float64(cfg.SampleSize):
		return errors.New("history window shorter than one block")

	case cfg.QueueDepth < 0:
		return errors.New("queue depth must not be negative")

	case cfg.MinFrequency < 0:
		return errors.New("minimum frequency must not be negative")

	case cfg.MinFrequency >= cfg.SampleRate/2:
		return errors.New("minimum frequency above the nyquist limit")

	case cfg.NoiseFloor < 0:
		return errors.New("noise floor must not be negative")

	case cfg.Calibration.Scale == 0:
		return errors.New("calibration scale must not be zero")
	}

	return nil
}
