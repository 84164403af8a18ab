// Package purr turns microphone audio into a live pitch readout: it
// captures fixed-size sample blocks, finds the dominant spectral peak
// of each one, refines it below bin resolution, and publishes the
// result as a musical note reading.
package purr

import (
	"context"

	"github.com/pkg/errors"

	"github.com/winterveil/purr/dsp"
	"github.com/winterveil/purr/input"
	"github.com/winterveil/purr/processor"
	"github.com/winterveil/purr/ring"
)

// Run wires the whole pipeline together and blocks until ctx ends, the
// collaborator started by cfg.StartFunc quits, or capture fails.
func Run(cfg *Config, ctx context.Context) (err error) {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// PIPELINE SETUP

	anlz, err := dsp.NewAnalyzer(dsp.AnalyzerConfig{
		SampleRate: cfg.SampleRate,
		SampleSize: cfg.SampleSize,
		MinFreq:    cfg.MinFrequency,
		NoiseFloor: cfg.NoiseFloor,
	})
	if err != nil {
		return errors.Wrap(err, "failed to build the analyzer")
	}

	proc, err := processor.New(processor.Config{
		QueueDepth:  cfg.QueueDepth,
		Analyzer:    anlz,
		Calibration: cfg.Calibration,
		Waveform:    ring.New(int(cfg.WindowSeconds * cfg.SampleRate)),
		OnDrop:      cfg.OnDrop,
	})
	if err != nil {
		return errors.Wrap(err, "failed to build the processor")
	}

	// INPUT SETUP

	backendName := cfg.Backend
	if backendName == "" {
		backendName = input.DefaultBackend()
	}

	backend, err := input.InitBackend(backendName)
	if err != nil {
		return err
	}
	defer backend.Close()

	sessConfig := input.SessionConfig{
		SampleRate: cfg.SampleRate,
		SampleSize: cfg.SampleSize,
	}

	if sessConfig.Device, err = input.GetDevice(backend, cfg.Device); err != nil {
		return err
	}

	audio, err := backend.Start(sessConfig)
	if err != nil {
		return errors.Wrap(err, "failed to start the input backend")
	}

	// COLLABORATOR SETUP

	if cfg.SetupFunc != nil {
		if err := cfg.SetupFunc(proc); err != nil {
			return errors.Wrap(err, "failed to set up")
		}
	}

	if cfg.CleanupFunc != nil {
		defer func() {
			if cerr := cfg.CleanupFunc(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}

	if cfg.StartFunc != nil {
		if ctx, err = cfg.StartFunc(ctx); err != nil {
			return errors.Wrap(err, "failed to start")
		}
	}

	ctx = proc.Start(ctx)
	defer proc.Stop()

	if err := audio.Start(ctx, proc); err != nil {
		if !errors.Is(ctx.Err(), context.Canceled) {
			return errors.Wrap(err, "failed to run the input session")
		}
	}

	return nil
}
