package main

import (
	"errors"

	"github.com/winterveil/purr/graphic"
	"github.com/winterveil/purr/processor"
)

// config collects every command line knob before it is split across
// the pipeline and display configs.
type config struct {
	// backend is the backend name from list-backends
	backend string
	// device is the device name from list-devices
	device string
	// sampleRate is the rate at which samples are read
	sampleRate float64
	// sampleSize is the number of samples per block
	sampleSize int
	// queueDepth is how many blocks may wait before the oldest drops
	queueDepth int
	// windowSeconds is how much waveform history we keep
	windowSeconds float64
	// plotSeconds is how much of that history we draw
	plotSeconds float64
	// frameRate is the number of frames to draw every second
	frameRate int
	// holdLast keeps the last reading on screen through silence
	holdLast bool
	// minFreq is the lowest frequency the peak search considers
	minFreq float64
	// noiseFloor is the magnitude a peak must clear to count
	noiseFloor float64
	// scale multiplies every raw frequency, from 'purr calibrate'
	scale float64
	// offsetHz is added after scaling, from 'purr calibrate'
	offsetHz float64
	// printRaw prints readings to stdout instead of drawing
	printRaw bool
}

// newZeroConfig returns a zero config
// it is the "default"
func newZeroConfig() config {
	return config{
		sampleRate:    44100,
		sampleSize:    2048,
		queueDepth:    processor.DefaultQueueDepth,
		windowSeconds: 2,
		plotSeconds:   0.1,
		frameRate:     graphic.DefaultFrameRate,
		minFreq:       20,
		noiseFloor:    1,
		scale:         1,
	}
}

// validate covers the knobs that never reach purr.Config; the pipeline
// validates the rest.
func (cfg *config) validate() error {
	switch {
	case cfg.plotSeconds <= 0:
		return errors.New("plot seconds must be positive")

	case cfg.plotSeconds > cfg.windowSeconds:
		return errors.New("plot window longer than the history window")
	}

	return nil
}
