package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/winterveil/purr"
	"github.com/winterveil/purr/dsp"
	"github.com/winterveil/purr/graphic"
	"github.com/winterveil/purr/input"
	"github.com/winterveil/purr/processor"

	_ "github.com/winterveil/purr/input/all"

	"github.com/integrii/flaggy"
)

// AppName is the app name
const AppName = "purr"

// AppDesc is the app description
const AppDesc = "Pitch Understanding & Realtime Readout"

// AppSite is the app website
const AppSite = "https://github.com/winterveil/purr"

var version = "unknown"

func main() {
	log.SetFlags(0)

	cfg := newZeroConfig()

	if doFlags(&cfg) {
		return
	}

	chk(cfg.validate(), "invalid config")

	purrCfg := purr.Config{
		Backend:       cfg.backend,
		Device:        cfg.device,
		SampleRate:    cfg.sampleRate,
		SampleSize:    cfg.sampleSize,
		WindowSeconds: cfg.windowSeconds,
		QueueDepth:    cfg.queueDepth,
		MinFrequency:  cfg.minFreq,
		NoiseFloor:    cfg.noiseFloor,
		Calibration: dsp.Calibration{
			Scale:    cfg.scale,
			OffsetHz: cfg.offsetHz,
		},
	}

	if cfg.printRaw {
		hookRawOutput(&purrCfg, &cfg)
	} else {
		hookDisplay(&purrCfg, &cfg)
	}

	// Root Context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	chk(purr.Run(&purrCfg, ctx), "failed to run purr")
}

// hookDisplay points the lifecycle hooks at the termbox display.
func hookDisplay(purrCfg *purr.Config, cfg *config) {
	var display *graphic.Display

	purrCfg.SetupFunc = func(proc *processor.Processor) error {
		d, err := graphic.New(graphic.Config{
			Source:      proc,
			PlotSamples: int(cfg.plotSeconds * cfg.sampleRate),
			FrameRate:   cfg.frameRate,
			HoldLast:    cfg.holdLast,
		})
		if err != nil {
			return err
		}

		display = d

		return display.Init()
	}

	purrCfg.StartFunc = func(ctx context.Context) (context.Context, error) {
		ctx = display.Start(ctx)

		return ctx, nil
	}

	purrCfg.CleanupFunc = func() error {
		display.Stop()
		display.Close()
		return nil
	}
}

// hookRawOutput points the lifecycle hooks at the stdout printer and
// sends drop notices to the log, where they cannot garble a UI.
func hookRawOutput(purrCfg *purr.Config, cfg *config) {
	output := NewRawOutput(cfg.frameRate)

	purrCfg.OnDrop = func(seq uint64) {
		log.Printf("dropped block %d", seq)
	}

	purrCfg.SetupFunc = func(proc *processor.Processor) error {
		output.source = proc
		return nil
	}

	purrCfg.StartFunc = func(ctx context.Context) (context.Context, error) {
		ctx = output.Start(ctx)

		return ctx, nil
	}

	purrCfg.CleanupFunc = func() error {
		output.Stop()
		return nil
	}
}

func doFlags(cfg *config) bool {

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.Version = version

	listBackendsCmd := flaggy.Subcommand{
		Name:                 "list-backends",
		ShortName:            "lb",
		Description:          "list all supported backends",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listBackendsCmd, 1)

	listDevicesCmd := flaggy.Subcommand{
		Name:                 "list-devices",
		ShortName:            "ld",
		Description:          "list all devices for a backend",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listDevicesCmd, 1)

	calibrateCmd := flaggy.Subcommand{
		Name:                 "calibrate",
		ShortName:            "cal",
		Description:          "derive a calibration from two measured reference tones",
		AdditionalHelpAppend: "\nplay two known tones, note the readings, then pass all four values",
	}

	var freq1, measured1, freq2, measured2 float64
	calibrateCmd.Float64(&freq1, "f1", "freq1", "true frequency of the first tone")
	calibrateCmd.Float64(&measured1, "m1", "measured1", "measured frequency of the first tone")
	calibrateCmd.Float64(&freq2, "f2", "freq2", "true frequency of the second tone")
	calibrateCmd.Float64(&measured2, "m2", "measured2", "measured frequency of the second tone")

	parser.AttachSubcommand(&calibrateCmd, 1)

	parser.String(&cfg.backend, "b", "backend", "backend name")
	parser.String(&cfg.device, "d", "device", "device name")
	parser.Float64(&cfg.sampleRate, "r", "rate", "sample rate")
	parser.Int(&cfg.sampleSize, "n", "samples", "sample size")
	parser.Int(&cfg.queueDepth, "q", "queue", "queued blocks before the oldest is dropped")
	parser.Float64(&cfg.windowSeconds, "w", "window", "seconds of waveform history to keep")
	parser.Float64(&cfg.plotSeconds, "p", "plot", "seconds of waveform to draw")
	parser.Int(&cfg.frameRate, "f", "fps", "frame rate")
	parser.Bool(&cfg.holdLast, "hl", "hold", "keep the last reading on screen through silence")
	parser.Float64(&cfg.minFreq, "mf", "minfreq", "lowest frequency considered a pitch")
	parser.Float64(&cfg.noiseFloor, "nf", "floor", "linear magnitude a peak must clear")
	parser.Float64(&cfg.scale, "sc", "scale", "calibration scale from 'purr calibrate'")
	parser.Float64(&cfg.offsetHz, "of", "offset", "calibration offset in Hz from 'purr calibrate'")
	parser.Bool(&cfg.printRaw, "pr", "print", "print readings to stdout instead of drawing")

	chk(parser.Parse(), "failed to parse arguments")

	switch {
	case listBackendsCmd.Used:
		for _, backend := range input.Backends {
			fmt.Printf("- %s\n", backend.Name)
		}

		return true

	case listDevicesCmd.Used:
		backendName := cfg.backend
		if backendName == "" {
			backendName = input.DefaultBackend()
		}

		backend, err := input.InitBackend(backendName)
		chk(err, "failed to init backend")

		devices, err := backend.Devices()
		chk(err, "failed to get devices")

		// We don't really need the default device to be indicated.
		defaultDevice, _ := backend.DefaultDevice()

		fmt.Printf("all devices for %q backend. '*' marks default\n", backendName)

		for idx := range devices {
			star := ' '
			if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
				star = '*'
			}

			fmt.Printf("- %v %c\n", devices[idx], star)
		}

		return true

	case calibrateCmd.Used:
		cal, err := dsp.DeriveCalibration(freq1, freq2, measured1, measured2)
		chk(err, "failed to derive calibration")

		fmt.Printf("scale: %v\noffset: %v Hz\n", cal.Scale, cal.OffsetHz)
		fmt.Printf("run with '-sc %v -of %v'\n", cal.Scale, cal.OffsetHz)

		return true
	}

	return false
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
