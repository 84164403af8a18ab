// Package graphic draws the live waveform and the current pitch
// reading on a termbox screen.
package graphic

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"

	"github.com/winterveil/purr/pitch"
	"github.com/winterveil/purr/util"
)

const (
	// BarRune is the rune we draw for full cells
	BarRune = '█'
	// BarRuneR is the rune base for the partial ramp; BarRuneR+k is the
	// lower k/8 block
	BarRuneR = '▀'

	// NumRunes number of runes for sub step bars
	NumRunes = 8

	// DefaultFrameRate is used when the config leaves FrameRate zero.
	DefaultFrameRate = 60

	// ScalingSlowWindow in seconds
	ScalingSlowWindow = 5
	// ScalingFastWindow in seconds
	ScalingFastWindow = ScalingSlowWindow * 0.2
	// ScalingDumpPercent is how much we erase on rescale
	ScalingDumpPercent = 0.60
	// ScalingResetDeviation standard deviations from the mean before reset
	ScalingResetDeviation = 1.0

	// scaleFloor keeps silent input from dividing the plot by zero.
	scaleFloor = 1e-4

	// noSignal is the title shown while the pipeline reports no pitch.
	noSignal = "-- Hz"
)

var (
	StyleDefault     = termbox.ColorDefault
	StyleDefaultBack = termbox.ColorDefault
	StyleCenter      = termbox.ColorMagenta
	StyleReverse     = termbox.ColorDefault | termbox.AttrReverse
	StyleTitle       = termbox.ColorDefault | termbox.AttrBold
	StyleHeld        = termbox.ColorDefault | termbox.AttrDim
)

// Source is the pipeline state the display polls every frame.
type Source interface {
	Latest() (pitch.Reading, bool)
	Waveform(n int) []float64
	DroppedBlocks() uint64
}

// Config is the display setup.
type Config struct {
	Source      Source // pipeline to poll
	PlotSamples int    // newest samples spread across the width
	FrameRate   int    // draws per second
	HoldLast    bool   // keep showing the last reading through silence
}

// Display owns the terminal. Lifecycle: New, Init, Start, and on the
// way out Stop then Close.
type Display struct {
	cfg Config

	slowWindow *util.MovingWindow
	fastWindow *util.MovingWindow

	hold      atomic.Bool
	lastTitle string

	restore  func()
	cancel   context.CancelFunc
	stopOnce sync.Once
	pollDone chan struct{}
	drawDone chan struct{}
}

// New validates cfg and sizes the amplitude scaling windows. It does
// not touch the terminal yet.
func New(cfg Config) (*Display, error) {
	switch {
	case cfg.Source == nil:
		return nil, errors.New("nil source")

	case cfg.PlotSamples < 1:
		return nil, errors.New("plot sample count too small (1+ required)")

	case cfg.FrameRate < 0:
		return nil, errors.New("frame rate must not be negative")
	}

	rate := cfg.FrameRate
	if rate == 0 {
		rate = DefaultFrameRate
	}

	d := &Display{
		cfg:        cfg,
		slowWindow: util.NewMovingWindow(ScalingSlowWindow * rate),
		fastWindow: util.NewMovingWindow(int(ScalingFastWindow * float64(rate))),
	}
	d.hold.Store(cfg.HoldLast)

	return d, nil
}

// Init takes over the terminal. Close restores it.
func (d *Display) Init() error {
	restore, err := normalizeTerminal()
	if err != nil {
		return errors.Wrap(err, "failed to normalize terminal")
	}
	d.restore = restore

	if err := termbox.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize termbox")
	}

	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()

	return nil
}

// Start spawns the event poller and the draw loop. The returned
// context is derived from ctx and ends when the user quits; Stop must
// still be called to reclaim the goroutines.
func (d *Display) Start(ctx context.Context) context.Context {
	ctx, d.cancel = context.WithCancel(ctx)

	d.pollDone = make(chan struct{})
	d.drawDone = make(chan struct{})

	go d.eventPoller(d.cancel)
	go d.drawLoop(ctx)

	return ctx
}

// eventPoller handles keys until Stop interrupts it. Quitting only
// cancels the run context; the poll loop itself stays alive so that
// the interrupt always has a receiver.
func (d *Display) eventPoller(cancel context.CancelFunc) {
	defer close(d.pollDone)

	for {
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventInterrupt:
			return

		case termbox.EventError:
			// Input is broken; all we can do is ask for teardown.
			cancel()

		case termbox.EventKey:
			switch {
			case ev.Key == termbox.KeyEsc, ev.Key == termbox.KeyCtrlC:
				cancel()

			case ev.Ch == 'q', ev.Ch == 'Q':
				cancel()

			case ev.Ch == 'h', ev.Ch == 'H':
				d.hold.Store(!d.hold.Load())
			}
		}
	}
}

func (d *Display) drawLoop(ctx context.Context) {
	defer close(d.drawDone)

	rate := d.cfg.FrameRate
	if rate <= 0 {
		rate = DefaultFrameRate
	}

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.draw()
		}
	}
}

// Stop shuts both goroutines down and waits for them. Safe to call
// more than once, or without a prior Start.
func (d *Display) Stop() error {
	d.stopOnce.Do(func() {
		if d.cancel != nil {
			d.cancel()
		}

		if d.pollDone != nil {
			termbox.Interrupt()
			<-d.pollDone
		}

		if d.drawDone != nil {
			<-d.drawDone
		}
	})

	return nil
}

// Close releases the terminal and undoes Init's environment changes.
func (d *Display) Close() error {
	termbox.Close()

	if d.restore != nil {
		d.restore()
	}

	return nil
}

func (d *Display) draw() {
	termbox.Clear(StyleDefault, StyleDefaultBack)

	width, height := termbox.Size()

	d.drawTitle(width)

	if height > 1 {
		d.drawWaveform(width, height)
	}

	termbox.Flush()
}

func (d *Display) drawTitle(width int) {
	title, style := d.titleText()
	drawText(0, 0, width, title, style, StyleDefaultBack)

	if n := d.cfg.Source.DroppedBlocks(); n > 0 {
		text := fmt.Sprintf("dropped: %d", n)

		if x := width - len(text); x > len(title) {
			drawText(x, 0, width, text, StyleDefault, StyleDefaultBack)
		}
	}
}

// titleText picks the status line for the current frame.
func (d *Display) titleText() (string, termbox.Attribute) {
	if r, ok := d.cfg.Source.Latest(); ok {
		d.lastTitle = r.String()
		return d.lastTitle, StyleTitle
	}

	if d.hold.Load() && d.lastTitle != "" {
		return d.lastTitle + " (held)", StyleHeld
	}

	return noSignal, StyleTitle
}

func (d *Display) drawWaveform(width, height int) {
	samples := d.cfg.Source.Waveform(d.cfg.PlotSamples)

	// Row 0 is the title; the plot is centered in the rest.
	plotRows := height - 1
	center := 1 + plotRows/2

	// Bars fit the shorter half so both sides stay symmetric.
	cells := center - 1
	if down := height - 1 - center; down < cells {
		cells = down
	}

	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	scale := d.updateWindow(peak, float64(cells))

	for col := 0; col < width; col++ {
		termbox.SetCell(col, center, BarRune, StyleCenter, StyleDefaultBack)

		if len(samples) == 0 || cells < 1 {
			continue
		}

		v := samples[sampleIndex(col, width, len(samples))] * scale

		if v >= 0 {
			full, eighths := barCells(v, cells)

			for row := center - full; row < center; row++ {
				termbox.SetCell(col, row, BarRune, StyleDefault, StyleDefaultBack)
			}

			if eighths > 0 {
				termbox.SetCell(col, center-full-1,
					BarRuneR+rune(eighths), StyleDefault, StyleDefaultBack)
			}
		} else {
			full, eighths := barCells(-v, cells)

			for row := center + 1; row <= center+full; row++ {
				termbox.SetCell(col, row, BarRune, StyleDefault, StyleDefaultBack)
			}

			if eighths > 0 {
				// No rune family hangs from the top of the cell; draw
				// the lower complement with the colors flipped.
				termbox.SetCell(col, center+full+1,
					BarRune-rune(eighths), StyleReverse, StyleDefault)
			}
		}
	}
}

// updateWindow folds the frame peak into the scaling windows and
// returns the amplitude-to-cells scale. A burst that pulls the fast
// mean away from the slow one dumps old history so the plot recovers
// quickly after volume changes.
func (d *Display) updateWindow(peak, height float64) float64 {
	if peak <= 0 {
		return 0
	}

	d.fastWindow.Update(peak)
	mean, stddev := d.slowWindow.Update(peak)

	if length := d.slowWindow.Len(); length >= d.fastWindow.Cap() {
		if math.Abs(d.fastWindow.Mean()-mean) > ScalingResetDeviation*stddev {
			mean, stddev = d.slowWindow.Drop(int(float64(length) * ScalingDumpPercent))
		}
	}

	return height / math.Max(mean+1.5*stddev, scaleFloor)
}

// barCells splits a bar value in cells into full cells and the eighth
// steps of its partial tip. value is clamped into [0, max].
func barCells(value float64, max int) (full, eighths int) {
	if math.IsNaN(value) || value <= 0 {
		return 0, 0
	}

	n := int(math.Min(value, float64(max)) * NumRunes)

	return n / NumRunes, n % NumRunes
}

// sampleIndex spreads n samples across width columns.
func sampleIndex(col, width, n int) int {
	return col * n / width
}

func drawText(x, y, width int, text string, fg, bg termbox.Attribute) {
	for _, r := range text {
		if x >= width {
			return
		}

		termbox.SetCell(x, y, r, fg, bg)
		x++
	}
}
