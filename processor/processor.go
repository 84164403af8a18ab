// Package processor runs the capture-to-reading pipeline: blocks of
// samples come in from an input session, pass through the analyzer and
// the pitch mapper, and land in a reading the display polls for.
package processor

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/winterveil/purr/dsp"
	"github.com/winterveil/purr/pitch"
	"github.com/winterveil/purr/ring"
)

// DefaultQueueDepth is the submit queue bound used when the config
// leaves QueueDepth zero.
const DefaultQueueDepth = 8

// ErrBlockSize is returned by Submit when a block's length does not
// match the analyzer's sample size.
var ErrBlockSize = errors.New("wrong block size")

// Block is one run of samples tagged with its arrival order.
type Block struct {
	Seq     uint64
	Samples []float64
}

// Config is the pipeline setup.
type Config struct {
	QueueDepth  int              // queued blocks before the oldest is dropped
	Analyzer    *dsp.Analyzer    // spectral peak estimator
	Calibration dsp.Calibration  // correction applied to raw peak frequencies
	Waveform    *ring.Buffer     // rolling history of accepted samples
	OnDrop      func(seq uint64) // called with the sequence of every evicted block
}

// Processor consumes sample blocks submitted by an input session and
// publishes the most recent pitch reading. Submissions never block the
// capture side; when the consumer falls behind, the oldest queued
// block is evicted.
type Processor struct {
	cfg  Config
	size int

	queue chan Block

	// Recycled sample buffers. Submit prefers one of these so the
	// steady state does not allocate per block.
	free chan []float64

	seq     atomic.Uint64
	dropped atomic.Uint64
	latest  atomic.Pointer[pitch.Reading]

	cancel context.CancelFunc
	done   chan struct{}
}

// New validates cfg and builds a pipeline around the given analyzer.
// The block size is the analyzer's sample size.
func New(cfg Config) (*Processor, error) {
	switch {
	case cfg.Analyzer == nil:
		return nil, errors.New("nil analyzer")

	case cfg.Waveform == nil:
		return nil, errors.New("nil waveform buffer")

	case cfg.QueueDepth < 0:
		return nil, errors.New("queue depth must not be negative")

	case cfg.Calibration.Scale == 0:
		return nil, errors.New("calibration scale must not be zero")
	}

	if cfg.QueueDepth == 0 {
		cfg.QueueDepth = DefaultQueueDepth
	}

	size := cfg.Analyzer.SampleSize()

	proc := &Processor{
		cfg:   cfg,
		size:  size,
		queue: make(chan Block, cfg.QueueDepth),
		free:  make(chan []float64, cfg.QueueDepth+2),
		done:  make(chan struct{}),
	}

	for i := 0; i < cap(proc.free); i++ {
		proc.free <- make([]float64, size)
	}

	return proc, nil
}

// Submit copies samples into the queue and returns without waiting for
// the consumer. When the queue is full the oldest queued block is
// evicted to make room; the drop is counted and reported through OnDrop.
func (p *Processor) Submit(samples []float64) error {
	if len(samples) != p.size {
		return errors.Wrapf(ErrBlockSize, "got %d samples, want %d", len(samples), p.size)
	}

	var buf []float64
	select {
	case buf = <-p.free:
	default:
		buf = make([]float64, p.size)
	}
	copy(buf, samples)

	block := Block{Seq: p.seq.Add(1), Samples: buf}

	for {
		select {
		case p.queue <- block:
			return nil
		default:
		}

		select {
		case old := <-p.queue:
			p.dropped.Add(1)
			p.recycle(old.Samples)

			if p.cfg.OnDrop != nil {
				p.cfg.OnDrop(old.Seq)
			}
		default:
			// The consumer took it first; retry the send.
		}
	}
}

// Start launches the consumer goroutine. The returned context is
// derived from ctx and ends when the consumer stops, whether through
// ctx, Stop, or both.
func (p *Processor) Start(ctx context.Context) context.Context {
	ctx, p.cancel = context.WithCancel(ctx)

	go p.run(ctx)

	return ctx
}

func (p *Processor) run(ctx context.Context) {
	defer close(p.done)

	for {
		// Shutdown wins over a ready block.
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case block := <-p.queue:
			p.process(block)
		}
	}
}

// process handles one block in arrival order.
func (p *Processor) process(block Block) {
	p.cfg.Waveform.Write(block.Samples)

	peak, ok := p.cfg.Analyzer.Analyze(block.Samples)
	p.recycle(block.Samples)

	if !ok {
		p.latest.Store(nil)
		return
	}

	reading, err := pitch.FromFrequency(p.cfg.Calibration.Apply(peak.Freq))
	if err != nil {
		// A miscalibrated peak can land at or below zero; treat it
		// like silence rather than publishing garbage.
		p.latest.Store(nil)
		return
	}

	p.latest.Store(&reading)
}

func (p *Processor) recycle(buf []float64) {
	select {
	case p.free <- buf:
	default:
	}
}

// Stop cancels the consumer and waits for it to finish. In-flight
// blocks are discarded, not drained.
func (p *Processor) Stop() {
	if p.cancel == nil {
		return
	}

	p.cancel()
	<-p.done
}

// Latest returns the reading from the most recent analyzed block. ok
// is false before the first voiced block and after a silent one.
func (p *Processor) Latest() (pitch.Reading, bool) {
	r := p.latest.Load()
	if r == nil {
		return pitch.Reading{}, false
	}

	return *r, true
}

// Waveform copies out the newest n accepted samples, oldest first.
func (p *Processor) Waveform(n int) []float64 {
	return p.cfg.Waveform.Tail(n)
}

// DroppedBlocks reports how many queued blocks were evicted so far.
func (p *Processor) DroppedBlocks() uint64 {
	return p.dropped.Load()
}
