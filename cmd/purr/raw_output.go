package main

import (
	"context"
	"fmt"
	"time"

	"github.com/winterveil/purr/graphic"
	"github.com/winterveil/purr/processor"
)

// RawOutput prints readings to stdout, one line per change, for use in
// pipes and terminals not worth drawing on. Silence resets the
// deduplication so a re-struck note prints again.
type RawOutput struct {
	source *processor.Processor
	rate   int

	last   string
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRawOutput(rate int) *RawOutput {
	if rate <= 0 {
		rate = graphic.DefaultFrameRate
	}

	return &RawOutput{rate: rate}
}

// Start spawns the polling loop and returns a context that ends with
// it.
func (o *RawOutput) Start(ctx context.Context) context.Context {
	ctx, o.cancel = context.WithCancel(ctx)
	o.done = make(chan struct{})

	go o.run(ctx)

	return ctx
}

func (o *RawOutput) run(ctx context.Context) {
	defer close(o.done)

	ticker := time.NewTicker(time.Second / time.Duration(o.rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			o.print()
		}
	}
}

func (o *RawOutput) print() {
	reading, ok := o.source.Latest()
	if !ok {
		o.last = ""
		return
	}

	line := reading.String()
	if line == o.last {
		return
	}

	o.last = line
	fmt.Println(line)
}

// Stop ends the polling loop and waits for it.
func (o *RawOutput) Stop() {
	if o.cancel == nil {
		return
	}

	o.cancel()
	<-o.done
}
