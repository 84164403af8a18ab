// Package ring implements the rolling sample store behind the waveform
// view.
package ring

import "sync"

// Buffer is a fixed-capacity ring of audio samples. Writes discard the
// oldest samples once the buffer is full. It is safe for one writer and
// any number of concurrent readers.
type Buffer struct {
	mu   sync.Mutex
	data []float64
	head int // next write position
	size int // written samples, size <= len(data)
}

// New returns a Buffer holding up to capacity samples. The capacity
// must be positive.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]float64, capacity)}
}

// Write appends samples, overwriting the oldest once the capacity is
// exceeded. A block larger than the capacity keeps only its trailing
// samples.
func (b *Buffer) Write(samples []float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(samples) > len(b.data) {
		samples = samples[len(samples)-len(b.data):]
	}

	n := copy(b.data[b.head:], samples)
	copy(b.data, samples[n:])

	b.head = (b.head + len(samples)) % len(b.data)

	if b.size += len(samples); b.size > len(b.data) {
		b.size = len(b.data)
	}
}

// Snapshot returns a copy of the buffered samples in chronological
// order, oldest first. Before the buffer has filled once, only the
// written samples are returned.
func (b *Buffer) Snapshot() []float64 {
	return b.Tail(len(b.data))
}

// Tail returns a copy of the newest n samples in chronological order.
// Fewer are returned when the buffer holds fewer.
func (b *Buffer) Tail(n int) []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n > b.size {
		n = b.size
	}

	if n <= 0 {
		return nil
	}

	start := b.head - n
	if start < 0 {
		start += len(b.data)
	}

	out := make([]float64, n)
	m := copy(out, b.data[start:])
	copy(out[m:], b.data)

	return out
}

// Len returns the number of samples currently held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.size
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}
