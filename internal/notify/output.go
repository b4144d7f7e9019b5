package notify

import (
	"os"
	"sync"
)

// SharedOutput is a terminal file whose writes are serialized. A
// full-screen program and a notifier that share one SharedOutput never
// interleave within a single write, so escape sequences land between
// rendered frames.
type SharedOutput struct {
	mu sync.Mutex
	f  *os.File
}

// NewSharedOutput wraps f.
func NewSharedOutput(f *os.File) *SharedOutput {
	return &SharedOutput{f: f}
}

// Write writes p as one unit.
func (o *SharedOutput) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.f.Write(p)
}

func (o *SharedOutput) Read(p []byte) (int, error) { return o.f.Read(p) }

// Fd returns the descriptor of the wrapped file for terminal detection.
func (o *SharedOutput) Fd() uintptr { return o.f.Fd() }

// Close leaves the wrapped file open; its owner closes it.
func (o *SharedOutput) Close() error { return nil }
