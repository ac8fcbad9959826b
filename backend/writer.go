package backend

import (
	"io"
	"sync"
)

// Writer adapts any io.Writer into a backend. Writes are serialized with an
// internal mutex. Flush forwards to the writer when it has a Flush method
// and is a no-op otherwise; Close likewise forwards when the writer is an
// io.Closer.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a backend writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write implements core.Backend.
func (b *Writer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.w.Write(p)
}

// Flush implements core.Backend.
func (b *Writer) Flush() error {
	type flusher interface{ Flush() error }
	b.mu.Lock()
	defer b.mu.Unlock()
	if f, ok := b.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// Close closes the underlying writer when it is an io.Closer.
func (b *Writer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// WantsSynchronization reports false: the backend serializes its own writes.
func (b *Writer) WantsSynchronization() bool { return false }
