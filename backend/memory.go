package backend

import (
	"sync"
)

// Memory captures everything written to it, mainly for tests and in-process
// inspection. It is safe for concurrent use.
type Memory struct {
	mu  sync.Mutex
	buf []byte
}

// NewMemory returns an empty capture backend.
func NewMemory() *Memory {
	return &Memory{}
}

// Write implements core.Backend.
func (b *Memory) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// Flush implements core.Backend.
func (b *Memory) Flush() error { return nil }

// Bytes returns a copy of everything written so far.
func (b *Memory) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out
}

// String returns everything written so far.
func (b *Memory) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

// Reset discards the captured output.
func (b *Memory) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = b.buf[:0]
}

// WantsSynchronization reports false: the backend serializes its own writes.
func (b *Memory) WantsSynchronization() bool { return false }
