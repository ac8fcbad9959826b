package benchmark

import "sync/atomic"

// noopBackend swallows formatted payloads while counting writes, so the
// dispatch pipeline can be measured without any I/O in the way.
type noopBackend struct {
	writes atomic.Uint64
}

func newNoopBackend() *noopBackend {
	return &noopBackend{}
}

func (b *noopBackend) Write(p []byte) (int, error) {
	b.writes.Add(1)
	return len(p), nil
}

func (b *noopBackend) Flush() error {
	return nil
}
