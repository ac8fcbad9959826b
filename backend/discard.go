package backend

// Discard drops everything written to it. It serves as a dispatch target
// when only filtering or formatting behavior is of interest, and as a
// baseline in benchmarks.
type Discard struct{}

// NewDiscard returns the dropping backend.
func NewDiscard() Discard { return Discard{} }

// Write implements core.Backend.
func (Discard) Write(p []byte) (int, error) { return len(p), nil }

// Flush implements core.Backend.
func (Discard) Flush() error { return nil }

// WantsSynchronization reports false: dropping needs no serialization.
func (Discard) WantsSynchronization() bool { return false }
