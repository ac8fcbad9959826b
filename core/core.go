package core

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Core is the dispatch point between loggers and sinks. It owns a top-level
// filter, a default formatter handed to newly attached sinks that lack one,
// and an ordered sink collection that may change while records flow.
//
// The sink list is kept as a copy-on-write snapshot: dispatch iterates the
// snapshot it loaded, so adding or removing sinks never tears a running
// dispatch. Sinks are shared handles; the same sink may be attached to
// several cores, which is why the core flushes sinks but never closes them.
type Core struct {
	filter    atomic.Pointer[filterHolder]
	sinks     atomic.Pointer[[]*Sink]
	defaultFm atomic.Pointer[formatterHolder]
	syncMode  atomic.Bool

	mu sync.Mutex
}

// NewCore returns an empty core that accepts every record it is offered and
// has no sinks attached.
func NewCore() *Core {
	return &Core{}
}

// NopCore returns a core that rejects every record. Loggers bind to it when
// they must stay valid but silent.
func NopCore() *Core {
	c := NewCore()
	c.SetFilter(Filter{Severities: NoSeverities()})
	return c
}

// Filter returns the core's own filter.
func (c *Core) Filter() Filter {
	if h := c.filter.Load(); h != nil {
		return h.flt
	}
	return Filter{}
}

// SetFilter replaces the core's own filter. Safe to call while records flow.
func (c *Core) SetFilter(flt Filter) {
	c.filter.Store(&filterHolder{flt: flt})
}

// DefaultFormatter returns the formatter assigned to newly attached sinks
// that have none, or nil when unset.
func (c *Core) DefaultFormatter() Formatter {
	if h := c.defaultFm.Load(); h != nil {
		return h.f
	}
	return nil
}

// SetDefaultFormatter sets the formatter assigned to newly attached sinks
// that have none. Already attached sinks keep theirs.
func (c *Core) SetDefaultFormatter(f Formatter) {
	c.defaultFm.Store(&formatterHolder{f: f})
}

// SetAllFormatters replaces the formatter of every attached sink and makes f
// the default for sinks attached later.
func (c *Core) SetAllFormatters(f Formatter) {
	c.SetDefaultFormatter(f)
	for _, s := range c.snapshot() {
		s.SetFormatter(f)
	}
}

func (c *Core) snapshot() []*Sink {
	if p := c.sinks.Load(); p != nil {
		return *p
	}
	return nil
}

// AddSink attaches s. A sink without a formatter receives the core's
// default; the core's synchronous-mode flag is forwarded to backends that
// care. Attaching the same sink twice is a no-op.
func (c *Core) AddSink(s *Sink) {
	if s == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.snapshot()
	for _, have := range old {
		if have == s {
			return
		}
	}
	if f := c.DefaultFormatter(); f != nil {
		s.setDefaultFormatter(f)
	}
	if sm, ok := s.backend.(SynchronousModer); ok {
		sm.SetSynchronousMode(c.syncMode.Load())
	}
	next := make([]*Sink, len(old)+1)
	copy(next, old)
	next[len(old)] = s
	c.sinks.Store(&next)
}

// RemoveSink detaches s and reports whether it was attached. The sink itself
// stays open; it may still be attached elsewhere.
func (c *Core) RemoveSink(s *Sink) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.snapshot()
	for i, have := range old {
		if have == s {
			next := make([]*Sink, 0, len(old)-1)
			next = append(next, old[:i]...)
			next = append(next, old[i+1:]...)
			c.sinks.Store(&next)
			return true
		}
	}
	return false
}

// RemoveAllSinks detaches every sink without closing any of them.
func (c *Core) RemoveAllSinks() {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]*Sink, 0)
	c.sinks.Store(&next)
}

// FindSink returns the attached sink with the given identity, or nil.
func (c *Core) FindSink(id uuid.UUID) *Sink {
	for _, s := range c.snapshot() {
		if s.id == id {
			return s
		}
	}
	return nil
}

// Sinks returns a copy of the attached sinks in attachment order.
func (c *Core) Sinks() []*Sink {
	snap := c.snapshot()
	out := make([]*Sink, len(snap))
	copy(out, snap)
	return out
}

// NumSinks returns the number of attached sinks.
func (c *Core) NumSinks() int { return len(c.snapshot()) }

// WillAccept reports whether a record with the given attributes would reach
// at least one sink. Loggers call it before capturing message values, so a
// rejected record costs no formatting work at all.
func (c *Core) WillAccept(attrs *RecordAttributes) bool {
	if !c.Filter().Accepts(attrs) {
		return false
	}
	for _, s := range c.snapshot() {
		if s.WillAccept(attrs) {
			return true
		}
	}
	return false
}

// Dispatch offers rec to every accepting sink. A failing sink does not stop
// dispatch to the remaining ones; all failures come back joined, each
// wrapped with the sink's identity.
func (c *Core) Dispatch(rec *Record) error {
	if !c.Filter().Accepts(&rec.Attributes) {
		return nil
	}
	var err error
	for _, s := range c.snapshot() {
		if !s.WillAccept(&rec.Attributes) {
			continue
		}
		if derr := s.Dispatch(rec); derr != nil {
			err = multierr.Append(err, fmt.Errorf("sink %s: %w", s.Name(), derr))
		}
	}
	return err
}

// Flush flushes every attached sink, joining any failures.
func (c *Core) Flush() error {
	var err error
	for _, s := range c.snapshot() {
		if ferr := s.Flush(); ferr != nil {
			err = multierr.Append(err, fmt.Errorf("sink %s: %w", s.Name(), ferr))
		}
	}
	return err
}

// SetSynchronous records the caller's blocking intent and forwards it to
// every attached backend that implements SynchronousModer. Backends may
// ignore it; the core always calls backends synchronously from its own
// perspective either way.
func (c *Core) SetSynchronous(on bool) {
	c.syncMode.Store(on)
	for _, s := range c.snapshot() {
		if sm, ok := s.backend.(SynchronousModer); ok {
			sm.SetSynchronousMode(on)
		}
	}
}

// Synchronous returns the current synchronous-mode flag.
func (c *Core) Synchronous() bool { return c.syncMode.Load() }
