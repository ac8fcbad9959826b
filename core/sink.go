package core

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// ErrNoFormatter is returned by Sink.Dispatch when neither the sink nor the
// core it was added to assigned a formatter.
var ErrNoFormatter = errors.New("core: sink has no formatter")

type formatterHolder struct{ f Formatter }

type filterHolder struct{ flt Filter }

// Sink pairs a backend with a filter, a formatter and formatting settings.
// Records reach the backend as formatted bytes; a record the formatter
// renders to nothing is not written at all, terminator included.
//
// Sinks serialize backend writes with an internal lock unless the backend
// reports through SynchronousHinter that it synchronizes itself, or the sink
// was built with WithUnlocked.
type Sink struct {
	id        uuid.UUID
	backend   Backend
	settings  FormattingSettings
	filter    atomic.Pointer[filterHolder]
	formatter atomic.Pointer[formatterHolder]

	mu     sync.Mutex
	locked bool
}

// SinkOption adjusts a sink under construction.
type SinkOption func(*Sink)

// WithFilter sets the sink's record filter.
func WithFilter(flt Filter) SinkOption {
	return func(s *Sink) { s.SetFilter(flt) }
}

// WithSeverities filters the sink to the given severity set.
func WithSeverities(set SeveritySet) SinkOption {
	return WithFilter(Filter{Severities: set})
}

// WithFormatter sets the sink's formatter, overriding the core default.
func WithFormatter(f Formatter) SinkOption {
	return func(s *Sink) { s.SetFormatter(f) }
}

// WithSettings edits the sink's formatting settings after the backend's
// defaults were applied.
func WithSettings(edit func(*FormattingSettings)) SinkOption {
	return func(s *Sink) { edit(&s.settings) }
}

// WithUnlocked disables the sink's write lock. The caller then guarantees
// that records cannot reach the backend concurrently.
func WithUnlocked() SinkOption {
	return func(s *Sink) { s.locked = false }
}

// NewSink builds a sink over backend. Formatting settings start from the
// package defaults, are replaced by the backend's own defaults when it
// implements SettingsProvider, and are then adjusted by the options.
func NewSink(backend Backend, opts ...SinkOption) *Sink {
	s := &Sink{
		id:       uuid.New(),
		backend:  backend,
		settings: DefaultFormattingSettings(),
		locked:   true,
	}
	if sp, ok := backend.(SettingsProvider); ok {
		s.settings = sp.DefaultSettings()
	}
	if sh, ok := backend.(SynchronousHinter); ok && !sh.WantsSynchronization() {
		s.locked = false
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the sink's unique identity.
func (s *Sink) ID() uuid.UUID { return s.id }

// Name returns the sink's identity in text form, used in dispatch errors.
func (s *Sink) Name() string { return s.id.String() }

// Backend returns the backend the sink writes to.
func (s *Sink) Backend() Backend { return s.backend }

// Settings returns a copy of the sink's formatting settings.
func (s *Sink) Settings() FormattingSettings { return s.settings }

// Filter returns the sink's current filter.
func (s *Sink) Filter() Filter {
	if h := s.filter.Load(); h != nil {
		return h.flt
	}
	return Filter{}
}

// SetFilter replaces the sink's filter. Safe to call while records flow.
func (s *Sink) SetFilter(flt Filter) {
	s.filter.Store(&filterHolder{flt: flt})
}

// Formatter returns the sink's current formatter, or nil if none was
// assigned yet.
func (s *Sink) Formatter() Formatter {
	if h := s.formatter.Load(); h != nil {
		return h.f
	}
	return nil
}

// SetFormatter replaces the sink's formatter. Safe to call while records
// flow.
func (s *Sink) SetFormatter(f Formatter) {
	s.formatter.Store(&formatterHolder{f: f})
}

// setDefaultFormatter assigns f only if the sink has none yet.
func (s *Sink) setDefaultFormatter(f Formatter) {
	s.formatter.CompareAndSwap(nil, &formatterHolder{f: f})
}

// WillAccept reports whether the sink wants records with the given
// attributes. A backend that reports itself closed rejects everything.
func (s *Sink) WillAccept(attrs *RecordAttributes) bool {
	if oc, ok := s.backend.(OpenChecker); ok && !oc.IsOpen() {
		return false
	}
	return s.Filter().Accepts(attrs)
}

// Dispatch formats rec and writes it to the backend. It applies no
// filtering; callers decide with WillAccept first. Records formatted to
// empty output are dropped without touching the backend.
func (s *Sink) Dispatch(rec *Record) error {
	f := s.Formatter()
	if f == nil {
		return ErrNoFormatter
	}
	buf := GetBuffer()
	defer PutBuffer(buf)
	f.Format(rec, &s.settings, buf)
	if buf.Len() == 0 {
		return nil
	}
	if s.locked {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	_, err := s.backend.Write(buf.Bytes())
	return err
}

// Flush forwards to the backend.
func (s *Sink) Flush() error {
	if s.locked {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return s.backend.Flush()
}

// Close flushes the sink and closes the backend when it supports closing.
func (s *Sink) Close() error {
	err := s.Flush()
	if c, ok := s.backend.(interface{ Close() error }); ok {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// String identifies the sink for logs and errors.
func (s *Sink) String() string {
	return fmt.Sprintf("sink %s", s.id)
}
