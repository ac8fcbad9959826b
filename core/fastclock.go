package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock supplies civil timestamps as microseconds since
// 1970-01-01 00:00:00.000000, the scale DateTime uses.
type Clock interface {
	NowMicros() int64
}

type systemClock struct{}

func (systemClock) NowMicros() int64 { return DateTimeFromTime(time.Now()).Microseconds() }

// SystemClock returns the real clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// FastClock produces timestamps without paying for a calendar conversion on
// every read. It keeps one (base, anchor) sample and derives timestamps by
// adding the monotonic time elapsed since the anchor to the base, consulting
// the underlying Clock again only once per resync interval. Off the resync
// path a read is two atomic loads and a monotonic clock read.
//
// Timestamps from one FastClock never go backwards, even across a resync
// that lands earlier than the previously derived value; the regression is
// clamped instead. The cost is a bounded skew against the system clock of at
// most the drift accumulated over one resync interval.
type FastClock struct {
	clock  Clock
	resync int64 // microseconds between resamples
	mu     sync.Mutex
	sample atomic.Pointer[clockSample]
	last   atomic.Int64
}

type clockSample struct {
	base   int64
	anchor time.Time
}

// FastClockOption configures a FastClock.
type FastClockOption func(*FastClock)

// WithClock substitutes the underlying clock.
func WithClock(c Clock) FastClockOption {
	return func(f *FastClock) { f.clock = c }
}

// WithResyncInterval sets how much wall time may pass before the underlying
// clock is consulted again. Shorter intervals bound drift tighter at the
// cost of more clock queries.
func WithResyncInterval(d time.Duration) FastClockOption {
	return func(f *FastClock) { f.resync = d.Microseconds() }
}

// NewFastClock returns a FastClock over the system clock with a one second
// resync interval, unless options say otherwise.
func NewFastClock(opts ...FastClockOption) *FastClock {
	f := &FastClock{clock: systemClock{}, resync: time.Second.Microseconds()}
	for _, opt := range opts {
		opt(f)
	}
	if f.resync < 1 {
		f.resync = 1
	}
	f.resample()
	return f
}

// Now returns the current derived time.
func (f *FastClock) Now() DateTime { return DateTime{us: f.NowMicros()} }

// NowMicros returns the current derived time as raw microseconds, making
// FastClock itself usable as a Clock.
func (f *FastClock) NowMicros() int64 {
	s := f.sample.Load()
	elapsed := time.Since(s.anchor).Microseconds()
	if elapsed >= f.resync {
		s = f.resample()
		elapsed = time.Since(s.anchor).Microseconds()
	}
	us := s.base + elapsed
	for {
		prev := f.last.Load()
		if us <= prev {
			return prev
		}
		if f.last.CompareAndSwap(prev, us) {
			return us
		}
	}
}

func (f *FastClock) resample() *clockSample {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.sample.Load(); s != nil && time.Since(s.anchor).Microseconds() < f.resync {
		return s
	}
	s := &clockSample{anchor: time.Now(), base: f.clock.NowMicros()}
	f.sample.Store(s)
	return s
}
