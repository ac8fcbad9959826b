package logger

import (
	"os"

	"github.com/Philipp01105/strobe/core"
	"github.com/Philipp01105/strobe/formatter"
)

// osExit is swapped out by tests that exercise fatal logging.
var osExit = os.Exit

// Logger is an immutable handle that stamps records with its name and base
// attributes and offers them to its core. Methods are safe for concurrent
// use and safe on a nil receiver, where they do nothing.
type Logger struct {
	core            *core.Core
	name            string
	attrs           []core.Attr
	clock           core.Clock
	captureCaller   bool
	callerSkip      int
	captureGID      bool
	inlineThreshold int
}

// Builder assembles a Logger. The zero Builder produces a logger without a
// core that silently drops everything; call WithCore to make it talk.
type Builder struct {
	core            *core.Core
	name            string
	attrs           []core.Attr
	clock           core.Clock
	fastClock       bool
	captureCaller   bool
	callerSkip      int
	captureGID      bool
	inlineThreshold int
}

// NewBuilder returns an empty logger builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithCore sets the core that dispatches the logger's records.
func (b *Builder) WithCore(c *core.Core) *Builder {
	b.core = c
	return b
}

// WithName sets the logger name stamped on every record.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithAttrs appends attributes stamped on every record.
func (b *Builder) WithAttrs(attrs ...core.Attr) *Builder {
	b.attrs = append(b.attrs, attrs...)
	return b
}

// WithClock sets the clock used for record timestamps. Unset loggers read
// the system clock, or a fast clock when WithFastClock is on.
func (b *Builder) WithClock(c core.Clock) *Builder {
	b.clock = c
	return b
}

// WithFastClock trades timestamp precision for speed: the logger reads a
// cached clock that a background goroutine keeps roughly current.
func (b *Builder) WithFastClock(on bool) *Builder {
	b.fastClock = on
	return b
}

// WithCaller captures the call site of every accepted record.
func (b *Builder) WithCaller(on bool) *Builder {
	b.captureCaller = on
	return b
}

// WithCallerSkip skips extra stack frames during call site capture. Use it
// when the logger is wrapped in helper functions.
func (b *Builder) WithCallerSkip(extra int) *Builder {
	b.callerSkip += extra
	return b
}

// WithGoroutineID stamps records with the id of the logging goroutine.
// Parsing the id is slow; leave this off on hot paths.
func (b *Builder) WithGoroutineID(on bool) *Builder {
	b.captureGID = on
	return b
}

// WithInlineThreshold sets the largest string length captured into record
// storage by copy instead of by reference. Zero keeps the default.
func (b *Builder) WithInlineThreshold(n int) *Builder {
	b.inlineThreshold = n
	return b
}

// Build assembles the logger. The builder may be reused afterwards.
func (b *Builder) Build() *Logger {
	clock := b.clock
	if clock == nil {
		if b.fastClock {
			clock = core.NewFastClock()
		} else {
			clock = core.SystemClock()
		}
	}
	attrs := make([]core.Attr, len(b.attrs))
	copy(attrs, b.attrs)
	return &Logger{
		core:            b.core,
		name:            b.name,
		attrs:           attrs,
		clock:           clock,
		captureCaller:   b.captureCaller,
		callerSkip:      b.callerSkip,
		captureGID:      b.captureGID,
		inlineThreshold: b.inlineThreshold,
	}
}

// New returns a logger bound to the given core with default settings.
func New(c *core.Core) *Logger {
	return NewBuilder().WithCore(c).Build()
}

// ParseSeverity converts a name such as "info" or "WARNING" to its severity.
// It accepts the same names as core.ParseSeverity, so flag and config values
// can be parsed without importing core.
func ParseSeverity(s string) (core.Severity, error) {
	return core.ParseSeverity(s)
}

// Core returns the core the logger dispatches to, or nil.
func (l *Logger) Core() *core.Core {
	if l == nil {
		return nil
	}
	return l.core
}

// With returns a child logger whose records carry the additional attributes.
// The receiver is unchanged.
func (l *Logger) With(attrs ...core.Attr) *Logger {
	if l == nil || len(attrs) == 0 {
		return l
	}
	merged := make([]core.Attr, 0, len(l.attrs)+len(attrs))
	merged = append(merged, l.attrs...)
	merged = append(merged, attrs...)
	dup := *l
	dup.attrs = merged
	return &dup
}

// Named returns a child logger whose name extends the receiver's with a dot.
func (l *Logger) Named(name string) *Logger {
	if l == nil || name == "" {
		return l
	}
	dup := *l
	if l.name == "" {
		dup.name = name
	} else {
		dup.name = l.name + "." + name
	}
	return &dup
}

// Flush flushes every sink attached to the logger's core.
func (l *Logger) Flush() error {
	if l == nil || l.core == nil {
		return nil
	}
	return l.core.Flush()
}

// entryCallerSkip is the fixed number of frames between GetCaller inside
// entry and the caller of a leveled entry point.
const entryCallerSkip = 2

// entry builds a pooled entry for a record with the given severity, or nil
// when the core would reject it. extraSkip counts wrapper frames between the
// entry point and entry itself beyond the usual single shorthand frame.
func (l *Logger) entry(sev core.Severity, leveled bool, extraSkip int) *Entry {
	if l == nil || l.core == nil {
		return nil
	}
	e := getEntry()
	e.logger = l
	e.rec.Bundle.SetInlineThreshold(l.inlineThreshold)
	attrs := &e.rec.Attributes
	if leveled {
		attrs.SetSeverity(sev)
	}
	attrs.LoggerName = l.name
	for _, a := range l.attrs {
		attrs.Add(a.Key, a.Value)
	}
	if !l.core.WillAccept(attrs) {
		putEntry(e)
		return nil
	}
	if l.captureCaller {
		attrs.Caller = core.GetCaller(entryCallerSkip + extraSkip + l.callerSkip)
	}
	return e
}

// fatal builds a Fatal entry. When the record is rejected it still returns
// an entry that exits the process on Dispatch without writing anything.
func (l *Logger) fatal(extraSkip int) *Entry {
	if l == nil {
		return nil
	}
	if e := l.entry(core.Fatal, true, extraSkip+1); e != nil {
		e.exit = true
		return e
	}
	e := getEntry()
	e.logger = l
	e.dead = true
	e.exit = true
	return e
}

// Log returns an entry for a record with the given severity, or nil when
// the core would reject it.
func (l *Logger) Log(sev core.Severity) *Entry {
	return l.entry(sev, true, 0)
}

// Unleveled returns an entry for a record without a severity.
func (l *Logger) Unleveled() *Entry {
	return l.entry(0, false, 0)
}

// Trace returns an entry at Trace severity.
func (l *Logger) Trace() *Entry {
	return l.entry(core.Trace, true, 0)
}

// Debug returns an entry at Debug severity.
func (l *Logger) Debug() *Entry {
	return l.entry(core.Debug, true, 0)
}

// Info returns an entry at Info severity.
func (l *Logger) Info() *Entry {
	return l.entry(core.Info, true, 0)
}

// Major returns an entry at Major severity.
func (l *Logger) Major() *Entry {
	return l.entry(core.Major, true, 0)
}

// Warning returns an entry at Warning severity.
func (l *Logger) Warning() *Entry {
	return l.entry(core.Warning, true, 0)
}

// Error returns an entry at Error severity.
func (l *Logger) Error() *Entry {
	return l.entry(core.Error, true, 0)
}

// Fatal returns an entry at Fatal severity. Dispatching it exits the
// process with status 1 even when the record itself is filtered out.
func (l *Logger) Fatal() *Entry {
	return l.fatal(0)
}

// logf renders a brace template and dispatches it at the given severity.
func (l *Logger) logf(sev core.Severity, extraSkip int, template string, args []any) {
	e := l.entry(sev, true, extraSkip+1)
	if e == nil {
		return
	}
	e.rec.Bundle.AppendString(formatter.Format(template, args...))
	e.Dispatch()
}

// Logf logs a brace-template message at the given severity.
func (l *Logger) Logf(sev core.Severity, template string, args ...any) {
	l.logf(sev, 0, template, args)
}

// Tracef logs a brace-template message at Trace severity.
func (l *Logger) Tracef(template string, args ...any) {
	l.logf(core.Trace, 0, template, args)
}

// Debugf logs a brace-template message at Debug severity.
func (l *Logger) Debugf(template string, args ...any) {
	l.logf(core.Debug, 0, template, args)
}

// Infof logs a brace-template message at Info severity.
func (l *Logger) Infof(template string, args ...any) {
	l.logf(core.Info, 0, template, args)
}

// Majorf logs a brace-template message at Major severity.
func (l *Logger) Majorf(template string, args ...any) {
	l.logf(core.Major, 0, template, args)
}

// Warningf logs a brace-template message at Warning severity.
func (l *Logger) Warningf(template string, args ...any) {
	l.logf(core.Warning, 0, template, args)
}

// Errorf logs a brace-template message at Error severity.
func (l *Logger) Errorf(template string, args ...any) {
	l.logf(core.Error, 0, template, args)
}

// Fatalf logs a brace-template message at Fatal severity, flushes the core
// and exits the process with status 1.
func (l *Logger) Fatalf(template string, args ...any) {
	if l == nil {
		return
	}
	l.logf(core.Fatal, 0, template, args)
	if l.core != nil {
		l.core.Flush()
	}
	osExit(1)
}
