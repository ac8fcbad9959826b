package core

// Formatter renders one record into a buffer. Implementations size their
// output exactly before writing and append nothing at all when they have no
// output for the record, so sinks can tell "formatted to empty" from
// "skipped".
//
// Formatters must be safe for concurrent use; sinks do not serialize
// formatting, only backend writes.
type Formatter interface {
	Format(rec *Record, settings *FormattingSettings, buf *Buffer)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(rec *Record, settings *FormattingSettings, buf *Buffer)

// Format implements Formatter.
func (f FormatterFunc) Format(rec *Record, settings *FormattingSettings, buf *Buffer) {
	f(rec, settings, buf)
}

// Backend consumes formatted records. A backend sees only bytes; filtering
// and formatting happen in the sink above it.
//
// Write must not retain p past its return. Backends need not be safe for
// concurrent Write calls unless they say so through SynchronousHinter;
// sinks serialize writes by default.
type Backend interface {
	Write(p []byte) (n int, err error)
	Flush() error
}

// OpenChecker is implemented by backends that can become unavailable, such
// as files. Sinks skip dispatch to a backend reporting false.
type OpenChecker interface {
	IsOpen() bool
}

// SynchronousHinter is implemented by backends that manage their own write
// serialization. When WantsSynchronization reports false, sinks skip their
// write lock for this backend.
type SynchronousHinter interface {
	WantsSynchronization() bool
}

// SettingsProvider is implemented by backends that seed their sinks'
// formatting settings, for example a console backend that probes the
// terminal for color support. Sink options apply on top of the seed.
type SettingsProvider interface {
	DefaultSettings() FormattingSettings
}

// SynchronousModer is implemented by backends that can honor the core's
// synchronous-mode flag, for example a queueing backend that writes inline
// while the flag is set. Backends are free to ignore the flag; the core only
// communicates intent.
type SynchronousModer interface {
	SetSynchronousMode(on bool)
}
