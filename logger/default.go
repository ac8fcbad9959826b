package logger

import (
	"sync"

	"github.com/Philipp01105/strobe/backend"
	"github.com/Philipp01105/strobe/core"
	"github.com/Philipp01105/strobe/formatter"
)

// DefaultTemplate is the layout of the package-level logger: a padded
// severity column, the timestamp and the message.
const DefaultTemplate = "[{}] [{}] {}"

var (
	defaultMu  sync.RWMutex
	defaultLog *Logger
)

func init() {
	defaultLog = newDefault()
}

func newDefault() *Logger {
	c := core.NewCore()
	c.SetFilter(core.Filter{Severities: core.SeverityAtLeast(core.Info)})
	c.AddSink(core.NewSink(
		backend.NewConsole(backend.ConsoleConfig{}),
		core.WithFormatter(formatter.MustMsgFormatter(DefaultTemplate,
			formatter.SeverityFormatter{}, formatter.DateTimeFormatter{}, formatter.Message)),
	))
	return New(c)
}

// Default returns the package-level logger. It writes to standard output at
// Info severity and above until SetDefault replaces it.
func Default() *Logger {
	defaultMu.RLock()
	l := defaultLog
	defaultMu.RUnlock()
	return l
}

// SetDefault replaces the package-level logger. A nil argument restores the
// built-in console logger.
func SetDefault(l *Logger) {
	if l == nil {
		l = newDefault()
	}
	defaultMu.Lock()
	defaultLog = l
	defaultMu.Unlock()
}

// Log returns an entry on the default logger at the given severity.
func Log(sev core.Severity) *Entry { return Default().entry(sev, true, 0) }

// Unleveled returns an entry on the default logger without a severity.
func Unleveled() *Entry { return Default().entry(0, false, 0) }

// Trace returns an entry on the default logger at Trace severity.
func Trace() *Entry { return Default().entry(core.Trace, true, 0) }

// Debug returns an entry on the default logger at Debug severity.
func Debug() *Entry { return Default().entry(core.Debug, true, 0) }

// Info returns an entry on the default logger at Info severity.
func Info() *Entry { return Default().entry(core.Info, true, 0) }

// Major returns an entry on the default logger at Major severity.
func Major() *Entry { return Default().entry(core.Major, true, 0) }

// Warning returns an entry on the default logger at Warning severity.
func Warning() *Entry { return Default().entry(core.Warning, true, 0) }

// Error returns an entry on the default logger at Error severity.
func Error() *Entry { return Default().entry(core.Error, true, 0) }

// Fatal returns an entry on the default logger at Fatal severity.
// Dispatching it exits the process with status 1.
func Fatal() *Entry { return Default().fatal(0) }

// Logf logs a brace-template message on the default logger.
func Logf(sev core.Severity, template string, args ...any) {
	Default().logf(sev, 0, template, args)
}

// Tracef logs a brace-template message on the default logger at Trace.
func Tracef(template string, args ...any) { Default().logf(core.Trace, 0, template, args) }

// Debugf logs a brace-template message on the default logger at Debug.
func Debugf(template string, args ...any) { Default().logf(core.Debug, 0, template, args) }

// Infof logs a brace-template message on the default logger at Info.
func Infof(template string, args ...any) { Default().logf(core.Info, 0, template, args) }

// Majorf logs a brace-template message on the default logger at Major.
func Majorf(template string, args ...any) { Default().logf(core.Major, 0, template, args) }

// Warningf logs a brace-template message on the default logger at Warning.
func Warningf(template string, args ...any) { Default().logf(core.Warning, 0, template, args) }

// Errorf logs a brace-template message on the default logger at Error.
func Errorf(template string, args ...any) { Default().logf(core.Error, 0, template, args) }

// Fatalf logs a brace-template message on the default logger, flushes and
// exits the process with status 1.
func Fatalf(template string, args ...any) {
	l := Default()
	l.logf(core.Fatal, 0, template, args)
	if l.core != nil {
		l.core.Flush()
	}
	osExit(1)
}

// With returns a child of the default logger carrying extra attributes.
func With(attrs ...core.Attr) *Logger { return Default().With(attrs...) }

// Flush flushes every sink attached to the default logger's core.
func Flush() error { return Default().Flush() }
