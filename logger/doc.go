// Package logger is the front end of the logging pipeline: loggers stamp
// records with a name, base attributes, a timestamp and optionally the call
// site, then offer them to a core for dispatch.
//
// Loggers are immutable and safe for concurrent use. Build one with the
// Builder, or start from New for a logger with default settings. With and
// Named derive child loggers that share the parent's core, so handing a
// scoped logger to a subsystem costs one small allocation.
//
// Records are composed through entries. An entry point such as Info returns
// nil when the core would reject the record, and every Entry method is
// nil-safe, so a filtered call site pays for the severity check and nothing
// else:
//
//	log.Info().Str("listening on ").Any(addr).Dispatch()
//
// The package also keeps a process-wide default logger behind the top-level
// functions. It writes to standard output at Info severity and above;
// SetDefault swaps it for a configured one.
//
// Timestamps come from the logger's clock. The default reads the system
// clock on every record, WithFastClock trades sub-millisecond accuracy for
// a cached reading, and WithClock accepts a hand-rolled clock for tests.
package logger
