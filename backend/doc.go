// Package backend provides the built-in write targets for formatted
// records. A backend sees only bytes; severity filtering and formatting
// happen in the sink above it.
//
// Built-in backends:
//
//   - Writer adapts any io.Writer.
//   - Memory captures output in process, mainly for tests.
//   - Discard drops everything, for gating tests and benchmarks.
//   - Console writes to a terminal stream, probing it once for ANSI color
//     support (honoring NO_COLOR and dumb terminals) and seeding its
//     sinks' settings with the result.
//   - File appends through a write buffer and rotates by size or age,
//     moving rotated files aside under timestamped names, optionally
//     gzipping them, and pruning the oldest past MaxBackups.
//   - Async decouples callers from any wrapped backend with a bounded
//     queue and a single writer goroutine.
//
// When the async queue is full, Async applies its OverflowPolicy:
// DropNewest (the default), DropOldest, or Block with a configurable
// timeout that falls back to a synchronous write. Dropped, blocked and
// processed counts are tracked atomically and can be queried at runtime
// through Stats.
//
// Backends opt into sink behaviors through small capability interfaces in
// the core package: OpenChecker gates dispatch when a file has been
// closed, SettingsProvider seeds color support, SynchronousHinter lets
// self-serializing backends skip the sink's write lock, and
// SynchronousModer lets Async honor the core's synchronous mode by
// bypassing its queue.
package backend
