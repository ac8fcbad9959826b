package backend

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/Philipp01105/strobe/core"
)

// ConsoleConfig holds configuration for the console backend.
type ConsoleConfig struct {
	// Stream to write to (default: os.Stdout).
	Stream io.Writer
	// ForceColor enables color regardless of terminal detection.
	ForceColor bool
	// NoColor disables color regardless of terminal detection.
	NoColor bool
}

// Console writes to a terminal stream. It probes the stream for color
// support once at construction and seeds its sinks' settings with the
// result, so records pick up ANSI colors exactly when the stream can show
// them.
type Console struct {
	mu     sync.Mutex
	stream io.Writer
	color  bool
}

// NewConsole returns a console backend for cfg.Stream.
func NewConsole(cfg ConsoleConfig) *Console {
	if cfg.Stream == nil {
		cfg.Stream = os.Stdout
	}
	color := detectColor(cfg.Stream)
	if cfg.ForceColor {
		color = true
	}
	if cfg.NoColor {
		color = false
	}
	return &Console{stream: cfg.Stream, color: color}
}

// detectColor reports whether stream is a terminal that renders ANSI
// escapes. The NO_COLOR convention and dumb terminals disable it.
func detectColor(stream io.Writer) bool {
	f, ok := stream.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return true
}

// Write implements core.Backend.
func (b *Console) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stream.Write(p)
}

// Flush implements core.Backend. Terminal streams are unbuffered here, so
// there is nothing to flush.
func (b *Console) Flush() error { return nil }

// DefaultSettings seeds sink settings with the probed color support.
func (b *Console) DefaultSettings() core.FormattingSettings {
	settings := core.DefaultFormattingSettings()
	settings.ColorSupport = b.color
	return settings
}

// ColorSupport reports the probed color capability.
func (b *Console) ColorSupport() bool { return b.color }

// WantsSynchronization reports false: the backend serializes its own writes.
func (b *Console) WantsSynchronization() bool { return false }
