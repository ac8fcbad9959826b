package formatter

import (
	"fmt"
	"strconv"

	"github.com/Philipp01105/strobe/core"
)

// AttributeFormatter sizes and renders one record attribute, mirroring the
// two-pass contract of core.Segment but reading from the record's attributes
// instead of its payload. An attribute that is absent from the record
// renders according to its own fixed-width or render-nothing rule.
type AttributeFormatter interface {
	Name() string
	SizeRequired(attrs *core.RecordAttributes, settings *core.FormattingSettings) int
	AddToBuffer(attrs *core.RecordAttributes, settings *core.FormattingSettings, buf []byte) int
}

// severityWidth is the fixed rendering width of severity names, so stacked
// records align without padding logic in templates.
const severityWidth = 7

var severityPadded = [...]string{
	"Trace  ",
	"Debug  ",
	"Info   ",
	"Major  ",
	"Warning",
	"Error  ",
	"Fatal  ",
}

// severityColored carries the pre-assembled escape + padded name + reset for
// every severity, so the color path costs one copy.
var severityColored [len(severityPadded)]string

func init() {
	for i, name := range severityPadded {
		sev := core.Severity(i)
		severityColored[i] = fmt.Sprintf("\x1b[%dm%s\x1b[0m", sev.Color(), name)
	}
}

// SeverityFormatter renders the record's severity name padded to seven
// bytes, wrapped in its ANSI color when the sink supports color. Records
// without a severity render seven spaces.
type SeverityFormatter struct{}

func (SeverityFormatter) Name() string { return "Severity" }

func (SeverityFormatter) SizeRequired(attrs *core.RecordAttributes, settings *core.FormattingSettings) int {
	if attrs.HasSeverity && attrs.Severity.Valid() && settings.ColorSupport {
		return len(severityColored[attrs.Severity])
	}
	return severityWidth
}

func (SeverityFormatter) AddToBuffer(attrs *core.RecordAttributes, settings *core.FormattingSettings, buf []byte) int {
	if !attrs.HasSeverity || !attrs.Severity.Valid() {
		return copy(buf, "       ")
	}
	if settings.ColorSupport {
		return copy(buf, severityColored[attrs.Severity])
	}
	return copy(buf, severityPadded[attrs.Severity])
}

// DateTimeFormatter renders the record timestamp in the canonical 26-byte
// "YYYY-MM-DD HH:MM:SS.UUUUUU" form, or 26 spaces when the record carries no
// timestamp.
type DateTimeFormatter struct{}

func (DateTimeFormatter) Name() string { return "DateTime" }

func (DateTimeFormatter) SizeRequired(*core.RecordAttributes, *core.FormattingSettings) int {
	return core.DateTimeFormatLen
}

func (DateTimeFormatter) AddToBuffer(attrs *core.RecordAttributes, _ *core.FormattingSettings, buf []byte) int {
	if !attrs.HasTime {
		for i := 0; i < core.DateTimeFormatLen; i++ {
			buf[i] = ' '
		}
		return core.DateTimeFormatLen
	}
	attrs.Time.AppendFormat(buf[:0])
	return core.DateTimeFormatLen
}

// LoggerNameFormatter renders the producing logger's name.
type LoggerNameFormatter struct{}

func (LoggerNameFormatter) Name() string { return "Name" }

func (LoggerNameFormatter) SizeRequired(attrs *core.RecordAttributes, _ *core.FormattingSettings) int {
	return len(attrs.LoggerName)
}

func (LoggerNameFormatter) AddToBuffer(attrs *core.RecordAttributes, _ *core.FormattingSettings, buf []byte) int {
	return copy(buf, attrs.LoggerName)
}

// ThreadFormatter renders the decimal goroutine id, or nothing when it was
// not captured.
type ThreadFormatter struct{}

func (ThreadFormatter) Name() string { return "Thread" }

func (ThreadFormatter) SizeRequired(attrs *core.RecordAttributes, _ *core.FormattingSettings) int {
	if !attrs.HasGoroutineID {
		return 0
	}
	return uintDecimalWidth(attrs.GoroutineID)
}

func (ThreadFormatter) AddToBuffer(attrs *core.RecordAttributes, _ *core.FormattingSettings, buf []byte) int {
	if !attrs.HasGoroutineID {
		return 0
	}
	return len(strconv.AppendUint(buf[:0], attrs.GoroutineID, 10))
}

// FileLineFormatter renders "file:line" of the captured source location, or
// nothing when no caller was captured.
type FileLineFormatter struct{}

func (FileLineFormatter) Name() string { return "FileLine" }

func (FileLineFormatter) SizeRequired(attrs *core.RecordAttributes, _ *core.FormattingSettings) int {
	if !attrs.Caller.Defined {
		return 0
	}
	return len(attrs.Caller.File) + 1 + uintDecimalWidth(uint64(attrs.Caller.Line))
}

func (FileLineFormatter) AddToBuffer(attrs *core.RecordAttributes, _ *core.FormattingSettings, buf []byte) int {
	if !attrs.Caller.Defined {
		return 0
	}
	n := copy(buf, attrs.Caller.File)
	buf[n] = ':'
	n++
	return n + len(strconv.AppendInt(buf[n:n], int64(attrs.Caller.Line), 10))
}

// FunctionFormatter renders the captured function name, or nothing.
type FunctionFormatter struct{}

func (FunctionFormatter) Name() string { return "Function" }

func (FunctionFormatter) SizeRequired(attrs *core.RecordAttributes, _ *core.FormattingSettings) int {
	return len(attrs.Caller.Function)
}

func (FunctionFormatter) AddToBuffer(attrs *core.RecordAttributes, _ *core.FormattingSettings, buf []byte) int {
	return copy(buf, attrs.Caller.Function)
}

// NamedAttributeFormatter looks a custom attribute up by name. An absent
// name renders nothing, so unknown placeholders degrade silently instead of
// failing the record.
type NamedAttributeFormatter struct {
	Key string
}

func (f NamedAttributeFormatter) Name() string { return f.Key }

func (f NamedAttributeFormatter) SizeRequired(attrs *core.RecordAttributes, _ *core.FormattingSettings) int {
	v, ok := attrs.Lookup(f.Key)
	if !ok {
		return 0
	}
	return sizeOfValue(v)
}

func (f NamedAttributeFormatter) AddToBuffer(attrs *core.RecordAttributes, _ *core.FormattingSettings, buf []byte) int {
	v, ok := attrs.Lookup(f.Key)
	if !ok {
		return 0
	}
	return len(v.AppendText(buf[:0]))
}

func sizeOfValue(v core.Value) int {
	switch v.Kind() {
	case core.ValueString:
		return len(v.String())
	case core.ValueDateTime:
		return core.DateTimeFormatLen
	default:
		var scratch [32]byte
		return len(v.AppendText(scratch[:0]))
	}
}

// Message is the sentinel bound to the record's payload bundle. The
// formatting engine recognizes it and renders the bundle with full
// indentation tracking; its own methods report an empty rendering and exist
// only to satisfy the interface.
var Message AttributeFormatter = messageSentinel{}

type messageSentinel struct{}

func (messageSentinel) Name() string { return "Message" }

func (messageSentinel) SizeRequired(*core.RecordAttributes, *core.FormattingSettings) int { return 0 }

func (messageSentinel) AddToBuffer(*core.RecordAttributes, *core.FormattingSettings, []byte) int {
	return 0
}

// builtinFormatter maps placeholder names to the built-in formatters.
func builtinFormatter(name string) (AttributeFormatter, bool) {
	switch name {
	case "Severity":
		return SeverityFormatter{}, true
	case "DateTime", "Time":
		return DateTimeFormatter{}, true
	case "Message":
		return Message, true
	case "Name", "Logger":
		return LoggerNameFormatter{}, true
	case "Thread":
		return ThreadFormatter{}, true
	case "FileLine":
		return FileLineFormatter{}, true
	case "Function":
		return FunctionFormatter{}, true
	}
	return nil, false
}

func uintDecimalWidth(u uint64) int {
	n := 1
	for u >= 10 {
		u /= 10
		n++
	}
	return n
}
