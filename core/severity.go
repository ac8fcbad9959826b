package core

import (
	"fmt"
	"strings"
)

// Severity classifies how important a record is. Severities are totally
// ordered from Trace (least severe) to Fatal (most severe).
type Severity int8

const (
	Trace Severity = iota
	Debug
	Info
	Major
	Warning
	Error
	Fatal
)

const numSeverities = 7

var severityNames = [numSeverities]string{
	"Trace", "Debug", "Info", "Major", "Warning", "Error", "Fatal",
}

var severityColors = [numSeverities]AnsiColor{
	AnsiDefault,    // Trace
	AnsiWhite,      // Debug
	AnsiGreen,      // Info
	AnsiBrightBlue, // Major
	AnsiYellow,     // Warning
	AnsiRed,        // Error
	AnsiBrightRed,  // Fatal
}

// String returns the severity name, or "Unknown" for values outside the
// defined range.
func (s Severity) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return severityNames[s]
}

// Valid reports whether s is one of the seven defined severities.
func (s Severity) Valid() bool { return s >= Trace && s <= Fatal }

// Color returns the ANSI color used for s by color-capable sinks.
func (s Severity) Color() AnsiColor {
	if !s.Valid() {
		return AnsiDefault
	}
	return severityColors[s]
}

// ParseSeverity converts a name such as "info" or "WARNING" to its Severity.
// "warn" is accepted as a synonym for Warning.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(s) {
	case "TRACE":
		return Trace, nil
	case "DEBUG":
		return Debug, nil
	case "INFO":
		return Info, nil
	case "MAJOR":
		return Major, nil
	case "WARN", "WARNING":
		return Warning, nil
	case "ERROR":
		return Error, nil
	case "FATAL":
		return Fatal, nil
	}
	return Info, fmt.Errorf("unknown severity %q", s)
}
