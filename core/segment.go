package core

import "strconv"

// MessageInfo carries the per-message state both formatting passes evolve in
// lockstep. Indentation is the column at which the message payload begins on
// its line. MessageColumn counts bytes rendered on the current line since the
// payload began; an in-message line break resets it to zero, because the
// indent that follows realigns output with the payload start.
type MessageInfo struct {
	Indentation      int
	NeedsIndentation bool
	MessageColumn    int
}

// Segment is one renderable unit of a message payload. SizeRequired reports
// the exact byte count AddToBuffer will write given the same settings and
// message state, and AddToBuffer returns how many bytes it wrote. Callers
// always provide a buffer of at least the required size; anything shorter is
// a contract violation.
type Segment interface {
	SizeRequired(settings *FormattingSettings, info MessageInfo) int
	AddToBuffer(settings *FormattingSettings, info MessageInfo, buf []byte) int
}

// AnsiColor is an ANSI SGR foreground color code.
type AnsiColor uint8

const (
	AnsiBlack AnsiColor = 30 + iota
	AnsiRed
	AnsiGreen
	AnsiYellow
	AnsiBlue
	AnsiMagenta
	AnsiCyan
	AnsiWhite
)

// AnsiDefault is the terminal's default foreground color.
const AnsiDefault AnsiColor = 39

const (
	AnsiBrightBlack AnsiColor = 90 + iota
	AnsiBrightRed
	AnsiBrightGreen
	AnsiBrightYellow
	AnsiBrightBlue
	AnsiBrightMagenta
	AnsiBrightCyan
	AnsiBrightWhite
)

const ansiReset = "\x1b[0m"

func ansiSeqLen(c AnsiColor) int {
	switch {
	case c < 10:
		return 4
	case c < 100:
		return 5
	}
	return 6
}

// appendAnsiSeq appends the color escape sequence for c to dst.
func appendAnsiSeq(dst []byte, c AnsiColor) []byte {
	dst = append(dst, 0x1b, '[')
	dst = strconv.AppendUint(dst, uint64(c), 10)
	return append(dst, 'm')
}

// NewLineIndent, appended to a payload, renders a line break followed by
// enough spaces to realign the next byte with the start of the message.
var NewLineIndent = lineIndent{}

type lineIndent struct{}

// PadUntil, appended to a payload, renders spaces until the current line
// reaches the given message-relative column. Already at or past the column,
// it renders nothing.
type PadUntil struct {
	Column int
}

// RepeatChar, appended to a payload, renders Char exactly Count times.
type RepeatChar struct {
	Count int
	Char  byte
}

// Colored wraps a value so color-capable sinks render it between an ANSI
// color sequence and a reset. Sinks without color support render the value
// alone; both sizing and writing agree either way.
func Colored(v any, color AnsiColor) Segment {
	return &coloredSegment{inner: capture(v, DefaultInlineThreshold), color: color}
}

type coloredSegment struct {
	inner SegmentStorage
	color AnsiColor
}

func (c *coloredSegment) SizeRequired(settings *FormattingSettings, info MessageInfo) int {
	n := c.inner.SizeRequired(settings, info)
	if settings.ColorSupport {
		n += ansiSeqLen(c.color) + len(ansiReset)
	}
	return n
}

func (c *coloredSegment) AddToBuffer(settings *FormattingSettings, info MessageInfo, buf []byte) int {
	n := 0
	if settings.ColorSupport {
		n = len(appendAnsiSeq(buf[:0], c.color))
	}
	n += c.inner.AddToBuffer(settings, info, buf[n:])
	if settings.ColorSupport {
		n += copy(buf[n:], ansiReset)
	}
	return n
}
