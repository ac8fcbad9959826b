package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Philipp01105/strobe/core"
)

// Format renders a template with positional {} placeholders, the quick
// printf-style path of the library. Placeholder names are ignored here; only
// their order matters, so "{count:L}" and "{:L}" behave the same. An
// optional spec after ':' controls the rendering:
//
//	[[fill]align][#][width][L?xXb]
//
// align is '<' left, '>' right (the default for numbers) or '^' center,
// optionally preceded by a single fill byte. 'L' groups integer digits by
// thousands, '?' renders strings in quoted debug form, 'x'/'X'/'b' select
// hexadecimal or binary for integers and '#' adds the matching 0x/0X/0b
// prefix.
//
// "{@RED}".."{@BRIGHT_WHITE}", "{@DEFAULT}" and "{@RESET}" emit ANSI color
// escapes. Format always emits them; AppendFormatWith honors the settings'
// color support instead.
//
// Unlike template formatters, this path is lenient: an unmatched brace is
// copied through verbatim and a placeholder beyond the argument list renders
// "{!MISSING}". Surplus arguments are ignored.
func Format(template string, args ...any) string {
	return string(AppendFormat(nil, template, args...))
}

// AppendFormat appends the rendered template to dst. See Format.
func AppendFormat(dst []byte, template string, args ...any) []byte {
	return appendFormat(dst, true, template, args)
}

// AppendFormatWith is AppendFormat honoring the settings' color support:
// color directives render as escapes only when ColorSupport is set and
// disappear otherwise.
func AppendFormatWith(dst []byte, settings *core.FormattingSettings, template string, args ...any) []byte {
	return appendFormat(dst, settings.ColorSupport, template, args)
}

func appendFormat(dst []byte, color bool, template string, args []any) []byte {
	argi := 0
	for i := 0; i < len(template); {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				dst = append(dst, '{')
				i += 2
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return append(dst, template[i:]...)
			}
			body := template[i+1 : i+1+end]
			i += end + 2
			if strings.HasPrefix(body, "@") {
				dst = appendColorDirective(dst, color, body)
				continue
			}
			if argi >= len(args) {
				dst = append(dst, "{!MISSING}"...)
				continue
			}
			spec := ""
			if colon := strings.IndexByte(body, ':'); colon >= 0 {
				spec = body[colon+1:]
			}
			dst = appendArg(dst, args[argi], parseFormatSpec(spec))
			argi++
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				i++
			}
			dst = append(dst, '}')
			i++
		default:
			dst = append(dst, c)
			i++
		}
	}
	return dst
}

const ansiResetSeq = "\x1b[0m"

func appendColorDirective(dst []byte, color bool, body string) []byte {
	name := body[1:]
	if name == "RESET" {
		if color {
			dst = append(dst, ansiResetSeq...)
		}
		return dst
	}
	c, ok := colorByName(name)
	if !ok {
		// Unknown directive names pass through for debuggability.
		dst = append(dst, '{')
		dst = append(dst, body...)
		return append(dst, '}')
	}
	if !color {
		return dst
	}
	dst = append(dst, 0x1b, '[')
	dst = strconv.AppendUint(dst, uint64(c), 10)
	return append(dst, 'm')
}

func colorByName(name string) (core.AnsiColor, bool) {
	switch name {
	case "BLACK":
		return core.AnsiBlack, true
	case "RED":
		return core.AnsiRed, true
	case "GREEN":
		return core.AnsiGreen, true
	case "YELLOW":
		return core.AnsiYellow, true
	case "BLUE":
		return core.AnsiBlue, true
	case "MAGENTA":
		return core.AnsiMagenta, true
	case "CYAN":
		return core.AnsiCyan, true
	case "WHITE":
		return core.AnsiWhite, true
	case "DEFAULT":
		return core.AnsiDefault, true
	case "BRIGHT_BLACK":
		return core.AnsiBrightBlack, true
	case "BRIGHT_RED":
		return core.AnsiBrightRed, true
	case "BRIGHT_GREEN":
		return core.AnsiBrightGreen, true
	case "BRIGHT_YELLOW":
		return core.AnsiBrightYellow, true
	case "BRIGHT_BLUE":
		return core.AnsiBrightBlue, true
	case "BRIGHT_MAGENTA":
		return core.AnsiBrightMagenta, true
	case "BRIGHT_CYAN":
		return core.AnsiBrightCyan, true
	case "BRIGHT_WHITE":
		return core.AnsiBrightWhite, true
	}
	return 0, false
}

type formatSpec struct {
	fill   byte
	align  byte
	width  int
	commas bool
	debug  bool
	radix  byte
	prefix bool
}

func parseFormatSpec(s string) formatSpec {
	sp := formatSpec{fill: ' '}
	i := 0
	isAlign := func(b byte) bool { return b == '<' || b == '>' || b == '^' }
	if len(s) >= 2 && isAlign(s[1]) {
		sp.fill, sp.align = s[0], s[1]
		i = 2
	} else if len(s) >= 1 && isAlign(s[0]) {
		sp.align = s[0]
		i = 1
	}
	if i < len(s) && s[i] == '#' {
		sp.prefix = true
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		sp.width = sp.width*10 + int(s[i]-'0')
		i++
	}
	for ; i < len(s); i++ {
		switch s[i] {
		case 'L':
			sp.commas = true
		case '?':
			sp.debug = true
		case 'x', 'X', 'b':
			sp.radix = s[i]
		case '#':
			sp.prefix = true
		}
	}
	return sp
}

func appendArg(dst []byte, v any, sp formatSpec) []byte {
	var scratch [64]byte
	raw := appendRawValue(scratch[:0], v, sp)
	if sp.width <= len(raw) {
		return append(dst, raw...)
	}
	pad := sp.width - len(raw)
	align := sp.align
	if align == 0 {
		align = '<'
		if isNumericArg(v) {
			align = '>'
		}
	}
	switch align {
	case '>':
		dst = appendFill(dst, sp.fill, pad)
		return append(dst, raw...)
	case '^':
		left := pad / 2
		dst = appendFill(dst, sp.fill, left)
		dst = append(dst, raw...)
		return appendFill(dst, sp.fill, pad-left)
	default:
		dst = append(dst, raw...)
		return appendFill(dst, sp.fill, pad)
	}
}

func appendFill(dst []byte, fill byte, n int) []byte {
	for i := 0; i < n; i++ {
		dst = append(dst, fill)
	}
	return dst
}

func isNumericArg(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return true
	}
	return false
}

func appendRawValue(dst []byte, v any, sp formatSpec) []byte {
	switch x := v.(type) {
	case string:
		if sp.debug {
			return strconv.AppendQuote(dst, x)
		}
		return append(dst, x...)
	case []byte:
		if sp.debug {
			return strconv.AppendQuote(dst, string(x))
		}
		return append(dst, x...)
	case int:
		return appendSignedArg(dst, int64(x), sp)
	case int8:
		return appendSignedArg(dst, int64(x), sp)
	case int16:
		return appendSignedArg(dst, int64(x), sp)
	case int32:
		return appendSignedArg(dst, int64(x), sp)
	case int64:
		return appendSignedArg(dst, x, sp)
	case uint:
		return appendUnsignedArg(dst, uint64(x), sp)
	case uint8:
		return appendUnsignedArg(dst, uint64(x), sp)
	case uint16:
		return appendUnsignedArg(dst, uint64(x), sp)
	case uint32:
		return appendUnsignedArg(dst, uint64(x), sp)
	case uint64:
		return appendUnsignedArg(dst, x, sp)
	case uintptr:
		return appendUnsignedArg(dst, uint64(x), sp)
	case float32:
		return strconv.AppendFloat(dst, float64(x), 'g', -1, 32)
	case float64:
		return strconv.AppendFloat(dst, x, 'g', -1, 64)
	case bool:
		return strconv.AppendBool(dst, x)
	case core.DateTime:
		return x.AppendFormat(dst)
	case time.Time:
		return core.DateTimeFromTime(x).AppendFormat(dst)
	case time.Duration:
		return append(dst, x.String()...)
	case error:
		if sp.debug {
			return strconv.AppendQuote(dst, x.Error())
		}
		return append(dst, x.Error()...)
	case fmt.Stringer:
		if sp.debug {
			return strconv.AppendQuote(dst, x.String())
		}
		return append(dst, x.String()...)
	case nil:
		return append(dst, "<nil>"...)
	}
	return fmt.Append(dst, v)
}

func prefixStyle(sp formatSpec) PrefixStyle {
	if !sp.prefix {
		return NoPrefix
	}
	if sp.radix == 'X' {
		return UpperPrefix
	}
	return LowerPrefix
}

func appendSignedArg(dst []byte, v int64, sp formatSpec) []byte {
	switch sp.radix {
	case 'x', 'X':
		if v < 0 {
			dst = append(dst, '-')
			return FormatHex(dst, uint64(-(v+1))+1, sp.radix == 'X', prefixStyle(sp))
		}
		return FormatHex(dst, uint64(v), sp.radix == 'X', prefixStyle(sp))
	case 'b':
		if v < 0 {
			dst = append(dst, '-')
			return FormatBinary(dst, uint64(-(v+1))+1, prefixStyle(sp))
		}
		return FormatBinary(dst, uint64(v), prefixStyle(sp))
	}
	if sp.commas {
		return FormatIntegerWithCommas(dst, v)
	}
	return strconv.AppendInt(dst, v, 10)
}

func appendUnsignedArg(dst []byte, v uint64, sp formatSpec) []byte {
	switch sp.radix {
	case 'x', 'X':
		return FormatHex(dst, v, sp.radix == 'X', prefixStyle(sp))
	case 'b':
		return FormatBinary(dst, v, prefixStyle(sp))
	}
	if sp.commas {
		return appendUintCommas(dst, v)
	}
	return strconv.AppendUint(dst, v, 10)
}
