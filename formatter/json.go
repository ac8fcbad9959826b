package formatter

import (
	"math"
	"strconv"

	"github.com/Philipp01105/strobe/core"
)

// JSONFormatter renders each record as one JSON object. Keys appear in a
// fixed order: time, severity, logger, thread, caller, message, then the
// record's named attributes in insertion order. Optional attributes the
// record does not carry are omitted rather than rendered null; message is
// always present. The payload is rendered with plain settings, so sink-side
// color has no effect on the JSON form.
type JSONFormatter struct{}

// NewJSONFormatter returns the JSON record formatter.
func NewJSONFormatter() *JSONFormatter { return &JSONFormatter{} }

const hexDigits = "0123456789abcdef"

// escapedLen returns the byte length of s in JSON string form, quotes not
// included. Quotes and backslashes take two bytes, control bytes take the
// six-byte \u00XX form, everything else passes through.
func escapedLen(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		switch b := s[i]; {
		case b == '"' || b == '\\':
			n += 2
		case b < 0x20:
			n += 6
		default:
			n++
		}
	}
	return n
}

func appendEscaped(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		switch b := s[i]; {
		case b == '"' || b == '\\':
			dst = append(dst, '\\', b)
		case b < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0xf])
		default:
			dst = append(dst, b)
		}
	}
	return dst
}

// jsonValueLen returns the rendered length of v as a JSON value.
func jsonValueLen(v core.Value) int {
	switch v.Kind() {
	case core.ValueString:
		return escapedLen(v.String()) + 2
	case core.ValueDateTime:
		return core.DateTimeFormatLen + 2
	case core.ValueBool:
		if v.Bool() {
			return 4
		}
		return 5
	case core.ValueFloat64:
		f := v.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return len("null")
		}
		var scratch [32]byte
		return len(v.AppendText(scratch[:0]))
	case core.ValueInt64, core.ValueUint64:
		var scratch [32]byte
		return len(v.AppendText(scratch[:0]))
	}
	return len("null")
}

func appendJSONValue(dst []byte, v core.Value) []byte {
	switch v.Kind() {
	case core.ValueString:
		dst = append(dst, '"')
		dst = appendEscaped(dst, v.String())
		return append(dst, '"')
	case core.ValueDateTime:
		dst = append(dst, '"')
		dst = v.AppendText(dst)
		return append(dst, '"')
	case core.ValueBool, core.ValueInt64, core.ValueUint64:
		return v.AppendText(dst)
	case core.ValueFloat64:
		f := v.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return append(dst, "null"...)
		}
		return v.AppendText(dst)
	}
	return append(dst, "null"...)
}

// Format implements core.Formatter.
func (f *JSONFormatter) Format(rec *core.Record, settings *core.FormattingSettings, buf *core.Buffer) {
	attrs := &rec.Attributes

	// The payload is rendered up front because its escaped length depends on
	// the bytes it produces.
	plain := core.FormattingSettings{}
	scratch := core.GetBuffer()
	defer core.PutBuffer(scratch)
	msgInfo := core.MessageInfo{NeedsIndentation: rec.Bundle.NeedsIndentation()}
	msgSize := rec.Bundle.SizeRequired(&plain, &msgInfo)
	msgInfo = core.MessageInfo{NeedsIndentation: rec.Bundle.NeedsIndentation()}
	rec.Bundle.AddToBuffer(&plain, &msgInfo, scratch.Extend(msgSize))
	msg := string(scratch.Bytes())

	fields := 1 // message is always present
	size := 2   // braces
	if attrs.HasTime {
		fields++
		size += len(`"time":""`) + core.DateTimeFormatLen
	}
	if attrs.HasSeverity {
		fields++
		size += len(`"severity":""`) + len(attrs.Severity.String())
	}
	if attrs.LoggerName != "" {
		fields++
		size += len(`"logger":""`) + escapedLen(attrs.LoggerName)
	}
	if attrs.HasGoroutineID {
		fields++
		size += len(`"thread":`) + uintDecimalWidth(attrs.GoroutineID)
	}
	if attrs.Caller.Defined {
		fields++
		size += len(`"caller":""`) + escapedLen(attrs.Caller.File) + 1 +
			uintDecimalWidth(uint64(attrs.Caller.Line))
	}
	size += len(`"message":""`) + escapedLen(msg)
	for _, a := range attrs.Extra() {
		fields++
		size += len(`"":`) + escapedLen(a.Key) + jsonValueLen(a.Value)
	}
	size += fields - 1 // commas

	window := buf.Extend(size + len(settings.Terminator))
	out := window[:0]
	out = append(out, '{')
	wroteField := false
	comma := func() {
		if wroteField {
			out = append(out, ',')
		}
		wroteField = true
	}
	if attrs.HasTime {
		comma()
		out = append(out, `"time":"`...)
		out = attrs.Time.AppendFormat(out)
		out = append(out, '"')
	}
	if attrs.HasSeverity {
		comma()
		out = append(out, `"severity":"`...)
		out = append(out, attrs.Severity.String()...)
		out = append(out, '"')
	}
	if attrs.LoggerName != "" {
		comma()
		out = append(out, `"logger":"`...)
		out = appendEscaped(out, attrs.LoggerName)
		out = append(out, '"')
	}
	if attrs.HasGoroutineID {
		comma()
		out = append(out, `"thread":`...)
		out = strconv.AppendUint(out, attrs.GoroutineID, 10)
	}
	if attrs.Caller.Defined {
		comma()
		out = append(out, `"caller":"`...)
		out = appendEscaped(out, attrs.Caller.File)
		out = append(out, ':')
		out = strconv.AppendInt(out, int64(attrs.Caller.Line), 10)
		out = append(out, '"')
	}
	comma()
	out = append(out, `"message":"`...)
	out = appendEscaped(out, msg)
	out = append(out, '"')
	for _, a := range attrs.Extra() {
		out = append(out, ',', '"')
		out = appendEscaped(out, a.Key)
		out = append(out, '"', ':')
		out = appendJSONValue(out, a.Value)
	}
	out = append(out, '}')
	out = append(out, settings.Terminator...)
	if len(out) != len(window) {
		panic("formatter: json sizing pass disagrees with the write pass")
	}
}
