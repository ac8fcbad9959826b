package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultInlineThreshold is the capture footprint, in bytes, at or below
// which values are embedded directly in their SegmentStorage slot instead of
// being boxed behind a heap Segment.
const DefaultInlineThreshold = 64

type segmentKind uint8

const (
	kindNone segmentKind = iota
	kindInt64
	kindUint64
	kindFloat64
	kindBool
	kindString
	kindBytes
	kindDateTime
	kindLineBreak
	kindPadUntil
	kindRepeat
	kindHeap
)

// SegmentStorage captures one logged value behind the Segment capability
// surface. Values of the closed kind set whose footprint fits the capture
// threshold are encoded into the struct's own fields and never allocate;
// everything else (oversized strings, coloring wrappers, caller-supplied
// segments) is carried as one boxed Segment. Both placements render
// identically, and IsInline reports which one was chosen.
//
// A SegmentStorage copies safely: inline data is self-contained and the heap
// placement is a pointer whose target never moves.
//
// The zero SegmentStorage holds nothing; use HasData to tell it apart from a
// captured value.
type SegmentStorage struct {
	kind segmentKind
	num  int64
	str  string
	seg  Segment
}

// capture encodes v as a SegmentStorage, dispatching on the closed set of
// accepted kinds. Values outside the set fall back to their fmt rendering.
func capture(v any, threshold int) SegmentStorage {
	if threshold <= 0 {
		threshold = DefaultInlineThreshold
	}
	switch x := v.(type) {
	case nil:
		return captureString("<nil>", threshold)
	case string:
		return captureString(x, threshold)
	case int:
		return SegmentStorage{kind: kindInt64, num: int64(x)}
	case int64:
		return SegmentStorage{kind: kindInt64, num: x}
	case int32:
		return SegmentStorage{kind: kindInt64, num: int64(x)}
	case int16:
		return SegmentStorage{kind: kindInt64, num: int64(x)}
	case int8:
		return SegmentStorage{kind: kindInt64, num: int64(x)}
	case uint:
		return SegmentStorage{kind: kindUint64, num: int64(uint64(x))}
	case uint64:
		return SegmentStorage{kind: kindUint64, num: int64(x)}
	case uint32:
		return SegmentStorage{kind: kindUint64, num: int64(x)}
	case uint16:
		return SegmentStorage{kind: kindUint64, num: int64(x)}
	case uint8:
		return SegmentStorage{kind: kindUint64, num: int64(x)}
	case uintptr:
		return SegmentStorage{kind: kindUint64, num: int64(uint64(x))}
	case float64:
		return SegmentStorage{kind: kindFloat64, num: int64(math.Float64bits(x))}
	case float32:
		return SegmentStorage{kind: kindFloat64, num: int64(math.Float64bits(float64(x)))}
	case bool:
		var n int64
		if x {
			n = 1
		}
		return SegmentStorage{kind: kindBool, num: n}
	case []byte:
		return captureBytes(x, threshold)
	case DateTime:
		return SegmentStorage{kind: kindDateTime, num: x.us}
	case time.Time:
		return SegmentStorage{kind: kindDateTime, num: DateTimeFromTime(x).us}
	case time.Duration:
		return captureString(x.String(), threshold)
	case lineIndent:
		return SegmentStorage{kind: kindLineBreak}
	case PadUntil:
		return SegmentStorage{kind: kindPadUntil, num: int64(x.Column)}
	case RepeatChar:
		return SegmentStorage{kind: kindRepeat, num: int64(x.Count)<<8 | int64(x.Char)}
	case Segment:
		return SegmentStorage{kind: kindHeap, seg: x}
	case error:
		return captureString(x.Error(), threshold)
	case fmt.Stringer:
		return captureString(x.String(), threshold)
	}
	return captureString(fmt.Sprint(v), threshold)
}

func captureString(s string, threshold int) SegmentStorage {
	if len(s) <= threshold {
		return SegmentStorage{kind: kindString, str: s}
	}
	return SegmentStorage{kind: kindHeap, seg: stringSegment(s)}
}

// captureBytes snapshots the slice contents, so later mutation of the
// caller's slice cannot change what gets logged.
func captureBytes(p []byte, threshold int) SegmentStorage {
	if len(p) <= threshold {
		return SegmentStorage{kind: kindBytes, str: string(p)}
	}
	return SegmentStorage{kind: kindHeap, seg: stringSegment(p)}
}

// stringSegment is the boxed form of string and byte payloads above the
// inline threshold.
type stringSegment string

func (s stringSegment) SizeRequired(*FormattingSettings, MessageInfo) int { return len(s) }

func (s stringSegment) AddToBuffer(_ *FormattingSettings, _ MessageInfo, buf []byte) int {
	return copy(buf, s)
}

// HasData reports whether the storage holds a captured value.
func (s *SegmentStorage) HasData() bool { return s.kind != kindNone }

// IsInline reports whether the captured value is embedded in the storage
// itself rather than boxed on the heap. It is false for the zero storage.
func (s *SegmentStorage) IsInline() bool { return s.kind != kindNone && s.kind != kindHeap }

// SizeRequired implements Segment.
func (s *SegmentStorage) SizeRequired(settings *FormattingSettings, info MessageInfo) int {
	switch s.kind {
	case kindInt64:
		return intWidth(s.num, settings.ThousandsSeparators)
	case kindUint64:
		return uintWidth(uint64(s.num), settings.ThousandsSeparators)
	case kindFloat64:
		var tmp [32]byte
		return len(strconv.AppendFloat(tmp[:0], math.Float64frombits(uint64(s.num)), 'g', -1, 64))
	case kindBool:
		if s.num != 0 {
			return len("true")
		}
		return len("false")
	case kindString, kindBytes:
		return len(s.str)
	case kindDateTime:
		return DateTimeFormatLen
	case kindLineBreak:
		return 1 + info.Indentation
	case kindPadUntil:
		if n := int(s.num) - info.MessageColumn; n > 0 {
			return n
		}
		return 0
	case kindRepeat:
		return int(s.num >> 8)
	case kindHeap:
		return s.seg.SizeRequired(settings, info)
	}
	return 0
}

// AddToBuffer implements Segment. It panics when buf is shorter than
// SizeRequired for the same settings and state.
func (s *SegmentStorage) AddToBuffer(settings *FormattingSettings, info MessageInfo, buf []byte) int {
	if need := s.SizeRequired(settings, info); need > len(buf) {
		panic(fmt.Sprintf("core: segment needs %d bytes, buffer has %d", need, len(buf)))
	}
	switch s.kind {
	case kindInt64:
		return len(appendInt(buf[:0], s.num, settings.ThousandsSeparators))
	case kindUint64:
		return len(appendUint(buf[:0], uint64(s.num), settings.ThousandsSeparators))
	case kindFloat64:
		return len(strconv.AppendFloat(buf[:0], math.Float64frombits(uint64(s.num)), 'g', -1, 64))
	case kindBool:
		if s.num != 0 {
			return copy(buf, "true")
		}
		return copy(buf, "false")
	case kindString, kindBytes:
		return copy(buf, s.str)
	case kindDateTime:
		DateTime{us: s.num}.AppendFormat(buf[:0])
		return DateTimeFormatLen
	case kindLineBreak:
		buf[0] = '\n'
		for i := 1; i <= info.Indentation; i++ {
			buf[i] = ' '
		}
		return 1 + info.Indentation
	case kindPadUntil:
		n := int(s.num) - info.MessageColumn
		if n <= 0 {
			return 0
		}
		for i := 0; i < n; i++ {
			buf[i] = ' '
		}
		return n
	case kindRepeat:
		n := int(s.num >> 8)
		c := byte(s.num)
		for i := 0; i < n; i++ {
			buf[i] = c
		}
		return n
	case kindHeap:
		return s.seg.AddToBuffer(settings, info, buf)
	}
	return 0
}

// payload exposes string-like contents for line-column tracking.
func (s *SegmentStorage) payload() (string, bool) {
	switch s.kind {
	case kindString, kindBytes:
		return s.str, true
	case kindHeap:
		if ss, ok := s.seg.(stringSegment); ok {
			return string(ss), true
		}
	}
	return "", false
}

// advanceColumn moves the line-column state past a segment that rendered n
// bytes. String payloads containing line breaks restart the count from their
// last line; custom heap segments are treated as single-line.
func advanceColumn(st *SegmentStorage, n int, info *MessageInfo) {
	if st.kind == kindLineBreak {
		info.MessageColumn = 0
		return
	}
	if p, ok := st.payload(); ok {
		if i := strings.LastIndexByte(p, '\n'); i >= 0 {
			info.MessageColumn = len(p) - i - 1
			return
		}
	}
	info.MessageColumn += n
}

func uintDigits(u uint64) int {
	n := 1
	for u >= 10 {
		u /= 10
		n++
	}
	return n
}

func uintWidth(u uint64, sep bool) int {
	d := uintDigits(u)
	if sep {
		d += (d - 1) / 3
	}
	return d
}

func intWidth(v int64, sep bool) int {
	if v < 0 {
		return 1 + uintWidth(uint64(-(v+1))+1, sep)
	}
	return uintWidth(uint64(v), sep)
}

// appendUint appends u in decimal, grouping digits by thousands when sep is
// set.
func appendUint(dst []byte, u uint64, sep bool) []byte {
	var tmp [26]byte
	i := len(tmp)
	c := 0
	for {
		i--
		tmp[i] = byte('0' + u%10)
		u /= 10
		c++
		if u == 0 {
			break
		}
		if sep && c%3 == 0 {
			i--
			tmp[i] = ','
		}
	}
	return append(dst, tmp[i:]...)
}

func appendInt(dst []byte, v int64, sep bool) []byte {
	if v < 0 {
		dst = append(dst, '-')
		return appendUint(dst, uint64(-(v+1))+1, sep)
	}
	return appendUint(dst, uint64(v), sep)
}
