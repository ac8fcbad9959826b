package core

import "math"

// RefBundle is the ordered capture of one log call's message values. Each
// value is held as a SegmentStorage, so appending stays allocation-free for
// everything the inline encoding covers.
//
// Rendering is a two-pass walk: SizeRequired totals the exact byte count and
// AddToBuffer fills a buffer of that size. Both passes evolve the same
// MessageInfo line-column state, so callers must hand AddToBuffer a fresh
// copy of the state they gave SizeRequired.
//
// A RefBundle is not safe for concurrent use.
type RefBundle struct {
	segments    []SegmentStorage
	threshold   int
	needsIndent bool
}

// NewRefBundle returns a bundle whose inline captures may occupy up to
// threshold bytes. A threshold of zero or less selects
// DefaultInlineThreshold.
func NewRefBundle(threshold int) *RefBundle {
	return &RefBundle{threshold: threshold}
}

func (b *RefBundle) push(s SegmentStorage) {
	if s.kind == kindLineBreak {
		b.needsIndent = true
	}
	b.segments = append(b.segments, s)
}

func (b *RefBundle) inlineThreshold() int {
	if b.threshold <= 0 {
		return DefaultInlineThreshold
	}
	return b.threshold
}

// SetInlineThreshold changes the inline capture limit for subsequent
// appends. Zero or less selects DefaultInlineThreshold.
func (b *RefBundle) SetInlineThreshold(n int) {
	b.threshold = n
}

// Append captures v. See capture for the accepted kinds; anything outside
// the set is stored as its fmt rendering.
func (b *RefBundle) Append(v any) {
	b.push(capture(v, b.inlineThreshold()))
}

// AppendString captures s without interface boxing.
func (b *RefBundle) AppendString(s string) {
	b.push(captureString(s, b.inlineThreshold()))
}

// AppendBytes snapshots and captures p.
func (b *RefBundle) AppendBytes(p []byte) {
	b.push(captureBytes(p, b.inlineThreshold()))
}

// AppendInt captures v as a signed integer.
func (b *RefBundle) AppendInt(v int64) {
	b.push(SegmentStorage{kind: kindInt64, num: v})
}

// AppendUint captures v as an unsigned integer.
func (b *RefBundle) AppendUint(v uint64) {
	b.push(SegmentStorage{kind: kindUint64, num: int64(v)})
}

// AppendFloat captures v as a 64-bit float.
func (b *RefBundle) AppendFloat(v float64) {
	b.push(SegmentStorage{kind: kindFloat64, num: int64(math.Float64bits(v))})
}

// AppendBool captures v.
func (b *RefBundle) AppendBool(v bool) {
	b.Append(v)
}

// AppendDateTime captures t.
func (b *RefBundle) AppendDateTime(t DateTime) {
	b.push(SegmentStorage{kind: kindDateTime, num: t.us})
}

// AppendLineBreak captures a line break that indents its continuation line
// to the message start column.
func (b *RefBundle) AppendLineBreak() {
	b.push(SegmentStorage{kind: kindLineBreak})
}

// AppendPadUntil captures a marker that pads with spaces up to the given
// message-relative column.
func (b *RefBundle) AppendPadUntil(column int) {
	b.push(SegmentStorage{kind: kindPadUntil, num: int64(column)})
}

// AppendRepeat captures a marker that renders char count times.
func (b *RefBundle) AppendRepeat(count int, char byte) {
	b.push(SegmentStorage{kind: kindRepeat, num: int64(count)<<8 | int64(char)})
}

// AppendSegment captures a caller-supplied segment without copying it.
func (b *RefBundle) AppendSegment(s Segment) {
	b.push(SegmentStorage{kind: kindHeap, seg: s})
}

// Len returns the number of captured values.
func (b *RefBundle) Len() int { return len(b.segments) }

// Storage returns the i'th capture for inspection. The pointer stays valid
// until the next append or Reset.
func (b *RefBundle) Storage(i int) *SegmentStorage { return &b.segments[i] }

// NeedsIndentation reports whether any captured value emits a line break,
// which is when the message start column matters.
func (b *RefBundle) NeedsIndentation() bool { return b.needsIndent }

// Reset drops all captures but keeps the backing storage for reuse.
func (b *RefBundle) Reset() {
	clear(b.segments)
	b.segments = b.segments[:0]
	b.needsIndent = false
}

// SizeRequired totals the exact rendered size of all captures, advancing
// info's line-column state as it goes.
func (b *RefBundle) SizeRequired(settings *FormattingSettings, info *MessageInfo) int {
	total := 0
	for i := range b.segments {
		st := &b.segments[i]
		n := st.SizeRequired(settings, *info)
		advanceColumn(st, n, info)
		total += n
	}
	return total
}

// AddToBuffer renders all captures into buf, which must hold at least
// SizeRequired bytes for the same settings and starting state. It returns
// the byte count written and advances info in step with SizeRequired.
func (b *RefBundle) AddToBuffer(settings *FormattingSettings, info *MessageInfo, buf []byte) int {
	off := 0
	for i := range b.segments {
		st := &b.segments[i]
		n := st.AddToBuffer(settings, *info, buf[off:])
		advanceColumn(st, n, info)
		off += n
	}
	return off
}
