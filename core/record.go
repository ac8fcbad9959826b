package core

import (
	"math"
	"strconv"
)

// ValueKind discriminates the payload of a Value.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueBool
	ValueInt64
	ValueUint64
	ValueFloat64
	ValueString
	ValueDateTime
)

// Value is a typed attribute payload. The zero Value has kind ValueNone.
type Value struct {
	kind ValueKind
	num  int64
	str  string
}

// BoolValue returns a Value holding v.
func BoolValue(v bool) Value {
	var n int64
	if v {
		n = 1
	}
	return Value{kind: ValueBool, num: n}
}

// Int64Value returns a Value holding v.
func Int64Value(v int64) Value { return Value{kind: ValueInt64, num: v} }

// Uint64Value returns a Value holding v.
func Uint64Value(v uint64) Value { return Value{kind: ValueUint64, num: int64(v)} }

// Float64Value returns a Value holding v.
func Float64Value(v float64) Value {
	return Value{kind: ValueFloat64, num: int64(math.Float64bits(v))}
}

// StringValue returns a Value holding v.
func StringValue(v string) Value { return Value{kind: ValueString, str: v} }

// DateTimeValue returns a Value holding v.
func DateTimeValue(v DateTime) Value { return Value{kind: ValueDateTime, num: v.us} }

// Kind returns the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// Bool returns the held bool, or false for other kinds.
func (v Value) Bool() bool { return v.kind == ValueBool && v.num != 0 }

// Int64 returns the held signed integer, or 0 for other kinds.
func (v Value) Int64() int64 {
	if v.kind == ValueInt64 {
		return v.num
	}
	return 0
}

// Uint64 returns the held unsigned integer, or 0 for other kinds.
func (v Value) Uint64() uint64 {
	if v.kind == ValueUint64 {
		return uint64(v.num)
	}
	return 0
}

// Float64 returns the held float, or 0 for other kinds.
func (v Value) Float64() float64 {
	if v.kind == ValueFloat64 {
		return math.Float64frombits(uint64(v.num))
	}
	return 0
}

// String returns the held string, or "" for other kinds.
func (v Value) String() string {
	if v.kind == ValueString {
		return v.str
	}
	return ""
}

// DateTime returns the held timestamp, or the zero DateTime for other kinds.
func (v Value) DateTime() DateTime {
	if v.kind == ValueDateTime {
		return DateTime{us: v.num}
	}
	return DateTime{}
}

// AppendText appends the value's textual form to dst.
func (v Value) AppendText(dst []byte) []byte {
	switch v.kind {
	case ValueBool:
		return strconv.AppendBool(dst, v.num != 0)
	case ValueInt64:
		return strconv.AppendInt(dst, v.num, 10)
	case ValueUint64:
		return strconv.AppendUint(dst, uint64(v.num), 10)
	case ValueFloat64:
		return strconv.AppendFloat(dst, math.Float64frombits(uint64(v.num)), 'g', -1, 64)
	case ValueString:
		return append(dst, v.str...)
	case ValueDateTime:
		return DateTime{us: v.num}.AppendFormat(dst)
	}
	return dst
}

// Attr is one named attribute on a record.
type Attr struct {
	Key   string
	Value Value
}

// RecordAttributes is the typed metadata attached to a record: the optional
// severity and timestamp, the producing logger's name, the optional source
// location and goroutine id, and any further named attributes.
//
// Severity and Time carry explicit presence flags because unleveled and
// untimestamped records are valid and must stay distinguishable from
// Severity(0) and the zero DateTime.
type RecordAttributes struct {
	Severity    Severity
	HasSeverity bool

	Time    DateTime
	HasTime bool

	LoggerName string

	Caller CallerInfo

	GoroutineID    uint64
	HasGoroutineID bool

	extra []Attr
}

// SetSeverity sets the severity and marks it present.
func (a *RecordAttributes) SetSeverity(s Severity) {
	a.Severity = s
	a.HasSeverity = true
}

// SetTime sets the timestamp and marks it present.
func (a *RecordAttributes) SetTime(t DateTime) {
	a.Time = t
	a.HasTime = true
}

// SetGoroutineID sets the goroutine id and marks it present.
func (a *RecordAttributes) SetGoroutineID(id uint64) {
	a.GoroutineID = id
	a.HasGoroutineID = true
}

// Add appends a named attribute. Adding a key again shadows the earlier
// value for Lookup without removing it.
func (a *RecordAttributes) Add(key string, v Value) {
	a.extra = append(a.extra, Attr{Key: key, Value: v})
}

// Lookup returns the most recently added value for key.
func (a *RecordAttributes) Lookup(key string) (Value, bool) {
	for i := len(a.extra) - 1; i >= 0; i-- {
		if a.extra[i].Key == key {
			return a.extra[i].Value, true
		}
	}
	return Value{}, false
}

// Extra returns the named attributes in insertion order. The slice is shared
// with the record and must not be mutated.
func (a *RecordAttributes) Extra() []Attr { return a.extra }

// Reset clears all attributes for reuse, keeping the extra slice's storage.
func (a *RecordAttributes) Reset() {
	extra := a.extra
	clear(extra)
	*a = RecordAttributes{extra: extra[:0]}
}

// Record is one log event: its attributes plus the captured message values.
type Record struct {
	Attributes RecordAttributes
	Bundle     RefBundle
}

// Reset clears the record for reuse, keeping both backing slices.
func (r *Record) Reset() {
	r.Attributes.Reset()
	r.Bundle.Reset()
}
