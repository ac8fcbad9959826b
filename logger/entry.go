package logger

import (
	"fmt"
	"sync"
	"time"

	"github.com/Philipp01105/strobe/core"
)

// Entry accumulates the message values of a single record before it is
// dispatched. Entries come from the logger's leveled entry points and must
// be finished with exactly one call to Dispatch or Msg, which recycles them.
//
// A nil Entry is valid: every method is a no-op and Dispatch returns nil.
// Entry points hand out nil when the record would be rejected anyway, so a
// gated call site pays for the severity check and nothing else.
type Entry struct {
	logger *Logger
	rec    core.Record

	// dead marks an entry whose record was rejected but whose terminal
	// behavior must still run. Fatal hands these out so the process exits
	// even when the severity is filtered.
	dead bool
	exit bool
}

var entryPool = sync.Pool{New: func() any { return new(Entry) }}

func getEntry() *Entry { return entryPool.Get().(*Entry) }

func putEntry(e *Entry) {
	e.logger = nil
	e.dead = false
	e.exit = false
	e.rec.Reset()
	entryPool.Put(e)
}

// Str appends a string value.
func (e *Entry) Str(v string) *Entry {
	if e != nil {
		e.rec.Bundle.AppendString(v)
	}
	return e
}

// Bytes appends a byte slice value. The bytes are copied.
func (e *Entry) Bytes(v []byte) *Entry {
	if e != nil {
		e.rec.Bundle.AppendBytes(v)
	}
	return e
}

// Int appends an integer value.
func (e *Entry) Int(v int) *Entry {
	if e != nil {
		e.rec.Bundle.AppendInt(int64(v))
	}
	return e
}

// Int64 appends a 64-bit integer value.
func (e *Entry) Int64(v int64) *Entry {
	if e != nil {
		e.rec.Bundle.AppendInt(v)
	}
	return e
}

// Uint64 appends an unsigned 64-bit integer value.
func (e *Entry) Uint64(v uint64) *Entry {
	if e != nil {
		e.rec.Bundle.AppendUint(v)
	}
	return e
}

// Float64 appends a floating point value.
func (e *Entry) Float64(v float64) *Entry {
	if e != nil {
		e.rec.Bundle.AppendFloat(v)
	}
	return e
}

// Bool appends a boolean value.
func (e *Entry) Bool(v bool) *Entry {
	if e != nil {
		e.rec.Bundle.AppendBool(v)
	}
	return e
}

// Time appends a timestamp value.
func (e *Entry) Time(v core.DateTime) *Entry {
	if e != nil {
		e.rec.Bundle.AppendDateTime(v)
	}
	return e
}

// Dur appends a duration value rendered by time.Duration.String.
func (e *Entry) Dur(v time.Duration) *Entry {
	if e != nil {
		e.rec.Bundle.Append(v)
	}
	return e
}

// Err appends the error's message. A nil error appends nothing.
func (e *Entry) Err(err error) *Entry {
	if e != nil && err != nil {
		e.rec.Bundle.Append(err)
	}
	return e
}

// Stringer appends the value's String result.
func (e *Entry) Stringer(v fmt.Stringer) *Entry {
	if e != nil {
		e.rec.Bundle.Append(v)
	}
	return e
}

// Any appends an arbitrary value. Known kinds are captured directly, the
// rest render through the fmt package.
func (e *Entry) Any(v any) *Entry {
	if e != nil {
		e.rec.Bundle.Append(v)
	}
	return e
}

// Colored appends a value wrapped in the given ANSI color. Sinks whose
// settings have color support disabled render the bare value.
func (e *Entry) Colored(v any, color core.AnsiColor) *Entry {
	if e != nil {
		e.rec.Bundle.AppendSegment(core.Colored(v, color))
	}
	return e
}

// NewLine appends a line break. Formatters indent the continuation line to
// the column where the message started.
func (e *Entry) NewLine() *Entry {
	if e != nil {
		e.rec.Bundle.AppendLineBreak()
	}
	return e
}

// PadUntil appends spaces up to the given message-relative column. Columns
// already passed pad nothing.
func (e *Entry) PadUntil(column int) *Entry {
	if e != nil {
		e.rec.Bundle.AppendPadUntil(column)
	}
	return e
}

// RepeatChar appends char count times.
func (e *Entry) RepeatChar(count int, char byte) *Entry {
	if e != nil {
		e.rec.Bundle.AppendRepeat(count, char)
	}
	return e
}

// Attr attaches a named attribute to the record. Named attributes do not
// render unless a formatter or template refers to them by name.
func (e *Entry) Attr(key string, v core.Value) *Entry {
	if e != nil {
		e.rec.Attributes.Add(key, v)
	}
	return e
}

// Dispatch stamps the record with the logger's clock, hands it to the core
// and recycles the entry. The entry must not be used afterwards. Entries
// from Fatal flush the core and exit the process after dispatching.
func (e *Entry) Dispatch() error {
	if e == nil {
		return nil
	}
	l := e.logger
	var err error
	if !e.dead {
		e.rec.Attributes.SetTime(core.DateTimeFromMicroseconds(l.clock.NowMicros()))
		if l.captureGID {
			e.rec.Attributes.SetGoroutineID(core.GoroutineID())
		}
		err = l.core.Dispatch(&e.rec)
	}
	exit := e.exit
	putEntry(e)
	if exit {
		if l != nil && l.core != nil {
			l.core.Flush()
		}
		osExit(1)
	}
	return err
}

// Msg appends a final string value and dispatches the record.
func (e *Entry) Msg(v string) error {
	return e.Str(v).Dispatch()
}
