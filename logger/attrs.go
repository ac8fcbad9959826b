package logger

import (
	"fmt"
	"time"

	"github.com/Philipp01105/strobe/core"
)

// Attribute constructors for Logger.With, Builder.WithAttrs and Entry.Attr,
// so call sites don't have to spell out core.Attr literals.

// String returns a string attribute.
func String(key, value string) core.Attr {
	return core.Attr{Key: key, Value: core.StringValue(value)}
}

// Int returns an integer attribute.
func Int(key string, value int) core.Attr {
	return core.Attr{Key: key, Value: core.Int64Value(int64(value))}
}

// Int64 returns a 64-bit integer attribute.
func Int64(key string, value int64) core.Attr {
	return core.Attr{Key: key, Value: core.Int64Value(value)}
}

// Uint64 returns an unsigned 64-bit integer attribute.
func Uint64(key string, value uint64) core.Attr {
	return core.Attr{Key: key, Value: core.Uint64Value(value)}
}

// Float64 returns a floating point attribute.
func Float64(key string, value float64) core.Attr {
	return core.Attr{Key: key, Value: core.Float64Value(value)}
}

// Bool returns a boolean attribute.
func Bool(key string, value bool) core.Attr {
	return core.Attr{Key: key, Value: core.BoolValue(value)}
}

// Time returns a timestamp attribute.
func Time(key string, value time.Time) core.Attr {
	return core.Attr{Key: key, Value: core.DateTimeValue(core.DateTimeFromTime(value))}
}

// DateTime returns a timestamp attribute from an already converted value.
func DateTime(key string, value core.DateTime) core.Attr {
	return core.Attr{Key: key, Value: core.DateTimeValue(value)}
}

// Duration returns the duration's textual form as a string attribute.
func Duration(key string, value time.Duration) core.Attr {
	return core.Attr{Key: key, Value: core.StringValue(value.String())}
}

// Err returns the error's message under the key "error". A nil error
// yields an attribute that formatters render as empty.
func Err(err error) core.Attr {
	if err == nil {
		return core.Attr{Key: "error"}
	}
	return core.Attr{Key: "error", Value: core.StringValue(err.Error())}
}

// Any returns an attribute holding the value's closest typed form. Values
// outside the supported kinds render through the fmt package.
func Any(key string, value any) core.Attr {
	switch x := value.(type) {
	case string:
		return String(key, x)
	case bool:
		return Bool(key, x)
	case int:
		return Int(key, x)
	case int8:
		return Int64(key, int64(x))
	case int16:
		return Int64(key, int64(x))
	case int32:
		return Int64(key, int64(x))
	case int64:
		return Int64(key, x)
	case uint:
		return Uint64(key, uint64(x))
	case uint8:
		return Uint64(key, uint64(x))
	case uint16:
		return Uint64(key, uint64(x))
	case uint32:
		return Uint64(key, uint64(x))
	case uint64:
		return Uint64(key, x)
	case float32:
		return Float64(key, float64(x))
	case float64:
		return Float64(key, x)
	case time.Time:
		return Time(key, x)
	case core.DateTime:
		return DateTime(key, x)
	case time.Duration:
		return Duration(key, x)
	case error:
		return core.Attr{Key: key, Value: core.StringValue(x.Error())}
	case fmt.Stringer:
		return String(key, x.String())
	case nil:
		return core.Attr{Key: key}
	default:
		return String(key, fmt.Sprint(x))
	}
}
