package zapbridge

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/Philipp01105/strobe/core"
)

// Severity maps a zap level onto a record severity. Levels below Debug map
// to Trace, DPanic and above map to Fatal.
func Severity(l zapcore.Level) core.Severity {
	switch {
	case l < zapcore.DebugLevel:
		return core.Trace
	case l == zapcore.DebugLevel:
		return core.Debug
	case l == zapcore.InfoLevel:
		return core.Info
	case l == zapcore.WarnLevel:
		return core.Warning
	case l == zapcore.ErrorLevel:
		return core.Error
	default:
		return core.Fatal
	}
}

// Option configures the bridge core.
type Option func(*bridgeCore)

// WithAttrs seeds every record written through the bridge with base
// attributes.
func WithAttrs(attrs ...core.Attr) Option {
	return func(b *bridgeCore) {
		b.attrs = append(b.attrs, attrs...)
	}
}

// NewCore returns a zapcore.Core that forwards zap entries into the given
// dispatch core, so zap-based code can feed the same sinks as everything
// else. Fields become named record attributes.
func NewCore(target *core.Core, opts ...Option) zapcore.Core {
	b := &bridgeCore{target: target}
	for _, o := range opts {
		o(b)
	}
	return b
}

type bridgeCore struct {
	target *core.Core
	attrs  []core.Attr
}

func (b *bridgeCore) Enabled(l zapcore.Level) bool {
	attrs := core.RecordAttributes{}
	attrs.SetSeverity(Severity(l))
	return b.target.WillAccept(&attrs)
}

func (b *bridgeCore) With(fields []zapcore.Field) zapcore.Core {
	if len(fields) == 0 {
		return b
	}
	dup := &bridgeCore{
		target: b.target,
		attrs:  append([]core.Attr(nil), b.attrs...),
	}
	for _, f := range fields {
		if a, ok := fieldAttr(f); ok {
			dup.attrs = append(dup.attrs, a)
		}
	}
	return dup
}

func (b *bridgeCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if b.Enabled(ent.Level) {
		return ce.AddCore(ent, b)
	}
	return ce
}

func (b *bridgeCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	rec := &core.Record{}
	attrs := &rec.Attributes
	attrs.SetSeverity(Severity(ent.Level))
	if !ent.Time.IsZero() {
		attrs.SetTime(core.DateTimeFromTime(ent.Time))
	}
	attrs.LoggerName = ent.LoggerName
	if ent.Caller.Defined {
		attrs.Caller = core.CallerInfo{
			Defined:  true,
			File:     ent.Caller.File,
			Line:     ent.Caller.Line,
			Function: ent.Caller.Function,
		}
	}
	for _, a := range b.attrs {
		attrs.Add(a.Key, a.Value)
	}
	for _, f := range fields {
		if a, ok := fieldAttr(f); ok {
			attrs.Add(a.Key, a.Value)
		}
	}
	rec.Bundle.AppendString(ent.Message)
	if ent.Stack != "" {
		rec.Bundle.AppendString("\n" + ent.Stack)
	}
	return b.target.Dispatch(rec)
}

func (b *bridgeCore) Sync() error {
	return b.target.Flush()
}

// fieldAttr converts one zap field. Skip fields and namespace markers
// report ok false.
func fieldAttr(f zapcore.Field) (core.Attr, bool) {
	switch f.Type {
	case zapcore.StringType:
		return core.Attr{Key: f.Key, Value: core.StringValue(f.String)}, true
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		return core.Attr{Key: f.Key, Value: core.Int64Value(f.Integer)}, true
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type, zapcore.UintptrType:
		return core.Attr{Key: f.Key, Value: core.Uint64Value(uint64(f.Integer))}, true
	case zapcore.Float64Type:
		return core.Attr{Key: f.Key, Value: core.Float64Value(math.Float64frombits(uint64(f.Integer)))}, true
	case zapcore.Float32Type:
		return core.Attr{Key: f.Key, Value: core.Float64Value(float64(math.Float32frombits(uint32(f.Integer))))}, true
	case zapcore.BoolType:
		return core.Attr{Key: f.Key, Value: core.BoolValue(f.Integer == 1)}, true
	case zapcore.DurationType:
		return core.Attr{Key: f.Key, Value: core.StringValue(time.Duration(f.Integer).String())}, true
	case zapcore.TimeType:
		t := time.Unix(0, f.Integer)
		return core.Attr{Key: f.Key, Value: core.DateTimeValue(core.DateTimeFromTime(t))}, true
	case zapcore.TimeFullType:
		if t, ok := f.Interface.(time.Time); ok {
			return core.Attr{Key: f.Key, Value: core.DateTimeValue(core.DateTimeFromTime(t))}, true
		}
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok {
			return core.Attr{Key: f.Key, Value: core.StringValue(err.Error())}, true
		}
	case zapcore.StringerType:
		if s, ok := f.Interface.(fmt.Stringer); ok {
			return core.Attr{Key: f.Key, Value: core.StringValue(s.String())}, true
		}
	case zapcore.ByteStringType:
		if p, ok := f.Interface.([]byte); ok {
			return core.Attr{Key: f.Key, Value: core.StringValue(string(p))}, true
		}
	case zapcore.SkipType, zapcore.NamespaceType:
		return core.Attr{}, false
	}
	return core.Attr{Key: f.Key, Value: core.StringValue(fmt.Sprint(f.Interface))}, true
}
