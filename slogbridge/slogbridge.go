package slogbridge

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/Philipp01105/strobe/core"
)

// Severity maps a slog level onto a record severity. Levels between the
// named slog levels clamp downward, levels below Debug map to Trace and
// levels at Error+4 or above map to Fatal.
func Severity(l slog.Level) core.Severity {
	switch {
	case l < slog.LevelDebug:
		return core.Trace
	case l < slog.LevelInfo:
		return core.Debug
	case l < slog.LevelWarn:
		return core.Info
	case l < slog.LevelError:
		return core.Warning
	case l < slog.LevelError+4:
		return core.Error
	default:
		return core.Fatal
	}
}

// Option configures the handler.
type Option func(*handler)

// WithName sets the logger name stamped on every record.
func WithName(name string) Option {
	return func(h *handler) { h.name = name }
}

// NewHandler returns a slog.Handler that forwards slog records into the
// given dispatch core. Attribute groups flatten into dotted keys.
func NewHandler(target *core.Core, opts ...Option) slog.Handler {
	h := &handler{target: target}
	for _, o := range opts {
		o(h)
	}
	return h
}

type handler struct {
	target *core.Core
	name   string
	attrs  []core.Attr
	groups []string
}

func (h *handler) Enabled(_ context.Context, l slog.Level) bool {
	attrs := core.RecordAttributes{}
	attrs.SetSeverity(Severity(l))
	return h.target.WillAccept(&attrs)
}

func (h *handler) Handle(_ context.Context, rec slog.Record) error {
	out := &core.Record{}
	attrs := &out.Attributes
	attrs.SetSeverity(Severity(rec.Level))
	if !rec.Time.IsZero() {
		attrs.SetTime(core.DateTimeFromTime(rec.Time))
	}
	attrs.LoggerName = h.name
	if rec.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{rec.PC})
		if f, _ := frames.Next(); f.File != "" {
			attrs.Caller = core.CallerInfo{
				Defined:  true,
				File:     f.File,
				Line:     f.Line,
				Function: f.Function,
			}
		}
	}
	for _, a := range h.attrs {
		attrs.Add(a.Key, a.Value)
	}
	prefix := h.prefix()
	rec.Attrs(func(a slog.Attr) bool {
		addAttr(attrs, prefix, a)
		return true
	})
	out.Bundle.AppendString(rec.Message)
	return h.target.Dispatch(out)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var scratch core.RecordAttributes
	prefix := h.prefix()
	for _, a := range attrs {
		addAttr(&scratch, prefix, a)
	}
	dup := h.clone()
	dup.attrs = append(dup.attrs, scratch.Extra()...)
	return dup
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	dup := h.clone()
	dup.groups = append(dup.groups, name)
	return dup
}

func (h *handler) clone() *handler {
	return &handler{
		target: h.target,
		name:   h.name,
		attrs:  append([]core.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func (h *handler) prefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func addAttr(attrs *core.RecordAttributes, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p = prefix + a.Key + "."
		}
		for _, g := range v.Group() {
			addAttr(attrs, p, g)
		}
		return
	}
	if a.Key == "" && v.Any() == nil {
		return
	}
	key := prefix + a.Key
	switch v.Kind() {
	case slog.KindString:
		attrs.Add(key, core.StringValue(v.String()))
	case slog.KindInt64:
		attrs.Add(key, core.Int64Value(v.Int64()))
	case slog.KindUint64:
		attrs.Add(key, core.Uint64Value(v.Uint64()))
	case slog.KindFloat64:
		attrs.Add(key, core.Float64Value(v.Float64()))
	case slog.KindBool:
		attrs.Add(key, core.BoolValue(v.Bool()))
	case slog.KindDuration:
		attrs.Add(key, core.StringValue(v.Duration().String()))
	case slog.KindTime:
		attrs.Add(key, core.DateTimeValue(core.DateTimeFromTime(v.Time())))
	default:
		x := v.Any()
		if err, ok := x.(error); ok {
			attrs.Add(key, core.StringValue(err.Error()))
			return
		}
		attrs.Add(key, core.StringValue(fmt.Sprint(x)))
	}
}
