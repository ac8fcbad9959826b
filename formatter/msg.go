package formatter

import (
	"fmt"
	"strings"

	"github.com/Philipp01105/strobe/core"
)

type stepKind uint8

const (
	stepLiteral stepKind = iota
	stepAttribute
	stepMessage
)

// step is one element of a formatter's output plan.
type step struct {
	kind stepKind
	text string
	attr AttributeFormatter
}

// headerState tracks the byte column on the current output line, which
// becomes the message indentation when a message step begins. Columns are
// counted in bytes, escape sequences included, matching how the inline
// line-break marker re-indents.
type headerState struct {
	lineCol int
}

func (h *headerState) advanceText(s string) {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		h.lineCol = len(s) - i - 1
		return
	}
	h.lineCol += len(s)
}

// sizeSteps runs the sizing pass over a step plan.
func sizeSteps(steps []step, rec *core.Record, settings *core.FormattingSettings) int {
	var h headerState
	total := 0
	for i := range steps {
		st := &steps[i]
		switch st.kind {
		case stepLiteral:
			total += len(st.text)
			h.advanceText(st.text)
		case stepAttribute:
			n := st.attr.SizeRequired(&rec.Attributes, settings)
			total += n
			h.lineCol += n
		case stepMessage:
			info := core.MessageInfo{
				Indentation:      h.lineCol,
				NeedsIndentation: rec.Bundle.NeedsIndentation(),
			}
			total += rec.Bundle.SizeRequired(settings, &info)
			h.lineCol = info.Indentation + info.MessageColumn
		}
	}
	return total
}

// writeSteps runs the writing pass, which must mirror sizeSteps exactly.
func writeSteps(steps []step, rec *core.Record, settings *core.FormattingSettings, buf []byte) int {
	var h headerState
	off := 0
	for i := range steps {
		st := &steps[i]
		switch st.kind {
		case stepLiteral:
			off += copy(buf[off:], st.text)
			h.advanceText(st.text)
		case stepAttribute:
			n := st.attr.AddToBuffer(&rec.Attributes, settings, buf[off:])
			off += n
			h.lineCol += n
		case stepMessage:
			info := core.MessageInfo{
				Indentation:      h.lineCol,
				NeedsIndentation: rec.Bundle.NeedsIndentation(),
			}
			off += rec.Bundle.AddToBuffer(settings, &info, buf[off:])
			h.lineCol = info.Indentation + info.MessageColumn
		}
	}
	return off
}

// formatSteps renders a step plan plus the terminator into buf with a single
// exactly-sized extension.
func formatSteps(steps []step, rec *core.Record, settings *core.FormattingSettings, buf *core.Buffer) {
	body := sizeSteps(steps, rec, settings)
	window := buf.Extend(body + len(settings.Terminator))
	n := writeSteps(steps, rec, settings, window)
	copy(window[n:], settings.Terminator)
}

// MsgFormatter renders records through a template bound once at
// construction. Named placeholders bind to the built-in attribute formatters
// or to named record attributes; positional {} placeholders consume the
// explicit formatter list in order, with the Message sentinel standing for
// the record's payload. MsgFormatter is immutable and safe for concurrent
// use.
type MsgFormatter struct {
	steps []step
}

// NewMsgFormatter parses template and binds its placeholders. A malformed
// template or a positional placeholder beyond the formatter list fails
// construction; no partially built formatter is returned.
func NewMsgFormatter(template string, fmts ...AttributeFormatter) (*MsgFormatter, error) {
	tokens, err := Segmentize(template)
	if err != nil {
		return nil, err
	}
	steps := make([]step, 0, len(tokens))
	next := 0
	for _, tok := range tokens {
		if tok.Kind == TokenLiteral {
			steps = append(steps, step{kind: stepLiteral, text: tok.Text})
			continue
		}
		var attr AttributeFormatter
		if tok.Text == "" {
			if next >= len(fmts) {
				return nil, fmt.Errorf("positional placeholder %d has no formatter", next)
			}
			attr = fmts[next]
			next++
		} else if builtin, ok := builtinFormatter(tok.Text); ok {
			attr = builtin
		} else {
			attr = NamedAttributeFormatter{Key: tok.Text}
		}
		if attr == Message {
			steps = append(steps, step{kind: stepMessage})
		} else {
			steps = append(steps, step{kind: stepAttribute, attr: attr})
		}
	}
	return &MsgFormatter{steps: steps}, nil
}

// MustMsgFormatter is NewMsgFormatter that panics on a bad template.
func MustMsgFormatter(template string, fmts ...AttributeFormatter) *MsgFormatter {
	f, err := NewMsgFormatter(template, fmts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Format implements core.Formatter.
func (f *MsgFormatter) Format(rec *core.Record, settings *core.FormattingSettings, buf *core.Buffer) {
	formatSteps(f.steps, rec, settings, buf)
}
