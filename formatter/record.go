package formatter

import (
	"github.com/Philipp01105/strobe/core"
)

// RecordFormatter is a mutable ordered plan of literal text, attribute
// formatters and message slots. It starts as a bare message formatter and is
// grown imperatively, which suits configuration code that assembles a layout
// piece by piece instead of writing a template.
//
// Mutate it before attaching it to a sink; the mutation methods are not
// synchronized against concurrent Format calls.
type RecordFormatter struct {
	steps []step
}

// NewRecordFormatter returns a formatter that renders just the record's
// message payload and the terminator.
func NewRecordFormatter() *RecordFormatter {
	return &RecordFormatter{steps: []step{{kind: stepMessage}}}
}

// AddLiteral appends verbatim text to the plan.
func (f *RecordFormatter) AddLiteral(text string) *RecordFormatter {
	f.steps = append(f.steps, step{kind: stepLiteral, text: text})
	return f
}

// AddAttributeFormatter appends an attribute rendering to the plan. The
// Message sentinel appends a message slot.
func (f *RecordFormatter) AddAttributeFormatter(attr AttributeFormatter) *RecordFormatter {
	if attr == Message {
		return f.AddMsg()
	}
	f.steps = append(f.steps, step{kind: stepAttribute, attr: attr})
	return f
}

// AddMsg appends a message payload slot to the plan.
func (f *RecordFormatter) AddMsg() *RecordFormatter {
	f.steps = append(f.steps, step{kind: stepMessage})
	return f
}

// ClearSegments empties the plan. A cleared formatter renders only the
// terminator.
func (f *RecordFormatter) ClearSegments() *RecordFormatter {
	f.steps = f.steps[:0]
	return f
}

// NumSegments returns the number of plan elements.
func (f *RecordFormatter) NumSegments() int { return len(f.steps) }

// Format implements core.Formatter.
func (f *RecordFormatter) Format(rec *core.Record, settings *core.FormattingSettings, buf *core.Buffer) {
	formatSteps(f.steps, rec, settings, buf)
}
