package formatter

import (
	"github.com/Philipp01105/strobe/core"
)

// FormatterBySeverity routes each record to a formatter chosen by the
// record's severity, with an optional default for severities without their
// own formatter and for unleveled records. When neither applies, the record
// renders to nothing at all: no body and no terminator, so the sink skips
// the backend write entirely.
//
// Configure it before attaching it to a sink; the Set methods are not
// synchronized against concurrent Format calls.
type FormatterBySeverity struct {
	perSeverity [core.Fatal + 1]core.Formatter
	fallback    core.Formatter
}

// NewFormatterBySeverity returns an empty dispatcher: every record renders
// to nothing until formatters are assigned.
func NewFormatterBySeverity() *FormatterBySeverity {
	return &FormatterBySeverity{}
}

// SetFormatter assigns f to one severity. Invalid severities are ignored.
func (d *FormatterBySeverity) SetFormatter(sev core.Severity, f core.Formatter) *FormatterBySeverity {
	if sev.Valid() {
		d.perSeverity[sev] = f
	}
	return d
}

// SetFormatterForSeverities assigns f to every severity the set accepts.
func (d *FormatterBySeverity) SetFormatterForSeverities(set core.SeveritySet, f core.Formatter) *FormatterBySeverity {
	for _, sev := range set.Severities() {
		d.perSeverity[sev] = f
	}
	return d
}

// SetDefault assigns the fallback used by severities without their own
// formatter and by unleveled records.
func (d *FormatterBySeverity) SetDefault(f core.Formatter) *FormatterBySeverity {
	d.fallback = f
	return d
}

// Copy returns an independent duplicate; reassigning formatters on the copy
// leaves the original untouched.
func (d *FormatterBySeverity) Copy() *FormatterBySeverity {
	dup := *d
	return &dup
}

func (d *FormatterBySeverity) pick(attrs *core.RecordAttributes) core.Formatter {
	if attrs.HasSeverity && attrs.Severity.Valid() {
		if f := d.perSeverity[attrs.Severity]; f != nil {
			return f
		}
	}
	return d.fallback
}

// Format implements core.Formatter.
func (d *FormatterBySeverity) Format(rec *core.Record, settings *core.FormattingSettings, buf *core.Buffer) {
	if f := d.pick(&rec.Attributes); f != nil {
		f.Format(rec, settings, buf)
	}
}
