package core

// Filter decides whether a record should be considered at all. The severity
// set is consulted first: records with a severity must be in the set, records
// without one pass only when the set accepts unleveled records. A non-nil
// Attributes predicate is consulted afterwards.
//
// The zero Filter accepts every record.
type Filter struct {
	Severities SeveritySet
	Attributes func(*RecordAttributes) bool
}

// Accepts reports whether the record attributes pass the filter.
func (f Filter) Accepts(attrs *RecordAttributes) bool {
	if attrs.HasSeverity {
		if !f.Severities.Contains(attrs.Severity) {
			return false
		}
	} else if !f.Severities.AcceptsUnleveled() {
		return false
	}
	if f.Attributes != nil && !f.Attributes(attrs) {
		return false
	}
	return true
}
