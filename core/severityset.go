package core

// SeveritySet is a first-class predicate over severities, plus an independent
// flag deciding whether records that carry no severity at all pass. Sets are
// plain comparable values and cheap to copy.
//
// The zero SeveritySet accepts every severity and unleveled records. Sets
// form a boolean algebra under And, Or and Not over the whole domain (the
// seven severities and the unleveled case).
type SeveritySet struct {
	// blocked stores the complement of the accepted severities so the zero
	// value accepts everything.
	blocked        uint8
	blockUnleveled bool
}

const severityMaskAll = 1<<numSeverities - 1

func maskOf(sevs ...Severity) uint8 {
	var m uint8
	for _, s := range sevs {
		if s.Valid() {
			m |= 1 << uint(s)
		}
	}
	return m
}

func acceptWhere(pred func(Severity) bool) SeveritySet {
	var m uint8
	for s := Trace; s <= Fatal; s++ {
		if pred(s) {
			m |= 1 << uint(s)
		}
	}
	return SeveritySet{blocked: severityMaskAll &^ m, blockUnleveled: true}
}

// NewSeveritySet returns a set accepting exactly the given severities and
// rejecting unleveled records.
func NewSeveritySet(sevs ...Severity) SeveritySet {
	return SeveritySet{blocked: severityMaskAll &^ maskOf(sevs...), blockUnleveled: true}
}

// AllSeverities returns the set accepting every severity and unleveled
// records.
func AllSeverities() SeveritySet { return SeveritySet{} }

// NoSeverities returns the set accepting nothing.
func NoSeverities() SeveritySet {
	return SeveritySet{blocked: severityMaskAll, blockUnleveled: true}
}

// SeverityAtLeast accepts severities greater than or equal to s.
func SeverityAtLeast(s Severity) SeveritySet {
	return acceptWhere(func(x Severity) bool { return x >= s })
}

// SeverityAbove accepts severities strictly greater than s.
func SeverityAbove(s Severity) SeveritySet {
	return acceptWhere(func(x Severity) bool { return x > s })
}

// SeverityAtMost accepts severities less than or equal to s.
func SeverityAtMost(s Severity) SeveritySet {
	return acceptWhere(func(x Severity) bool { return x <= s })
}

// SeverityBelow accepts severities strictly less than s.
func SeverityBelow(s Severity) SeveritySet {
	return acceptWhere(func(x Severity) bool { return x < s })
}

// SeverityIs accepts exactly s.
func SeverityIs(s Severity) SeveritySet {
	return acceptWhere(func(x Severity) bool { return x == s })
}

// SeverityIsNot accepts every severity except s.
func SeverityIsNot(s Severity) SeveritySet {
	return acceptWhere(func(x Severity) bool { return x != s })
}

// And returns the conjunction of both predicates.
func (s SeveritySet) And(o SeveritySet) SeveritySet {
	return SeveritySet{
		blocked:        s.blocked | o.blocked,
		blockUnleveled: s.blockUnleveled || o.blockUnleveled,
	}
}

// Or returns the disjunction of both predicates.
func (s SeveritySet) Or(o SeveritySet) SeveritySet {
	return SeveritySet{
		blocked:        s.blocked & o.blocked,
		blockUnleveled: s.blockUnleveled && o.blockUnleveled,
	}
}

// Not returns the complement over the whole domain, unleveled included.
func (s SeveritySet) Not() SeveritySet {
	return SeveritySet{
		blocked:        ^s.blocked & severityMaskAll,
		blockUnleveled: !s.blockUnleveled,
	}
}

// Contains reports whether the set accepts sev.
func (s SeveritySet) Contains(sev Severity) bool {
	if !sev.Valid() {
		return false
	}
	return s.blocked&(1<<uint(sev)) == 0
}

// AcceptsUnleveled reports whether records without a severity pass.
func (s SeveritySet) AcceptsUnleveled() bool { return !s.blockUnleveled }

// WithUnleveled returns a copy of the set whose unleveled flag is accept.
func (s SeveritySet) WithUnleveled(accept bool) SeveritySet {
	s.blockUnleveled = !accept
	return s
}

// Empty reports whether the set accepts nothing at all.
func (s SeveritySet) Empty() bool {
	return s.blocked == severityMaskAll && s.blockUnleveled
}

// Severities returns the accepted severities in ascending order.
func (s SeveritySet) Severities() []Severity {
	out := make([]Severity, 0, numSeverities)
	for sev := Trace; sev <= Fatal; sev++ {
		if s.Contains(sev) {
			out = append(out, sev)
		}
	}
	return out
}
