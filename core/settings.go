package core

// FormattingSettings control the per-sink rendering knobs that formatters
// consult on both the sizing and the writing pass. The same record can
// render differently on two sinks, so settings belong to the sink, not the
// formatter.
type FormattingSettings struct {
	// ColorSupport enables ANSI escape output. When false, color segments
	// render their contents bare.
	ColorSupport bool

	// Terminator is appended after every formatted record. Formatters that
	// produce no output for a record skip it.
	Terminator string

	// ThousandsSeparators groups integer digits by thousands.
	ThousandsSeparators bool
}

// DefaultFormattingSettings returns the settings sinks start from before the
// backend and the sink options adjust them.
func DefaultFormattingSettings() FormattingSettings {
	return FormattingSettings{Terminator: "\n"}
}
