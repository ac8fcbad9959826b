// Package formatter turns records into bytes.
//
// Three record formatters cover the usual layouts: MsgFormatter binds a
// "{Severity} {Message}" style template once at construction,
// RecordFormatter is the same plan assembled imperatively, and
// FormatterBySeverity routes each record to a per-severity formatter with an
// optional default. JSONFormatter renders one JSON object per record. All of
// them implement core.Formatter and follow its two-pass contract: the exact
// output size is computed first, the buffer grows once, then the bytes are
// written.
//
// Attribute formatters render the record's metadata. SeverityFormatter
// pre-computes the colored forms of all seven names (" [Info   ] " stays one
// copy on the hot path), DateTimeFormatter emits the fixed 26-byte timestamp
// form, and NamedAttributeFormatter degrades to empty output for names the
// record does not carry, so an unknown placeholder never fails a record.
//
// Format and AppendFormat are the quick printf-style path over the same
// placeholder syntax, with format specs for alignment, thousands grouping,
// debug quoting and integer radixes.
package formatter
