// Package config assembles a logging core from a YAML document, for
// applications that choose their sinks at deploy time rather than in code.
//
// A document names a minimum severity, an optional default template and a
// list of sinks. Each sink picks a backend type (console, file or discard),
// may override the template and severity, and may be made asynchronous:
//
//	level: info
//	default_template: "[{Severity}] [{DateTime}] {Message}"
//	sinks:
//	  - type: console
//	    stream: stderr
//	    color: auto
//	  - type: file
//	    path: /var/log/app.log
//	    max_size: 10485760
//	    max_backups: 5
//	    compress: true
//	    async: true
//	    queue_size: 5000
//
// Load, Parse and FromConfig either return a fully working core or an
// error; on error every backend opened along the way is closed again. The
// returned core owns files and goroutines, release them with Close when
// the application shuts down.
package config
