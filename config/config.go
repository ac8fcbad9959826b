package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"go.uber.org/multierr"

	"github.com/Philipp01105/strobe/backend"
	"github.com/Philipp01105/strobe/core"
	"github.com/Philipp01105/strobe/formatter"
)

// DefaultTemplate is used when a configuration names no template at all.
const DefaultTemplate = "[{Severity}] [{DateTime}] {Message}"

// Config mirrors the YAML document.
type Config struct {
	// Level is the minimum severity the core accepts. Empty accepts
	// everything, including unleveled records.
	Level string `yaml:"level"`
	// Synchronous serializes dispatch across all sinks.
	Synchronous bool `yaml:"synchronous"`
	// DefaultTemplate formats sinks that name no template of their own.
	DefaultTemplate string `yaml:"default_template"`
	// Sinks lists the outputs. A configuration without sinks is an error.
	Sinks []SinkConfig `yaml:"sinks"`
}

// SinkConfig describes one output.
type SinkConfig struct {
	// Type is console, file or discard.
	Type string `yaml:"type"`
	// Template overrides the default template for this sink.
	Template string `yaml:"template"`
	// Level is this sink's own minimum severity. Empty inherits the core's.
	Level string `yaml:"level"`

	// Stream picks stdout or stderr for console sinks (default: stdout).
	Stream string `yaml:"stream"`
	// Color is auto, always or never (default: auto).
	Color string `yaml:"color"`

	// Path is the log file for file sinks. Required there.
	Path string `yaml:"path"`
	// MaxSize is the rotation threshold in bytes.
	MaxSize int64 `yaml:"max_size"`
	// MaxBackups is the number of rotated files to retain.
	MaxBackups int `yaml:"max_backups"`
	// RotateInterval rotates on age, as a Go duration string like "24h".
	RotateInterval string `yaml:"rotate_interval"`
	// Compress gzips rotated files.
	Compress bool `yaml:"compress"`

	// Async decouples the sink behind a queue and a writer goroutine.
	Async bool `yaml:"async"`
	// QueueSize is the async queue capacity.
	QueueSize int `yaml:"queue_size"`
	// Overflow is drop_newest, drop_oldest or block (default: drop_newest).
	Overflow string `yaml:"overflow"`
}

// Load reads a YAML file and assembles the configured core. Close releases
// the file handles and goroutines behind it.
func Load(path string) (*core.Core, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse assembles a core from a YAML document.
func Parse(data []byte) (*core.Core, error) {
	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return FromConfig(cfg)
}

// FromConfig assembles a core from an already decoded configuration. On
// error every backend opened so far is closed again; nothing partial
// escapes.
func FromConfig(cfg Config) (*core.Core, error) {
	if len(cfg.Sinks) == 0 {
		return nil, fmt.Errorf("config: no sinks")
	}

	c := core.NewCore()
	c.SetSynchronous(cfg.Synchronous)

	if cfg.Level != "" {
		sev, err := parseSeverity(cfg.Level)
		if err != nil {
			return nil, err
		}
		c.SetFilter(core.Filter{Severities: core.SeverityAtLeast(sev)})
	}

	tpl := cfg.DefaultTemplate
	if tpl == "" {
		tpl = DefaultTemplate
	}
	def, err := formatter.NewMsgFormatter(tpl)
	if err != nil {
		return nil, fmt.Errorf("config: default template: %w", err)
	}
	c.SetDefaultFormatter(def)

	var opened []io.Closer
	fail := func(err error) (*core.Core, error) {
		for _, cl := range opened {
			err = multierr.Append(err, cl.Close())
		}
		return nil, err
	}

	for i, sc := range cfg.Sinks {
		b, err := buildBackend(sc)
		if err != nil {
			return fail(fmt.Errorf("config: sink %d: %w", i, err))
		}
		if cl, ok := b.(io.Closer); ok {
			opened = append(opened, cl)
		}

		var opts []core.SinkOption
		if sc.Template != "" {
			f, err := formatter.NewMsgFormatter(sc.Template)
			if err != nil {
				return fail(fmt.Errorf("config: sink %d: template: %w", i, err))
			}
			opts = append(opts, core.WithFormatter(f))
		}
		if sc.Level != "" {
			sev, err := parseSeverity(sc.Level)
			if err != nil {
				return fail(fmt.Errorf("config: sink %d: %w", i, err))
			}
			opts = append(opts, core.WithSeverities(core.SeverityAtLeast(sev)))
		}
		c.AddSink(core.NewSink(b, opts...))
	}
	return c, nil
}

// Close closes every sink attached to the core, releasing file handles and
// async writer goroutines. Errors are aggregated.
func Close(c *core.Core) error {
	if c == nil {
		return nil
	}
	var err error
	for _, s := range c.Sinks() {
		err = multierr.Append(err, s.Close())
	}
	return err
}

func buildBackend(sc SinkConfig) (core.Backend, error) {
	var (
		b   core.Backend
		err error
	)
	switch sc.Type {
	case "console":
		b, err = buildConsole(sc)
	case "file":
		b, err = buildFile(sc)
	case "discard":
		b = backend.NewDiscard()
	case "":
		return nil, fmt.Errorf("missing sink type")
	default:
		return nil, fmt.Errorf("unknown sink type %q", sc.Type)
	}
	if err != nil {
		return nil, err
	}
	if sc.Async {
		policy, perr := parseOverflow(sc.Overflow)
		if perr != nil {
			if cl, ok := b.(io.Closer); ok {
				perr = multierr.Append(perr, cl.Close())
			}
			return nil, perr
		}
		return backend.NewAsync(backend.AsyncConfig{
			Backend:   b,
			QueueSize: sc.QueueSize,
			Policy:    policy,
		})
	}
	return b, nil
}

func buildConsole(sc SinkConfig) (core.Backend, error) {
	cfg := backend.ConsoleConfig{}
	switch sc.Stream {
	case "", "stdout":
		cfg.Stream = os.Stdout
	case "stderr":
		cfg.Stream = os.Stderr
	default:
		return nil, fmt.Errorf("unknown stream %q", sc.Stream)
	}
	switch sc.Color {
	case "", "auto":
	case "always":
		cfg.ForceColor = true
	case "never":
		cfg.NoColor = true
	default:
		return nil, fmt.Errorf("unknown color mode %q", sc.Color)
	}
	return backend.NewConsole(cfg), nil
}

func buildFile(sc SinkConfig) (core.Backend, error) {
	var interval time.Duration
	if sc.RotateInterval != "" {
		d, err := time.ParseDuration(sc.RotateInterval)
		if err != nil {
			return nil, fmt.Errorf("rotate_interval: %w", err)
		}
		interval = d
	}
	return backend.NewFile(backend.FileConfig{
		Path:           sc.Path,
		MaxSize:        sc.MaxSize,
		MaxBackups:     sc.MaxBackups,
		RotateInterval: interval,
		Compress:       sc.Compress,
	})
}

func parseSeverity(s string) (core.Severity, error) {
	switch strings.ToLower(s) {
	case "trace":
		return core.Trace, nil
	case "debug":
		return core.Debug, nil
	case "info":
		return core.Info, nil
	case "major":
		return core.Major, nil
	case "warning":
		return core.Warning, nil
	case "error":
		return core.Error, nil
	case "fatal":
		return core.Fatal, nil
	}
	return 0, fmt.Errorf("config: unknown severity %q", s)
}

func parseOverflow(s string) (backend.OverflowPolicy, error) {
	switch strings.ToLower(s) {
	case "", "drop_newest":
		return backend.DropNewest, nil
	case "drop_oldest":
		return backend.DropOldest, nil
	case "block":
		return backend.Block, nil
	}
	return 0, fmt.Errorf("unknown overflow policy %q", s)
}
