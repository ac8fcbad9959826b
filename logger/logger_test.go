package logger

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Philipp01105/strobe/backend"
	"github.com/Philipp01105/strobe/core"
	"github.com/Philipp01105/strobe/formatter"
)

type fixedClock int64

func (c fixedClock) NowMicros() int64 { return int64(c) }

var testTime = core.MustDateTime(2023, 12, 31, 12, 49, 30, 100000)

func memoryLogger(t *testing.T, template string, fmts ...formatter.AttributeFormatter) (*Logger, *backend.Memory) {
	t.Helper()
	mem := backend.NewMemory()
	c := core.NewCore()
	c.AddSink(core.NewSink(mem, core.WithFormatter(formatter.MustMsgFormatter(template, fmts...))))
	l := NewBuilder().WithCore(c).WithClock(fixedClock(testTime.Microseconds())).Build()
	return l, mem
}

// attrsSnapshot copies the attribute fields a test wants to inspect out of
// the record before the entry returns to its pool.
type attrsSnapshot struct {
	name    string
	caller  core.CallerInfo
	gid     uint64
	hasGID  bool
	time    core.DateTime
	hasTime bool
	extras  []core.Attr
}

type captureFormatter struct {
	got *attrsSnapshot
}

func (f *captureFormatter) Format(rec *core.Record, _ *core.FormattingSettings, _ *core.Buffer) {
	f.got.name = rec.Attributes.LoggerName
	f.got.caller = rec.Attributes.Caller
	f.got.gid = rec.Attributes.GoroutineID
	f.got.hasGID = rec.Attributes.HasGoroutineID
	f.got.time = rec.Attributes.Time
	f.got.hasTime = rec.Attributes.HasTime
	f.got.extras = append([]core.Attr(nil), rec.Attributes.Extra()...)
}

func captureLogger(b *Builder) (*Logger, *attrsSnapshot) {
	got := &attrsSnapshot{}
	c := core.NewCore()
	c.AddSink(core.NewSink(backend.NewDiscard(), core.WithFormatter(&captureFormatter{got: got})))
	return b.WithCore(c).Build(), got
}

func TestLoggerWritesRecord(t *testing.T) {
	l, mem := memoryLogger(t, DefaultTemplate,
		formatter.SeverityFormatter{}, formatter.DateTimeFormatter{}, formatter.Message)

	if err := l.Info().Str("hello").Dispatch(); err != nil {
		t.Fatalf("Dispatch() = %v, want nil", err)
	}

	want := "[Info   ] [2023-12-31 12:49:30.100000] hello\n"
	if got := mem.String(); got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestSeverityGateReturnsNilEntry(t *testing.T) {
	l, mem := memoryLogger(t, "{}", formatter.Message)
	l.core.SetFilter(core.Filter{Severities: core.SeverityAtLeast(core.Warning)})

	if e := l.Info(); e != nil {
		t.Errorf("Info() below the threshold = %v, want nil", e)
	}
	if err := l.Info().Str("dropped").Int(1).Dispatch(); err != nil {
		t.Errorf("Dispatch() on nil entry = %v, want nil", err)
	}
	if mem.String() != "" {
		t.Errorf("filtered severity wrote %q", mem.String())
	}

	l.Error().Str("kept").Dispatch()
	if got := mem.String(); got != "kept\n" {
		t.Errorf("logged %q, want %q", got, "kept\n")
	}
}

func TestUnleveledRecord(t *testing.T) {
	l, mem := memoryLogger(t, "[{}] {}", formatter.SeverityFormatter{}, formatter.Message)

	l.Unleveled().Str("note").Dispatch()

	want := "[       ] note\n"
	if got := mem.String(); got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestLogSeverity(t *testing.T) {
	l, mem := memoryLogger(t, "[{}] {}", formatter.SeverityFormatter{}, formatter.Message)

	l.Log(core.Major).Str("milestone").Dispatch()

	want := "[Major  ] milestone\n"
	if got := mem.String(); got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestWithAttributes(t *testing.T) {
	l, mem := memoryLogger(t, "{tenant}|{Message}")

	child := l.With(String("tenant", "prod"))
	child.Info().Str("ready").Dispatch()
	l.Info().Str("bare").Dispatch()

	want := "prod|ready\n|bare\n"
	if got := mem.String(); got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestWithDoesNotMutateParent(t *testing.T) {
	l, _ := memoryLogger(t, "{}", formatter.Message)

	parent := l.With(String("a", "1"))
	_ = parent.With(String("b", "2"))

	if len(parent.attrs) != 1 {
		t.Errorf("parent attrs = %d, want 1", len(parent.attrs))
	}
}

func TestNamed(t *testing.T) {
	l, mem := memoryLogger(t, "{Name}: {Message}")

	l.Named("http").Named("server").Info().Str("ready").Dispatch()
	l.Named("").Info().Str("same").Dispatch()

	want := "http.server: ready\n: same\n"
	if got := mem.String(); got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestBuilderName(t *testing.T) {
	got := &attrsSnapshot{}
	c := core.NewCore()
	c.AddSink(core.NewSink(backend.NewDiscard(), core.WithFormatter(&captureFormatter{got: got})))
	l := NewBuilder().WithCore(c).WithName("db").Build()

	l.Info().Str("x").Dispatch()

	if got.name != "db" {
		t.Errorf("LoggerName = %q, want %q", got.name, "db")
	}
}

func TestClockStampsTime(t *testing.T) {
	l, got := captureLogger(NewBuilder().WithClock(fixedClock(testTime.Microseconds())))

	l.Info().Str("x").Dispatch()

	if !got.hasTime {
		t.Fatal("record has no timestamp")
	}
	if !got.time.Equal(testTime) {
		t.Errorf("record time = %v, want %v", got.time, testTime)
	}
}

func TestCallerCapture(t *testing.T) {
	l, got := captureLogger(NewBuilder().WithCaller(true))

	l.Info().Str("x").Dispatch()

	if !got.caller.Defined {
		t.Fatal("caller not captured")
	}
	if !strings.HasSuffix(got.caller.File, "logger_test.go") {
		t.Errorf("caller file = %q, want suffix logger_test.go", got.caller.File)
	}
	if !strings.Contains(got.caller.Function, "TestCallerCapture") {
		t.Errorf("caller function = %q, want it to contain TestCallerCapture", got.caller.Function)
	}
	if got.caller.Line <= 0 {
		t.Errorf("caller line = %d, want > 0", got.caller.Line)
	}
}

func TestCallerDisabledByDefault(t *testing.T) {
	l, got := captureLogger(NewBuilder())

	l.Info().Str("x").Dispatch()

	if got.caller.Defined {
		t.Errorf("caller captured without WithCaller: %+v", got.caller)
	}
}

func TestCallerCaptureTemplated(t *testing.T) {
	l, got := captureLogger(NewBuilder().WithCaller(true))

	l.Infof("x {}", 1)

	if !strings.Contains(got.caller.Function, "TestCallerCaptureTemplated") {
		t.Errorf("caller function = %q, want the test function", got.caller.Function)
	}
}

func logThroughHelper(l *Logger, msg string) {
	l.Info().Str(msg).Dispatch()
}

func TestCallerSkip(t *testing.T) {
	l, got := captureLogger(NewBuilder().WithCaller(true).WithCallerSkip(1))

	logThroughHelper(l, "x")

	if !strings.Contains(got.caller.Function, "TestCallerSkip") {
		t.Errorf("caller function = %q, want the test function, not the helper", got.caller.Function)
	}
}

func TestGoroutineID(t *testing.T) {
	l, got := captureLogger(NewBuilder().WithGoroutineID(true))

	l.Info().Str("x").Dispatch()

	if !got.hasGID {
		t.Fatal("goroutine id not captured")
	}
	if got.gid == 0 {
		t.Error("goroutine id = 0, want the running goroutine's id")
	}
}

func TestGoroutineIDOffByDefault(t *testing.T) {
	l, got := captureLogger(NewBuilder())

	l.Info().Str("x").Dispatch()

	if got.hasGID {
		t.Errorf("goroutine id captured without WithGoroutineID: %d", got.gid)
	}
}

func TestEntryValues(t *testing.T) {
	l, mem := memoryLogger(t, "{}", formatter.Message)

	l.Info().
		Str("a ").
		Int(-3).Str(" ").
		Uint64(7).Str(" ").
		Float64(1.5).Str(" ").
		Bool(true).Str(" ").
		Dur(1500 * time.Millisecond).Str(" ").
		Err(errors.New("boom")).Str(" ").
		Stringer(core.Warning).Str(" ").
		Bytes([]byte("zz")).Str(" ").
		Time(testTime).Str(" ").
		Any(42).
		Dispatch()

	want := "a -3 7 1.5 true 1.5s boom Warning zz 2023-12-31 12:49:30.100000 42\n"
	if got := mem.String(); got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestEntryNilErrorAppendsNothing(t *testing.T) {
	l, mem := memoryLogger(t, "{}", formatter.Message)

	l.Info().Str("ok").Err(nil).Dispatch()

	if got := mem.String(); got != "ok\n" {
		t.Errorf("logged %q, want %q", got, "ok\n")
	}
}

func TestEntryLayoutMarkers(t *testing.T) {
	l, mem := memoryLogger(t, "> {}", formatter.Message)

	l.Info().
		Str("ab").PadUntil(5).Str("x").
		NewLine().RepeatChar(3, '=').
		Dispatch()

	// The continuation line indents to the message start column after ">".
	want := "> ab   x\n  ===\n"
	if got := mem.String(); got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestEntryColoredRespectsSettings(t *testing.T) {
	colorMem := backend.NewMemory()
	plainMem := backend.NewMemory()
	c := core.NewCore()
	c.AddSink(core.NewSink(colorMem,
		core.WithFormatter(formatter.MustMsgFormatter("{}", formatter.Message)),
		core.WithSettings(func(s *core.FormattingSettings) { s.ColorSupport = true }),
	))
	c.AddSink(core.NewSink(plainMem,
		core.WithFormatter(formatter.MustMsgFormatter("{}", formatter.Message)),
	))
	l := New(c)

	l.Info().Colored("alert", core.AnsiRed).Dispatch()

	if got, want := colorMem.String(), "\x1b[31malert\x1b[0m\n"; got != want {
		t.Errorf("color sink logged %q, want %q", got, want)
	}
	if got, want := plainMem.String(), "alert\n"; got != want {
		t.Errorf("plain sink logged %q, want %q", got, want)
	}
}

func TestEntryAttr(t *testing.T) {
	l, mem := memoryLogger(t, "{tenant}: {Message}")

	l.Info().Attr("tenant", core.StringValue("prod")).Str("ready").Dispatch()

	if got := mem.String(); got != "prod: ready\n" {
		t.Errorf("logged %q, want %q", got, "prod: ready\n")
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	var l *Logger

	if e := l.Info(); e != nil {
		t.Errorf("nil logger Info() = %v, want nil", e)
	}
	if err := l.Warning().Str("x").Dispatch(); err != nil {
		t.Errorf("nil logger Dispatch() = %v, want nil", err)
	}
	if got := l.With(String("k", "v")); got != nil {
		t.Errorf("nil logger With() = %v, want nil", got)
	}
	if got := l.Named("x"); got != nil {
		t.Errorf("nil logger Named() = %v, want nil", got)
	}
	if err := l.Flush(); err != nil {
		t.Errorf("nil logger Flush() = %v, want nil", err)
	}
	l.Infof("ignored {}", 1)
}

func TestDispatchErrorPropagates(t *testing.T) {
	sinkErr := errors.New("backend full")
	c := core.NewCore()
	c.AddSink(core.NewSink(failBackend{err: sinkErr},
		core.WithFormatter(formatter.MustMsgFormatter("{}", formatter.Message))))
	l := New(c)

	if err := l.Info().Str("x").Dispatch(); !errors.Is(err, sinkErr) {
		t.Errorf("Dispatch() = %v, want it to wrap %v", err, sinkErr)
	}
}

type failBackend struct {
	err error
}

func (b failBackend) Write(p []byte) (int, error) { return 0, b.err }
func (b failBackend) Flush() error                { return nil }

func TestInfofTemplate(t *testing.T) {
	l, mem := memoryLogger(t, "{}", formatter.Message)

	l.Infof("user {} made {:L} requests", "ada", 1234567)

	want := "user ada made 1,234,567 requests\n"
	if got := mem.String(); got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestLogfRespectsFilter(t *testing.T) {
	l, mem := memoryLogger(t, "{}", formatter.Message)
	l.core.SetFilter(core.Filter{Severities: core.SeverityAtLeast(core.Error)})

	l.Warningf("dropped {}", 1)
	l.Errorf("kept {}", 2)

	if got := mem.String(); got != "kept 2\n" {
		t.Errorf("logged %q, want %q", got, "kept 2\n")
	}
}

func TestFlushReachesBackend(t *testing.T) {
	mem := backend.NewMemory()
	async, err := backend.NewAsync(backend.AsyncConfig{Backend: mem})
	if err != nil {
		t.Fatalf("NewAsync() = %v", err)
	}
	defer async.Close()

	c := core.NewCore()
	c.AddSink(core.NewSink(async, core.WithFormatter(formatter.MustMsgFormatter("{}", formatter.Message))))
	l := New(c)

	l.Info().Str("queued").Dispatch()
	if err := l.Flush(); err != nil {
		t.Fatalf("Flush() = %v, want nil", err)
	}

	if got := mem.String(); got != "queued\n" {
		t.Errorf("backend holds %q after Flush, want %q", got, "queued\n")
	}
}

func TestBuilderReuse(t *testing.T) {
	b := NewBuilder().WithAttrs(String("a", "1"))
	first := b.Build()
	b.WithAttrs(String("b", "2"))
	second := b.Build()

	if len(first.attrs) != 1 {
		t.Errorf("first logger attrs = %d, want 1", len(first.attrs))
	}
	if len(second.attrs) != 2 {
		t.Errorf("second logger attrs = %d, want 2", len(second.attrs))
	}
}

func TestAttrHelpers(t *testing.T) {
	renderValue := func(v core.Value) string { return string(v.AppendText(nil)) }

	tests := []struct {
		name    string
		attr    core.Attr
		wantKey string
		want    string
	}{
		{"String", String("k", "v"), "k", "v"},
		{"Int", Int("k", -5), "k", "-5"},
		{"Int64", Int64("k", 1 << 40), "k", "1099511627776"},
		{"Uint64", Uint64("k", 18446744073709551615), "k", "18446744073709551615"},
		{"Float64", Float64("k", 0.5), "k", "0.5"},
		{"Bool", Bool("k", true), "k", "true"},
		{"DateTime", DateTime("k", testTime), "k", "2023-12-31 12:49:30.100000"},
		{"Duration", Duration("k", 90 * time.Second), "k", "1m30s"},
		{"Err", Err(errors.New("boom")), "error", "boom"},
		{"ErrNil", Err(nil), "error", ""},
		{"AnyString", Any("k", "s"), "k", "s"},
		{"AnyInt", Any("k", 7), "k", "7"},
		{"AnyFloat32", Any("k", float32(2.5)), "k", "2.5"},
		{"AnyDuration", Any("k", 2 * time.Second), "k", "2s"},
		{"AnyError", Any("k", error(errors.New("x"))), "k", "x"},
		{"AnyStringer", Any("k", core.Info), "k", "Info"},
		{"AnyNil", Any("k", nil), "k", ""},
		{"AnyFallback", Any("k", []int{1, 2}), "k", "[1 2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if got := renderValue(tt.attr.Value); got != tt.want {
				t.Errorf("Value renders %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAttrTimeConvertsWallClock(t *testing.T) {
	wall := time.Date(2023, 12, 31, 12, 49, 30, 100000*1000, time.UTC)
	attr := Time("at", wall)

	want := core.DateTimeFromTime(wall)
	if got := attr.Value.DateTime(); !got.Equal(want) {
		t.Errorf("Time attr = %v, want %v", got, want)
	}
}

func TestParseSeverity(t *testing.T) {
	sev, err := ParseSeverity("warn")
	if err != nil {
		t.Fatalf("ParseSeverity(\"warn\") error: %v", err)
	}
	if sev != core.Warning {
		t.Errorf("ParseSeverity(\"warn\") = %v, want %v", sev, core.Warning)
	}
	if _, err := ParseSeverity("loud"); err == nil {
		t.Errorf("ParseSeverity(\"loud\") expected an error")
	}
}
