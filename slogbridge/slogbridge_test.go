package slogbridge

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Philipp01105/strobe/backend"
	"github.com/Philipp01105/strobe/core"
	"github.com/Philipp01105/strobe/formatter"
)

func memoryCore(t *testing.T, template string) (*core.Core, *backend.Memory) {
	t.Helper()
	mem := backend.NewMemory()
	c := core.NewCore()
	c.AddSink(core.NewSink(mem, core.WithFormatter(formatter.MustMsgFormatter(template))))
	return c, mem
}

func TestSeverityMapping(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  core.Severity
	}{
		{slog.LevelDebug - 1, core.Trace},
		{slog.LevelDebug, core.Debug},
		{slog.LevelDebug + 2, core.Debug},
		{slog.LevelInfo, core.Info},
		{slog.LevelInfo + 3, core.Info},
		{slog.LevelWarn, core.Warning},
		{slog.LevelError, core.Error},
		{slog.LevelError + 3, core.Error},
		{slog.LevelError + 4, core.Fatal},
	}
	for _, tt := range tests {
		if got := Severity(tt.level); got != tt.want {
			t.Errorf("Severity(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestHandleDispatches(t *testing.T) {
	c, mem := memoryCore(t, "{k}|{Message}")
	log := slog.New(NewHandler(c))

	log.Info("hello", "k", "v")

	if got, want := mem.String(), "v|hello\n"; got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestEnabledConsultsTargetFilter(t *testing.T) {
	c, mem := memoryCore(t, "{Message}")
	c.SetFilter(core.Filter{Severities: core.SeverityAtLeast(core.Warning)})
	log := slog.New(NewHandler(c))

	log.Info("dropped")
	log.Warn("kept")

	if got, want := mem.String(), "kept\n"; got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestGroupsFlattenToDottedKeys(t *testing.T) {
	c, mem := memoryCore(t, "{request.id} {Message}")
	log := slog.New(NewHandler(c))

	log.Info("served", slog.Group("request", slog.String("id", "r42")))

	if got, want := mem.String(), "r42 served\n"; got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestWithGroupPrefixesLaterAttrs(t *testing.T) {
	c, mem := memoryCore(t, "{request.id} {Message}")
	log := slog.New(NewHandler(c)).WithGroup("request")

	log.Info("served", "id", "r42")

	if got, want := mem.String(), "r42 served\n"; got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestWithAttrsRetained(t *testing.T) {
	c, mem := memoryCore(t, "{app} {Message}")
	log := slog.New(NewHandler(c)).With("app", "api")

	log.Info("up")
	log.Info("still up")

	want := "api up\napi still up\n"
	if got := mem.String(); got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestHandlerName(t *testing.T) {
	c, mem := memoryCore(t, "{Name}: {Message}")
	log := slog.New(NewHandler(c, WithName("svc")))

	log.Info("ready")

	if got, want := mem.String(), "svc: ready\n"; got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestRecordTimeStamps(t *testing.T) {
	c, mem := memoryCore(t, "{DateTime} {Message}")
	h := NewHandler(c)

	at := time.Date(2023, 12, 31, 12, 49, 30, 100000*1000, time.UTC)
	rec := slog.NewRecord(at, slog.LevelInfo, "tick", 0)
	if err := h.Handle(context.Background(), rec); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	want := "2023-12-31 12:49:30.100000 tick\n"
	if got := mem.String(); got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestCallerFromPC(t *testing.T) {
	c, mem := memoryCore(t, "{FileLine} {Message}")
	log := slog.New(NewHandler(c))

	log.Info("here")

	if got := mem.String(); !strings.Contains(got, "slogbridge_test.go:") {
		t.Errorf("logged %q, want the call site in it", got)
	}
}

type token struct{ id string }

func (t token) LogValue() slog.Value { return slog.StringValue("tok-" + t.id) }

func TestLogValuerResolves(t *testing.T) {
	c, mem := memoryCore(t, "{auth} {Message}")
	log := slog.New(NewHandler(c))

	log.Info("in", "auth", token{id: "9"})

	if got, want := mem.String(), "tok-9 in\n"; got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}

func TestAttrValueKinds(t *testing.T) {
	c, mem := memoryCore(t, "{i}|{u}|{f}|{b}|{d}|{t}|{e}|{any}")
	log := slog.New(NewHandler(c))

	at := time.Date(2023, 12, 31, 12, 49, 30, 0, time.UTC)
	log.Info("x",
		slog.Int64("i", -5),
		slog.Uint64("u", 7),
		slog.Float64("f", 1.5),
		slog.Bool("b", true),
		slog.Duration("d", 2*time.Second),
		slog.Time("t", at),
		slog.Any("e", errors.New("boom")),
		slog.Any("any", []int{1, 2}),
	)

	want := "-5|7|1.5|true|2s|2023-12-31 12:49:30.000000|boom|[1 2]\n"
	if got := mem.String(); got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}
