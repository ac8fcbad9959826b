package logger

import (
	"os"
	"testing"

	"github.com/Philipp01105/strobe/backend"
	"github.com/Philipp01105/strobe/core"
	"github.com/Philipp01105/strobe/formatter"
)

// trapExit swaps osExit for a recorder and restores it on cleanup.
func trapExit(t *testing.T) *[]int {
	t.Helper()
	var codes []int
	osExit = func(code int) { codes = append(codes, code) }
	t.Cleanup(func() { osExit = os.Exit })
	return &codes
}

func TestFatalDispatchExits(t *testing.T) {
	codes := trapExit(t)
	l, mem := memoryLogger(t, "{}", formatter.Message)

	l.Fatal().Str("bye").Dispatch()

	if got := mem.String(); got != "bye\n" {
		t.Errorf("logged %q, want %q", got, "bye\n")
	}
	if len(*codes) != 1 || (*codes)[0] != 1 {
		t.Errorf("exit codes = %v, want [1]", *codes)
	}
}

func TestFatalExitsWhenFiltered(t *testing.T) {
	codes := trapExit(t)
	l, mem := memoryLogger(t, "{}", formatter.Message)
	l.core.SetFilter(core.Filter{Severities: core.NoSeverities()})

	e := l.Fatal()
	if e == nil {
		t.Fatal("Fatal() = nil, want an entry that still exits")
	}
	e.Str("unseen").Dispatch()

	if mem.String() != "" {
		t.Errorf("filtered fatal wrote %q", mem.String())
	}
	if len(*codes) != 1 || (*codes)[0] != 1 {
		t.Errorf("exit codes = %v, want [1]", *codes)
	}
}

func TestFatalfExits(t *testing.T) {
	codes := trapExit(t)
	l, mem := memoryLogger(t, "{}", formatter.Message)

	l.Fatalf("lost {} shards", 3)

	if got := mem.String(); got != "lost 3 shards\n" {
		t.Errorf("logged %q, want %q", got, "lost 3 shards\n")
	}
	if len(*codes) != 1 || (*codes)[0] != 1 {
		t.Errorf("exit codes = %v, want [1]", *codes)
	}
}

func TestFatalFlushesQueuedRecordsBeforeExit(t *testing.T) {
	l, mem := memoryLogger(t, "{}", formatter.Message)
	async, err := backend.NewAsync(backend.AsyncConfig{Backend: mem})
	if err != nil {
		t.Fatalf("NewAsync() = %v", err)
	}
	defer async.Close()
	l.core.RemoveAllSinks()
	l.core.AddSink(core.NewSink(async, core.WithFormatter(formatter.MustMsgFormatter("{}", formatter.Message))))

	var atExit string
	osExit = func(int) { atExit = mem.String() }
	t.Cleanup(func() { osExit = os.Exit })

	l.Info().Str("first").Dispatch()
	l.Fatal().Str("last").Dispatch()

	want := "first\nlast\n"
	if atExit != want {
		t.Errorf("backend held %q when exit fired, want %q", atExit, want)
	}
}

func TestNilLoggerFatalDoesNotExit(t *testing.T) {
	codes := trapExit(t)
	var l *Logger

	l.Fatal().Str("x").Dispatch()
	l.Fatalf("y")

	if len(*codes) != 0 {
		t.Errorf("exit codes = %v, want none from a nil logger", *codes)
	}
}

func TestMsgDispatches(t *testing.T) {
	l, mem := memoryLogger(t, "{}", formatter.Message)

	if err := l.Info().Str("a ").Msg("done"); err != nil {
		t.Fatalf("Msg() = %v, want nil", err)
	}

	if got := mem.String(); got != "a done\n" {
		t.Errorf("logged %q, want %q", got, "a done\n")
	}
}

func TestNilEntryChainIsSafe(t *testing.T) {
	var e *Entry

	err := e.Str("a").Bytes(nil).Int(1).Int64(2).Uint64(3).Float64(4).
		Bool(true).Time(testTime).Dur(0).Err(nil).Stringer(core.Info).
		Any("x").Colored("y", core.AnsiRed).NewLine().PadUntil(8).
		RepeatChar(2, '-').Attr("k", core.StringValue("v")).Dispatch()

	if err != nil {
		t.Errorf("nil entry Dispatch() = %v, want nil", err)
	}
	if err := e.Msg("z"); err != nil {
		t.Errorf("nil entry Msg() = %v, want nil", err)
	}
}

func TestEntriesAreRecycled(t *testing.T) {
	l, mem := memoryLogger(t, "{tenant}|{Message}")

	l.Info().Attr("tenant", core.StringValue("a")).Str("one").Dispatch()
	l.Info().Str("two").Dispatch()

	// The second record must not inherit the first one's attribute.
	want := "a|one\n|two\n"
	if got := mem.String(); got != want {
		t.Errorf("logged %q, want %q", got, want)
	}
}
