package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Philipp01105/strobe/core"
)

// decodeLine unmarshals one formatter output line, proving it is valid JSON.
func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSuffix(line, "\n")), &m); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%q", err, line)
	}
	return m
}

func TestJSONFormatter_FullRecord(t *testing.T) {
	rec := &core.Record{}
	rec.Attributes.SetTime(core.MustDateTime(2023, 12, 31, 12, 49, 30, 100000))
	rec.Attributes.SetSeverity(core.Info)
	rec.Attributes.LoggerName = "web"
	rec.Attributes.SetGoroutineID(7)
	rec.Attributes.Caller = core.CallerInfo{Defined: true, File: "server.go", Line: 42}
	rec.Attributes.Add("tenant", core.StringValue("prod"))
	rec.Attributes.Add("shard", core.Int64Value(-3))
	rec.Bundle.AppendString("started")

	got := renderRecord(t, NewJSONFormatter(), rec, core.DefaultFormattingSettings())
	want := `{"time":"2023-12-31 12:49:30.100000","severity":"Info","logger":"web",` +
		`"thread":7,"caller":"server.go:42","message":"started","tenant":"prod","shard":-3}` + "\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
	decodeLine(t, got)
}

func TestJSONFormatter_OmitsAbsentAttributes(t *testing.T) {
	rec := &core.Record{}
	rec.Bundle.AppendString("bare")

	got := renderRecord(t, NewJSONFormatter(), rec, core.DefaultFormattingSettings())
	if got != `{"message":"bare"}`+"\n" {
		t.Errorf("Format() = %q", got)
	}

	m := decodeLine(t, got)
	for _, key := range []string{"time", "severity", "logger", "thread", "caller"} {
		if _, ok := m[key]; ok {
			t.Errorf("absent attribute %q was rendered", key)
		}
	}
}

func TestJSONFormatter_EmptyMessage(t *testing.T) {
	rec := &core.Record{}
	got := renderRecord(t, NewJSONFormatter(), rec, core.DefaultFormattingSettings())
	if got != `{"message":""}`+"\n" {
		t.Errorf("Format() = %q", got)
	}
}

func TestJSONFormatter_Escaping(t *testing.T) {
	msg := "say \"hi\"\\\n\tdone"

	rec := &core.Record{}
	rec.Attributes.LoggerName = "a\"b"
	rec.Bundle.AppendString(msg)

	got := renderRecord(t, NewJSONFormatter(), rec, core.DefaultFormattingSettings())
	want := `{"logger":"a\"b","message":"say \"hi\"\\
	done"}` + "\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	m := decodeLine(t, got)
	if m["message"] != msg {
		t.Errorf("decoded message = %q, want %q", m["message"], msg)
	}
}

func TestJSONFormatter_ExtraValueKinds(t *testing.T) {
	rec := &core.Record{}
	rec.Attributes.Add("s", core.StringValue("v"))
	rec.Attributes.Add("i", core.Int64Value(-12))
	rec.Attributes.Add("u", core.Uint64Value(12))
	rec.Attributes.Add("f", core.Float64Value(1.5))
	rec.Attributes.Add("b", core.BoolValue(true))
	rec.Attributes.Add("t", core.DateTimeValue(core.MustDateTime(2024, 2, 29, 0, 0, 0, 0)))
	rec.Attributes.Add("n", core.Value{})
	rec.Bundle.AppendString("m")

	got := renderRecord(t, NewJSONFormatter(), rec, core.DefaultFormattingSettings())
	m := decodeLine(t, got)

	if m["s"] != "v" {
		t.Errorf("s = %v", m["s"])
	}
	if m["i"] != float64(-12) {
		t.Errorf("i = %v", m["i"])
	}
	if m["u"] != float64(12) {
		t.Errorf("u = %v", m["u"])
	}
	if m["f"] != 1.5 {
		t.Errorf("f = %v", m["f"])
	}
	if m["b"] != true {
		t.Errorf("b = %v", m["b"])
	}
	if m["t"] != "2024-02-29 00:00:00.000000" {
		t.Errorf("t = %v", m["t"])
	}
	if v, ok := m["n"]; !ok || v != nil {
		t.Errorf("n = %v, %v, want explicit null", v, ok)
	}
}

func TestJSONFormatter_NonFiniteFloat(t *testing.T) {
	rec := &core.Record{}
	rec.Attributes.Add("nan", core.Float64Value(nan()))
	rec.Bundle.AppendString("m")

	got := renderRecord(t, NewJSONFormatter(), rec, core.DefaultFormattingSettings())
	m := decodeLine(t, got)
	if v, ok := m["nan"]; !ok || v != nil {
		t.Errorf("nan = %v, %v, want null", v, ok)
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestJSONFormatter_MultiLineMessage(t *testing.T) {
	rec := &core.Record{}
	rec.Bundle.AppendString("a")
	rec.Bundle.AppendLineBreak()
	rec.Bundle.AppendString("b")

	got := renderRecord(t, NewJSONFormatter(), rec, core.DefaultFormattingSettings())
	m := decodeLine(t, got)
	if m["message"] != "a\nb" {
		t.Errorf("decoded message = %q", m["message"])
	}
}

func TestJSONFormatter_ColorNeverLeaksIn(t *testing.T) {
	rec := &core.Record{}
	rec.Attributes.SetSeverity(core.Error)
	rec.Bundle.AppendSegment(core.Colored("alert", core.AnsiRed))

	settings := core.DefaultFormattingSettings()
	settings.ColorSupport = true

	got := renderRecord(t, NewJSONFormatter(), rec, settings)
	if strings.Contains(got, "\x1b") {
		t.Errorf("Format() leaked an escape sequence: %q", got)
	}
	m := decodeLine(t, got)
	if m["message"] != "alert" {
		t.Errorf("decoded message = %q", m["message"])
	}
}

func TestJSONFormatter_Terminator(t *testing.T) {
	rec := &core.Record{}
	rec.Bundle.AppendString("x")

	settings := core.DefaultFormattingSettings()
	settings.Terminator = ""

	if got := renderRecord(t, NewJSONFormatter(), rec, settings); got != `{"message":"x"}` {
		t.Errorf("Format() = %q", got)
	}
}

func BenchmarkJSONFormatterFormat(b *testing.B) {
	rec := &core.Record{}
	rec.Attributes.SetTime(core.MustDateTime(2023, 12, 31, 12, 49, 30, 100000))
	rec.Attributes.SetSeverity(core.Info)
	rec.Attributes.Add("tenant", core.StringValue("prod"))
	rec.Bundle.AppendString("Hello world!")
	settings := core.DefaultFormattingSettings()
	f := NewJSONFormatter()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := core.GetBuffer()
		f.Format(rec, &settings, buf)
		core.PutBuffer(buf)
	}
}
