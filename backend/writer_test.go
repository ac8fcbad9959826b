package backend

import (
	"bufio"
	"bytes"
	"testing"
)

func TestWriter_WritesThrough(t *testing.T) {
	var buf bytes.Buffer
	b := NewWriter(&buf)

	if _, err := b.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("captured %q", buf.String())
	}
	if err := b.Flush(); err != nil {
		t.Errorf("Flush() error: %v", err)
	}
}

func TestWriter_FlushForwards(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriterSize(&buf, 1024)
	b := NewWriter(bw)

	b.Write([]byte("buffered"))
	if buf.Len() != 0 {
		t.Fatalf("write bypassed the buffer: %q", buf.String())
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if buf.String() != "buffered" {
		t.Errorf("captured %q after flush", buf.String())
	}
}

type closableWriter struct {
	bytes.Buffer
	closed bool
}

func (w *closableWriter) Close() error {
	w.closed = true
	return nil
}

func TestWriter_CloseForwards(t *testing.T) {
	w := &closableWriter{}
	b := NewWriter(w)
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !w.closed {
		t.Error("Close() did not reach the wrapped writer")
	}

	// A writer without Close is fine too.
	if err := NewWriter(&bytes.Buffer{}).Close(); err != nil {
		t.Errorf("Close() on a plain writer error: %v", err)
	}
}

func TestMemory_CaptureAndReset(t *testing.T) {
	m := NewMemory()
	m.Write([]byte("one "))
	m.Write([]byte("two"))

	if m.String() != "one two" {
		t.Errorf("String() = %q", m.String())
	}

	snap := m.Bytes()
	m.Write([]byte(" three"))
	if string(snap) != "one two" {
		t.Errorf("Bytes() snapshot mutated to %q", snap)
	}

	m.Reset()
	if m.String() != "" {
		t.Errorf("String() after Reset = %q", m.String())
	}
}

func TestDiscard(t *testing.T) {
	d := NewDiscard()
	n, err := d.Write([]byte("gone"))
	if n != 4 || err != nil {
		t.Errorf("Write() = %d, %v", n, err)
	}
	if err := d.Flush(); err != nil {
		t.Errorf("Flush() error: %v", err)
	}
}
