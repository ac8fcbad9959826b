package core

import (
	"fmt"
	"sync"
)

// Buffer accumulates formatted output. Formatters size their output first
// and then fill an Extend window of exactly that many bytes, so a dispatch
// touches the allocator at most once however many segments it renders.
type Buffer struct {
	buf []byte
}

// Extend grows the buffer by n bytes and returns the window covering them.
// The window stays valid until the next Extend or Reset.
func (b *Buffer) Extend(n int) []byte {
	if n < 0 {
		panic(fmt.Sprintf("core: negative buffer extension %d", n))
	}
	off := len(b.buf)
	if cap(b.buf)-off < n {
		grown := make([]byte, off, off+n)
		copy(grown, b.buf)
		b.buf = grown
	}
	b.buf = b.buf[:off+n]
	return b.buf[off:]
}

// WriteString appends s.
func (b *Buffer) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteByte appends c.
func (b *Buffer) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// Bytes returns the accumulated output. The slice is invalidated by the next
// Extend or Reset.
func (b *Buffer) Bytes() []byte { return b.buf }

// Len returns the accumulated byte count.
func (b *Buffer) Len() int { return len(b.buf) }

// Reset empties the buffer, keeping its capacity.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

var bufferPool = sync.Pool{New: func() any { return new(Buffer) }}

// GetBuffer takes a reset buffer from the shared pool.
func GetBuffer() *Buffer {
	return bufferPool.Get().(*Buffer)
}

// PutBuffer resets b and returns it to the shared pool. Callers must not
// touch b or slices obtained from it afterwards.
func PutBuffer(b *Buffer) {
	const maxRetainedCap = 1 << 16
	if cap(b.buf) > maxRetainedCap {
		return
	}
	b.Reset()
	bufferPool.Put(b)
}
