package formatter

import (
	"fmt"

	"github.com/Philipp01105/strobe/core"
)

// NumberOfDigits returns how many decimal digits the magnitude of v spans,
// sign excluded. Zero has one digit.
func NumberOfDigits(v int64) int {
	n := 1
	if v < 0 {
		for v <= -10 {
			v /= 10
			n++
		}
		return n
	}
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}

// FormatIntegerWithCommas appends v in decimal with digits grouped by
// thousands, e.g. 1234567890 renders as "1,234,567,890". A negative value
// keeps its sign ahead of the first group.
func FormatIntegerWithCommas(dst []byte, v int64) []byte {
	if v < 0 {
		dst = append(dst, '-')
		return appendUintCommas(dst, uint64(-(v+1))+1)
	}
	return appendUintCommas(dst, uint64(v))
}

func appendUintCommas(dst []byte, u uint64) []byte {
	var tmp [26]byte
	i := len(tmp)
	c := 0
	for {
		i--
		tmp[i] = byte('0' + u%10)
		u /= 10
		c++
		if u == 0 {
			break
		}
		if c%3 == 0 {
			i--
			tmp[i] = ','
		}
	}
	return append(dst, tmp[i:]...)
}

// PrefixStyle selects the radix prefix FormatHex and friends emit.
type PrefixStyle uint8

const (
	// NoPrefix emits bare digits.
	NoPrefix PrefixStyle = iota
	// LowerPrefix emits 0x / 0b.
	LowerPrefix
	// UpperPrefix emits 0X / 0B.
	UpperPrefix
)

const (
	lowerHexDigits = "0123456789abcdef"
	upperHexDigits = "0123456789ABCDEF"
)

// FormatHex appends v in hexadecimal. upper selects the digit case; the
// prefix style is independent of it.
func FormatHex(dst []byte, v uint64, upper bool, prefix PrefixStyle) []byte {
	switch prefix {
	case LowerPrefix:
		dst = append(dst, '0', 'x')
	case UpperPrefix:
		dst = append(dst, '0', 'X')
	}
	digits := lowerHexDigits
	if upper {
		digits = upperHexDigits
	}
	var tmp [16]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = digits[v&0xf]
		v >>= 4
		if v == 0 {
			break
		}
	}
	return append(dst, tmp[i:]...)
}

// FormatBinary appends v in binary with an optional 0b / 0B prefix.
func FormatBinary(dst []byte, v uint64, prefix PrefixStyle) []byte {
	switch prefix {
	case LowerPrefix:
		dst = append(dst, '0', 'b')
	case UpperPrefix:
		dst = append(dst, '0', 'B')
	}
	var tmp [64]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + v&1)
		v >>= 1
		if v == 0 {
			break
		}
	}
	return append(dst, tmp[i:]...)
}

// CopyPaddedInt writes v zero-padded and right-aligned across dst[:width]
// and returns width. It panics when dst cannot hold width bytes; digits
// beyond width are truncated from the left.
func CopyPaddedInt(dst []byte, v, width int) int {
	if len(dst) < width {
		panic(fmt.Sprintf("formatter: padded int needs %d bytes, buffer has %d", width, len(dst)))
	}
	for i := width - 1; i >= 0; i-- {
		dst[i] = byte('0' + v%10)
		v /= 10
	}
	return width
}

// FormatDateTo writes the canonical 26-byte "YYYY-MM-DD HH:MM:SS.UUUUUU"
// rendering of dt into dst and returns the byte count. A destination
// shorter than 26 bytes is a contract violation and panics.
func FormatDateTo(dst []byte, dt core.DateTime) int {
	if len(dst) < core.DateTimeFormatLen {
		panic(fmt.Sprintf("formatter: date needs %d bytes, buffer has %d", core.DateTimeFormatLen, len(dst)))
	}
	dt.AppendFormat(dst[:0])
	return core.DateTimeFormatLen
}
