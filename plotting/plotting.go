package plotting

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Figure is a buildable plot. How the data turns into an image is up to the
// implementation; series and option calls are recorded in order.
type Figure interface {
	// SetSize sets the figure dimensions in inches.
	SetSize(w, h float64)
	// SetXLabel sets the x axis label.
	SetXLabel(label string)
	// SetYLabel sets the y axis label.
	SetYLabel(label string)
	// SetTitle sets the figure title.
	SetTitle(title string)
	// Plot adds a line series of y against x.
	Plot(x, y []float64, label string) error
	// Scatter adds a scatter series of y against x.
	Scatter(x, y []float64, label string) error
	// ErrorBars adds a series of y against x with symmetric y errors.
	ErrorBars(x, y, yerr []float64, label string) error
	// SetOption sets a named option applied to the series that follow. It
	// accepts string, integer and float values.
	SetOption(name string, value any) error
	// Reset clears the option set for the series that follow.
	Reset()
	// Save writes the figure to dir under the given image name.
	Save(dir, name string) error
}

// MatplotlibFigure serializes figure commands into a compact binary file
// that an accompanying matplotlib-side script renders. Methods are not safe
// for concurrent use.
type MatplotlibFigure struct {
	stream bytes.Buffer

	width  float64
	height float64
	title  string
	xLabel string
	yLabel string
}

var _ Figure = (*MatplotlibFigure)(nil)

// NewMatplotlibFigure returns an empty figure with matplotlib's default
// size of 6.4 by 4.8 inches.
func NewMatplotlibFigure() *MatplotlibFigure {
	return &MatplotlibFigure{width: 6.4, height: 4.8}
}

// SetSize sets the figure dimensions in inches.
func (f *MatplotlibFigure) SetSize(w, h float64) {
	f.width, f.height = w, h
}

// SetXLabel sets the x axis label.
func (f *MatplotlibFigure) SetXLabel(label string) { f.xLabel = label }

// SetYLabel sets the y axis label.
func (f *MatplotlibFigure) SetYLabel(label string) { f.yLabel = label }

// SetTitle sets the figure title.
func (f *MatplotlibFigure) SetTitle(title string) { f.title = title }

// Width returns the figure width in inches.
func (f *MatplotlibFigure) Width() float64 { return f.width }

// Height returns the figure height in inches.
func (f *MatplotlibFigure) Height() float64 { return f.height }

// Title returns the figure title.
func (f *MatplotlibFigure) Title() string { return f.title }

// XLabel returns the x axis label.
func (f *MatplotlibFigure) XLabel() string { return f.xLabel }

// YLabel returns the y axis label.
func (f *MatplotlibFigure) YLabel() string { return f.yLabel }

// Plot adds a line series of y against x.
func (f *MatplotlibFigure) Plot(x, y []float64, label string) error {
	return f.series('P', label, x, y)
}

// Scatter adds a scatter series of y against x.
func (f *MatplotlibFigure) Scatter(x, y []float64, label string) error {
	return f.series('S', label, x, y)
}

// ErrorBars adds a series of y against x with symmetric y errors.
func (f *MatplotlibFigure) ErrorBars(x, y, yerr []float64, label string) error {
	return f.series('E', label, x, y, yerr)
}

func (f *MatplotlibFigure) series(op byte, label string, cols ...[]float64) error {
	n := len(cols[0])
	for _, c := range cols[1:] {
		if len(c) != n {
			return fmt.Errorf("plotting: series columns have %d and %d points", n, len(c))
		}
	}
	f.stream.WriteByte(op)
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(n))
	f.stream.Write(tmp[:])
	for _, c := range cols {
		for _, v := range c {
			binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
			f.stream.Write(tmp[:])
		}
	}
	writeCString(&f.stream, label)
	return nil
}

// SetOption sets a named option applied to the series that follow. String,
// integer and float values are supported; integers must fit the reader's
// 32-bit option slot.
func (f *MatplotlibFigure) SetOption(name string, value any) error {
	switch v := value.(type) {
	case string:
		f.stream.WriteByte('O')
		writeCString(&f.stream, name)
		f.stream.WriteByte('S')
		writeCString(&f.stream, v)
	case int:
		return f.intOption(name, int64(v))
	case int32:
		return f.intOption(name, int64(v))
	case int64:
		return f.intOption(name, v)
	case float64:
		f.floatOption(name, v)
	case float32:
		f.floatOption(name, float64(v))
	default:
		return fmt.Errorf("plotting: unsupported option type %T", value)
	}
	return nil
}

func (f *MatplotlibFigure) intOption(name string, v int64) error {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return fmt.Errorf("plotting: option %q value %d exceeds 32 bits", name, v)
	}
	f.stream.WriteByte('O')
	writeCString(&f.stream, name)
	f.stream.WriteByte('I')
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(int32(v)))
	f.stream.Write(tmp[:])
	return nil
}

func (f *MatplotlibFigure) floatOption(name string, v float64) {
	f.stream.WriteByte('O')
	writeCString(&f.stream, name)
	f.stream.WriteByte('D')
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	f.stream.Write(tmp[:])
}

// Reset clears the option set for the series that follow.
func (f *MatplotlibFigure) Reset() {
	f.stream.WriteByte('R')
}

// Encode writes the serialized figure. savePath is the image path the
// reader saves the rendered figure to.
func (f *MatplotlibFigure) Encode(w io.Writer, savePath string) error {
	var head bytes.Buffer
	head.WriteByte('s')
	writeCString(&head, savePath)
	head.WriteByte('D')
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(f.width))
	head.Write(tmp[:])
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(f.height))
	head.Write(tmp[:])
	if f.xLabel != "" {
		head.WriteByte('X')
		writeCString(&head, f.xLabel)
	}
	if f.yLabel != "" {
		head.WriteByte('Y')
		writeCString(&head, f.yLabel)
	}
	if f.title != "" {
		head.WriteByte('T')
		writeCString(&head, f.title)
	}
	if _, err := w.Write(head.Bytes()); err != nil {
		return fmt.Errorf("plotting: encode: %w", err)
	}
	if _, err := w.Write(f.stream.Bytes()); err != nil {
		return fmt.Errorf("plotting: encode: %w", err)
	}
	return nil
}

// Save writes the figure to dir. The data file is named after the image
// with dots replaced by underscores plus an ".img" suffix, while the
// embedded save path keeps the original name.
func (f *MatplotlibFigure) Save(dir, name string) error {
	if name == "" {
		return fmt.Errorf("plotting: empty figure name")
	}
	dataName := strings.ReplaceAll(name, ".", "_") + ".img"
	out, err := os.Create(filepath.Join(dir, dataName))
	if err != nil {
		return fmt.Errorf("plotting: save: %w", err)
	}
	if err := f.Encode(out, name); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeCString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte(0)
}
