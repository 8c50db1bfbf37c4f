package printer

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

// Alignment arguments for SetAlign.
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Size arguments for SetFontSize. The high nibble doubles width, the low
// nibble doubles height.
const (
	FontNormal = 0x00
	FontTall   = 0x01
	FontWide   = 0x10
	FontDouble = 0x11
)

// defaultColumns suits 58mm paper; 80mm paper takes 48 columns.
const defaultColumns = 32

// Document accumulates the ESC/POS command stream for one receipt. Layout
// methods chain, and Bytes hands the finished job to a Printer.
type Document struct {
	buf  bytes.Buffer
	cols int
}

// NewDocument starts a document laid out for the given column count and
// resets the printer state.
func NewDocument(cols int) *Document {
	if cols <= 0 {
		cols = defaultColumns
	}
	d := &Document{cols: cols}
	return d.Init()
}

// Init resets the printer to its power-on state (ESC @).
func (d *Document) Init() *Document {
	d.buf.Write([]byte{esc, '@'})
	return d
}

// LineFeed advances the paper one line.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(lf)
	return d
}

// FeedLines advances the paper n lines.
func (d *Document) FeedLines(n int) *Document {
	for ; n > 0; n-- {
		d.buf.WriteByte(lf)
	}
	return d
}

// SetAlign switches justification for the lines that follow.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{esc, 'a', byte(align)})
	return d
}

// SetBold toggles emphasized printing.
func (d *Document) SetBold(on bool) *Document {
	var b byte
	if on {
		b = 1
	}
	d.buf.Write([]byte{esc, 'E', b})
	return d
}

// SetFontSize selects the character magnification.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{gs, '!', size})
	return d
}

// Text prints one line.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(lf)
	return d
}

// TextF prints one formatted line.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator fills a line with the given rule character.
func (d *Document) Separator(char byte) *Document {
	return d.Text(strings.Repeat(string(char), d.cols))
}

// spread prints left flush against the margin with right pushed to the
// opposite edge, padding the middle with spaces.
func (d *Document) spread(left, right string) *Document {
	gap := d.cols - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return d.Text(left + strings.Repeat(" ", gap) + right)
}

// KeyValue prints a label with its amount right-aligned, as in
// "Subtotal                  100.00".
func (d *Document) KeyValue(key, value string) *Document {
	return d.spread(key, value)
}

// ItemLine prints a sale line as "2x Widget" with the line total
// right-aligned.
func (d *Document) ItemLine(qty int, name, total string) *Document {
	return d.spread(fmt.Sprintf("%dx %s", qty, name), total)
}

// Cut triggers a full paper cut.
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{gs, 'V', 0x00})
	return d
}

// PartialCut cuts the paper leaving a small tab so the receipt hangs in
// place until torn off.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{gs, 'V', 0x01})
	return d
}

// Bytes returns the accumulated command stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Reset discards the stream and reinitializes the document.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	return d.Init()
}
