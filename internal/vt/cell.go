// Package vt implements the virtual terminal core: a fixed pool of
// character-cell sessions, each with its own cursor, color attribute,
// escape-sequence interpreter and input queue, multiplexed onto a single
// physical display through a fast-tier/bulk-tier buffer swap.
package vt

// Color indices for the 4-bit foreground and background attribute nibbles.
const (
	Black = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// Bright is the intensity bit ORed into a 3-bit color index.
const Bright = 0x08

// Attr packs a cell's colors into one byte: (bg << 4) | fg.
type Attr uint8

// NewAttr packs a foreground and background color index into an attribute.
func NewAttr(fg, bg uint8) Attr {
	return Attr((bg&0x0F)<<4 | fg&0x0F)
}

// Fg returns the 4-bit foreground color index.
func (a Attr) Fg() uint8 { return uint8(a) & 0x0F }

// Bg returns the 4-bit background color index.
func (a Attr) Bg() uint8 { return uint8(a) >> 4 & 0x0F }

// WithFg returns the attribute with its foreground replaced.
func (a Attr) WithFg(fg uint8) Attr { return NewAttr(fg, a.Bg()) }

// WithBg returns the attribute with its background replaced.
func (a Attr) WithBg(bg uint8) Attr { return NewAttr(a.Fg(), bg) }

// DefaultAttr is white on black, the state of a cleared cell.
const DefaultAttr = Attr(White)

// Cell is one character cell of a session grid: a printable ASCII byte and a
// packed color attribute. The two-byte layout is the display driver's native
// framebuffer format, so the renderer can copy rows out without conversion.
type Cell struct {
	Ch   byte
	Attr Attr
}

// blank is the value every cell takes on clear and scroll fill.
var blank = Cell{Ch: ' ', Attr: DefaultAttr}
