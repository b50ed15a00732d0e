package vt

// RGB565 is a packed 16-bit display color: 5 bits red, 6 green, 5 blue.
// The display driver consumes palette entries in this format directly.
type RGB565 uint16

// RGB565From packs 8-bit channels into a display color.
func RGB565From(r, g, b uint8) RGB565 {
	return RGB565(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGB unpacks the color back to 8-bit channels, replicating the high bits
// into the low bits so full intensity maps to 0xFF.
func (c RGB565) RGB() (r, g, b uint8) {
	r = uint8(c >> 11 & 0x1F)
	g = uint8(c >> 5 & 0x3F)
	b = uint8(c & 0x1F)
	return r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2
}

// DefaultPalette is the standard xterm 16-color ramp in RGB565, indexed by
// the 4-bit color values stored in cell attributes.
var DefaultPalette = [16]RGB565{
	0x0000, // black
	0xC800, // red
	0x0660, // green
	0xCE60, // yellow
	0x001D, // blue
	0xC819, // magenta
	0x0679, // cyan
	0xE73C, // white
	0x7BEF, // bright black
	0xF800, // bright red
	0x07E0, // bright green
	0xFFE0, // bright yellow
	0x5AFF, // bright blue
	0xF81F, // bright magenta
	0x07FF, // bright cyan
	0xFFFF, // bright white
}

// SetPaletteColor maps one 4-bit color index to a display color. The
// palette is presentation only; emulation never reads it.
func (m *Manager) SetPaletteColor(index int, c RGB565) {
	if index < 0 || index > 15 {
		return
	}
	m.paletteMu.Lock()
	m.palette[index] = c
	m.paletteMu.Unlock()
}

// GetPaletteColor returns the display color for a 4-bit color index.
func (m *Manager) GetPaletteColor(index int) RGB565 {
	if index < 0 || index > 15 {
		return 0
	}
	m.paletteMu.RLock()
	defer m.paletteMu.RUnlock()
	return m.palette[index]
}

// SetPalette replaces all 16 palette entries at once.
func (m *Manager) SetPalette(p [16]RGB565) {
	m.paletteMu.Lock()
	m.palette = p
	m.paletteMu.Unlock()
}

// GetPalette returns a copy of the 16-entry palette.
func (m *Manager) GetPalette() [16]RGB565 {
	m.paletteMu.RLock()
	defer m.paletteMu.RUnlock()
	return m.palette
}
