// Package theme provides color palettes for the virtual terminal display.
package theme

import (
	"image/color"
	"log"
	"sort"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"

	"github.com/breezebox/breezebox/internal/vt"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at application startup.
// If themeName is empty or "classic", the built-in palette is used.
func Initialize(themeName string) error {
	if themeName == "" || themeName == "classic" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	// Load custom themes from user's themes directory
	if themesDir, err := GetThemesDir(); err == nil {
		if _, err := LoadCustomThemes(themesDir); err != nil {
			log.Printf("Warning: error loading custom themes: %v", err)
		}
	}

	if ok := tint.SetTintID(themeName); !ok {
		tint.SetTintID("default")
	}

	return nil
}

// IsEnabled returns true if a named theme is active
func IsEnabled() bool {
	return enabled
}

// Current returns the currently active theme.
// Returns nil when the built-in palette is in use.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// Name returns the active theme's ID, or "classic" for the built-in palette.
func Name() string {
	if !enabled {
		return "classic"
	}
	if t := tint.Current(); t != nil {
		return t.ID
	}
	return "classic"
}

// ListThemes returns the IDs of all registered themes, sorted,
// with the built-in palette first.
func ListThemes() []string {
	tint.NewDefaultRegistry()
	if themesDir, err := GetThemesDir(); err == nil {
		_, _ = LoadCustomThemes(themesDir)
	}
	ids := tint.TintIDs()
	sort.Strings(ids)
	return append([]string{"classic"}, ids...)
}

// GetANSIPalette returns the 16 ANSI colors (0-15) from the current theme.
func GetANSIPalette() [16]color.Color {
	t := Current()
	if t == nil {
		// Fallback to default xterm colors
		return [16]color.Color{
			lipgloss.Color("#000000"), lipgloss.Color("#cd0000"), lipgloss.Color("#00cd00"), lipgloss.Color("#cdcd00"),
			lipgloss.Color("#0000ee"), lipgloss.Color("#cd00cd"), lipgloss.Color("#00cdcd"), lipgloss.Color("#e5e5e5"),
			lipgloss.Color("#7f7f7f"), lipgloss.Color("#ff0000"), lipgloss.Color("#00ff00"), lipgloss.Color("#ffff00"),
			lipgloss.Color("#5c5cff"), lipgloss.Color("#ff00ff"), lipgloss.Color("#00ffff"), lipgloss.Color("#ffffff"),
		}
	}
	return [16]color.Color{
		t.Black,        // 0
		t.Red,          // 1
		t.Green,        // 2
		t.Yellow,       // 3
		t.Blue,         // 4
		t.Purple,       // 5
		t.Cyan,         // 6
		t.White,        // 7
		t.BrightBlack,  // 8
		t.BrightRed,    // 9
		t.BrightGreen,  // 10
		t.BrightYellow, // 11
		t.BrightBlue,   // 12
		t.BrightPurple, // 13
		t.BrightCyan,   // 14
		t.BrightWhite,  // 15
	}
}

// Palette565 returns the current theme's 16 colors packed as RGB565,
// ready to hand to the terminal manager.
func Palette565() [16]vt.RGB565 {
	if !enabled {
		return vt.DefaultPalette
	}
	var p [16]vt.RGB565
	for i, c := range GetANSIPalette() {
		p[i] = pack565(c)
	}
	return p
}

// IndexColor returns the presentation color for a 4-bit palette index.
func IndexColor(p [16]vt.RGB565, index uint8) color.Color {
	r, g, b := p[index&0x0F].RGB()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// TerminalFg returns the foreground color for surrounding UI text.
func TerminalFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#e5e5e5")
	}
	return t.Fg
}

// TerminalBg returns the background color for the surrounding UI.
func TerminalBg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#000000")
	}
	return t.Bg
}

// TerminalCursor returns the color for the terminal cursor.
func TerminalCursor() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#00ff00")
	}
	return t.Cursor
}

// StatusBarActive returns the color for the active session tab.
func StatusBarActive() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#00ff00")
	}
	return t.BrightGreen
}

// StatusBarInactive returns the color for inactive session tabs.
func StatusBarInactive() color.Color {
	return lipgloss.Color("#808090")
}

// StatusBarBg returns the background color for the status bar.
func StatusBarBg() color.Color {
	return lipgloss.Color("#2a2a3e")
}

// StatusBarFg returns the foreground color for the status bar.
func StatusBarFg() color.Color {
	return lipgloss.Color("#a0a0a8")
}

// pack565 converts a color.Color to RGB565.
func pack565(c color.Color) vt.RGB565 {
	if c == nil {
		return 0
	}
	r, g, b, _ := c.RGBA()
	return vt.RGB565From(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
