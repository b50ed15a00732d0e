package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	tint "github.com/lrstanley/bubbletint/v2"
)

var registryOnce sync.Once

// ensureRegistry makes the package-level tint registry exist before any
// Register call; bubbletint panics on a nil default registry.
func ensureRegistry() {
	registryOnce.Do(func() {
		tint.NewDefaultRegistry()
	})
}

// Custom palettes are JSON files dropped into the user's themes directory:
//
//	{
//	  "name": "amber",
//	  "ansi": ["#000000", "#803000", ... 16 hex values ...],
//	  "fg": "#ffb000",
//	  "bg": "#1a1000"
//	}
//
// Each file registers as a selectable theme. The 16 ansi entries become the
// session palette after RGB565 quantization; fg/bg/cursor only affect the
// status bar and default to white-ish/black/fg when omitted.
type paletteFile struct {
	Name   string   `json:"name"`
	ANSI   []string `json:"ansi"`
	Fg     string   `json:"fg"`
	Bg     string   `json:"bg"`
	Cursor string   `json:"cursor"`
}

// GetThemesDir returns the custom themes directory, creating it on first use.
func GetThemesDir() (string, error) {
	keepFile, err := xdg.ConfigFile("breezebox/themes/.keep")
	if err != nil {
		return "", fmt.Errorf("failed to get themes directory: %w", err)
	}
	return filepath.Dir(keepFile), nil
}

// LoadCustomThemes registers every *.json palette in dir with bubbletint
// and returns the IDs that loaded. Bad files are skipped, not fatal: a
// broken palette must not keep the terminal from starting.
func LoadCustomThemes(dir string) ([]string, error) {
	ensureRegistry()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	var loaded []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}

		t, err := loadPaletteFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping custom theme %s: %v\n", entry.Name(), err)
			continue
		}

		tint.Register(t)
		loaded = append(loaded, t.ID)
	}

	return loaded, nil
}

// loadPaletteFile parses one palette JSON into a registrable tint.
func loadPaletteFile(path string) (*tint.Tint, error) {
	// #nosec G304 - path comes from the user's own config directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette file: %w", err)
	}

	var p paletteFile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse palette JSON: %w", err)
	}

	name := p.Name
	if name == "" {
		base := filepath.Base(path)
		name = strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	}

	if len(p.ANSI) != 16 {
		return nil, fmt.Errorf("palette needs exactly 16 ansi colors, got %d", len(p.ANSI))
	}

	colors := make([]*tint.Color, 16)
	for i, hex := range p.ANSI {
		c, err := parseHexColor(hex)
		if err != nil {
			return nil, fmt.Errorf("ansi[%d]: %w", i, err)
		}
		colors[i] = c
	}

	t := &tint.Tint{
		ID:          name,
		DisplayName: name,

		Black:  colors[0],
		Red:    colors[1],
		Green:  colors[2],
		Yellow: colors[3],
		Blue:   colors[4],
		Purple: colors[5],
		Cyan:   colors[6],
		White:  colors[7],

		BrightBlack:  colors[8],
		BrightRed:    colors[9],
		BrightGreen:  colors[10],
		BrightYellow: colors[11],
		BrightBlue:   colors[12],
		BrightPurple: colors[13],
		BrightCyan:   colors[14],
		BrightWhite:  colors[15],
	}

	t.Fg = colors[15]
	if p.Fg != "" {
		if t.Fg, err = parseHexColor(p.Fg); err != nil {
			return nil, fmt.Errorf("fg: %w", err)
		}
	}
	t.Bg = colors[0]
	if p.Bg != "" {
		if t.Bg, err = parseHexColor(p.Bg); err != nil {
			return nil, fmt.Errorf("bg: %w", err)
		}
	}
	t.Cursor = t.Fg
	if p.Cursor != "" {
		if t.Cursor, err = parseHexColor(p.Cursor); err != nil {
			return nil, fmt.Errorf("cursor: %w", err)
		}
	}

	return t, nil
}

// parseHexColor validates a #rrggbb string before handing it to tint.
func parseHexColor(s string) (*tint.Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return nil, fmt.Errorf("color %q is not in #rrggbb form", s)
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return nil, fmt.Errorf("color %q is not in #rrggbb form", s)
		}
	}
	return tint.FromHex(s), nil
}
