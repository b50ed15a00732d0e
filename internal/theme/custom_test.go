package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// sixteenColors returns a JSON array of 16 distinct valid hex colors.
func sixteenColors() string {
	var parts []string
	for i := 0; i < 16; i++ {
		parts = append(parts, fmt.Sprintf("%q", fmt.Sprintf("#%02x%02x%02x", i*16, i*8, i*4)))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func writePalette(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadPaletteFile(t *testing.T) {
	dir := t.TempDir()
	path := writePalette(t, dir, "amber.json",
		`{"name":"amber","ansi":`+sixteenColors()+`,"fg":"#ffb000","bg":"#1a1000"}`)

	tint, err := loadPaletteFile(path)
	if err != nil {
		t.Fatalf("loadPaletteFile: %v", err)
	}
	if tint.ID != "amber" {
		t.Errorf("ID = %q, want amber", tint.ID)
	}
	if tint.DisplayName != "amber" {
		t.Errorf("DisplayName = %q, want amber", tint.DisplayName)
	}
	if tint.Black == nil || tint.BrightWhite == nil {
		t.Error("ansi slots not populated")
	}
	if tint.Fg == nil || tint.Bg == nil {
		t.Error("fg/bg not populated")
	}
	if tint.Cursor == nil {
		t.Error("cursor should default to fg")
	}
}

func TestLoadPaletteFileNameFromFilename(t *testing.T) {
	dir := t.TempDir()
	path := writePalette(t, dir, "Solar.json", `{"ansi":`+sixteenColors()+`}`)

	tint, err := loadPaletteFile(path)
	if err != nil {
		t.Fatalf("loadPaletteFile: %v", err)
	}
	if tint.ID != "solar" {
		t.Errorf("ID = %q, want solar (lowercased filename)", tint.ID)
	}
}

func TestLoadPaletteFileRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"wrong color count", `{"name":"x","ansi":["#000000","#ffffff"]}`},
		{"bad hex color", `{"name":"x","ansi":["red","#000000","#000000","#000000","#000000","#000000","#000000","#000000","#000000","#000000","#000000","#000000","#000000","#000000","#000000","#000000"]}`},
		{"bad fg", `{"name":"x","ansi":` + sixteenColors() + `,"fg":"ffb000"}`},
		{"not json", `not a palette`},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePalette(t, dir, fmt.Sprintf("bad%d.json", i), tt.content)
			if _, err := loadPaletteFile(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	valid := []string{"#000000", "#ffffff", "#FFB000", "#1a2b3c"}
	for _, s := range valid {
		if _, err := parseHexColor(s); err != nil {
			t.Errorf("parseHexColor(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{"", "#fff", "000000", "#gggggg", "#0000000", "blue"}
	for _, s := range invalid {
		if _, err := parseHexColor(s); err == nil {
			t.Errorf("parseHexColor(%q) = nil, want error", s)
		}
	}
}

func TestLoadCustomThemesSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writePalette(t, dir, "good.json", `{"name":"good","ansi":`+sixteenColors()+`}`)
	writePalette(t, dir, "broken.json", `{"ansi":["#000000"]}`)
	writePalette(t, dir, "notes.txt", "not a palette")

	loaded, err := LoadCustomThemes(dir)
	if err != nil {
		t.Fatalf("LoadCustomThemes: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != "good" {
		t.Errorf("loaded = %v, want [good]", loaded)
	}
}

func TestLoadCustomThemesWithoutInitialize(t *testing.T) {
	// Registration must work standalone; it cannot assume Initialize
	// already built the tint registry.
	dir := t.TempDir()
	writePalette(t, dir, "standalone.json", `{"name":"standalone","ansi":`+sixteenColors()+`}`)

	loaded, err := LoadCustomThemes(dir)
	if err != nil {
		t.Fatalf("LoadCustomThemes: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != "standalone" {
		t.Errorf("loaded = %v, want [standalone]", loaded)
	}
}

func TestLoadCustomThemesMissingDir(t *testing.T) {
	if _, err := LoadCustomThemes(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}
