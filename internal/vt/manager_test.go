package vt

import (
	"bytes"
	"fmt"
	"testing"
)

func newTestManager(t *testing.T, rows, cols, sessions int) *Manager {
	t.Helper()
	m, err := New(rows, cols, sessions)
	if err != nil {
		t.Fatalf("New(%d, %d, %d) failed: %v", rows, cols, sessions, err)
	}
	return m
}

// rowText extracts row y of a session as a string, for readable assertions.
func rowText(m *Manager, id, y int) string {
	_, cols := m.Size()
	cells := m.CellsForRender(id)
	b := make([]byte, cols)
	for x := 0; x < cols; x++ {
		b[x] = cells[y*cols+x].Ch
	}
	return string(bytes.TrimRight(b, " "))
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name                  string
		rows, cols, sessions  int
		wantErr               bool
	}{
		{"valid", 37, 128, 4, false},
		{"single session", 2, 2, 1, false},
		{"zero rows", 0, 80, 4, true},
		{"negative cols", 24, -1, 4, true},
		{"zero sessions", 24, 80, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rows, tt.cols, tt.sessions)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitialState(t *testing.T) {
	m := newTestManager(t, 5, 10, 4)

	if got := m.Active(); got != 0 {
		t.Errorf("Active() = %d, want 0", got)
	}
	rows, cols := m.Size()
	if rows != 5 || cols != 10 {
		t.Errorf("Size() = (%d, %d), want (5, 10)", rows, cols)
	}
	for id := 0; id < m.SessionCount(); id++ {
		cells := m.CellsForRender(id)
		if len(cells) != rows*cols {
			t.Fatalf("session %d: %d cells, want %d", id, len(cells), rows*cols)
		}
		for i, c := range cells {
			if c != blank {
				t.Fatalf("session %d cell %d = %+v, want blank", id, i, c)
			}
		}
	}
}

func TestPutcharAdvance(t *testing.T) {
	m := newTestManager(t, 3, 5, 1)

	for i := 0; i < 7; i++ {
		m.Putchar(0, byte('a'+i))
	}
	// 5 columns: "abcde" fills row 0, "fg" starts row 1.
	if got := rowText(m, 0, 0); got != "abcde" {
		t.Errorf("row 0 = %q, want %q", got, "abcde")
	}
	if got := rowText(m, 0, 1); got != "fg" {
		t.Errorf("row 1 = %q, want %q", got, "fg")
	}
	col, row := m.Cursor(0)
	if col != 2 || row != 1 {
		t.Errorf("cursor = (%d, %d), want (2, 1)", col, row)
	}
}

func TestPutcharScrollAtBottom(t *testing.T) {
	m := newTestManager(t, 2, 3, 1)

	m.WriteString(0, "aaa")
	m.WriteString(0, "bbb")
	// Grid full; next character scrolls "aaa" off the top.
	m.Putchar(0, 'c')

	if got := rowText(m, 0, 0); got != "bbb" {
		t.Errorf("row 0 = %q, want %q", got, "bbb")
	}
	if got := rowText(m, 0, 1); got != "c" {
		t.Errorf("row 1 = %q, want %q", got, "c")
	}
	col, row := m.Cursor(0)
	if col != 1 || row != 1 {
		t.Errorf("cursor = (%d, %d), want (1, 1)", col, row)
	}
}

func TestClearRoundTrip(t *testing.T) {
	m := newTestManager(t, 4, 8, 2)

	m.WriteString(0, "\x1b[33mhello\nworld")
	m.Clear(0)

	cells := m.CellsForRender(0)
	for i, c := range cells {
		if c.Ch != ' ' || c.Attr != DefaultAttr {
			t.Fatalf("cell %d = %+v, want blank", i, c)
		}
	}
	col, row := m.Cursor(0)
	if col != 0 || row != 0 {
		t.Errorf("cursor after clear = (%d, %d), want (0, 0)", col, row)
	}
}

func TestSwitchIdempotent(t *testing.T) {
	m := newTestManager(t, 3, 6, 3)

	m.WriteString(0, "stay")
	m.ResetDirty(0)
	before := append([]Cell(nil), m.CellsForRender(0)...)
	col0, row0 := m.Cursor(0)

	m.Switch(0)

	if got := m.Active(); got != 0 {
		t.Fatalf("Active() = %d, want 0", got)
	}
	after := m.CellsForRender(0)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("cell %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
	col, row := m.Cursor(0)
	if col != col0 || row != row0 {
		t.Errorf("cursor moved: (%d, %d) -> (%d, %d)", col0, row0, col, row)
	}
	if m.Dirty(0) {
		t.Error("self-switch marked session dirty")
	}
}

func TestSwitchOutOfRange(t *testing.T) {
	m := newTestManager(t, 3, 6, 2)
	m.Switch(-1)
	m.Switch(2)
	if got := m.Active(); got != 0 {
		t.Errorf("Active() = %d, want 0", got)
	}
}

func TestSwapRoundTrip(t *testing.T) {
	m := newTestManager(t, 4, 10, 4)

	m.WriteString(0, "\x1b[31malpha")
	m.WriteString(1, "\x1b[44mbeta")

	want := append([]Cell(nil), m.CellsForRender(0)...)

	m.Switch(1)
	if got := rowText(m, 1, 0); got != "beta" {
		t.Errorf("after switch, session 1 row 0 = %q, want %q", got, "beta")
	}
	m.Switch(0)

	got := m.CellsForRender(0)
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("cell %d after round trip = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSwitchCallback(t *testing.T) {
	m := newTestManager(t, 3, 6, 4)

	var calls []int
	m.RegisterSwitchCallback(func(id int) { calls = append(calls, id) })

	m.Switch(2)
	m.Switch(2) // no-op, must not fire
	m.Switch(0)

	want := []int{2, 0}
	if len(calls) != len(want) {
		t.Fatalf("switch callback fired %d times, want %d", len(calls), len(want))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %d, want %d", i, calls[i], want[i])
		}
	}
}

func TestWritesLandInInactiveSession(t *testing.T) {
	m := newTestManager(t, 3, 10, 2)

	m.Switch(1)
	// Session 0 is now backed by bulk tier; writes must still land.
	m.WriteString(0, "hidden")
	if got := rowText(m, 0, 0); got != "hidden" {
		t.Errorf("inactive session row 0 = %q, want %q", got, "hidden")
	}
	m.Switch(0)
	if got := rowText(m, 0, 0); got != "hidden" {
		t.Errorf("after switch back, row 0 = %q, want %q", got, "hidden")
	}
}

func TestWriteMatchesPutchar(t *testing.T) {
	m := newTestManager(t, 5, 12, 2)

	data := []byte("one two\tthree\r\nfour \x1b[32mgreen\x1b[0m plain 12345678901234567890")
	m.Write(0, data)
	for _, c := range data {
		m.Putchar(1, c)
	}

	a, b := m.CellsForRender(0), m.CellsForRender(1)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cell %d: Write %+v != Putchar %+v", i, a[i], b[i])
		}
	}
}

func TestDirtyFlag(t *testing.T) {
	m := newTestManager(t, 3, 6, 1)

	m.ResetDirty(0)
	if m.Dirty(0) {
		t.Fatal("dirty after reset")
	}
	m.Putchar(0, 'x')
	if !m.Dirty(0) {
		t.Fatal("not dirty after write")
	}
	m.ResetDirty(0)
	if m.Dirty(0) {
		t.Fatal("dirty after second reset")
	}
}

func TestReadInputTimeout(t *testing.T) {
	m := newTestManager(t, 3, 6, 1)

	if _, ok := m.ReadInput(0, 0); ok {
		t.Fatal("read from empty queue succeeded")
	}
	m.SendInput(0, 'k')
	b, ok := m.ReadInput(0, 0)
	if !ok || b != 'k' {
		t.Fatalf("ReadInput = (%q, %v), want ('k', true)", b, ok)
	}
}

func TestInputQueueDropsWhenFull(t *testing.T) {
	m := newTestManager(t, 3, 6, 1)

	for i := 0; i < DefaultInputQueueSize+10; i++ {
		m.SendInput(0, byte(i))
	}
	// Oldest bytes survive; the overflow was dropped.
	for i := 0; i < DefaultInputQueueSize; i++ {
		b, ok := m.ReadInput(0, 0)
		if !ok || b != byte(i) {
			t.Fatalf("byte %d = (%d, %v), want (%d, true)", i, b, ok, i)
		}
	}
	if _, ok := m.ReadInput(0, 0); ok {
		t.Fatal("queue held more than its capacity")
	}
}

func TestOutOfRangeOpsAreNoOps(t *testing.T) {
	m := newTestManager(t, 3, 6, 2)

	for _, id := range []int{-1, 2, 99} {
		t.Run(fmt.Sprintf("id=%d", id), func(t *testing.T) {
			m.Putchar(id, 'x')
			m.Write(id, []byte("x"))
			m.Clear(id)
			m.SendInput(id, 'x')
			if _, ok := m.ReadInput(id, 0); ok {
				t.Error("ReadInput succeeded on bad id")
			}
			if m.InputAvailable(id) {
				t.Error("InputAvailable true on bad id")
			}
			if cells := m.CellsForRender(id); cells != nil {
				t.Error("CellsForRender returned cells for bad id")
			}
		})
	}
}

func TestPaletteRoundTrip(t *testing.T) {
	m := newTestManager(t, 3, 6, 1)

	if got := m.GetPalette(); got != DefaultPalette {
		t.Fatal("fresh manager palette differs from default")
	}

	m.SetPaletteColor(1, 0xF800)
	if got := m.GetPaletteColor(1); got != 0xF800 {
		t.Errorf("GetPaletteColor(1) = %#04x, want 0xF800", got)
	}

	var p [16]RGB565
	for i := range p {
		p[i] = RGB565(i * 0x1111)
	}
	m.SetPalette(p)
	if got := m.GetPalette(); got != p {
		t.Error("SetPalette/GetPalette round trip mismatch")
	}

	// Out-of-range indices are ignored.
	m.SetPaletteColor(16, 0xFFFF)
	if got := m.GetPaletteColor(16); got != 0 {
		t.Errorf("GetPaletteColor(16) = %#04x, want 0", got)
	}
}

func TestRGB565Conversion(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		packed  RGB565
	}{
		{0x00, 0x00, 0x00, 0x0000},
		{0xFF, 0xFF, 0xFF, 0xFFFF},
		{0xFF, 0x00, 0x00, 0xF800},
		{0x00, 0xFF, 0x00, 0x07E0},
		{0x00, 0x00, 0xFF, 0x001F},
	}
	for _, tt := range tests {
		if got := RGB565From(tt.r, tt.g, tt.b); got != tt.packed {
			t.Errorf("RGB565From(%#02x, %#02x, %#02x) = %#04x, want %#04x",
				tt.r, tt.g, tt.b, got, tt.packed)
		}
		r, g, b := tt.packed.RGB()
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("%#04x.RGB() = (%#02x, %#02x, %#02x), want (%#02x, %#02x, %#02x)",
				tt.packed, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}
