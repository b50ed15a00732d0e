package app

import (
	"bytes"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestKeyBytes(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyPressMsg
		want []byte
	}{
		{"plain letter", tea.KeyPressMsg{Code: 'a', Text: "a"}, []byte("a")},
		{"shifted letter", tea.KeyPressMsg{Code: 'a', ShiftedCode: 'A', Text: "A", Mod: tea.ModShift}, []byte("A")},
		{"caps lock letter", tea.KeyPressMsg{Code: 'a', ShiftedCode: 'A', Text: "A", Mod: tea.ModCapsLock}, []byte("A")},
		{"shifted symbol", tea.KeyPressMsg{Code: '1', ShiftedCode: '!', Text: "!", Mod: tea.ModShift}, []byte("!")},
		{"digit", tea.KeyPressMsg{Code: '7', Text: "7"}, []byte("7")},
		{"enter", tea.KeyPressMsg{Code: tea.KeyEnter}, []byte("\r")},
		{"tab", tea.KeyPressMsg{Code: tea.KeyTab}, []byte("\t")},
		{"backspace", tea.KeyPressMsg{Code: tea.KeyBackspace}, []byte{0x7f}},
		{"escape", tea.KeyPressMsg{Code: tea.KeyEscape}, []byte{0x1b}},
		{"up arrow", tea.KeyPressMsg{Code: tea.KeyUp}, []byte("\x1b[A")},
		{"left arrow", tea.KeyPressMsg{Code: tea.KeyLeft}, []byte("\x1b[D")},
		{"delete", tea.KeyPressMsg{Code: tea.KeyDelete}, []byte("\x1b[3~")},
		{"ctrl+c", tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}, []byte{0x03}},
		{"ctrl+z", tea.KeyPressMsg{Code: 'z', Mod: tea.ModCtrl}, []byte{0x1a}},
		{"F1 hotkey", tea.KeyPressMsg{Code: tea.KeyF1}, []byte("\x1bOP")},
		{"F4 hotkey", tea.KeyPressMsg{Code: tea.KeyF4}, []byte("\x1bOS")},
		{"ctrl+F2", tea.KeyPressMsg{Code: tea.KeyF2, Mod: tea.ModCtrl}, []byte("\x1b[1;5Q")},
		{"non-ascii dropped", tea.KeyPressMsg{Code: 'é', Text: "é"}, nil},
		{"unknown key", tea.KeyPressMsg{Code: tea.KeyF9}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyBytes(tt.msg); !bytes.Equal(got, tt.want) {
				t.Errorf("KeyBytes() = %q, want %q", got, tt.want)
			}
		})
	}
}
