package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/breezebox/breezebox/internal/config"
)

// KeyBytes encodes a key press as the raw byte sequence a VT100-style
// terminal would emit. The function keys F1-F4 produce the SS3 sequences
// the input router recognizes as session hotkeys.
func KeyBytes(msg tea.KeyPressMsg) []byte {
	// Plain text first: printable ASCII goes through unchanged. Shift and
	// caps lock still produce text (a typed 'A' arrives with ModShift set),
	// so only the other modifiers disqualify the text path.
	if msg.Mod&^(tea.ModShift|tea.ModCapsLock) == 0 && msg.Text != "" {
		var out []byte
		for _, r := range msg.Text {
			if r >= config.PrintableCharMin && r <= config.PrintableCharMax {
				out = append(out, byte(r))
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	switch msg.Code {
	case tea.KeyEnter:
		return []byte{'\r'}
	case tea.KeyTab:
		return []byte{'\t'}
	case tea.KeyBackspace:
		return []byte{config.DEL}
	case tea.KeyEscape:
		return []byte{config.ESC}
	case tea.KeySpace:
		return []byte{' '}
	case tea.KeyUp:
		return []byte("\x1b[A")
	case tea.KeyDown:
		return []byte("\x1b[B")
	case tea.KeyRight:
		return []byte("\x1b[C")
	case tea.KeyLeft:
		return []byte("\x1b[D")
	case tea.KeyHome:
		return []byte("\x1b[H")
	case tea.KeyEnd:
		return []byte("\x1b[F")
	case tea.KeyDelete:
		return []byte("\x1b[3~")
	case tea.KeyPgUp:
		return []byte("\x1b[5~")
	case tea.KeyPgDown:
		return []byte("\x1b[6~")
	case tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4:
		return fnKeyBytes(msg)
	}

	// Ctrl+letter maps to the matching control byte.
	if msg.Mod == tea.ModCtrl && msg.Code >= 'a' && msg.Code <= 'z' {
		return []byte{byte(msg.Code) - 'a' + 1}
	}

	return nil
}

// fnKeyBytes encodes F1-F4, carrying the ctrl modifier through in the
// CSI form so modified presses are still recognized.
func fnKeyBytes(msg tea.KeyPressMsg) []byte {
	final := byte('P' + (msg.Code - tea.KeyF1))
	if msg.Mod&tea.ModCtrl != 0 {
		return []byte{config.ESC, '[', '1', ';', '0' + config.ModParamBase + config.ModParamCtrl, final}
	}
	return []byte{config.ESC, 'O', final}
}
