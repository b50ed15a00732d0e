package vt

import (
	"sync"
	"time"
)

// DefaultHotkeyTimeout is how long a candidate hotkey sequence may stall
// before its bytes are released to the active session as ordinary input.
// Terminals emit hotkey sequences back-to-back, so anything slower is a
// human pressing the plain Escape key.
const DefaultHotkeyTimeout = 20 * time.Millisecond

// hotkeyMax bounds a plausible hotkey candidate. The longest recognized
// sequence is ESC [ 5 2 ; 5 u at seven bytes; past ten we are buffering
// garbage.
const hotkeyMax = 10

// Router consumes the raw keyboard byte stream and splits it into
// terminal-switch hotkeys and ordinary input for the active session.
// There is one physical input source, so one Router exists per Manager,
// constructed at startup and shared explicitly.
//
// Recognized hotkeys, all mapping to "switch to session K" for K in 0..3:
//
//	ESC O P/Q/R/S            F1-F4
//	ESC O 5 P/Q/R/S          Ctrl+F1-F4 (some terminals)
//	ESC [ 1 ; 5 P/Q/R/S      Ctrl+F1-F4 (xterm)
//	ESC [ 11~ .. 14~         F1-F4 (vt style), modifier variant 11;5~ etc.
//	ESC [ 49;5u .. 52;5u     Ctrl+1-4 (CSI u / fixterms)
type Router struct {
	m       *Manager
	timeout time.Duration

	mu    sync.Mutex
	buf   []byte
	timer *time.Timer
}

// NewRouter creates the input router. A timeout <= 0 selects
// DefaultHotkeyTimeout.
func NewRouter(m *Manager, timeout time.Duration) *Router {
	if timeout <= 0 {
		timeout = DefaultHotkeyTimeout
	}
	return &Router{m: m, timeout: timeout}
}

// Feed routes one raw input byte. It returns true when the byte completed
// a hotkey and the switch has been performed; false when the byte was
// forwarded to the active session or is being buffered as a hotkey
// candidate. Buffered bytes that stop matching any pattern, or that stall
// past the timeout, are flushed to the active session in order.
func (r *Router) Feed(c byte) bool {
	r.mu.Lock()

	if len(r.buf) == 0 {
		if c != 0x1B {
			r.mu.Unlock()
			r.m.SendInput(r.m.Active(), c)
			return false
		}
		r.buf = append(r.buf, c)
		// Arm the stall timer: a lone ESC must not be held forever.
		r.timer = time.AfterFunc(r.timeout, func() {
			r.mu.Lock()
			r.flushLocked()
			r.mu.Unlock()
		})
		r.mu.Unlock()
		return false
	}

	r.buf = append(r.buf, c)

	if k := matchHotkey(r.buf); k >= 0 {
		r.resetLocked()
		r.mu.Unlock()
		r.m.Switch(k)
		return true
	}

	if couldBeHotkey(r.buf) {
		r.mu.Unlock()
		return false
	}

	r.flushLocked()
	r.mu.Unlock()
	return false
}

// flushLocked releases the candidate buffer to the active session as
// ordinary input, preserving order. Caller holds mu.
func (r *Router) flushLocked() {
	active := r.m.Active()
	for _, b := range r.buf {
		r.m.SendInput(active, b)
	}
	r.resetLocked()
}

// resetLocked clears the candidate buffer and disarms the stall timer.
// Caller holds mu.
func (r *Router) resetLocked() {
	r.buf = r.buf[:0]
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// fnKey maps the xterm function key final bytes P..S to session ids 0..3.
func fnKey(c byte) int {
	if c >= 'P' && c <= 'S' {
		return int(c - 'P')
	}
	return -1
}

// matchHotkey reports the session id a complete candidate buffer selects,
// or -1 when the buffer is not (yet) a full hotkey.
func matchHotkey(buf []byte) int {
	if len(buf) < 3 || buf[0] != 0x1B {
		return -1
	}

	switch buf[1] {
	case 'O':
		if len(buf) == 3 {
			return fnKey(buf[2])
		}
		if len(buf) == 4 && buf[2] == '5' {
			return fnKey(buf[3])
		}

	case '[':
		if len(buf) == 6 && buf[2] == '1' && buf[3] == ';' && buf[4] == '5' {
			return fnKey(buf[5])
		}

		switch buf[len(buf)-1] {
		case '~':
			num, ok := csiNumbers(buf[2 : len(buf)-1])
			if ok && num[0] >= 11 && num[0] <= 14 {
				return num[0] - 11
			}
		case 'u':
			num, ok := csiNumbers(buf[2 : len(buf)-1])
			if ok && len(num) == 2 && num[1] == 5 && num[0] >= 49 && num[0] <= 52 {
				return num[0] - 49
			}
		}
	}
	return -1
}

// csiNumbers parses "num" or "num;num" parameter bytes. Returns false on
// anything else.
func csiNumbers(p []byte) ([]int, bool) {
	nums := []int{0}
	digits := 0
	for _, c := range p {
		switch {
		case c >= '0' && c <= '9':
			nums[len(nums)-1] = nums[len(nums)-1]*10 + int(c-'0')
			digits++
		case c == ';' && len(nums) == 1 && digits > 0:
			nums = append(nums, 0)
			digits = 0
		default:
			return nil, false
		}
	}
	if digits == 0 {
		return nil, false
	}
	return nums, true
}

// couldBeHotkey reports whether the buffer is still a plausible hotkey
// prefix. A false return means the buffer should be flushed as ordinary
// input.
func couldBeHotkey(buf []byte) bool {
	if len(buf) == 0 || buf[0] != 0x1B {
		return false
	}
	if len(buf) == 1 {
		return true
	}
	if buf[1] != 'O' && buf[1] != '[' {
		return false
	}
	if len(buf) > hotkeyMax {
		return false
	}
	if len(buf) >= 3 {
		// Terminal byte classes end a sequence; if it were a hotkey it
		// would have matched already.
		last := buf[len(buf)-1]
		if last == '~' || (last >= 'A' && last <= 'Z') || (last >= 'a' && last <= 'z') {
			return false
		}
	}
	return true
}
