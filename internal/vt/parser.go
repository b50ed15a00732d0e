package vt

import "fmt"

// escState is the interpreter's position in the escape grammar.
type escState uint8

const (
	escGround escState = iota // plain text
	escEscape                 // saw ESC
	escCsi                    // saw ESC [, accumulating parameters
)

const (
	// escParamMax bounds the CSI parameter accumulator. Longer sequences
	// are truncated, never rejected: the interpreter must absorb malformed
	// input and come back to a consistent state.
	escParamMax = 32

	// tabWidth is the fixed tab stop interval.
	tabWidth = 8
)

// feed runs one byte through the escape interpreter. It returns true when
// the byte was consumed as part of a control sequence; false means the byte
// is plain input and the caller should hand it to put. An ESC sequence that
// turns out to be unrecognized aborts back to ground and its terminating
// byte is reported unconsumed, so it is reprocessed as plain text.
// Caller holds mu.
func (s *Session) feed(c byte) bool {
	switch s.escState {
	case escEscape:
		switch c {
		case '[':
			s.escState = escCsi
			return true
		case 'D': // index: cursor down, scroll at the bottom edge
			s.escState = escGround
			s.index()
			return true
		case 'M': // reverse index: cursor up, scroll at the top edge
			s.escState = escGround
			s.reverseIndex()
			return true
		case 'E': // next line: column 0 plus index
			s.escState = escGround
			s.cursorX = 0
			s.index()
			return true
		default:
			s.escState = escGround
			return false
		}

	case escCsi:
		if c == '?' && len(s.escBuf) == 0 && !s.escPriv {
			// Private-mode sequence: recognized, then discarded whole.
			s.escPriv = true
			return true
		}
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			if !s.escPriv {
				s.csiDispatch(c)
			}
			s.escState = escGround
			s.escBuf = s.escBuf[:0]
			s.escPriv = false
			return true
		}
		if len(s.escBuf) < escParamMax {
			s.escBuf = append(s.escBuf, c)
		}
		return true

	default: // escGround
		if c == 0x1B {
			s.escState = escEscape
			s.escBuf = s.escBuf[:0]
			s.escPriv = false
			return true
		}
		return false
	}
}

// index moves the cursor down one row, scrolling at the bottom edge.
// Caller holds mu.
func (s *Session) index() {
	s.cursorY++
	if s.cursorY >= s.rows {
		s.scrollUp()
	}
	s.dirty.Store(true)
}

// reverseIndex moves the cursor up one row, scrolling at the top edge.
// Caller holds mu.
func (s *Session) reverseIndex() {
	if s.cursorY == 0 {
		s.scrollDown()
	} else {
		s.cursorY--
	}
	s.dirty.Store(true)
}

// parseParams extracts the semicolon-separated numeric parameters from the
// accumulator. Bytes that are neither digits nor separators are skipped.
// Returns nil for an empty accumulator.
func (s *Session) parseParams() []int {
	if len(s.escBuf) == 0 {
		return nil
	}
	params := make([]int, 0, 4)
	n := 0
	for _, c := range s.escBuf {
		switch {
		case c >= '0' && c <= '9':
			n = n*10 + int(c-'0')
		case c == ';':
			params = append(params, n)
			n = 0
		}
	}
	return append(params, n)
}

// param returns params[i], or def when absent.
func param(params []int, i, def int) int {
	if i >= len(params) {
		return def
	}
	return params[i]
}

// count returns params[0] interpreted as a repeat count, minimum 1.
func count(params []int) int {
	n := param(params, 0, 1)
	if n < 1 {
		n = 1
	}
	return n
}

// csiDispatch applies a completed CSI sequence. Unrecognized final letters
// are accepted and discarded. Caller holds mu.
func (s *Session) csiDispatch(final byte) {
	params := s.parseParams()

	switch final {
	case 'm':
		s.applySGR(params)

	case 'J':
		// Only the whole-screen erase is meaningful on this display.
		if len(params) == 0 || params[0] == 2 {
			s.clearLocked()
		}

	case 'H', 'f':
		row := param(params, 0, 1)
		col := param(params, 1, 1)
		s.cursorY = clamp(row-1, 0, s.rows-1)
		s.cursorX = clamp(col-1, 0, s.cols-1)

	case 'A':
		s.cursorY = clamp(s.cursorY-count(params), 0, s.rows-1)
	case 'B':
		s.cursorY = clamp(s.cursorY+count(params), 0, s.rows-1)
	case 'C':
		s.cursorX = clamp(s.cursorX+count(params), 0, s.cols-1)
	case 'D':
		s.cursorX = clamp(s.cursorX-count(params), 0, s.cols-1)

	case 'K':
		start, end := 0, s.cols
		switch param(params, 0, 0) {
		case 0:
			start = s.cursorX
		case 1:
			end = s.cursorX + 1
		}
		for x := start; x < end; x++ {
			*s.cell(x, s.cursorY) = Cell{Ch: ' ', Attr: s.attr}
		}
		s.dirty.Store(true)

	case 'X':
		end := min(s.cursorX+count(params), s.cols)
		for x := s.cursorX; x < end; x++ {
			*s.cell(x, s.cursorY) = Cell{Ch: ' ', Attr: s.attr}
		}
		s.dirty.Store(true)

	case 'L':
		s.insertLines(count(params))
	case 'M':
		s.deleteLines(count(params))

	case 'n':
		switch param(params, 0, 0) {
		case 6:
			// Cursor position report, injected into this session's own
			// input queue. Coordinates are 1-based on the wire.
			resp := fmt.Sprintf("\x1b[%d;%dR", s.cursorY+1, s.cursorX+1)
			for i := 0; i < len(resp); i++ {
				s.sendInput(resp[i])
			}
		case 5:
			// Status probe; report OK.
			for _, b := range []byte("\x1b[0n") {
				s.sendInput(b)
			}
		}
	}
}

// insertLines opens n blank rows at the cursor row, pushing the rest down.
// Rows pushed past the bottom are discarded. Caller holds mu.
func (s *Session) insertLines(n int) {
	if n > s.rows-s.cursorY {
		n = s.rows - s.cursorY
	}
	src := s.grid[s.cursorY*s.cols : (s.rows-n)*s.cols]
	dst := s.grid[(s.cursorY+n)*s.cols:]
	copy(dst, src)
	for y := s.cursorY; y < s.cursorY+n; y++ {
		s.blankRow(y)
	}
	s.dirty.Store(true)
}

// deleteLines removes n rows at the cursor row, pulling the rest up and
// blanking the vacated rows at the bottom. Caller holds mu.
func (s *Session) deleteLines(n int) {
	if n > s.rows-s.cursorY {
		n = s.rows - s.cursorY
	}
	dst := s.grid[s.cursorY*s.cols:]
	src := s.grid[(s.cursorY+n)*s.cols:]
	copy(dst, src)
	for y := s.rows - n; y < s.rows; y++ {
		s.blankRow(y)
	}
	s.dirty.Store(true)
}

// applySGR folds a list of SGR parameters into the drawing attribute.
// Only the 16-color model is supported; extended color introducers are
// parsed far enough to skip their payload. Caller holds mu.
func (s *Session) applySGR(params []int) {
	if len(params) == 0 {
		s.attr = DefaultAttr
		return
	}
	var bright uint8
	for i := 0; i < len(params); i++ {
		switch n := params[i]; {
		case n == 0:
			s.attr = DefaultAttr
			bright = 0
		case n == 1:
			bright = Bright
			s.attr = s.attr.WithFg(s.attr.Fg() | Bright)
		case n == 22:
			bright = 0
			s.attr = s.attr.WithFg(s.attr.Fg() &^ Bright)
		case n >= 30 && n <= 37:
			s.attr = s.attr.WithFg(uint8(n-30) | bright)
		case n == 39:
			s.attr = s.attr.WithFg(White)
		case n >= 40 && n <= 47:
			s.attr = s.attr.WithBg(uint8(n - 40))
		case n == 49:
			s.attr = s.attr.WithBg(Black)
		case n >= 90 && n <= 97:
			s.attr = s.attr.WithFg(uint8(n-90) | Bright)
		case n >= 100 && n <= 107:
			s.attr = s.attr.WithBg(uint8(n-100) | Bright)
		case n == 38 || n == 48:
			// 38;5;<idx> or 38;2;<r>;<g>;<b>: skip the payload.
			if i+1 < len(params) {
				switch params[i+1] {
				case 5:
					i += 2
				case 2:
					i += 4
				default:
					i++
				}
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
