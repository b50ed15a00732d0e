package vt

import (
	"sync"
	"sync/atomic"
	"time"
)

// Session is one virtual terminal: a cell grid, cursor, drawing attribute,
// interpreter state and a bounded input queue. Sessions are created once by
// the Manager and live for the process lifetime.
//
// The grid slice aliases either the manager's fast-tier buffer (while this
// session is on screen) or the session's own bulk-tier backing store. The
// Manager repoints it during a switch while holding mu; everything else that
// touches grid, cursor or interpreter state holds mu too, so a writer
// observes either the pre-swap or the post-swap buffer, never a partial copy.
type Session struct {
	id   int
	rows int
	cols int

	mu      sync.Mutex
	grid    []Cell // borrowed view: fast tier when active, backing otherwise
	backing []Cell // bulk-tier snapshot, always allocated and valid
	cursorX int
	cursorY int
	attr    Attr

	// Escape interpreter state. Guarded by mu along with the grid.
	escState escState
	escBuf   []byte
	escPriv  bool

	input chan byte
	dirty atomic.Bool
}

func newSession(id, rows, cols, queueSize int) *Session {
	s := &Session{
		id:      id,
		rows:    rows,
		cols:    cols,
		backing: make([]Cell, rows*cols),
		escBuf:  make([]byte, 0, escParamMax),
		attr:    DefaultAttr,
		input:   make(chan byte, queueSize),
	}
	s.grid = s.backing
	for i := range s.backing {
		s.backing[i] = blank
	}
	return s
}

// ID returns the session's fixed identifier.
func (s *Session) ID() int { return s.id }

// Dirty reports whether the grid changed since the last ResetDirty.
// The render path polls this instead of being called back under lock.
func (s *Session) Dirty() bool { return s.dirty.Load() }

// ResetDirty clears the dirty flag. Called by the renderer after a repaint.
func (s *Session) ResetDirty() { s.dirty.Store(false) }

// Cursor returns the current cursor column and row.
func (s *Session) Cursor() (col, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorX, s.cursorY
}

// sendInput queues one byte on the session's input channel. Sends never
// block: when the queue is full the byte is dropped, which for interactive
// input means at worst a lost keystroke.
func (s *Session) sendInput(b byte) {
	select {
	case s.input <- b:
	default:
	}
}

// readInput blocks until a byte is available or the timeout expires.
// A negative timeout blocks indefinitely; zero polls.
func (s *Session) readInput(timeout time.Duration) (byte, bool) {
	if timeout < 0 {
		return <-s.input, true
	}
	if timeout == 0 {
		select {
		case b := <-s.input:
			return b, true
		default:
			return 0, false
		}
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case b := <-s.input:
		return b, true
	case <-t.C:
		return 0, false
	}
}

// inputAvailable reports whether a read would succeed immediately.
func (s *Session) inputAvailable() bool {
	return len(s.input) > 0
}

// cell returns a pointer into the live grid. Caller holds mu.
func (s *Session) cell(x, y int) *Cell {
	return &s.grid[y*s.cols+x]
}

// put writes one already-classified byte at the cursor. Caller holds mu.
// Printable bytes write-and-advance with wraparound; CR, LF, BS and TAB get
// dedicated handling; everything else is dropped so non-printable input
// never reaches the grid.
func (s *Session) put(c byte) {
	switch c {
	case '\n':
		s.cursorX = 0
		s.cursorY++
		if s.cursorY >= s.rows {
			s.scrollUp()
		}
	case '\r':
		s.cursorX = 0
	case '\b':
		if s.cursorX > 0 {
			s.cursorX--
			*s.cell(s.cursorX, s.cursorY) = Cell{Ch: ' ', Attr: s.attr}
		}
	case '\t':
		// Spaces to the next tab stop.
		for {
			*s.cell(s.cursorX, s.cursorY) = Cell{Ch: ' ', Attr: s.attr}
			s.cursorX++
			if s.cursorX >= s.cols || s.cursorX%tabWidth == 0 {
				break
			}
		}
		if s.cursorX >= s.cols {
			s.cursorX = 0
			s.cursorY++
			if s.cursorY >= s.rows {
				s.scrollUp()
			}
		}
	default:
		if c >= 0x20 && c < 0x7F {
			*s.cell(s.cursorX, s.cursorY) = Cell{Ch: c, Attr: s.attr}
			s.cursorX++
			if s.cursorX >= s.cols {
				s.cursorX = 0
				s.cursorY++
				if s.cursorY >= s.rows {
					s.scrollUp()
				}
			}
		}
	}
	s.dirty.Store(true)
}

// putRun writes a run of printable bytes, a row segment at a time. This is
// the bulk write fast path; callers guarantee every byte is printable and
// the interpreter is in the ground state. Caller holds mu.
func (s *Session) putRun(run []byte) {
	for len(run) > 0 {
		n := s.cols - s.cursorX
		if n > len(run) {
			n = len(run)
		}
		seg := s.grid[s.cursorY*s.cols+s.cursorX:]
		for i := 0; i < n; i++ {
			seg[i] = Cell{Ch: run[i], Attr: s.attr}
		}
		s.cursorX += n
		run = run[n:]
		if s.cursorX >= s.cols {
			s.cursorX = 0
			s.cursorY++
			if s.cursorY >= s.rows {
				s.scrollUp()
			}
		}
	}
	s.dirty.Store(true)
}

// scrollUp shifts every row up by one and blanks the bottom row.
// The cursor is clamped to the bottom edge. Caller holds mu.
func (s *Session) scrollUp() {
	copy(s.grid, s.grid[s.cols:])
	s.blankRow(s.rows - 1)
	s.cursorY = s.rows - 1
}

// scrollDown shifts every row down by one and blanks the top row.
// The cursor is clamped to the top edge. Caller holds mu.
func (s *Session) scrollDown() {
	copy(s.grid[s.cols:], s.grid[:(s.rows-1)*s.cols])
	s.blankRow(0)
	s.cursorY = 0
}

// blankRow fills row y with space/default-attribute cells. Caller holds mu.
func (s *Session) blankRow(y int) {
	row := s.grid[y*s.cols : (y+1)*s.cols]
	for i := range row {
		row[i] = blank
	}
}

// clearLocked resets the grid, cursor and attribute. Caller holds mu.
func (s *Session) clearLocked() {
	for i := range s.grid {
		s.grid[i] = blank
	}
	s.cursorX = 0
	s.cursorY = 0
	s.attr = DefaultAttr
	s.dirty.Store(true)
}
