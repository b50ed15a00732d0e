package vt

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Logger represents a logger interface.
type Logger interface {
	Printf(format string, v ...any)
}

// DefaultInputQueueSize is the capacity of each session's input queue.
const DefaultInputQueueSize = 64

// Manager owns the fixed session pool and the two memory tiers backing it.
//
// The fast tier is a single grid-sized buffer, a stand-in for the scarce
// low-latency region of the device this design comes from; exactly one
// session's grid lives there at a time. Every session additionally keeps a
// bulk-tier backing store holding its last-saved snapshot. Switch copies
// the fast tier out to the outgoing session and the incoming session's
// snapshot in, so the visible session always runs out of fast memory.
type Manager struct {
	rows int
	cols int

	sessions []*Session
	fast     []Cell

	// switchMu serializes tier swaps. The per-session locks are taken in
	// ascending id order underneath it; writers that hold a single session
	// lock therefore see either the pre-swap or post-swap grid.
	switchMu sync.Mutex
	active   atomic.Int32

	cbMu     sync.Mutex
	onSwitch func(id int)
	onRender func(id int)

	paletteMu sync.RWMutex
	palette   [16]RGB565

	affinity affinityTable

	logger Logger
}

// New allocates the fast-tier buffer, one bulk-tier buffer per session, and
// binds session 0 to the fast tier. All grids start cleared to
// space/default-attribute. Bad dimensions are the only error; everything
// after initialization is a best-effort no-op on invalid ids.
func New(rows, cols, sessions int) (*Manager, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("vt: invalid grid size %dx%d", rows, cols)
	}
	if sessions <= 0 {
		return nil, fmt.Errorf("vt: invalid session count %d", sessions)
	}

	m := &Manager{
		rows:    rows,
		cols:    cols,
		fast:    make([]Cell, rows*cols),
		palette: DefaultPalette,
	}
	for i := 0; i < sessions; i++ {
		m.sessions = append(m.sessions, newSession(i, rows, cols, DefaultInputQueueSize))
	}

	// Session 0 starts on screen: load its snapshot into the fast tier and
	// hand it the borrowed view.
	s0 := m.sessions[0]
	copy(m.fast, s0.backing)
	s0.grid = m.fast

	return m, nil
}

// SetLogger sets the manager's logger.
func (m *Manager) SetLogger(l Logger) {
	m.logger = l
}

func (m *Manager) logf(format string, v ...any) {
	if m.logger != nil {
		m.logger.Printf(format, v...)
	}
}

// Size returns the fixed grid dimensions shared by every session.
func (m *Manager) Size() (rows, cols int) {
	return m.rows, m.cols
}

// SessionCount returns the number of sessions in the pool.
func (m *Manager) SessionCount() int {
	return len(m.sessions)
}

// Active returns the id of the session currently bound to the fast tier.
func (m *Manager) Active() int {
	return int(m.active.Load())
}

func (m *Manager) session(id int) (*Session, bool) {
	if id < 0 || id >= len(m.sessions) {
		return nil, false
	}
	return m.sessions[id], true
}

// Session returns the session with the given id, or nil when out of range.
func (m *Manager) Session(id int) *Session {
	s, _ := m.session(id)
	return s
}

// Switch makes target the on-screen session. Switching to the already
// active session or to an out-of-range id is a no-op. Both the outgoing
// and incoming session locks are held across the tier swap, acquired in
// ascending id order so that concurrent switches cannot deadlock; the swap
// is atomic with respect to any concurrent write targeting either session.
func (m *Manager) Switch(target int) {
	if target < 0 || target >= len(m.sessions) {
		return
	}

	m.switchMu.Lock()
	current := int(m.active.Load())
	if target == current {
		m.switchMu.Unlock()
		return
	}

	out := m.sessions[current]
	in := m.sessions[target]

	lo, hi := out, in
	if in.id < out.id {
		lo, hi = in, out
	}
	lo.mu.Lock()
	hi.mu.Lock()

	// Save the visible grid, load the incoming snapshot, repoint.
	copy(out.backing, m.fast)
	out.grid = out.backing
	copy(m.fast, in.backing)
	in.grid = m.fast
	in.dirty.Store(true)

	m.active.Store(int32(target))

	hi.mu.Unlock()
	lo.mu.Unlock()
	m.switchMu.Unlock()

	m.logf("vt: switch %d -> %d", current, target)

	m.cbMu.Lock()
	cb := m.onSwitch
	m.cbMu.Unlock()
	if cb != nil {
		cb(target)
	}
}

// RegisterSwitchCallback registers fn to run after every completed switch,
// outside all session locks, with the new active id.
func (m *Manager) RegisterSwitchCallback(fn func(id int)) {
	m.cbMu.Lock()
	m.onSwitch = fn
	m.cbMu.Unlock()
}

// RegisterRenderCallback registers fn to run after mutations of the active
// session's grid, outside the session lock. The render path may also simply
// poll Dirty.
func (m *Manager) RegisterRenderCallback(fn func(id int)) {
	m.cbMu.Lock()
	m.onRender = fn
	m.cbMu.Unlock()
}

// notifyRender fires the render callback for on-screen mutations. Never
// called with a session lock held.
func (m *Manager) notifyRender(id int) {
	if id != m.Active() {
		return
	}
	m.cbMu.Lock()
	cb := m.onRender
	m.cbMu.Unlock()
	if cb != nil {
		cb(id)
	}
}

// Putchar runs one byte of output through the session's escape interpreter
// and grid.
func (m *Manager) Putchar(id int, c byte) {
	s, ok := m.session(id)
	if !ok {
		return
	}
	s.mu.Lock()
	if !s.feed(c) {
		s.put(c)
	}
	s.mu.Unlock()
	m.notifyRender(id)
}

// Write is the bulk output path. Runs of plain printable bytes are blitted
// a row segment at a time instead of going through the per-byte classifier.
func (m *Manager) Write(id int, data []byte) {
	s, ok := m.session(id)
	if !ok || len(data) == 0 {
		return
	}
	s.mu.Lock()
	for i := 0; i < len(data); {
		c := data[i]
		if s.escState == escGround && c >= 0x20 && c < 0x7F {
			j := i + 1
			for j < len(data) && data[j] >= 0x20 && data[j] < 0x7F {
				j++
			}
			s.putRun(data[i:j])
			i = j
			continue
		}
		if !s.feed(c) {
			s.put(c)
		}
		i++
	}
	s.mu.Unlock()
	m.notifyRender(id)
}

// WriteString writes a string of output to the session.
func (m *Manager) WriteString(id int, data string) {
	m.Write(id, []byte(data))
}

// Clear resets the session's grid, cursor and attribute.
func (m *Manager) Clear(id int) {
	s, ok := m.session(id)
	if !ok {
		return
	}
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
	m.notifyRender(id)
}

// SendInput queues one byte on the session's input channel, bypassing
// hotkey detection. Used for synthetic responses such as cursor position
// reports as well as for router forwarding.
func (m *Manager) SendInput(id int, c byte) {
	if s, ok := m.session(id); ok {
		s.sendInput(c)
	}
}

// ReadInput reads one byte of input for the session. A negative timeout
// blocks until input arrives; otherwise the second return is false on
// expiry.
func (m *Manager) ReadInput(id int, timeout time.Duration) (byte, bool) {
	s, ok := m.session(id)
	if !ok {
		return 0, false
	}
	return s.readInput(timeout)
}

// InputAvailable reports whether the session has queued input.
func (m *Manager) InputAvailable(id int) bool {
	s, ok := m.session(id)
	if !ok {
		return false
	}
	return s.inputAvailable()
}

// Cursor returns the session's cursor column and row.
func (m *Manager) Cursor(id int) (col, row int) {
	s, ok := m.session(id)
	if !ok {
		return 0, 0
	}
	return s.Cursor()
}

// Dirty reports whether the session's grid changed since the last
// ResetDirty.
func (m *Manager) Dirty(id int) bool {
	s, ok := m.session(id)
	if !ok {
		return false
	}
	return s.Dirty()
}

// ResetDirty clears the session's dirty flag.
func (m *Manager) ResetDirty(id int) {
	if s, ok := m.session(id); ok {
		s.ResetDirty()
	}
}

// CellsForRender returns the session's grid as a read-only view of
// rows*cols cells in row-major order. For the active session this is the
// fast-tier buffer itself. The view stays valid across switches (it then
// aliases whichever buffer the session occupied at call time), so render
// paths should re-fetch it per frame.
func (m *Manager) CellsForRender(id int) []Cell {
	s, ok := m.session(id)
	if !ok {
		return nil
	}
	s.mu.Lock()
	grid := s.grid
	s.mu.Unlock()
	return grid
}
