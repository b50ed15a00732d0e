// Package app implements the interactive terminal front end: it renders
// the active session grid, encodes key presses into raw bytes for the
// input router, and polls session dirty flags for redraws.
package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/breezebox/breezebox/internal/config"
	"github.com/breezebox/breezebox/internal/vt"
)

// TickerMsg drives the dirty-flag render poll.
type TickerMsg time.Time

// StatsMsg carries a CPU/memory sample for the status bar.
type StatsMsg struct {
	CPU float64
	Mem float64
}

// SessionSwitchedMsg is sent when the hotkey router switches sessions.
type SessionSwitchedMsg struct {
	ID int
}

// ShellExitedMsg signals that the shell behind a session has exited.
type ShellExitedMsg struct {
	ID int
}

// Model is the bubbletea model for the terminal display.
type Model struct {
	manager *vt.Manager
	router  *vt.Router

	width  int
	height int

	showStatusBar bool
	cpu           float64
	mem           float64

	switchChan chan int
	exitChan   chan int

	quitting bool
}

// New builds the display model around an existing manager and router.
func New(m *vt.Manager, r *vt.Router, showStatusBar bool) *Model {
	return &Model{
		manager:       m,
		router:        r,
		showStatusBar: showStatusBar,
		switchChan:    make(chan int, config.SessionCount),
		exitChan:      make(chan int, config.SessionCount),
	}
}

// NotifySwitch feeds a completed session switch into the update loop.
// Safe to call from the manager's switch callback.
func (m *Model) NotifySwitch(id int) {
	select {
	case m.switchChan <- id:
	default:
	}
}

// ExitChan returns the channel shell hosts should notify on exit.
func (m *Model) ExitChan() chan int { return m.exitChan }

// Init starts the render poll, the stats sampler, and the event listeners.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		sampleStatsCmd(),
		listenForSwitch(m.switchChan),
		listenForExit(m.exitChan),
	)
}

// tickCmd schedules the next dirty-flag poll.
func tickCmd() tea.Cmd {
	return tea.Tick(config.RenderPollInterval, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// listenForSwitch converts router session switches into messages.
func listenForSwitch(ch chan int) tea.Cmd {
	return func() tea.Msg {
		id, ok := <-ch
		if !ok {
			return nil
		}
		return SessionSwitchedMsg{ID: id}
	}
}

// listenForExit converts shell exits into messages.
func listenForExit(ch chan int) tea.Cmd {
	return func() tea.Msg {
		id, ok := <-ch
		if !ok {
			return nil
		}
		return ShellExitedMsg{ID: id}
	}
}

// Update handles input and timer events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+q" {
			m.quitting = true
			return m, tea.Quit
		}
		// Every byte goes through the router so hotkey sequences are
		// recognized no matter how the terminal encodes them.
		for _, b := range KeyBytes(msg) {
			m.router.Feed(b)
		}
		return m, nil

	case TickerMsg:
		active := m.manager.Active()
		if m.manager.Dirty(active) {
			m.manager.ResetDirty(active)
		}
		return m, tickCmd()

	case StatsMsg:
		m.cpu = msg.CPU
		m.mem = msg.Mem
		return m, tea.Tick(config.CPUUpdateInterval, func(time.Time) tea.Msg {
			return sampleStats()
		})

	case SessionSwitchedMsg:
		return m, listenForSwitch(m.switchChan)

	case ShellExitedMsg:
		m.manager.WriteString(msg.ID, "\r\n[shell exited]\r\n")
		return m, listenForExit(m.exitChan)
	}

	return m, nil
}

// View renders the active session and the status bar.
func (m *Model) View() tea.View {
	var view tea.View
	if m.quitting {
		view.SetContent("")
		return view
	}

	content := m.renderGrid()
	if m.showStatusBar {
		content += "\n" + m.renderStatusBar()
	}
	view.SetContent(content)
	view.AltScreen = true
	view.Cursor = m.realCursor()
	return view
}

// realCursor places the terminal cursor at the active session's cursor,
// when it is inside the visible viewport.
func (m *Model) realCursor() *tea.Cursor {
	col, row := m.manager.Cursor(m.manager.Active())
	if m.width > 0 && col >= m.width {
		return nil
	}
	if m.height > 0 && row >= m.viewportRows() {
		return nil
	}
	return tea.NewCursor(col, row)
}

// viewportRows returns how many grid rows fit in the current window.
func (m *Model) viewportRows() int {
	rows, _ := m.manager.Size()
	avail := m.height
	if m.showStatusBar {
		avail--
	}
	if avail > 0 && avail < rows {
		return avail
	}
	return rows
}
