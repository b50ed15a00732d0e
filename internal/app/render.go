package app

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/breezebox/breezebox/internal/theme"
	"github.com/breezebox/breezebox/internal/vt"
)

// renderGrid draws the active session's cell grid. Runs of cells sharing
// an attribute are styled together to keep the escape overhead down.
func (m *Model) renderGrid() string {
	active := m.manager.Active()
	cells := m.manager.CellsForRender(active)
	if cells == nil {
		return ""
	}

	rows, cols := m.manager.Size()
	viewRows := m.viewportRows()
	viewCols := cols
	if m.width > 0 && m.width < cols {
		viewCols = m.width
	}

	palette := m.manager.GetPalette()
	styles := make(map[vt.Attr]lipgloss.Style, 16)

	var sb strings.Builder
	sb.Grow(viewRows * (viewCols + 1))

	for y := 0; y < viewRows && y < rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		row := cells[y*cols : y*cols+viewCols]
		x := 0
		for x < len(row) {
			attr := row[x].Attr
			run := x
			for run < len(row) && row[run].Attr == attr {
				run++
			}
			chunk := make([]byte, run-x)
			for i := range chunk {
				chunk[i] = row[x+i].Ch
			}

			style, ok := styles[attr]
			if !ok {
				style = lipgloss.NewStyle().
					Foreground(theme.IndexColor(palette, attr.Fg())).
					Background(theme.IndexColor(palette, attr.Bg()))
				styles[attr] = style
			}
			sb.WriteString(style.Render(string(chunk)))
			x = run
		}
	}
	return sb.String()
}

// renderStatusBar draws the session tabs and system stats line.
func (m *Model) renderStatusBar() string {
	active := m.manager.Active()

	barStyle := lipgloss.NewStyle().
		Background(theme.StatusBarBg()).
		Foreground(theme.StatusBarFg())
	activeStyle := lipgloss.NewStyle().
		Background(theme.StatusBarBg()).
		Foreground(theme.StatusBarActive()).
		Bold(true)
	inactiveStyle := lipgloss.NewStyle().
		Background(theme.StatusBarBg()).
		Foreground(theme.StatusBarInactive())

	var tabs []string
	for id := 0; id < m.manager.SessionCount(); id++ {
		label := fmt.Sprintf(" F%d ", id+1)
		if id == active {
			tabs = append(tabs, activeStyle.Render("["+strings.TrimSpace(label)+"]"))
		} else {
			tabs = append(tabs, inactiveStyle.Render(" "+strings.TrimSpace(label)+" "))
		}
	}

	left := strings.Join(tabs, "")
	right := fmt.Sprintf(" CPU %4.1f%%  MEM %4.1f%% ", m.cpu, m.mem)
	if theme.IsEnabled() {
		right = " " + theme.Name() + " |" + right
	}
	right = barStyle.Render(right)

	pad := 0
	if m.width > 0 {
		pad = m.width - lipgloss.Width(left) - lipgloss.Width(right)
	}
	if pad < 0 {
		pad = 0
	}
	return left + barStyle.Render(strings.Repeat(" ", pad)) + right
}
