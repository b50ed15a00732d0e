package app

import (
	"strings"
	"testing"

	"github.com/breezebox/breezebox/internal/vt"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := vt.New(3, 10, 4)
	if err != nil {
		t.Fatalf("vt.New: %v", err)
	}
	return New(m, vt.NewRouter(m, 0), true)
}

func TestRenderGridShowsSessionText(t *testing.T) {
	model := newTestModel(t)
	model.width, model.height = 10, 4
	model.manager.WriteString(0, "hi")

	out := model.renderGrid()
	if !strings.Contains(out, "hi") {
		t.Errorf("rendered grid missing session text: %q", out)
	}
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("rendered %d newlines, want 2 for a 3-row grid", got)
	}
}

func TestRenderGridClipsToWindow(t *testing.T) {
	model := newTestModel(t)
	model.width, model.height = 10, 3 // one row eaten by the status bar

	out := model.renderGrid()
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("rendered %d newlines, want 1 when only 2 rows fit", got)
	}
}

func TestStatusBarMarksActiveSession(t *testing.T) {
	model := newTestModel(t)
	model.width = 40

	bar := model.renderStatusBar()
	if !strings.Contains(bar, "[F1]") {
		t.Errorf("status bar should bracket the active session: %q", bar)
	}

	model.manager.Switch(2)
	bar = model.renderStatusBar()
	if !strings.Contains(bar, "[F3]") {
		t.Errorf("status bar should follow the active session: %q", bar)
	}
}

func TestRealCursorClippedOutsideViewport(t *testing.T) {
	model := newTestModel(t)
	model.height = 4
	model.manager.WriteString(0, "hello")

	model.width = 10
	if c := model.realCursor(); c == nil {
		t.Fatal("cursor should be visible inside the viewport")
	} else if c.X != 5 || c.Y != 0 {
		t.Errorf("cursor at (%d,%d), want (5,0)", c.X, c.Y)
	}

	model.width = 3
	if c := model.realCursor(); c != nil {
		t.Errorf("cursor outside the viewport should be hidden, got (%d,%d)", c.X, c.Y)
	}
}
