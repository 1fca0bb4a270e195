// ABOUTME: Tests for the top-level AppModel that composes the TUI panels.
// ABOUTME: Covers key routing, stepping, autoplay, reset, toggles, and view rendering.
package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/statemap-research/basin/boolnet"
)

// testAppModel creates an AppModel over the three-node toggle network,
// starting at state 3.
func testAppModel(t *testing.T) AppModel {
	t.Helper()
	net, err := boolnet.Compile(nil, []string{"A = A", "B = A AND !C", "C = B OR A"})
	if err != nil {
		t.Fatalf("compile network: %v", err)
	}
	return NewAppModel(boolnet.NewStepper(net, 3), "toggle")
}

func TestNewAppModel(t *testing.T) {
	m := testAppModel(t)

	if m.focus != FocusState {
		t.Errorf("initial focus = %d, want FocusState", m.focus)
	}
	if m.playing {
		t.Error("autoplay should start paused")
	}
	if m.state.State() != 3 {
		t.Errorf("state panel state = %d, want 3", m.state.State())
	}
	if m.trace.Len() != 1 {
		t.Errorf("trace length = %d, want 1", m.trace.Len())
	}
}

func TestAppModelInitReturnsNoCommand(t *testing.T) {
	m := testAppModel(t)
	if cmd := m.Init(); cmd != nil {
		t.Error("Init() should return nil, autoplay starts on demand")
	}
}

func TestAppModelWindowSize(t *testing.T) {
	m := testAppModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(AppModel)

	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", m.width, m.height)
	}
}

func TestAppModelSpaceSteps(t *testing.T) {
	m := testAppModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(AppModel)

	// 3 -> 7 under the toggle network rules
	if m.state.State() != 7 {
		t.Errorf("state after step = %d, want 7", m.state.State())
	}
	if m.trace.Len() != 2 {
		t.Errorf("trace length = %d, want 2", m.trace.Len())
	}
}

func TestAppModelQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		m := testAppModel(t)
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("key %q: expected a quit command", msg.String())
		}
		if msg := cmd(); msg != tea.Quit() {
			t.Errorf("key %q: expected tea.Quit", msg)
		}
	}
}

func TestAppModelPlayPause(t *testing.T) {
	m := testAppModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = updated.(AppModel)
	if !m.playing {
		t.Fatal("expected autoplay to start")
	}
	if cmd == nil {
		t.Fatal("expected a tick command to be scheduled")
	}

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = updated.(AppModel)
	if m.playing {
		t.Error("expected autoplay to stop")
	}
	if cmd != nil {
		t.Error("expected no command when pausing")
	}
}

func TestAppModelTickAdvancesWhilePlaying(t *testing.T) {
	m := testAppModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = updated.(AppModel)

	updated, cmd := m.Update(TickMsg{Time: time.Now()})
	m = updated.(AppModel)

	if m.state.State() != 7 {
		t.Errorf("state after tick = %d, want 7", m.state.State())
	}
	if cmd == nil {
		t.Error("expected the next tick to be scheduled")
	}
}

func TestAppModelAutoplayPausesOnLoop(t *testing.T) {
	m := testAppModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = updated.(AppModel)

	// 3 -> 7 -> 5 -> 5; the third tick closes the loop.
	var cmd tea.Cmd
	for i := 0; i < 3; i++ {
		var updated tea.Model
		updated, cmd = m.Update(TickMsg{Time: time.Now()})
		m = updated.(AppModel)
	}

	if m.playing {
		t.Error("expected autoplay to pause once the loop closed")
	}
	if cmd != nil {
		t.Error("expected no further tick after the loop closed")
	}
	if at, ok := m.stepper.Loop(); !ok || at != 2 {
		t.Errorf("loop = (%d, %v), want (2, true)", at, ok)
	}
}

func TestAppModelTickIgnoredWhilePaused(t *testing.T) {
	m := testAppModel(t)

	updated, cmd := m.Update(TickMsg{Time: time.Now()})
	m = updated.(AppModel)

	if m.state.State() != 3 {
		t.Errorf("state changed while paused: %d", m.state.State())
	}
	if cmd != nil {
		t.Error("expected no command while paused")
	}
}

func TestAppModelResetRestoresStart(t *testing.T) {
	m := testAppModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(AppModel)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(AppModel)

	if m.state.State() != 3 {
		t.Errorf("state after reset = %d, want 3", m.state.State())
	}
	if m.trace.Len() != 1 {
		t.Errorf("trace length after reset = %d, want 1", m.trace.Len())
	}
}

func TestAppModelDigitTogglesNode(t *testing.T) {
	m := testAppModel(t)

	// Key 1 flips node A: state 3 becomes 2 and the trace restarts.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	m = updated.(AppModel)

	if m.state.State() != 2 {
		t.Errorf("state after toggle = %d, want 2", m.state.State())
	}
	if m.trace.Len() != 1 {
		t.Errorf("trace length after toggle = %d, want 1", m.trace.Len())
	}
}

func TestAppModelDigitBeyondNodesIgnored(t *testing.T) {
	m := testAppModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}})
	m = updated.(AppModel)

	if m.state.State() != 3 {
		t.Errorf("state changed for out-of-range digit: %d", m.state.State())
	}
}

func TestAppModelEnterTogglesSelectedNode(t *testing.T) {
	m := testAppModel(t)

	// Move the cursor to node B, then toggle it: state 3 becomes 1.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(AppModel)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(AppModel)

	if m.state.State() != 1 {
		t.Errorf("state after toggle = %d, want 1", m.state.State())
	}
}

func TestAppModelTabCyclesFocus(t *testing.T) {
	m := testAppModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(AppModel)
	if m.focus != FocusTrace {
		t.Errorf("focus = %d, want FocusTrace", m.focus)
	}
	if !m.trace.IsFocused() {
		t.Error("expected trace panel to be focused")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(AppModel)
	if m.focus != FocusState {
		t.Errorf("focus = %d, want FocusState", m.focus)
	}
}

func TestAppModelViewBeforeSize(t *testing.T) {
	m := testAppModel(t)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before sizing = %q", got)
	}
}

func TestAppModelViewTooSmall(t *testing.T) {
	m := testAppModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	m = updated.(AppModel)

	if !strings.Contains(m.View(), "Terminal too small") {
		t.Error("expected a too-small warning")
	}
}

func TestAppModelViewRendersPanels(t *testing.T) {
	m := testAppModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(AppModel)

	view := m.View()
	if !strings.Contains(view, "STATE") {
		t.Error("expected the state panel title")
	}
	if !strings.Contains(view, "TRACE") {
		t.Error("expected the trace panel title")
	}
	if !strings.Contains(view, "Network: toggle") {
		t.Error("expected the status bar")
	}
}
