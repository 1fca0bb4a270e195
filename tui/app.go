// ABOUTME: Top-level Bubble Tea AppModel composing the state panel, trace panel, and status bar.
// ABOUTME: Implements tea.Model and maps keys to stepping, autoplay, reset, and bit toggles.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/statemap-research/basin/boolnet"
)

// DefaultTickInterval is the autoplay stepping rate.
const DefaultTickInterval = 500 * time.Millisecond

// FocusTarget indicates which panel currently has keyboard focus.
type FocusTarget int

const (
	FocusState FocusTarget = iota
	FocusTrace
)

// AppModel is the top-level Bubble Tea model for interactive
// simulation. It owns the stepper and keeps the panels in sync with it.
type AppModel struct {
	state  StatePanelModel
	trace  TracePanelModel
	status StatusBarModel

	stepper  *boolnet.Stepper
	playing  bool
	interval time.Duration

	focus  FocusTarget
	width  int
	height int
}

// NewAppModel creates an AppModel around the given stepper.
func NewAppModel(stepper *boolnet.Stepper, networkName string) AppModel {
	net := stepper.Network()
	m := AppModel{
		state:    NewStatePanelModel(net),
		trace:    NewTracePanelModel(net),
		status:   NewStatusBarModel(networkName, net.Size()),
		stepper:  stepper,
		interval: DefaultTickInterval,
		focus:    FocusState,
	}
	m.syncPanels()
	return m
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		return m.handleTick(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	// Minimum terminal size guard to prevent layout overflow
	if m.width < 40 || m.height < 8 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x8.", m.width, m.height)
	}

	statusBarHeight := 1
	panelHeight := m.height - statusBarHeight

	stateWidth := m.width * 40 / 100
	if stateWidth < 20 {
		stateWidth = 20
	}
	traceWidth := m.width - stateWidth
	if traceWidth < 10 {
		traceWidth = 10
	}

	m.state.SetSize(stateWidth, panelHeight)
	m.trace.SetSize(traceWidth, panelHeight)
	m.status.SetWidth(m.width)

	panels := lipgloss.JoinHorizontal(lipgloss.Top, m.state.View(), m.trace.View())

	var b strings.Builder
	b.WriteString(panels)
	b.WriteString("\n")
	b.WriteString(m.status.View())

	return b.String()
}

// handleTick advances one step while autoplay is on, pausing when the
// trajectory closes its loop.
func (m AppModel) handleTick(_ TickMsg) (tea.Model, tea.Cmd) {
	if !m.playing {
		return m, nil
	}

	m.step()
	if _, looped := m.stepper.Loop(); looped {
		m.playing = false
		m.status.SetPlaying(false)
		return m, nil
	}
	return m, TickCmd(m.interval)
}

// handleKeyMsg processes keyboard input.
func (m AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case " ":
		m.step()
		return m, nil

	case "p":
		m.playing = !m.playing
		m.status.SetPlaying(m.playing)
		if m.playing {
			return m, TickCmd(m.interval)
		}
		return m, nil

	case "r":
		m.stepper.Reset(m.stepper.Start())
		m.playing = false
		m.status.SetPlaying(false)
		m.syncPanels()
		return m, nil

	case "tab":
		m.focus = m.nextFocus()
		m.trace.SetFocused(m.focus == FocusTrace)
		return m, nil

	case "enter", "x":
		if m.focus == FocusState {
			m.toggleNode(m.state.Selected())
		}
		return m, nil

	case "up", "k":
		if m.focus == FocusState {
			m.state.MoveSelection(-1)
			return m, nil
		}

	case "down", "j":
		if m.focus == FocusState {
			m.state.MoveSelection(1)
			return m, nil
		}
	}

	if i, ok := digitIndex(key); ok {
		m.toggleNode(i)
		return m, nil
	}

	// Remaining keys scroll the trace viewport while it has focus.
	var cmd tea.Cmd
	m.trace, cmd = m.trace.Update(msg)
	return m, cmd
}

// step advances the stepper once and refreshes the panels.
func (m *AppModel) step() {
	m.stepper.Step()
	m.syncPanels()
}

// toggleNode flips one node bit, which restarts the trace from the new
// state.
func (m *AppModel) toggleNode(i int) {
	if i < 0 || i >= m.stepper.Network().Size() {
		return
	}
	m.stepper.Toggle(i)
	m.playing = false
	m.status.SetPlaying(false)
	m.syncPanels()
}

// syncPanels refreshes all panels from the stepper.
func (m *AppModel) syncPanels() {
	loopAt := -1
	if at, ok := m.stepper.Loop(); ok {
		loopAt = at
	}

	m.state.SetState(m.stepper.Current())
	m.trace.SetTrace(m.stepper.Trace(), loopAt)
	m.status.SetStepCount(m.stepper.StepCount())
	m.status.SetLoop(loopAt)
}

// nextFocus cycles the focus target between the state and trace panels.
func (m AppModel) nextFocus() FocusTarget {
	if m.focus == FocusState {
		return FocusTrace
	}
	return FocusState
}

// digitIndex maps a digit key to a node index: keys 1 through 9 select
// the first nine nodes and 0 selects the tenth.
func digitIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	if key == "0" {
		return 9, true
	}
	return int(key[0] - '1'), true
}
