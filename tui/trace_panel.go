// ABOUTME: Scrollable trajectory panel using the bubbles viewport component.
// ABOUTME: Renders one line per visited state and marks where the trajectory loops.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/statemap-research/basin/boolnet"
)

// TracePanelModel is a scrollable view of the trajectory walked so far.
type TracePanelModel struct {
	net      *boolnet.Network
	trace    []boolnet.State
	loopAt   int
	hasLoop  bool
	viewport viewport.Model
	focused  bool
	width    int
	height   int
}

// NewTracePanelModel creates an empty trace panel.
func NewTracePanelModel(net *boolnet.Network) TracePanelModel {
	vp := viewport.New(80, 10)
	return TracePanelModel{
		net:      net,
		loopAt:   -1,
		viewport: vp,
	}
}

// SetTrace replaces the displayed trajectory. loopAt is the index where
// the trajectory re-enters itself, or -1 while no loop has closed.
func (m *TracePanelModel) SetTrace(trace []boolnet.State, loopAt int) {
	m.trace = trace
	m.loopAt = loopAt
	m.hasLoop = loopAt >= 0
	m.syncViewport()
}

// Len returns the number of trace entries.
func (m TracePanelModel) Len() int {
	return len(m.trace)
}

// SetFocused sets whether this panel accepts scroll keys.
func (m *TracePanelModel) SetFocused(focused bool) {
	m.focused = focused
}

// IsFocused returns whether the panel is focused.
func (m TracePanelModel) IsFocused() bool {
	return m.focused
}

// SetSize sets the available dimensions and resizes the viewport.
func (m *TracePanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	// Reserve space for the border and the title line
	vpWidth := w - 2
	vpHeight := h - 3
	if vpWidth < 1 {
		vpWidth = 1
	}
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
	m.syncViewport()
}

// Update forwards scroll keys to the viewport while focused.
func (m TracePanelModel) Update(msg tea.Msg) (TracePanelModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the trace panel.
func (m TracePanelModel) View() string {
	title := "TRACE"
	if m.focused {
		title = "TRACE (focused)"
	}

	var content string
	if len(m.trace) == 0 {
		content = "no states visited"
	} else {
		content = m.viewport.View()
	}

	rendered := TitleStyle.Render(title) + "\n" + content

	return BorderStyle.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(rendered)
}

// syncViewport rebuilds the viewport content and scrolls to the bottom
// so the newest state stays visible.
func (m *TracePanelModel) syncViewport() {
	if len(m.trace) == 0 {
		m.viewport.SetContent("")
		return
	}

	width := 0
	if m.net != nil {
		width = m.net.Size()
	}

	var lines []string
	for i, s := range m.trace {
		step := TraceStepStyle.Render(fmt.Sprintf("%4d", i))
		bits := TraceBitsStyle.Render(boolnet.BitString(s, width))
		line := fmt.Sprintf("%s  %s  %d", step, bits, uint64(s))
		if m.hasLoop && i == m.loopAt {
			line += "  " + LoopStyle.Render("<- loop")
		}
		lines = append(lines, line)
	}

	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}
