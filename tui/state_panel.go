// ABOUTME: Bubble Tea sub-model rendering the current network state, one node per line.
// ABOUTME: Shows the digit shortcut, node value, id, and update rule, with a selection cursor.
package tui

import (
	"fmt"
	"strings"

	"github.com/statemap-research/basin/boolnet"
)

// StatePanelModel displays the node values of the current state.
type StatePanelModel struct {
	net      *boolnet.Network
	state    boolnet.State
	selected int
	width    int
	height   int
}

// NewStatePanelModel creates a state panel for the given network.
func NewStatePanelModel(net *boolnet.Network) StatePanelModel {
	return StatePanelModel{net: net}
}

// SetState updates the displayed state.
func (m *StatePanelModel) SetState(s boolnet.State) {
	m.state = s
}

// State returns the displayed state.
func (m StatePanelModel) State() boolnet.State {
	return m.state
}

// Selected returns the index of the node under the cursor.
func (m StatePanelModel) Selected() int {
	return m.selected
}

// MoveSelection moves the cursor by delta, clamped to the node range.
func (m *StatePanelModel) MoveSelection(delta int) {
	if m.net == nil {
		return
	}
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if max := m.net.Size() - 1; m.selected > max {
		m.selected = max
	}
}

// SetSize sets the available dimensions for rendering.
func (m *StatePanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// keyForIndex returns the digit shortcut for a node index, or a space
// when the index is beyond the reachable digits.
func keyForIndex(i int) string {
	switch {
	case i < 9:
		return fmt.Sprintf("%d", i+1)
	case i == 9:
		return "0"
	default:
		return " "
	}
}

// View renders the panel.
func (m StatePanelModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("STATE"))
	b.WriteString("\n")

	if m.net == nil {
		b.WriteString("no network loaded")
	} else {
		idWidth := 0
		for _, node := range m.net.Nodes() {
			if len(node.ID) > idWidth {
				idWidth = len(node.ID)
			}
		}

		for i, node := range m.net.Nodes() {
			cursor := "  "
			if i == m.selected {
				cursor = SelectedStyle.Render("> ")
			}

			on := m.state.Bit(i)
			line := fmt.Sprintf("%s%s %s %-*s  ",
				cursor, keyForIndex(i), StyleForBit(on).Render(bitIcon(on)), idWidth, node.ID)

			b.WriteString(line)
			b.WriteString(RuleStyle.Render(node.ID + " = " + m.net.Rule(i).String()))
			b.WriteString("\n")
		}
	}

	content := strings.TrimRight(b.String(), "\n")
	if m.width > 0 {
		return BorderStyle.Width(m.width - 2).Height(m.height - 2).Render(content)
	}
	return BorderStyle.Render(content)
}
