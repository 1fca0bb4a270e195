// ABOUTME: Implements a single-line status bar for the bottom of the TUI.
// ABOUTME: Displays network name, node count, step count, autoplay mode, and loop status.
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// StatusBarModel displays simulation status in a single line.
type StatusBarModel struct {
	networkName string
	totalNodes  int
	stepCount   int
	playing     bool
	loopAt      int
	hasLoop     bool
	width       int
}

// NewStatusBarModel creates a StatusBarModel for the given network.
func NewStatusBarModel(networkName string, totalNodes int) StatusBarModel {
	return StatusBarModel{
		networkName: networkName,
		totalNodes:  totalNodes,
		loopAt:      -1,
	}
}

// SetStepCount updates the displayed step count.
func (m *StatusBarModel) SetStepCount(n int) {
	m.stepCount = n
}

// SetPlaying updates the autoplay indicator.
func (m *StatusBarModel) SetPlaying(playing bool) {
	m.playing = playing
}

// SetLoop records where the trajectory looped, or clears it with -1.
func (m *StatusBarModel) SetLoop(loopAt int) {
	m.loopAt = loopAt
	m.hasLoop = loopAt >= 0
}

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single styled line.
func (m StatusBarModel) View() string {
	mode := "paused"
	if m.playing {
		mode = "playing"
	}

	content := fmt.Sprintf("Network: %s | %d nodes | Step: %d | %s",
		m.networkName, m.totalNodes, m.stepCount, mode)
	if m.hasLoop {
		content += fmt.Sprintf(" | loop at step %d", m.loopAt)
	}
	content += " | space=step p=play r=reset q=quit"

	style := StatusBarStyle.Width(m.width)

	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, style.Render(content))
}
