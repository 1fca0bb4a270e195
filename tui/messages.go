// ABOUTME: Bubble Tea message types and commands used in the TUI message loop.
// ABOUTME: Ticks drive autoplay stepping at a fixed interval.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent periodically while autoplay is running.
type TickMsg struct {
	Time time.Time
}

// TickCmd schedules the next TickMsg after the given interval.
func TickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
