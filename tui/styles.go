// ABOUTME: Defines lipgloss style constants for the TUI panels, bit markers, and status bar.
// ABOUTME: Provides StyleForBit to map node values to their display styles.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Bit values
	BitOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	BitOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Node selection cursor
	SelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	// Rule text next to each node
	RuleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	// Trace lines
	TraceStepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	TraceBitsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	LoopStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
)

// StyleForBit returns the style for a node value.
func StyleForBit(on bool) lipgloss.Style {
	if on {
		return BitOnStyle
	}
	return BitOffStyle
}

// bitIcon is the marker rendered for a node value.
func bitIcon(on bool) string {
	if on {
		return "●"
	}
	return "○"
}
