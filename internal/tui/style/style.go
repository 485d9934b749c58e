// Package style defines lipgloss styles for the TUI.
package style

import "github.com/charmbracelet/lipgloss"

// UI styles using lipgloss.
// These are package-level for convenience; lipgloss styles are value types
// and safe for concurrent use.
//
// Variable names intentionally omit "Style" suffix since they're accessed
// via the style package (e.g., style.Rail reads better than style.RailStyle).
var (
	// Title is used for the strip header.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Rail is used for the fader track.
	Rail = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Handle is used for the fader handle.
	Handle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// HandleActive is the handle while a drag is in progress.
	HandleActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("213"))

	// Meter is used for the signal level column.
	Meter = lipgloss.NewStyle().
		Foreground(lipgloss.Color("63"))

	// MeterHot is the signal column above unity gain.
	MeterHot = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// Peak is used for the held-peak marker.
	Peak = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("214"))

	// Legend is used for the dB tick labels beside the rail.
	Legend = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// Value is used for the current level readout.
	Value = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	// Delta is used for the level change readout during a drag.
	Delta = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// Error is used for error messages.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	// Warning is used for warning messages.
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Muted is used for de-emphasized text (e.g., device names).
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))
)
