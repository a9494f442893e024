// Package ui renders heapherd's console output: status icons per target,
// muted detail lines, and plain-text fallbacks when stdout is not a TTY.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Status icons used in per-target result lines.
const (
	IconSuccess = "✓"
	IconPartial = "◐"
	IconFailed  = "✗"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
)

// StatusIcon returns the colored icon for a target status string, or a
// plain-text tag when color is disabled.
func StatusIcon(status string) string {
	if !ShouldUseColor() {
		switch status {
		case "success":
			return "PASS"
		case "partial":
			return "PART"
		default:
			return "FAIL"
		}
	}

	switch status {
	case "success":
		return successStyle.Render(IconSuccess)
	case "partial":
		return partialStyle.Render(IconPartial)
	default:
		return failedStyle.Render(IconFailed)
	}
}

// Muted renders secondary detail text (paths, PIDs) in a dimmed style.
func Muted(s string) string {
	if !ShouldUseColor() {
		return s
	}
	return mutedStyle.Render(s)
}

// Success renders s in the success style.
func Success(s string) string {
	if !ShouldUseColor() {
		return s
	}
	return successStyle.Render(s)
}

// Failed renders s in the failure style.
func Failed(s string) string {
	if !ShouldUseColor() {
		return s
	}
	return failedStyle.Render(s)
}
