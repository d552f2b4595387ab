package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/obfusk/m/internal/store"
)

var (
	// Colors
	colorPlaying = lipgloss.Color("39")  // Blue
	colorDone    = lipgloss.Color("240") // Dark gray
	colorSkipped = lipgloss.Color("214") // Orange
	colorMuted   = lipgloss.Color("245") // Gray

	// Styles
	playingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPlaying)

	doneStyle = lipgloss.NewStyle().
			Foreground(colorDone)

	skippedStyle = lipgloss.NewStyle().
			Foreground(colorSkipped)

	newStyle = lipgloss.NewStyle()

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// glyph is the one-character state marker of a list row.
func glyph(s store.State) string {
	switch s {
	case store.StatePlaying:
		return ">"
	case store.StateDone:
		return "x"
	case store.StateSkipped:
		return "*"
	default:
		return " "
	}
}

func styleFor(s store.State) lipgloss.Style {
	switch s {
	case store.StatePlaying:
		return playingStyle
	case store.StateDone:
		return doneStyle
	case store.StateSkipped:
		return skippedStyle
	default:
		return newStyle
	}
}

// formatPosition renders a playback position as HH:MM:SS.
func formatPosition(d time.Duration) string {
	secs := int(d.Truncate(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
