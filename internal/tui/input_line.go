package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine renders a text input as exactly one line of width w.
func renderInputLine(w int, inputView string) string {
	if w < 10 {
		w = 10
	}

	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		w,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > w {
		// Terminate styling so a cut sequence does not bleed.
		line = xansi.Cut(line, 0, w) + "\x1b[0m"
	}
	return line
}

// labelCell pads label to w cells, truncating with an ellipsis.
func labelCell(label string, w int) string {
	if xansi.StringWidth(label) > w {
		label = xansi.Truncate(label, w, "…")
	}
	return label + strings.Repeat(" ", w-xansi.StringWidth(label))
}
