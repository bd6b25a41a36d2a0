package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// renderOverlay draws content in a bordered panel centered over base.
func renderOverlay(base string, width, height int, content string, panel lipgloss.Style) string {
	if width <= 0 || height <= 0 || content == "" {
		return base
	}

	box := panel.MaxWidth(width).MaxHeight(height).Render(content)
	boxLines := strings.Split(box, "\n")
	boxW := lipgloss.Width(box)
	boxH := len(boxLines)

	top := max((height-boxH)/2, 0)
	left := max((width-boxW)/2, 0)

	lines := normalizeLines(base, width, height)
	for i, line := range boxLines {
		row := top + i
		if row >= height {
			break
		}
		lw := lipgloss.Width(line)
		lines[row] = ansi.Cut(lines[row], 0, left) + line + ansi.Cut(lines[row], left+lw, width)
	}
	return strings.Join(lines, "\n")
}

// normalizeLines pads or cuts base to exactly height lines of width cells.
func normalizeLines(base string, width, height int) []string {
	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]

	for i, line := range lines {
		lw := lipgloss.Width(line)
		switch {
		case lw > width:
			lines[i] = ansi.Cut(line, 0, width)
		case lw < width:
			lines[i] = line + strings.Repeat(" ", width-lw)
		}
	}
	return lines
}
