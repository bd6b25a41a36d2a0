package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/term"

	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/tui/theme"
)

var (
	colorHeader = color.New(color.Bold)
	colorStats  = color.New(color.FgGreen)
	colorMuted  = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatTag prints s in the tag's border color.
func formatTag(tag event.Tag, s string) string {
	c, err := colorful.Hex(string(theme.TagShades(tag, false).Border))
	if err != nil {
		return s
	}
	r, g, b := c.RGB255()
	return color.RGB(int(r), int(g), int(b)).Add(color.Bold).Sprint(s)
}
