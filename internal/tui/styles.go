package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/tui/theme"
)

// ink is the comparable style of one canvas cell.
type ink struct {
	fg   lipgloss.Color
	bg   lipgloss.Color
	bold bool
}

func (i ink) style() lipgloss.Style {
	s := lipgloss.NewStyle().Bold(i.bold)
	if i.fg != "" {
		s = s.Foreground(i.fg)
	}
	if i.bg != "" {
		s = s.Background(i.bg)
	}
	return s
}

// Styles holds the inks and lipgloss styles of the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	base      ink
	title     ink
	axis      ink
	grid      ink
	dayLabel  ink
	today     ink
	drop      ink
	proxy     ink
	proxyDeny ink

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style
	PanelStyle  lipgloss.Style
}

// NewStyles creates styles from the given theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	return &Styles{
		palette: p,

		base:      ink{fg: p.Fg, bg: p.Bg},
		title:     ink{fg: p.Accent, bg: p.Bg, bold: true},
		axis:      ink{fg: p.FgMuted, bg: p.Bg},
		grid:      ink{fg: p.Grid},
		dayLabel:  ink{fg: p.FgMuted, bg: p.Bg, bold: true},
		today:     ink{fg: p.TextOnAccent, bg: p.Accent, bold: true},
		drop:      ink{fg: p.Drop, bg: p.DropBg, bold: true},
		proxy:     ink{fg: p.TextOnAccent, bg: p.Accent, bold: true},
		proxyDeny: ink{fg: p.TextOnWarning, bg: p.Warning, bold: true},

		StatusStyle: lipgloss.NewStyle().Foreground(p.StatusFg).Background(p.StatusBg),
		ErrorStyle:  lipgloss.NewStyle().Foreground(p.TextOnWarning).Background(p.Warning).Bold(true),
		HelpStyle:   lipgloss.NewStyle().Foreground(p.FgMuted).Background(p.StatusBg),
		PanelStyle: lipgloss.NewStyle().
			Foreground(p.Fg).
			Background(p.RowBg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			BorderBackground(p.RowBg).
			Padding(0, 1),
	}
}

// rowInk returns the background ink of the i-th day row.
func (s *Styles) rowInk(i int) ink {
	if i%2 == 1 {
		return ink{fg: s.palette.Fg, bg: s.palette.RowBgAlt}
	}
	return ink{fg: s.palette.Fg, bg: s.palette.RowBg}
}

// blockInks returns the body and border inks of an event block.
func (s *Styles) blockInks(tag event.Tag, selected bool) (body, border ink) {
	c := theme.TagShades(tag, s.palette.Light)
	body = ink{fg: c.Text, bg: c.Bg, bold: selected}
	border = ink{fg: c.Border, bg: c.Bg, bold: true}
	if selected {
		border.fg = s.palette.Accent
	}
	return body, border
}

// ghostInk is used for the source block while it is being dragged.
func (s *Styles) ghostInk(rowBg lipgloss.Color) ink {
	return ink{fg: s.palette.FgMuted, bg: rowBg}
}
