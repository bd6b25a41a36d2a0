package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	RowBg       lipgloss.Color
	RowBgAlt    lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Grid        lipgloss.Color
	Drop        lipgloss.Color
	DropBg      lipgloss.Color
	Warning     lipgloss.Color
	StatusBg    lipgloss.Color
	StatusFg    lipgloss.Color

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color

	Light bool
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}

	isLight := isLightTheme(t.Bg)
	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		RowBg:       lipgloss.Color(t.BgHighlight),
		RowBgAlt:    lipgloss.Color(alternateShade(t.BgHighlight, isLight)),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Grid:        lipgloss.Color(t.Grid),
		Drop:        lipgloss.Color(t.Drop),
		DropBg:      lipgloss.Color(blendColors(t.Drop, t.BgHighlight, 0.7)),
		Warning:     lipgloss.Color(t.Warning),
		StatusBg:    lipgloss.Color(t.StatusBg),
		StatusFg:    lipgloss.Color(t.StatusFg),

		TextOnAccent:  lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnWarning: lipgloss.Color(chooseTextColor(t.Warning, t.Bg, t.Fg)),

		Light: isLight,
	}
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// alternateShade creates a subtle alternate shade for adjacent rows.
func alternateShade(hex string, isLight bool) string {
	if isLight {
		return blendColors(hex, "#000000", 0.04)
	}
	return blendColors(hex, "#ffffff", 0.04)
}

func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// relativeLuminance returns the WCAG luminance of hex, or 0 if it does not parse.
func relativeLuminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// blendColors mixes a towards b by ratio in RGB space.
// Unparseable input returns a unchanged.
func blendColors(a, b string, ratio float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	ratio = min(max(ratio, 0), 1)
	return ca.BlendRgb(cb, ratio).Clamped().Hex()
}
