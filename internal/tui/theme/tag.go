package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/javiermolinar/weekgrid/internal/event"
)

// TagColors are the three shades an event block is drawn with.
type TagColors struct {
	Bg     lipgloss.Color
	Border lipgloss.Color
	Text   lipgloss.Color
}

// TagShades converts the HSL components of tag into terminal colors.
// Dark palettes mirror the lightness so pastel tags stay readable.
func TagShades(tag event.Tag, light bool) TagColors {
	bgLight, textLight := tag.BgLight, tag.TextLight
	if !light {
		bgLight = 100 - bgLight + 15
		textLight = 100 - textLight
	}
	return TagColors{
		Bg:     hsl(tag.Hue, tag.BgSat, bgLight),
		Border: hsl(tag.Hue, tag.BorderSat, tag.BorderLight),
		Text:   hsl(tag.Hue, tag.BgSat, textLight),
	}
}

func hsl(h, s, l float64) lipgloss.Color {
	s = min(max(s, 0), 100)
	l = min(max(l, 0), 100)
	return lipgloss.Color(colorful.Hsl(h, s/100, l/100).Clamped().Hex())
}
