package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

type cell struct {
	text string
	ink  ink
	// wide marks the trailing column of a double-width grapheme.
	wide bool
}

// canvas is a fixed grid of styled cells flattened to ANSI lines.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int, base ink) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([][]cell, c.h)
	for y := range c.cells {
		c.cells[y] = make([]cell, c.w)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{text: " ", ink: base}
		}
	}
	return c
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

// fill paints the half-open box [x0,x1) x [y0,y1) with s.
func (c *canvas) fill(x0, y0, x1, y1 int, s string, k ink) {
	for y := max(y0, 0); y < min(y1, c.h); y++ {
		for x := max(x0, 0); x < min(x1, c.w); x++ {
			c.cells[y][x] = cell{text: s, ink: k}
		}
	}
}

// set writes one single-width glyph.
func (c *canvas) set(x, y int, s string, k ink) {
	if c.inside(x, y) {
		c.cells[y][x] = cell{text: s, ink: k}
	}
}

// tint changes the foreground of cells in a box, keeping their glyphs.
func (c *canvas) tint(x0, y0, x1, y1 int, k ink) {
	for y := max(y0, 0); y < min(y1, c.h); y++ {
		for x := max(x0, 0); x < min(x1, c.w); x++ {
			c.cells[y][x].ink = k
		}
	}
}

// text writes s from (x, y) and stops before limit. It returns the column
// after the last written grapheme.
func (c *canvas) text(x, y, limit int, s string, k ink) int {
	if y < 0 || y >= c.h {
		return x
	}
	limit = min(limit, c.w)
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		g := gr.Str()
		gw := ansi.StringWidth(g)
		if gw == 0 {
			continue
		}
		if x+gw > limit {
			break
		}
		if x >= 0 {
			c.cells[y][x] = cell{text: g, ink: k}
			for i := 1; i < gw; i++ {
				c.cells[y][x+i] = cell{ink: k, wide: true}
			}
		}
		x += gw
	}
	return x
}

// String renders the grid, merging runs of equal ink into one style.
func (c *canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		var cur ink
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(cur.style().Render(run.String()))
				run.Reset()
			}
		}
		for x, cl := range row {
			text := cl.text
			switch {
			case cl.wide && x > 0 && ansi.StringWidth(row[x-1].text) == 2:
				continue
			case cl.wide:
				// Leading half was overwritten.
				text = " "
			case ansi.StringWidth(text) == 2 && (x+1 == len(row) || !row[x+1].wide):
				// Trailing half was overwritten.
				text = " "
			}
			if x == 0 || cl.ink != cur {
				flush()
				cur = cl.ink
			}
			run.WriteString(text)
		}
		flush()
	}
	return b.String()
}
