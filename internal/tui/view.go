package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/weekgrid/internal/board"
	"github.com/javiermolinar/weekgrid/internal/event"
)

// View renders the model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.width < minGridWidth || m.height < chromeLines+len(m.board.Rows()) {
		return "Terminal too small"
	}

	c := newCanvas(m.width, m.height-1, m.styles.base)
	ticks := m.hourTicks()
	m.drawTitle(c)
	m.drawAxis(c, ticks)
	for i, row := range m.board.Rows() {
		m.drawRow(c, i, row, ticks)
	}
	m.drawProxy(c)

	out := c.String() + "\n" + m.footer()
	if m.mode == ModeHelp {
		out = renderOverlay(out, m.width, m.height, m.helpContent(), m.styles.PanelStyle)
	}
	return out
}

type tick struct {
	col   int
	label string
}

// hourTicks returns the columns of every full hour on the time axis.
func (m Model) hourTicks() []tick {
	header := m.board.Header()
	proj := header.Projector()
	w := header.Window()
	first := w.Start.Truncate(time.Hour)
	if first.Before(w.Start) {
		first = first.Add(time.Hour)
	}

	var ticks []tick
	for t := first; !t.After(w.End); t = t.Add(time.Hour) {
		x := proj.TimeToGeometry(t, t).X * float64(m.width)
		col, _ := cellSpan(x, x)
		ticks = append(ticks, tick{col: col, label: t.Format("15")})
	}
	return ticks
}

// headerColumns is the width of the day label column.
func (m Model) headerColumns() int {
	return int(math.Round(m.board.Config().HeaderFraction * float64(m.width)))
}

func (m Model) drawTitle(c *canvas) {
	x := c.text(1, titleLine, c.w, "weekgrid", m.styles.title)
	start := m.board.WeekStart()
	end := start.AddDate(0, 0, 6)
	week := fmt.Sprintf("  %s - %s", start.Format("Mon Jan 2"), end.Format("Mon Jan 2, 2006"))
	x = c.text(x, titleLine, c.w, week, m.styles.axis)
	if m.loading {
		c.text(x, titleLine, c.w, "  loading...", m.styles.axis)
	}

	_, e, ok := m.selectedEvent()
	if !ok {
		return
	}
	tag, _ := m.tags.Lookup(e.TagID)
	summary := fmt.Sprintf("%s %s  %s %s ", tag.Emoji, e.Title, e.Start.Format("Mon"), e.TimeLabel())
	sw := ansi.StringWidth(summary)
	if c.w-sw > x+2 {
		body, _ := m.styles.blockInks(tag, true)
		c.text(c.w-sw, titleLine, c.w, summary, body)
	}
}

func (m Model) drawAxis(c *canvas, ticks []tick) {
	hc := m.headerColumns()
	for _, t := range ticks {
		if t.col < hc {
			continue
		}
		c.text(t.col, axisLine, c.w, t.label, m.styles.axis)
	}
}

func (m Model) drawRow(c *canvas, i int, row *board.Row, ticks []tick) {
	bounds := m.rowBounds(i)
	top := int(bounds.Y)
	bottom := top + m.rowLines
	hc := m.headerColumns()
	bg := m.styles.rowInk(i)

	c.fill(hc, top, c.w, bottom, " ", bg)
	for _, t := range ticks {
		if t.col < hc {
			continue
		}
		for y := top; y < bottom; y++ {
			c.set(t.col, y, "┊", ink{fg: m.styles.palette.Grid, bg: bg.bg})
		}
	}
	m.drawDayLabel(c, row, top, hc)

	clip := clipRect{x0: hc, y0: top, x1: c.w, y1: bottom}
	drag := m.board.Drag()
	payload, dragging := drag.Payload()

	for _, p := range row.Placements() {
		e := p.Event
		label := e.TimeLabel()
		if s, ok := row.Resizing(e.ID); ok {
			preview := s.Preview()
			p.Geometry = preview.Geometry
			label = preview.Label()
		}
		tag, _ := m.tags.Lookup(e.TagID)
		body, border := m.styles.blockInks(tag, e.ID == m.selected)
		box := p.Box(bounds)

		if dragging && payload.EventID == e.ID {
			ghost := m.styles.ghostInk(bg.bg)
			drawBlock(c, box, clip, ghost, ghost, "░", e.Title, "")
			continue
		}
		drawBlock(c, box, clip, body, border, " ", e.Title, label)
	}

	if ph, ok := row.Placeholder(); ok {
		x0, x1 := cellSpan(ph.Geometry.X*bounds.W, ph.Geometry.Right()*bounds.W)
		x0, x1 = max(x0, clip.x0), min(x1, clip.x1)
		c.fill(x0, top, x1, bottom, "░", m.styles.drop)
		c.text(x0, top, x1, ph.Label(), m.styles.drop)
	}
}

func (m Model) drawDayLabel(c *canvas, row *board.Row, top, hc int) {
	k := m.styles.dayLabel
	day := row.Window().Start
	if sameDay(day, m.now()) {
		k = m.styles.today
	}
	c.fill(0, top, hc, top+m.rowLines, " ", k)
	c.text(0, top, hc, day.Format("Mon"), k)
	if m.rowLines > 1 {
		c.text(0, top+1, hc, day.Format("02"), k)
	}
}

// drawProxy draws the floating copy of the dragged event on top of the grid.
func (m Model) drawProxy(c *canvas) {
	proxy, ok := m.board.Drag().Proxy()
	if !ok {
		return
	}
	payload, _ := m.board.Drag().Payload()
	k := m.styles.proxy
	if m.dropTarget == "" {
		k = m.styles.proxyDeny
	}
	box := board.Rect{X: proxy.Left, Y: proxy.Top, W: proxy.Width, H: proxy.Height}
	full := clipRect{x0: 0, y0: gridTop - 1, x1: c.w, y1: c.h}
	title := tiltGlyph(proxy.Rotation) + " " + payload.Title
	drawBlock(c, box, full, k, k, " ", title, proxy.Label)
}

type clipRect struct {
	x0, y0, x1, y1 int
}

// drawBlock paints an event block: a start border, the title on the first
// line and the time label on the second line, or after the title when the
// block is one line tall.
func drawBlock(c *canvas, box board.Rect, clip clipRect, body, border ink, fill, title, label string) {
	x0, x1 := cellSpan(box.X, box.X+box.W)
	y0, y1 := cellSpan(box.Y, box.Y+box.H)
	x0, x1 = max(x0, clip.x0), min(x1, clip.x1)
	y0, y1 = max(y0, clip.y0), min(y1, clip.y1)
	if x1 <= x0 || y1 <= y0 {
		return
	}

	c.fill(x0, y0, x1, y1, fill, body)
	for y := y0; y < y1; y++ {
		c.set(x0, y, "▌", border)
		if x1-x0 >= 3 {
			c.set(x1-1, y, "▐", border)
		}
	}

	textEnd := x1
	if x1-x0 >= 3 {
		textEnd = x1 - 1
	}
	end := c.text(x0+1, y0, textEnd, title, body)
	if label == "" {
		return
	}
	if y1-y0 >= 2 {
		c.text(x0+1, y0+1, textEnd, label, body)
		return
	}
	if end+1+ansi.StringWidth(label) <= textEnd {
		c.text(end+1, y0, textEnd, label, body)
	}
}

// tiltGlyph shows the proxy rotation: clockwise tilt leans right.
func tiltGlyph(rotation float64) string {
	switch {
	case rotation > 3:
		return "╱"
	case rotation < -3:
		return "╲"
	default:
		return "│"
	}
}

func (m Model) footer() string {
	var line string
	style := m.styles.HelpStyle
	drag := m.board.Drag()

	switch {
	case m.mode == ModeEditTitle:
		line = m.titleInput.View()
		style = m.styles.StatusStyle
	case m.statusMsg != "":
		line = " " + m.statusMsg
		style = m.styles.StatusStyle
		if m.statusErr {
			style = m.styles.ErrorStyle
		}
	case drag.Active():
		payload, _ := drag.Payload()
		proxy, _ := drag.Proxy()
		dest := proxy.Label
		if m.dropTarget == "" {
			dest = "not droppable here"
		}
		line = fmt.Sprintf(" moving %s -> %s  tilt %+.0f°", payload.Title, dest, proxy.Rotation)
		style = m.styles.StatusStyle
	case m.resize != nil:
		line = fmt.Sprintf(" resizing %s %s", m.resize.Snapshot().Side, m.resize.Preview().Label())
		style = m.styles.StatusStyle
	default:
		line = " " + m.help.ShortHelpView(m.keys.ShortHelp())
	}

	line = ansi.Truncate(line, m.width, "…")
	return style.Width(m.width).MaxWidth(m.width).Render(line)
}

// helpContent lists the key bindings and the tag legend.
func (m Model) helpContent() string {
	var b strings.Builder
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\nmouse: drag blocks between days, drag edges to resize,\n")
	b.WriteString("double-click an empty cell to create an event\n")
	if len(m.tags) > 0 {
		b.WriteString("\ntags:")
		for _, tag := range m.tags {
			body, _ := m.styles.blockInks(tag, false)
			b.WriteString(" ")
			b.WriteString(body.style().Render(" " + tag.Emoji + " " + tag.Name + " "))
		}
	}
	return b.String()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// tagLabel is the short tag marker used by copy and CLI output.
func tagLabel(tags event.Tags, id string) string {
	tag, _ := tags.Lookup(id)
	return strings.TrimSpace(tag.Emoji + " " + tag.Name)
}
