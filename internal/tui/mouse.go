package tui

import (
	"errors"
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/weekgrid/internal/board"
)

// handleMouseMsg routes pointer input to the board gestures. Pointer
// coordinates are cell centers so blocks and hit tests agree on rounding.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.mode != ModeNormal {
		return m, nil
	}
	px, py := float64(msg.X)+0.5, float64(msg.Y)+0.5

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.mousePress(msg.X, msg.Y, px, py)
	case tea.MouseActionMotion:
		return m.mouseMotion(msg.X, msg.Y, px, py)
	case tea.MouseActionRelease:
		return m.mouseRelease(msg.Y, px, py)
	}
	return m, nil
}

func (m Model) mousePress(x, y int, px, py float64) (Model, tea.Cmd) {
	if m.interacting() {
		// The release of the previous gesture was lost.
		m.abortInteractions()
	}

	row, bounds, ok := m.rowAt(y)
	if !ok || row.ID() == board.HeaderRowID {
		return m, nil
	}

	hit, ok := row.HitTest(bounds, px, py, edgeColumns)
	if !ok {
		return m.pressEmpty(row, bounds, x, y, px)
	}

	m.selected = hit.EventID
	switch hit.Zone {
	case board.ZoneStartEdge, board.ZoneEndEdge:
		side := board.SideStart
		if hit.Zone == board.ZoneEndEdge {
			side = board.SideEnd
		}
		s, err := row.BeginResize(hit.EventID, side, bounds, px)
		if err != nil {
			return m, errCmd(err)
		}
		m.resize = s
	default:
		m.press = &pressState{rowID: row.ID(), eventID: hit.EventID, x: x, y: y}
	}
	return m, nil
}

// pressEmpty clears the selection; a second press on the same cell
// creates an event there.
func (m Model) pressEmpty(row *board.Row, bounds board.Rect, x, y int, px float64) (Model, tea.Cmd) {
	now := m.now()
	last := m.lastClick
	m.selected = ""
	m.lastClick = clickState{rowID: row.ID(), x: x, y: y, at: now}

	if last.rowID != row.ID() || last.x != x || last.y != y || now.Sub(last.at) > doubleClick {
		return m, nil
	}

	m.lastClick = clickState{}
	e, err := row.CreateEventAt(row.TimeAt(bounds, px), m.tags.First())
	if err != nil {
		return m, errCmd(err)
	}
	m.selected = e.ID
	return m, statusCmd("Created " + e.TimeLabel())
}

func (m Model) mouseMotion(x, y int, px, py float64) (Model, tea.Cmd) {
	if m.resize != nil {
		m.resize.Move(px)
		return m, nil
	}

	drag := m.board.Drag()
	if m.press != nil && !drag.Active() {
		if x == m.press.x && y == m.press.y {
			return m, nil
		}
		src, ok := m.board.Row(m.press.rowID)
		if !ok {
			m.press = nil
			return m, nil
		}
		bounds, _ := m.boundsFor(src)
		startX, startY := float64(m.press.x)+0.5, float64(m.press.y)+0.5
		if err := src.StartDrag(drag, m.press.eventID, bounds, startX, startY); err != nil {
			m.press = nil
			return m, errCmd(err)
		}
	}

	if drag.Active() {
		m.dragOver(y, px, py)
	}
	return m, nil
}

// dragOver moves the placeholder to the row under the pointer.
func (m *Model) dragOver(y int, px, py float64) {
	drag := m.board.Drag()
	target, bounds, ok := m.rowAt(y)

	m.board.Header().DragLeave()
	for _, row := range m.board.Rows() {
		if !ok || row != target {
			row.DragLeave()
		}
	}

	m.dropTarget = ""
	if !ok {
		drag.Update("", px, py)
		return
	}
	if _, accepted := target.DragOver(drag, bounds, px, py); accepted {
		m.dropTarget = target.ID()
	}
}

func (m Model) mouseRelease(y int, px, py float64) (Model, tea.Cmd) {
	if m.resize != nil {
		s := m.resize
		m.resize = nil
		if _, err := s.Commit(); err != nil && !errors.Is(err, board.ErrResizeFinished) {
			return m, errCmd(err)
		}
		return m, nil
	}

	drag := m.board.Drag()
	if !drag.Active() {
		m.press = nil
		return m, nil
	}

	target, bounds, ok := m.rowAt(y)
	if !ok {
		m.abortInteractions()
		return m, statusCmd("Move cancelled")
	}

	moved, err := target.Drop(drag, m.board.Registry(), bounds, px, py)
	m.abortInteractions()
	switch {
	case errors.Is(err, board.ErrNotDroppable):
		return m, statusCmd("Events cannot be dropped on the time axis")
	case err != nil:
		return m, errCmd(err)
	}
	m.selected = moved.ID
	return m, nil
}

// rowAt returns the row drawn at terminal line y with its bounds.
func (m Model) rowAt(y int) (*board.Row, board.Rect, bool) {
	if m.width <= 0 {
		return nil, board.Rect{}, false
	}
	if y == axisLine {
		return m.board.Header(), m.headerBounds(), true
	}
	if y < gridTop {
		return nil, board.Rect{}, false
	}
	i := (y - gridTop) / m.rowLines
	rows := m.board.Rows()
	if i >= len(rows) {
		return nil, board.Rect{}, false
	}
	return rows[i], m.rowBounds(i), true
}

func (m Model) boundsFor(row *board.Row) (board.Rect, bool) {
	if row == m.board.Header() {
		return m.headerBounds(), true
	}
	for i, r := range m.board.Rows() {
		if r == row {
			return m.rowBounds(i), true
		}
	}
	return board.Rect{}, false
}

func (m Model) headerBounds() board.Rect {
	return board.Rect{X: 0, Y: axisLine, W: float64(m.width), H: 1}
}

func (m Model) rowBounds(i int) board.Rect {
	return board.Rect{
		X: 0,
		Y: float64(gridTop + i*m.rowLines),
		W: float64(m.width),
		H: float64(m.rowLines),
	}
}

// cellSpan converts a [a, b) coordinate span into the cells whose centers
// fall inside it. Empty spans still cover one cell.
func cellSpan(a, b float64) (int, int) {
	lo := int(math.Ceil(a - 0.5))
	hi := int(math.Ceil(b - 0.5))
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}
