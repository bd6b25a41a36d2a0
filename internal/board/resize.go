package board

import (
	"fmt"
	"time"

	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/geometry"
)

// Side is the edge of an event being resized.
type Side int

const (
	SideStart Side = iota
	SideEnd
)

func (s Side) String() string {
	if s == SideStart {
		return "start"
	}
	return "end"
}

// ResizeSnapshot is captured when a resize gesture begins. Pixel values are
// relative to the row's left edge except PointerStartX.
type ResizeSnapshot struct {
	Side             Side
	PointerStartX    float64
	ElementLeftPx    float64
	ElementWidthPx   float64
	ContainerWidthPx float64
}

// ResizePreview is the snapped state shown while resizing.
type ResizePreview struct {
	Start    time.Time
	End      time.Time
	Geometry geometry.Geometry
}

// Label returns the "HH:MM - HH:MM" label of the preview.
func (p ResizePreview) Label() string {
	return event.FormatRange(p.Start, p.End)
}

// ResizeSession drives one edge drag on one event. The event itself is only
// written on Commit.
type ResizeSession struct {
	row      *Row
	eventID  string
	snapshot ResizeSnapshot
	preview  ResizePreview
	done     bool
}

// BeginResize starts resizing side of the event. bounds is the row's box.
// Only one session per event may be active.
func (r *Row) BeginResize(eventID string, side Side, bounds Rect, pointerX float64) (*ResizeSession, error) {
	e := r.find(eventID)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", event.ErrEventNotFound, eventID)
	}
	if _, busy := r.resizing[eventID]; busy {
		return nil, fmt.Errorf("%w: %s", ErrResizeActive, eventID)
	}

	g := r.projector.TimeToGeometry(e.Start, e.End)
	s := &ResizeSession{
		row:     r,
		eventID: eventID,
		snapshot: ResizeSnapshot{
			Side:             side,
			PointerStartX:    pointerX,
			ElementLeftPx:    g.X * bounds.W,
			ElementWidthPx:   g.W * bounds.W,
			ContainerWidthPx: bounds.W,
		},
		preview: ResizePreview{Start: e.Start, End: e.End, Geometry: g},
	}
	r.resizing[eventID] = s
	return s, nil
}

// Resizing returns the active session for the event, if any.
func (r *Row) Resizing(eventID string) (*ResizeSession, bool) {
	s, ok := r.resizing[eventID]
	return s, ok
}

// CancelResizes aborts every resize session on the row.
func (r *Row) CancelResizes() {
	for _, s := range r.resizing {
		s.Cancel()
	}
}

// EventID returns the id of the event being resized.
func (s *ResizeSession) EventID() string { return s.eventID }

// Snapshot returns the gesture's starting state.
func (s *ResizeSession) Snapshot() ResizeSnapshot { return s.snapshot }

// Preview returns the latest snapped state.
func (s *ResizeSession) Preview() ResizePreview { return s.preview }

// Active reports whether the session can still be moved or committed.
func (s *ResizeSession) Active() bool { return !s.done }

// Move recomputes the snapped range for a pointer at pointerX.
// The dragged side never gets closer than one snap step to the fixed side.
func (s *ResizeSession) Move(pointerX float64) ResizePreview {
	if s.done || s.snapshot.ContainerWidthPx <= 0 {
		return s.preview
	}

	snap := s.snapshot
	dx := pointerX - snap.PointerStartX

	left := snap.ElementLeftPx
	width := snap.ElementWidthPx
	if snap.Side == SideStart {
		left += dx
		width -= dx
	} else {
		width += dx
	}

	proj := s.row.projector
	grid := s.row.grid
	start := grid.Snap(proj.VisualXToTime(left / snap.ContainerWidthPx))
	end := grid.Snap(proj.VisualXToTime((left + width) / snap.ContainerWidthPx))

	step := grid.Step
	if end.Sub(start) < step {
		if snap.Side == SideStart {
			start = end.Add(-step)
		} else {
			end = start.Add(step)
		}
	}

	s.preview = ResizePreview{
		Start:    start,
		End:      end,
		Geometry: proj.TimeToGeometry(start, end),
	}
	return s.preview
}

// Commit writes the previewed range to the event, re-packs the row and
// emits a resized change.
func (s *ResizeSession) Commit() (*event.Event, error) {
	if s.done {
		return nil, ErrResizeFinished
	}
	s.finish()

	e := s.row.find(s.eventID)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", event.ErrEventNotFound, s.eventID)
	}
	e.Start = s.preview.Start
	e.End = s.preview.End
	s.row.repack()
	s.row.notify(event.ChangeResized, e)
	s.row.logger.Debug("event resized", "event_id", e.ID, "side", s.snapshot.Side, "range", e.TimeLabel())
	return e.Clone(), nil
}

// Cancel discards the preview. The event keeps its original range.
func (s *ResizeSession) Cancel() {
	if s.done {
		return
	}
	s.finish()
}

func (s *ResizeSession) finish() {
	s.done = true
	if current, ok := s.row.resizing[s.eventID]; ok && current == s {
		delete(s.row.resizing, s.eventID)
	}
}
