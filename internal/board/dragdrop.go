package board

import (
	"fmt"
	"time"

	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/geometry"
)

// Placeholder previews where a drop would land.
type Placeholder struct {
	Start    time.Time
	End      time.Time
	Geometry geometry.Geometry
}

// Label returns the "HH:MM - HH:MM" label of the placeholder.
func (p Placeholder) Label() string {
	return event.FormatRange(p.Start, p.End)
}

// StartDrag begins dragging the event with the given id. bounds is the
// row's box in host coordinates.
func (r *Row) StartDrag(drag *DragSession, eventID string, bounds Rect, pointerX, pointerY float64) error {
	e := r.find(eventID)
	if e == nil {
		return fmt.Errorf("%w: %s", event.ErrEventNotFound, eventID)
	}
	p := r.placementOf(e)
	payload := DragPayload{
		EventID:       e.ID,
		SourceRowID:   r.id,
		WidthFraction: p.Geometry.W,
		Duration:      e.Duration(),
		TagID:         e.TagID,
		Title:         e.Title,
		Details:       e.Details,
	}
	if err := drag.Start(payload, p.Box(bounds), pointerX, pointerY); err != nil {
		return err
	}
	drag.Update(e.TimeLabel(), pointerX, pointerY)
	return nil
}

// DragOver shows a placeholder at the snapped destination under the
// pointer and refreshes the proxy label. It reports false when the row
// cannot take the drop.
func (r *Row) DragOver(drag *DragSession, bounds Rect, pointerX, pointerY float64) (Placeholder, bool) {
	payload, ok := drag.Payload()
	if !ok || !r.droppable {
		r.placeholder = nil
		if ok {
			drag.Update("", pointerX, pointerY)
		}
		return Placeholder{}, false
	}

	start, end := r.destination(payload, bounds, pointerX)
	ph := Placeholder{
		Start:    start,
		End:      end,
		Geometry: r.projector.TimeToGeometry(start, end),
	}
	r.placeholder = &ph
	drag.Update(ph.Label(), pointerX, pointerY)
	return ph, true
}

// DragLeave clears the placeholder.
func (r *Row) DragLeave() {
	r.placeholder = nil
}

// Placeholder returns the current drop preview, if any.
func (r *Row) Placeholder() (Placeholder, bool) {
	if r.placeholder == nil {
		return Placeholder{}, false
	}
	return *r.placeholder, true
}

// Drop relocates the dragged event into this row. The destination is
// computed before anything is mutated; a non-droppable row leaves every
// row untouched.
func (r *Row) Drop(drag *DragSession, reg *Registry, bounds Rect, pointerX, pointerY float64) (*event.Event, error) {
	payload, ok := drag.Payload()
	if !ok {
		return nil, ErrNoActiveDrag
	}
	r.placeholder = nil
	if !r.droppable {
		return nil, fmt.Errorf("%w: %s", ErrNotDroppable, r.id)
	}

	start, end := r.destination(payload, bounds, pointerX)

	if !r.detachFromSource(payload, reg) {
		return nil, fmt.Errorf("%w: %s", event.ErrEventNotFound, payload.EventID)
	}

	moved := &event.Event{
		ID:       payload.EventID,
		Start:    start,
		End:      end,
		TagID:    payload.TagID,
		Title:    payload.Title,
		Details:  payload.Details,
		LaneSpan: 1,
	}
	r.AppendEvent(moved)
	r.notify(event.ChangeMoved, moved)
	r.logger.Debug("event dropped",
		"event_id", moved.ID,
		"from", payload.SourceRowID,
		"range", moved.TimeLabel(),
		"lane", moved.LaneIndex,
	)
	return moved.Clone(), nil
}

// destination resolves the snapped start and end for a drop at pointerX.
// The block is kept inside the row window when its duration allows it.
func (r *Row) destination(payload DragPayload, bounds Rect, pointerX float64) (time.Time, time.Time) {
	var visualX float64
	if bounds.W > 0 {
		visualX = (pointerX - bounds.X - payload.GrabOffsetX) / bounds.W
	}
	visualX = max(r.projector.HeaderFraction(), visualX)
	visualX = min(1-payload.WidthFraction, visualX)

	start := r.grid.Snap(r.projector.VisualXToTime(visualX))
	end := start.Add(payload.Duration)

	window := r.Window()
	step := r.grid.Step
	for end.After(window.End) && !start.Add(-step).Before(window.Start) {
		start = start.Add(-step)
		end = end.Add(-step)
	}
	return start, end
}

// detachFromSource removes the dragged event from the row holding it. It
// reports false when no row holds it anymore.
func (r *Row) detachFromSource(payload DragPayload, reg *Registry) bool {
	if reg == nil {
		return r.RemoveEventByID(payload.EventID)
	}
	if src, ok := reg.Get(payload.SourceRowID); ok && src.RemoveEventByID(payload.EventID) {
		return true
	}
	if owner, ok := reg.FindEventOwner(payload.EventID); ok {
		owner.RemoveEventByID(payload.EventID)
		r.logger.Warn("source row missing, removed event from owner",
			"event_id", payload.EventID,
			"source_row", payload.SourceRowID,
			"owner_row", owner.ID(),
		)
		return true
	}
	r.logger.Warn("dragged event not found in any row", "event_id", payload.EventID)
	return false
}
