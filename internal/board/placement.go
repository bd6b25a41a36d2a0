package board

import (
	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/geometry"
	"github.com/javiermolinar/weekgrid/internal/lanes"
)

// Placement is an event together with its horizontal geometry and lane slot.
type Placement struct {
	Event    *event.Event
	Geometry geometry.Geometry
	Slot     lanes.Slot
}

// Top returns the vertical offset as a fraction of the row height.
func (p Placement) Top() float64 { return p.Slot.Top() }

// Height returns the block height as a fraction of the row height.
func (p Placement) Height() float64 { return p.Slot.Height() }

// Box returns the placement's box in host coordinates inside bounds.
func (p Placement) Box(bounds Rect) Rect {
	return Rect{
		X: bounds.X + p.Geometry.X*bounds.W,
		Y: bounds.Y + p.Slot.Top()*bounds.H,
		W: p.Geometry.W * bounds.W,
		H: p.Slot.Height() * bounds.H,
	}
}

// Hit is the result of a pointer hit test against a row.
type Hit struct {
	EventID string
	Zone    Zone
	Box     Rect
}

// Placements returns every event with its geometry, in insertion order.
// Events are copies.
func (r *Row) Placements() []Placement {
	result := make([]Placement, 0, len(r.events))
	for _, e := range r.events {
		result = append(result, r.placementOf(e))
	}
	return result
}

// Placement returns the placement of a single event.
func (r *Row) Placement(id string) (Placement, bool) {
	e := r.find(id)
	if e == nil {
		return Placement{}, false
	}
	return r.placementOf(e), true
}

func (r *Row) placementOf(e *event.Event) Placement {
	slot, ok := r.slots[e.ID]
	if !ok {
		slot = lanes.Slot{Lane: 0, Span: 1, Lanes: 1}
	}
	return Placement{
		Event:    e.Clone(),
		Geometry: r.projector.TimeToGeometry(e.Start, e.End),
		Slot:     slot,
	}
}

// HitTest finds the event under (x, y). edge is the width of the resize
// handles at each end of a block; blocks narrower than three handles are
// body-only. Later events win ties.
func (r *Row) HitTest(bounds Rect, x, y, edge float64) (Hit, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		box := r.placementOf(r.events[i]).Box(bounds)
		if !box.Contains(x, y) {
			continue
		}
		zone := ZoneBody
		if edge > 0 && box.W >= 3*edge {
			switch {
			case x < box.X+edge:
				zone = ZoneStartEdge
			case x >= box.X+box.W-edge:
				zone = ZoneEndEdge
			}
		}
		return Hit{EventID: r.events[i].ID, Zone: zone, Box: box}, true
	}
	return Hit{}, false
}
