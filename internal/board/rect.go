// Package board orchestrates scheduler rows: it owns their events, re-packs
// lanes on every structural change, and drives drag and resize gestures.
//
// All types in this package are meant to be used from a single goroutine
// (the UI event loop) and are not safe for concurrent use.
package board

import "errors"

// Board errors.
var (
	ErrNoActiveDrag   = errors.New("no drag in progress")
	ErrDragActive     = errors.New("a drag is already in progress")
	ErrNotDroppable   = errors.New("row does not accept drops")
	ErrResizeActive   = errors.New("event is already being resized")
	ErrResizeFinished = errors.New("resize session already finished")
	ErrRowNotFound    = errors.New("row not found")
	ErrDuplicateRow   = errors.New("row id already registered")
)

// Rect is an axis-aligned box in host coordinates (pixels or terminal cells).
type Rect struct {
	X, Y float64
	W, H float64
}

// Contains reports whether (x, y) lies inside the half-open box.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Zone is the part of an event block under the pointer.
type Zone int

const (
	ZoneBody Zone = iota
	ZoneStartEdge
	ZoneEndEdge
)

func (z Zone) String() string {
	switch z {
	case ZoneStartEdge:
		return "start-edge"
	case ZoneEndEdge:
		return "end-edge"
	default:
		return "body"
	}
}
