package event

import "time"

// ChangeKind identifies a structural change to an event.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeMoved   ChangeKind = "moved"
	ChangeResized ChangeKind = "resized"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Change notifies the persistence collaborator about a mutation.
// Event is a detached copy taken after the mutation; it is nil for deletions.
type Change struct {
	Kind         ChangeKind
	EventID      string
	RowID        string
	NewStart     time.Time
	NewEnd       time.Time
	NewLaneIndex int
	Event        *Event
}

// NewChange builds a change snapshot for e.
func NewChange(kind ChangeKind, e *Event) Change {
	c := Change{
		Kind:         kind,
		EventID:      e.ID,
		RowID:        e.RowID,
		NewStart:     e.Start,
		NewEnd:       e.End,
		NewLaneIndex: e.LaneIndex,
	}
	if kind != ChangeDeleted {
		c.Event = e.Clone()
	}
	return c
}

// Observer receives change notifications. It must not block.
type Observer func(Change)
