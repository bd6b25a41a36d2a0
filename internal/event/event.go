// Package event defines the core domain types for weekgrid.
package event

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrEmptyID        = errors.New("event id cannot be empty")
	ErrEndBeforeStart = errors.New("end time must be after start time")
)

// Domain errors.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrTagNotFound   = errors.New("tag not found")
)

// DefaultTitle is the title given to events created from an empty cell.
const DefaultTitle = "New Event"

// Event is a scheduled block placed on one row.
type Event struct {
	ID      string
	RowID   string
	Start   time.Time
	End     time.Time
	TagID   string
	Title   string
	Details string

	// Written by the lane packer of the owning row.
	LaneIndex int
	LaneSpan  int
}

// New creates a validated event.
func New(id, rowID string, start, end time.Time, tagID, title string) (*Event, error) {
	e := &Event{
		ID:       strings.TrimSpace(id),
		RowID:    rowID,
		Start:    start,
		End:      end,
		TagID:    tagID,
		Title:    title,
		LaneSpan: 1,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the event invariants that do not depend on a row.
func (e *Event) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if !e.End.After(e.Start) {
		return fmt.Errorf("%w: %s (%s-%s)", ErrEndBeforeStart,
			e.ID, e.Start.Format("15:04"), e.End.Format("15:04"))
	}
	return nil
}

// Duration returns End - Start.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Overlaps reports whether the two events share any instant.
func (e *Event) Overlaps(other *Event) bool {
	if other == nil {
		return false
	}
	return e.Start.Before(other.End) && e.End.After(other.Start)
}

// Clone returns a copy that does not alias e.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

// TimeLabel formats the event's range as "HH:MM - HH:MM".
func (e *Event) TimeLabel() string {
	return FormatRange(e.Start, e.End)
}

// FormatRange formats a range as "HH:MM - HH:MM".
func FormatRange(start, end time.Time) string {
	return start.Format("15:04") + " - " + end.Format("15:04")
}
