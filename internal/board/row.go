package board

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/geometry"
	"github.com/javiermolinar/weekgrid/internal/lanes"
)

// DefaultEventDuration is the length of events created from an empty cell.
const DefaultEventDuration = time.Hour

// Row is one horizontal track (a day) holding events inside a time window.
type Row struct {
	id              string
	projector       geometry.Projector
	grid            geometry.SnapGrid
	droppable       bool
	defaultDuration time.Duration

	events   []*event.Event
	slots    map[string]lanes.Slot
	resizing map[string]*ResizeSession

	placeholder *Placeholder

	observer event.Observer
	logger   *log.Logger
	newID    func() string
}

// RowOption configures a Row.
type RowOption func(*rowOptions)

type rowOptions struct {
	headerFraction  float64
	step            time.Duration
	droppable       bool
	defaultDuration time.Duration
	observer        event.Observer
	logger          *log.Logger
	newID           func() string
}

// WithHeaderFraction sets the share of the row reserved for the label column.
func WithHeaderFraction(f float64) RowOption {
	return func(o *rowOptions) { o.headerFraction = f }
}

// WithSnapStep sets the snapping granularity.
func WithSnapStep(step time.Duration) RowOption {
	return func(o *rowOptions) { o.step = step }
}

// WithDroppable controls whether the row accepts drops.
func WithDroppable(droppable bool) RowOption {
	return func(o *rowOptions) { o.droppable = droppable }
}

// WithDefaultDuration sets the length of events created from empty cells.
func WithDefaultDuration(d time.Duration) RowOption {
	return func(o *rowOptions) { o.defaultDuration = d }
}

// WithObserver registers the change observer.
func WithObserver(fn event.Observer) RowOption {
	return func(o *rowOptions) { o.observer = fn }
}

// WithLogger sets the row logger.
func WithLogger(l *log.Logger) RowOption {
	return func(o *rowOptions) { o.logger = l }
}

// WithIDGenerator overrides event id generation.
func WithIDGenerator(fn func() string) RowOption {
	return func(o *rowOptions) { o.newID = fn }
}

// NewRow creates a row covering window.
func NewRow(id string, window geometry.TimeWindow, opts ...RowOption) (*Row, error) {
	o := rowOptions{
		headerFraction:  geometry.DefaultHeaderFraction,
		step:            geometry.DefaultSnapStep,
		droppable:       true,
		defaultDuration: DefaultEventDuration,
		newID:           uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	projector, err := geometry.NewProjector(window, o.headerFraction)
	if err != nil {
		return nil, fmt.Errorf("row %s: %w", id, err)
	}
	grid, err := geometry.NewSnapGrid(o.step)
	if err != nil {
		return nil, fmt.Errorf("row %s: %w", id, err)
	}
	if o.defaultDuration <= 0 {
		o.defaultDuration = DefaultEventDuration
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}

	return &Row{
		id:              id,
		projector:       projector,
		grid:            grid,
		droppable:       o.droppable,
		defaultDuration: o.defaultDuration,
		slots:           make(map[string]lanes.Slot),
		resizing:        make(map[string]*ResizeSession),
		observer:        o.observer,
		logger:          o.logger.With("row", id),
		newID:           o.newID,
	}, nil
}

// ID returns the row id.
func (r *Row) ID() string { return r.id }

// Window returns the row's time window.
func (r *Row) Window() geometry.TimeWindow { return r.projector.Window() }

// Projector returns the row's time/space projector.
func (r *Row) Projector() geometry.Projector { return r.projector }

// Grid returns the row's snap grid.
func (r *Row) Grid() geometry.SnapGrid { return r.grid }

// Droppable reports whether the row accepts drops.
func (r *Row) Droppable() bool { return r.droppable }

// SetObserver replaces the change observer.
func (r *Row) SetObserver(fn event.Observer) { r.observer = fn }

// Len returns the number of events in the row.
func (r *Row) Len() int { return len(r.events) }

// Events returns copies of the row's events in insertion order.
func (r *Row) Events() []*event.Event {
	result := make([]*event.Event, len(r.events))
	for i, e := range r.events {
		result[i] = e.Clone()
	}
	return result
}

// Event returns a copy of the event with the given id.
func (r *Row) Event(id string) (*event.Event, bool) {
	if e := r.find(id); e != nil {
		return e.Clone(), true
	}
	return nil, false
}

// AppendEvent adds e to the row and re-packs lanes. The row takes ownership
// of e. No change is emitted; use it for loading and drop targets.
func (r *Row) AppendEvent(e *event.Event) {
	if e == nil {
		return
	}
	e.RowID = r.id
	r.events = append(r.events, e)
	r.repack()
}

// RemoveEventByID detaches the event from the row and re-packs lanes.
// It reports whether the event was present.
func (r *Row) RemoveEventByID(id string) bool {
	for i, e := range r.events {
		if e.ID != id {
			continue
		}
		r.events = append(r.events[:i], r.events[i+1:]...)
		if s, ok := r.resizing[id]; ok {
			s.done = true
			delete(r.resizing, id)
		}
		r.repack()
		return true
	}
	return false
}

// CreateEventAt adds an event of the default duration starting at the
// snapped time at.
func (r *Row) CreateEventAt(at time.Time, tagID string) (*event.Event, error) {
	start := r.grid.Snap(at)
	e, err := event.New(r.newID(), r.id, start, start.Add(r.defaultDuration), tagID, event.DefaultTitle)
	if err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	r.AppendEvent(e)
	r.notify(event.ChangeCreated, e)
	r.logger.Debug("event created", "event_id", e.ID, "range", e.TimeLabel())
	return e.Clone(), nil
}

// UpdateEvent applies fn to the event and re-validates it. Time changes
// re-pack the row.
func (r *Row) UpdateEvent(id string, fn func(*event.Event)) (*event.Event, error) {
	e := r.find(id)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", event.ErrEventNotFound, id)
	}

	updated := e.Clone()
	fn(updated)
	updated.ID = e.ID
	updated.RowID = r.id
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	timesChanged := !updated.Start.Equal(e.Start) || !updated.End.Equal(e.End)
	*e = *updated
	if timesChanged {
		r.repack()
	}
	r.notify(event.ChangeUpdated, e)
	return e.Clone(), nil
}

// DeleteEvent removes the event and emits a deleted change.
func (r *Row) DeleteEvent(id string) error {
	e := r.find(id)
	if e == nil {
		return fmt.Errorf("%w: %s", event.ErrEventNotFound, id)
	}
	snapshot := e.Clone()
	r.RemoveEventByID(id)
	r.notify(event.ChangeDeleted, snapshot)
	return nil
}

// TimeAt converts a host x coordinate into a clamped, unsnapped time.
func (r *Row) TimeAt(bounds Rect, x float64) time.Time {
	if bounds.W <= 0 {
		return r.Window().Start
	}
	return r.projector.VisualXToTime((x - bounds.X) / bounds.W)
}

func (r *Row) hasEvent(id string) bool {
	return r.find(id) != nil
}

func (r *Row) find(id string) *event.Event {
	for _, e := range r.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// repack recomputes lane assignments for every event in the row.
func (r *Row) repack() {
	intervals := make([]lanes.Interval, len(r.events))
	for i, e := range r.events {
		intervals[i] = lanes.Interval{Start: e.Start, End: e.End}
	}
	slots := lanes.Pack(intervals)

	clear(r.slots)
	for i, e := range r.events {
		e.LaneIndex = slots[i].Lane
		e.LaneSpan = slots[i].Span
		r.slots[e.ID] = slots[i]
	}
}

func (r *Row) notify(kind event.ChangeKind, e *event.Event) {
	if r.observer == nil {
		return
	}
	r.observer(event.NewChange(kind, e))
}
