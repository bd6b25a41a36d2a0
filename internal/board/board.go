package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/javiermolinar/weekgrid/internal/dateutil"
	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/geometry"
)

// HeaderRowID identifies the time-axis row. It never accepts drops.
const HeaderRowID = "header"

// Config describes the shape of a week board.
type Config struct {
	Days            []time.Weekday
	DayStart        time.Duration // wall clock after midnight
	DayEnd          time.Duration // wall clock after midnight
	HeaderFraction  float64
	SnapStep        time.Duration
	DefaultDuration time.Duration
	MaxStaticTilt   float64
	MaxTilt         float64
}

// DefaultConfig returns a Monday to Friday board from 08:00 to 20:00.
func DefaultConfig() Config {
	return Config{
		Days: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		DayStart:        8 * time.Hour,
		DayEnd:          20 * time.Hour,
		HeaderFraction:  geometry.DefaultHeaderFraction,
		SnapStep:        geometry.DefaultSnapStep,
		DefaultDuration: DefaultEventDuration,
		MaxStaticTilt:   DefaultMaxStaticTilt,
		MaxTilt:         DefaultMaxTilt,
	}
}

// RowIDFor returns the row id used for a weekday ("mon", "tue", ...).
func RowIDFor(d time.Weekday) string {
	return strings.ToLower(d.String()[:3])
}

// Board is a set of day rows sharing a drag session and a registry.
type Board struct {
	cfg       Config
	weekStart time.Time
	registry  *Registry
	header    *Row
	drag      *DragSession
	observer  event.Observer
	logger    *log.Logger
	newID     func() string
}

// Option configures a Board.
type Option func(*Board)

// WithBoardObserver forwards every row change to fn.
func WithBoardObserver(fn event.Observer) Option {
	return func(b *Board) { b.observer = fn }
}

// WithBoardLogger sets the logger shared by all rows.
func WithBoardLogger(l *log.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// WithBoardIDGenerator overrides event id generation for all rows.
func WithBoardIDGenerator(fn func() string) Option {
	return func(b *Board) { b.newID = fn }
}

// NewWeek builds one row per configured day of the week starting at
// weekStart (normalized to midnight in its location).
func NewWeek(weekStart time.Time, cfg Config, opts ...Option) (*Board, error) {
	b := &Board{
		cfg:       cfg,
		weekStart: midnight(weekStart),
		registry:  NewRegistry(),
		drag:      NewDragSession(cfg.MaxStaticTilt, cfg.MaxTilt),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	header, err := b.newRow(HeaderRowID, b.weekStart, false)
	if err != nil {
		return nil, err
	}
	b.header = header

	for _, day := range cfg.Days {
		offset := (int(day) - int(b.weekStart.Weekday()) + 7) % 7
		date := b.weekStart.AddDate(0, 0, offset)
		row, err := b.newRow(RowIDFor(day), date, true)
		if err != nil {
			return nil, err
		}
		if _, exists := b.registry.Get(row.ID()); exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRow, row.ID())
		}
		b.registry.Register(row)
	}
	return b, nil
}

func (b *Board) newRow(id string, date time.Time, droppable bool) (*Row, error) {
	window, err := geometry.NewTimeWindow(
		dateutil.AtClock(date, b.cfg.DayStart),
		dateutil.AtClock(date, b.cfg.DayEnd),
	)
	if err != nil {
		return nil, fmt.Errorf("row %s: %w", id, err)
	}
	opts := []RowOption{
		WithHeaderFraction(b.cfg.HeaderFraction),
		WithSnapStep(b.cfg.SnapStep),
		WithDefaultDuration(b.cfg.DefaultDuration),
		WithDroppable(droppable),
		WithObserver(b.notify),
		WithLogger(b.logger),
	}
	if b.newID != nil {
		opts = append(opts, WithIDGenerator(b.newID))
	}
	return NewRow(id, window, opts...)
}

func (b *Board) notify(c event.Change) {
	if b.observer != nil {
		b.observer(c)
	}
}

// Config returns the board configuration.
func (b *Board) Config() Config { return b.cfg }

// WeekStart returns the first day of the board at midnight.
func (b *Board) WeekStart() time.Time { return b.weekStart }

// Range returns the instant span covering every row window.
func (b *Board) Range() (time.Time, time.Time) {
	start, end := b.header.Window().Start, b.header.Window().End
	for _, row := range b.registry.Rows() {
		w := row.Window()
		if w.Start.Before(start) {
			start = w.Start
		}
		if w.End.After(end) {
			end = w.End
		}
	}
	return start, end
}

// Registry returns the board's row registry.
func (b *Board) Registry() *Registry { return b.registry }

// Drag returns the board's drag session.
func (b *Board) Drag() *DragSession { return b.drag }

// Header returns the non-droppable time-axis row.
func (b *Board) Header() *Row { return b.header }

// Rows returns the day rows in order.
func (b *Board) Rows() []*Row { return b.registry.Rows() }

// Row returns the day row with the given id.
func (b *Board) Row(id string) (*Row, bool) {
	if id == HeaderRowID {
		return b.header, true
	}
	return b.registry.Get(id)
}

// RemoveRow unregisters a day row. Its events go with it.
func (b *Board) RemoveRow(id string) error {
	row, ok := b.registry.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	row.CancelResizes()
	b.registry.Unregister(id)
	return nil
}

// RowForTime returns the day row whose window contains t.
func (b *Board) RowForTime(t time.Time) (*Row, bool) {
	for _, row := range b.registry.Rows() {
		w := row.Window()
		if !t.Before(w.Start) && t.Before(w.End) {
			return row, true
		}
	}
	return nil, false
}

// Load places events into the rows whose window contains their start.
// It returns the events that did not fit any row.
func (b *Board) Load(events []*event.Event) []*event.Event {
	var skipped []*event.Event
	for _, e := range events {
		row, ok := b.RowForTime(e.Start)
		if !ok {
			skipped = append(skipped, e)
			continue
		}
		row.AppendEvent(e.Clone())
	}
	if len(skipped) > 0 {
		b.logger.Debug("events outside the board", "count", len(skipped))
	}
	return skipped
}

// Events returns copies of every event on the board, row by row.
func (b *Board) Events() []*event.Event {
	var result []*event.Event
	for _, row := range b.registry.Rows() {
		result = append(result, row.Events()...)
	}
	return result
}

// FindEvent returns the row holding the event and a copy of it.
func (b *Board) FindEvent(id string) (*Row, *event.Event, bool) {
	row, ok := b.registry.FindEventOwner(id)
	if !ok {
		return nil, nil, false
	}
	e, _ := row.Event(id)
	return row, e, true
}

// ClearPlaceholders removes every drop preview.
func (b *Board) ClearPlaceholders() {
	b.header.DragLeave()
	for _, row := range b.registry.Rows() {
		row.DragLeave()
	}
}

// Abort ends every gesture in progress without mutating any event.
func (b *Board) Abort() {
	b.drag.Stop()
	b.ClearPlaceholders()
	for _, row := range b.registry.Rows() {
		row.CancelResizes()
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
