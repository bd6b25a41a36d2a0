package board

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/geometry"
)

// monday is 2030-01-07, a Monday.
func at(day, h, m int) time.Time {
	return time.Date(2030, 1, 7+day, h, m, 0, 0, time.UTC)
}

var rowBounds = Rect{X: 0, Y: 0, W: 1000, H: 12}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ev-%d", n)
	}
}

type recorder struct {
	changes []event.Change
}

func (r *recorder) observe(c event.Change) {
	r.changes = append(r.changes, c)
}

func (r *recorder) kinds() []event.ChangeKind {
	kinds := make([]event.ChangeKind, len(r.changes))
	for i, c := range r.changes {
		kinds[i] = c.Kind
	}
	return kinds
}

func newTestRow(t *testing.T, id string, day int, opts ...RowOption) *Row {
	t.Helper()
	window, err := geometry.NewTimeWindow(at(day, 8, 0), at(day, 20, 0))
	if err != nil {
		t.Fatalf("NewTimeWindow() error = %v", err)
	}
	opts = append([]RowOption{WithLogger(quietLogger()), WithIDGenerator(sequentialIDs())}, opts...)
	row, err := NewRow(id, window, opts...)
	if err != nil {
		t.Fatalf("NewRow() error = %v", err)
	}
	return row
}

func mustEvent(t *testing.T, id string, start, end time.Time) *event.Event {
	t.Helper()
	e, err := event.New(id, "", start, end, "t1", id)
	if err != nil {
		t.Fatalf("event.New() error = %v", err)
	}
	return e
}

// pointerAt returns the host x that projects to t inside bounds.
func pointerAt(row *Row, bounds Rect, t time.Time) float64 {
	g := row.Projector().TimeToGeometry(t, t)
	return bounds.X + g.X*bounds.W
}
