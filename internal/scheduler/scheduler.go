// Package scheduler finds free time on a board.
package scheduler

import (
	"slices"
	"time"

	"github.com/javiermolinar/weekgrid/internal/board"
	"github.com/javiermolinar/weekgrid/internal/event"
	"github.com/javiermolinar/weekgrid/internal/geometry"
)

// Slot is a free span of one row.
type Slot struct {
	Row   *board.Row
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Free returns the spans of the row window not covered by any event, in
// time order.
func Free(row *board.Row) []Slot {
	events := row.Events()
	slices.SortFunc(events, func(a, b *event.Event) int {
		return a.Start.Compare(b.Start)
	})

	w := row.Window()
	cursor := w.Start
	var free []Slot
	for _, e := range events {
		if e.Start.After(cursor) {
			free = append(free, Slot{Row: row, Start: cursor, End: minTime(e.Start, w.End)})
		}
		if e.End.After(cursor) {
			cursor = e.End
		}
	}
	if cursor.Before(w.End) {
		free = append(free, Slot{Row: row, Start: cursor, End: w.End})
	}
	return free
}

// NextFree returns the earliest span of at least d starting at or after
// from, scanning the rows in time order. The start is aligned up to the
// row's snap step.
func NextFree(b *board.Board, from time.Time, d time.Duration) (Slot, bool) {
	rows := b.Rows()
	slices.SortFunc(rows, func(x, y *board.Row) int {
		return x.Window().Start.Compare(y.Window().Start)
	})

	for _, row := range rows {
		if !row.Window().End.After(from) {
			continue
		}
		for _, gap := range Free(row) {
			start := alignUp(row.Grid(), maxTime(gap.Start, from))
			if end := start.Add(d); !end.After(gap.End) {
				return Slot{Row: row, Start: start, End: end}, true
			}
		}
	}
	return Slot{}, false
}

// alignUp returns the first grid instant at or after t.
func alignUp(g geometry.SnapGrid, t time.Time) time.Time {
	snapped := g.Snap(t)
	if snapped.Before(t) {
		snapped = snapped.Add(g.Step)
	}
	return snapped
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
