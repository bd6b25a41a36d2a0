// Package geometry maps a row's time window onto normalized horizontal space
// and quantizes instants to a fixed grid.
package geometry

import (
	"errors"
	"fmt"
	"time"
)

// Geometry errors.
var (
	ErrDegenerateWindow      = errors.New("time window end must be after start")
	ErrInvalidHeaderFraction = errors.New("header fraction must be in [0, 1)")
	ErrInvalidStep           = errors.New("snap step must be positive")
)

// TimeWindow is the [Start, End) range of time a row displays.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// NewTimeWindow returns a validated window.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !end.After(start) {
		return TimeWindow{}, fmt.Errorf("%w: %s - %s", ErrDegenerateWindow,
			start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))
	}
	return TimeWindow{Start: start, End: end}, nil
}

// Duration returns the length of the window.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t falls inside [Start, End].
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
