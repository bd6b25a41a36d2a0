package geometry

import (
	"fmt"
	"time"
)

// DefaultSnapStep is the default grid step.
const DefaultSnapStep = 10 * time.Minute

// SnapGrid quantizes instants to the nearest multiple of Step,
// measured in Unix milliseconds. Ties round up.
type SnapGrid struct {
	Step time.Duration
}

// NewSnapGrid returns a grid with the given step.
func NewSnapGrid(step time.Duration) (SnapGrid, error) {
	if step < time.Millisecond {
		return SnapGrid{}, fmt.Errorf("%w: got %s", ErrInvalidStep, step)
	}
	return SnapGrid{Step: step}, nil
}

// Snap rounds t to the nearest grid line, keeping t's location.
func (g SnapGrid) Snap(t time.Time) time.Time {
	step := g.stepMillis()
	ms := t.UnixMilli()
	snapped := floorDiv(ms+step/2, step) * step
	return time.UnixMilli(snapped).In(t.Location())
}

func (g SnapGrid) stepMillis() int64 {
	step := g.Step.Milliseconds()
	if step <= 0 {
		return DefaultSnapStep.Milliseconds()
	}
	return step
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
