package geometry

import (
	"fmt"
	"time"
)

// DefaultHeaderFraction is the share of a row's width reserved for its label.
const DefaultHeaderFraction = 0.05

// Geometry is a normalized horizontal placement inside a row.
// X is the left edge and W the width, both as fractions of the row width.
type Geometry struct {
	X float64
	W float64
}

// Right returns the right edge fraction.
func (g Geometry) Right() float64 {
	return g.X + g.W
}

// Projector converts between instants and horizontal fractions of a row.
// The first HeaderFraction of the row is reserved and maps to no time.
type Projector struct {
	window TimeWindow
	header float64
}

// NewProjector creates a projector for the given window and header fraction.
func NewProjector(window TimeWindow, headerFraction float64) (Projector, error) {
	if !window.End.After(window.Start) {
		return Projector{}, ErrDegenerateWindow
	}
	if headerFraction < 0 || headerFraction >= 1 {
		return Projector{}, fmt.Errorf("%w: got %v", ErrInvalidHeaderFraction, headerFraction)
	}
	return Projector{window: window, header: headerFraction}, nil
}

// Window returns the projected time window.
func (p Projector) Window() TimeWindow {
	return p.window
}

// HeaderFraction returns the reserved header share.
func (p Projector) HeaderFraction() float64 {
	return p.header
}

// available is the share of the row that represents time.
func (p Projector) available() float64 {
	return 1 - p.header
}

// TimeToGeometry projects [start, end) onto the row.
// No clamping is applied: ranges outside the window project outside the band.
func (p Projector) TimeToGeometry(start, end time.Time) Geometry {
	total := float64(p.window.Duration())
	ratioStart := float64(start.Sub(p.window.Start)) / total
	ratioDuration := float64(end.Sub(start)) / total

	return Geometry{
		X: p.header + ratioStart*p.available(),
		W: ratioDuration * p.available(),
	}
}

// VisualXToTime maps a horizontal fraction back to an instant.
// Pointer positions are unbounded, so the result is clamped to the window.
func (p Projector) VisualXToTime(x float64) time.Time {
	timeArea := max(0, x-p.header)
	ratio := min(1, timeArea/p.available())
	offset := time.Duration(ratio * float64(p.window.Duration()))
	return p.window.Start.Add(offset)
}

// GeometryToRange maps both edges of g back to instants.
func (p Projector) GeometryToRange(g Geometry) (start, end time.Time) {
	return p.VisualXToTime(g.X), p.VisualXToTime(g.Right())
}
