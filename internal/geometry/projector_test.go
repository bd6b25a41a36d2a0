package geometry

import (
	"errors"
	"math"
	"testing"
	"time"
)

func clock(h, m int) time.Time {
	return time.Date(2030, 1, 7, h, m, 0, 0, time.UTC)
}

func mustProjector(t *testing.T, start, end time.Time, header float64) Projector {
	t.Helper()
	w, err := NewTimeWindow(start, end)
	if err != nil {
		t.Fatalf("NewTimeWindow: %v", err)
	}
	p, err := NewProjector(w, header)
	if err != nil {
		t.Fatalf("NewProjector: %v", err)
	}
	return p
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewTimeWindow_RejectsDegenerate(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"equal", clock(8, 0), clock(8, 0)},
		{"reversed", clock(12, 0), clock(8, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTimeWindow(tc.start, tc.end)
			if !errors.Is(err, ErrDegenerateWindow) {
				t.Errorf("expected ErrDegenerateWindow, got %v", err)
			}
		})
	}
}

func TestNewProjector_RejectsHeaderFraction(t *testing.T) {
	w, _ := NewTimeWindow(clock(8, 0), clock(12, 0))
	for _, h := range []float64{-0.1, 1, 1.5} {
		if _, err := NewProjector(w, h); !errors.Is(err, ErrInvalidHeaderFraction) {
			t.Errorf("header %v: expected ErrInvalidHeaderFraction, got %v", h, err)
		}
	}
	if _, err := NewProjector(w, 0); err != nil {
		t.Errorf("header 0 should be valid, got %v", err)
	}
}

func TestTimeToGeometry_MorningWindow(t *testing.T) {
	p := mustProjector(t, clock(8, 0), clock(12, 0), 0.05)

	g := p.TimeToGeometry(clock(8, 0), clock(9, 0))
	if !almostEqual(g.X, 0.05) {
		t.Errorf("x = %v, want 0.05", g.X)
	}
	if !almostEqual(g.W, 0.2375) {
		t.Errorf("w = %v, want 0.2375", g.W)
	}

	g = p.TimeToGeometry(clock(10, 0), clock(12, 0))
	if !almostEqual(g.X, 0.05+0.5*0.95) {
		t.Errorf("x = %v, want %v", g.X, 0.05+0.5*0.95)
	}
	if !almostEqual(g.Right(), 1) {
		t.Errorf("right edge = %v, want 1", g.Right())
	}
}

func TestTimeToGeometry_OutsideWindowIsNotClamped(t *testing.T) {
	p := mustProjector(t, clock(8, 0), clock(12, 0), 0.05)

	g := p.TimeToGeometry(clock(7, 0), clock(8, 0))
	if g.X >= 0.05 {
		t.Errorf("event before window should project left of the header edge, got x=%v", g.X)
	}
	g = p.TimeToGeometry(clock(12, 0), clock(13, 0))
	if g.X < 1 {
		t.Errorf("event after window should project past the right edge, got x=%v", g.X)
	}
}

func TestVisualXToTime_Clamps(t *testing.T) {
	p := mustProjector(t, clock(8, 0), clock(12, 0), 0.05)

	tests := []struct {
		name string
		x    float64
		want time.Time
	}{
		{"inside header", 0.01, clock(8, 0)},
		{"negative", -3, clock(8, 0)},
		{"header edge", 0.05, clock(8, 0)},
		{"midpoint", 0.05 + 0.95/2, clock(10, 0)},
		{"right edge", 1, clock(12, 0)},
		{"past right edge", 4, clock(12, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := p.VisualXToTime(tc.x)
			if d := got.Sub(tc.want); d > time.Millisecond || d < -time.Millisecond {
				t.Errorf("VisualXToTime(%v) = %s, want %s", tc.x, got.Format("15:04:05.000"), tc.want.Format("15:04:05.000"))
			}
		})
	}
}

func TestProjection_RoundTrip(t *testing.T) {
	windows := []struct {
		start, end time.Time
		header     float64
	}{
		{clock(8, 0), clock(12, 0), 0.05},
		{clock(6, 0), clock(22, 0), 0.05},
		{clock(0, 0), clock(23, 59), 0},
		{clock(9, 30), clock(17, 45), 0.2},
	}
	for _, w := range windows {
		p := mustProjector(t, w.start, w.end, w.header)
		total := w.end.Sub(w.start)
		for i := 0; i <= 100; i++ {
			at := w.start.Add(time.Duration(int64(total) * int64(i) / 100)).Truncate(time.Millisecond)
			g := p.TimeToGeometry(at, at.Add(5*time.Minute))
			back := p.VisualXToTime(g.X)
			if d := back.Sub(at); d > time.Millisecond || d < -time.Millisecond {
				t.Fatalf("round trip drifted by %s at %s", d, at.Format("15:04:05.000"))
			}
		}
	}
}

func TestGeometryToRange(t *testing.T) {
	p := mustProjector(t, clock(8, 0), clock(12, 0), 0.05)
	g := p.TimeToGeometry(clock(9, 0), clock(10, 30))
	start, end := p.GeometryToRange(g)
	if d := start.Sub(clock(9, 0)); d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("start = %s, want 09:00", start.Format("15:04:05.000"))
	}
	if d := end.Sub(clock(10, 30)); d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("end = %s, want 10:30", end.Format("15:04:05.000"))
	}
}
