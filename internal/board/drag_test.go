package board

import (
	"errors"
	"testing"
	"time"
)

func TestDragSession_Lifecycle(t *testing.T) {
	d := NewDragSession(DefaultMaxStaticTilt, DefaultMaxTilt)
	if d.Active() {
		t.Fatal("new session should be idle")
	}

	payload := DragPayload{EventID: "a", SourceRowID: "mon", Duration: time.Hour}
	origin := Rect{X: 100, Y: 10, W: 80, H: 4}
	if err := d.Start(payload, origin, 120, 12); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	got, ok := d.Payload()
	if !ok {
		t.Fatal("Payload() should be available while active")
	}
	if got.GrabOffsetX != 20 || got.GrabOffsetY != 2 {
		t.Errorf("grab offset = (%v, %v), want (20, 2)", got.GrabOffsetX, got.GrabOffsetY)
	}

	// grab at x=20 of 80 is halfway to the left edge.
	if d.BaseRotation() != -5 {
		t.Errorf("BaseRotation() = %v, want -5", d.BaseRotation())
	}

	d.Update("09:00 - 10:00", 150, 20)
	proxy, _ := d.Proxy()
	if proxy.Left != 130 || proxy.Top != 18 {
		t.Errorf("proxy at (%v, %v), want (130, 18)", proxy.Left, proxy.Top)
	}
	if proxy.Width != 80 || proxy.Height != 4 {
		t.Errorf("proxy size = %vx%v, want 80x4", proxy.Width, proxy.Height)
	}
	if proxy.Label != "09:00 - 10:00" {
		t.Errorf("proxy label = %q", proxy.Label)
	}

	d.Update("", 150, 20)
	proxy, _ = d.Proxy()
	if proxy.Label != "09:00 - 10:00" {
		t.Errorf("empty label should keep previous one, got %q", proxy.Label)
	}

	d.Stop()
	if d.Active() {
		t.Error("session should be idle after Stop")
	}
	if _, ok := d.Payload(); ok {
		t.Error("payload should be cleared after Stop")
	}
}

func TestDragSession_StartWhileActive(t *testing.T) {
	d := NewDragSession(DefaultMaxStaticTilt, DefaultMaxTilt)
	origin := Rect{W: 10, H: 1}
	if err := d.Start(DragPayload{EventID: "a"}, origin, 5, 0); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	err := d.Start(DragPayload{EventID: "b"}, origin, 5, 0)
	if !errors.Is(err, ErrDragActive) {
		t.Errorf("second Start() error = %v, want ErrDragActive", err)
	}
	if p, _ := d.Payload(); p.EventID != "a" {
		t.Errorf("payload replaced by failed Start: %q", p.EventID)
	}
}

func TestDragSession_RotationCombinesStaticAndInertia(t *testing.T) {
	d := NewDragSession(DefaultMaxStaticTilt, DefaultMaxTilt)
	origin := Rect{X: 0, W: 100, H: 1}
	if err := d.Start(DragPayload{EventID: "a"}, origin, 100, 0); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	proxy, _ := d.Proxy()
	if proxy.Rotation != 10 {
		t.Errorf("rotation at rest = %v, want 10", proxy.Rotation)
	}

	d.Update("", 110, 0)
	proxy, _ = d.Proxy()
	if proxy.Rotation != 6 {
		t.Errorf("rotation after moving right = %v, want 6", proxy.Rotation)
	}
}

func TestDragSession_UpdateWhenIdle(t *testing.T) {
	d := NewDragSession(DefaultMaxStaticTilt, DefaultMaxTilt)
	d.Update("label", 10, 10)

	if _, ok := d.Proxy(); ok {
		t.Error("Update should not activate an idle session")
	}
	d.Stop()
}
