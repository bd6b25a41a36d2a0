package board

import "time"

// DragPayload is everything a drop needs to rebuild the dragged event.
type DragPayload struct {
	EventID       string
	SourceRowID   string
	WidthFraction float64
	Duration      time.Duration
	TagID         string
	Title         string
	Details       string
	GrabOffsetX   float64
	GrabOffsetY   float64
}

// Proxy is the floating copy of the dragged event, in host coordinates.
type Proxy struct {
	Left     float64
	Top      float64
	Width    float64
	Height   float64
	Rotation float64 // degrees: static grab tilt plus inertial tilt
	Label    string
}

// DragSession owns the single in-flight move gesture.
// Every Start must be paired with exactly one Stop.
type DragSession struct {
	active       bool
	payload      DragPayload
	physics      Physics
	maxStatic    float64
	baseRotation float64
	proxy        Proxy
}

// NewDragSession creates an idle session.
func NewDragSession(maxStaticTilt, maxTilt float64) *DragSession {
	if maxStaticTilt < 0 {
		maxStaticTilt = DefaultMaxStaticTilt
	}
	return &DragSession{
		physics:   NewPhysics(maxTilt),
		maxStatic: maxStaticTilt,
	}
}

// Start begins a gesture. origin is the grabbed element's box; the pointer
// offset inside it is recorded in the payload.
func (d *DragSession) Start(payload DragPayload, origin Rect, pointerX, pointerY float64) error {
	if d.active {
		return ErrDragActive
	}

	payload.GrabOffsetX = pointerX - origin.X
	payload.GrabOffsetY = pointerY - origin.Y

	d.active = true
	d.payload = payload
	d.physics.Reset(pointerX)
	d.baseRotation = StaticRotation(payload.GrabOffsetX, origin.W, d.maxStatic)
	d.proxy = Proxy{Width: origin.W, Height: origin.H}

	d.Update("", pointerX, pointerY)
	return nil
}

// Update moves the proxy so the grab point stays under the pointer and
// recomputes its tilt. An empty label keeps the current one.
func (d *DragSession) Update(label string, pointerX, pointerY float64) {
	if !d.active {
		return
	}
	d.proxy.Left = pointerX - d.payload.GrabOffsetX
	d.proxy.Top = pointerY - d.payload.GrabOffsetY
	d.proxy.Rotation = d.baseRotation + d.physics.InertiaRotation(pointerX)
	if label != "" {
		d.proxy.Label = label
	}
}

// Stop discards the proxy and payload. Safe to call when idle.
func (d *DragSession) Stop() {
	d.active = false
	d.payload = DragPayload{}
	d.proxy = Proxy{}
	d.baseRotation = 0
}

// Active reports whether a gesture is in progress.
func (d *DragSession) Active() bool {
	return d.active
}

// Payload returns the in-flight payload.
func (d *DragSession) Payload() (DragPayload, bool) {
	return d.payload, d.active
}

// Proxy returns the current proxy state.
func (d *DragSession) Proxy() (Proxy, bool) {
	return d.proxy, d.active
}

// BaseRotation returns the static grab tilt of the current gesture.
func (d *DragSession) BaseRotation() float64 {
	return d.baseRotation
}
