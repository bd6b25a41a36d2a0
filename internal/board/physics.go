package board

const (
	// DefaultMaxStaticTilt is the rotation when grabbing an event at its very edge.
	DefaultMaxStaticTilt = 10.0
	// DefaultMaxTilt caps the velocity-driven rotation.
	DefaultMaxTilt = 15.0

	velocityDecay = 0.8
	velocityGain  = 0.2
	inertiaGain   = 2.0
)

// Physics turns horizontal pointer motion into a damped tilt angle.
type Physics struct {
	lastX    float64
	velocity float64
	maxTilt  float64
}

// NewPhysics returns physics clamped to ±maxTilt degrees.
func NewPhysics(maxTilt float64) Physics {
	if maxTilt <= 0 {
		maxTilt = DefaultMaxTilt
	}
	return Physics{maxTilt: maxTilt}
}

// Reset forgets accumulated velocity and anchors at x.
func (p *Physics) Reset(x float64) {
	p.lastX = x
	p.velocity = 0
}

// Velocity returns the smoothed horizontal velocity.
func (p *Physics) Velocity() float64 {
	return p.velocity
}

// InertiaRotation feeds the pointer position and returns the tilt in degrees.
func (p *Physics) InertiaRotation(x float64) float64 {
	delta := x - p.lastX
	p.lastX = x

	p.velocity = p.velocity*velocityDecay + delta*velocityGain
	rotation := -p.velocity * inertiaGain

	return max(-p.maxTilt, min(p.maxTilt, rotation))
}

// StaticRotation returns the tilt caused by grabbing off-center:
// 0 at the center, ±maxStatic at the edges.
func StaticRotation(grabOffsetX, width, maxStatic float64) float64 {
	if width <= 0 {
		return 0
	}
	center := width / 2
	return (grabOffsetX - center) / center * maxStatic
}
