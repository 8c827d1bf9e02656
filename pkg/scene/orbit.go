package scene

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	minPolar = 0.01
	maxPolar = math.Pi - 0.01
)

// Orbit rotates and zooms a camera about a target point while enabled.
type Orbit struct {
	Enabled     bool
	Target      v3.Vec
	MinDistance float64
	MaxDistance float64
}

// NewOrbit returns an enabled orbit controller about target.
func NewOrbit(target v3.Vec) *Orbit {
	return &Orbit{Enabled: true, Target: target, MinDistance: 50, MaxDistance: 2000}
}

// SetTarget moves the orbit centre.
func (o *Orbit) SetTarget(t v3.Vec) {
	o.Target = t
}

// Rotate turns the camera about the orbit target by yaw (around world up)
// and pitch (towards or away from the pole), both in radians. It returns
// false and leaves cam untouched when the orbit is disabled.
func (o *Orbit) Rotate(cam *Camera, yaw, pitch float64) bool {
	if !o.Enabled {
		return false
	}
	off := cam.Position.Sub(o.Target)
	r := off.Length()
	if r == 0 {
		return false
	}
	theta := math.Atan2(off.X, off.Z) + yaw
	phi := math.Acos(clamp(off.Y/r, -1, 1)) - pitch
	phi = clamp(phi, minPolar, maxPolar)

	cam.Position = o.Target.Add(spherical(r, theta, phi))
	cam.Target = o.Target
	return true
}

// Zoom scales the camera distance to the target by factor, clamped to the
// orbit's distance limits. Factors below one move closer.
func (o *Orbit) Zoom(cam *Camera, factor float64) bool {
	if !o.Enabled || factor <= 0 {
		return false
	}
	off := cam.Position.Sub(o.Target)
	r := off.Length()
	if r == 0 {
		return false
	}
	nr := r * factor
	if o.MinDistance > 0 {
		nr = math.Max(nr, o.MinDistance)
	}
	if o.MaxDistance > 0 {
		nr = math.Min(nr, o.MaxDistance)
	}
	cam.Position = o.Target.Add(off.MulScalar(nr / r))
	cam.Target = o.Target
	return true
}

func spherical(r, theta, phi float64) v3.Vec {
	s := math.Sin(phi)
	return v3.Vec{
		X: r * s * math.Sin(theta),
		Y: r * math.Cos(phi),
		Z: r * s * math.Cos(theta),
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
