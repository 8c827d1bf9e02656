package scene

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultUp is the world up direction.
var DefaultUp = v3.Vec{X: 0, Y: 1, Z: 0}

// Camera is a perspective camera looking from Position at Target.
// FOV is the vertical field of view in degrees.
type Camera struct {
	Position v3.Vec
	Target   v3.Vec
	Up       v3.Vec
	FOV      float64
	Aspect   float64
	Near     float64
}

// NewCamera returns a camera with the default up vector and a 4:3 aspect.
func NewCamera(position, target v3.Vec, fov float64) Camera {
	return Camera{
		Position: position,
		Target:   target,
		Up:       DefaultUp,
		FOV:      fov,
		Aspect:   4.0 / 3.0,
		Near:     0.1,
	}
}

// Ray is a half-line used for hit-testing.
type Ray struct {
	Origin v3.Vec
	Dir    v3.Vec // unit length
}

// basis returns the camera's forward, right and up unit vectors.
func (c Camera) basis() (f, r, u v3.Vec) {
	f = c.Target.Sub(c.Position).Normalize()
	up := c.Up
	if up == (v3.Vec{}) {
		up = DefaultUp
	}
	r = f.Cross(up)
	if r.Length() < 1e-9 {
		// Looking straight along up; pick any perpendicular.
		r = f.Cross(v3.Vec{X: 0, Y: 0, Z: 1})
	}
	r = r.Normalize()
	u = r.Cross(f)
	return f, r, u
}

func (c Camera) halfHeight() float64 {
	return math.Tan(c.FOV * math.Pi / 360)
}

func (c Camera) aspect() float64 {
	if c.Aspect <= 0 {
		return 1
	}
	return c.Aspect
}

// RayFromNDC returns the ray through the normalized device coordinate
// (x, y), each in [-1, 1] with y pointing up.
func (c Camera) RayFromNDC(x, y float64) Ray {
	f, r, u := c.basis()
	h := c.halfHeight()
	w := h * c.aspect()
	dir := f.Add(r.MulScalar(x * w)).Add(u.MulScalar(y * h))
	return Ray{Origin: c.Position, Dir: dir.Normalize()}
}

// Project maps a world point to normalized device coordinates and its
// distance along the view direction. ok is false for points at or behind
// the near plane.
func (c Camera) Project(p v3.Vec) (x, y, depth float64, ok bool) {
	f, r, u := c.basis()
	d := p.Sub(c.Position)
	depth = d.Dot(f)
	near := c.Near
	if near <= 0 {
		near = 0.1
	}
	if depth <= near {
		return 0, 0, depth, false
	}
	h := c.halfHeight()
	w := h * c.aspect()
	x = d.Dot(r) / (depth * w)
	y = d.Dot(u) / (depth * h)
	return x, y, depth, true
}
