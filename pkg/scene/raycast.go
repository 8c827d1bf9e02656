package scene

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

const rayEpsilon = 1e-9

// Hit is the nearest intersection found by Raycast.
type Hit struct {
	Node     *Node
	Distance float64
}

// Raycast intersects ray with the meshes of candidates only and returns the
// nearest hit. Nodes outside candidates are never considered, even when
// they would occlude.
func Raycast(ray Ray, candidates []*Node) (Hit, bool) {
	best := Hit{Distance: math.Inf(1)}
	for _, n := range candidates {
		if n == nil || n.Mesh == nil {
			continue
		}
		off := n.WorldOffset()
		m := n.Mesh
		for t := 0; t < m.TriangleCount(); t++ {
			a, b, c := m.Triangle(t)
			d, ok := intersect(ray, toVec(a).Add(off), toVec(b).Add(off), toVec(c).Add(off))
			if ok && d < best.Distance {
				best = Hit{Node: n, Distance: d}
			}
		}
	}
	return best, best.Node != nil
}

// intersect is the Möller–Trumbore ray/triangle test. Both faces count.
func intersect(ray Ray, a, b, c v3.Vec) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := ray.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < rayEpsilon {
		return 0, false
	}
	inv := 1 / det
	s := ray.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := ray.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}

func toVec(p [3]float64) v3.Vec {
	return v3.Vec{X: p[0], Y: p[1], Z: p[2]}
}
