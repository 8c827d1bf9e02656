package scene

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Clip is a named keyframe-free animation that displaces a node along
// Travel and back again.
type Clip struct {
	Name     string
	Travel   v3.Vec
	Duration float32 // seconds, split evenly between press and release
}

// PressClip is the button press used by the controller layout: a short dip
// into the chassis and back.
func PressClip(name string) Clip {
	return Clip{Name: name, Travel: v3.Vec{X: 0, Y: -2.5, Z: 0}, Duration: 0.24}
}

// Playback is one running instance of a clip on a node.
type Playback struct {
	node    *Node
	travel  v3.Vec
	half    float64
	pressed float64
	down    *gween.Tween
	up      *gween.Tween
	done    bool
}

// Play starts the clip on n from rest. A node already mid-clip restarts
// from rest.
func (c Clip) Play(n *Node) *Playback {
	half := c.Duration / 2
	n.offset = v3.Vec{}
	return &Playback{
		node:   n,
		travel: c.Travel,
		half:   float64(half),
		down:   gween.New(0, 1, half, ease.OutQuad),
		up:     gween.New(1, 0, half, ease.InQuad),
	}
}

// Tick advances the playback by dt seconds and reports whether it ended.
// The node is always back at rest once Tick returns true.
func (p *Playback) Tick(dt float64) bool {
	if p.done {
		return true
	}
	if p.pressed < p.half {
		p.pressed += dt
		if p.pressed < p.half {
			frac, _ := p.down.Update(float32(dt))
			p.node.offset = p.travel.MulScalar(float64(frac))
			return false
		}
		// Only the time past the end of the press goes to the release.
		dt = p.pressed - p.half
	}
	frac, finished := p.up.Update(float32(dt))
	if finished {
		p.node.offset = v3.Vec{}
		p.done = true
		return true
	}
	p.node.offset = p.travel.MulScalar(float64(frac))
	return false
}

// Stop returns the node to rest immediately.
func (p *Playback) Stop() {
	p.node.offset = v3.Vec{}
	p.done = true
}
