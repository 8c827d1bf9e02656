package configurator

import (
	"github.com/chazu/padforge/pkg/scene"
	"github.com/chazu/padforge/pkg/settings"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// cameraSlot is the scheduler slot camera moves run in.
const cameraSlot = "camera"

// Pose is a camera position and look-at target.
type Pose struct {
	Position v3.Vec `json:"position"`
	Target   v3.Vec `json:"target"`
}

// PoseOf returns the current pose of cam.
func PoseOf(cam scene.Camera) Pose {
	return Pose{Position: cam.Position, Target: cam.Target}
}

// PoseFrom converts a settings pose.
func PoseFrom(p settings.Pose) Pose {
	return Pose{
		Position: v3.Vec{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]},
		Target:   v3.Vec{X: p.Target[0], Y: p.Target[1], Z: p.Target[2]},
	}
}

// cameraMove eases a camera from one pose to another.
type cameraMove struct {
	cam    *scene.Camera
	from   Pose
	to     Pose
	tween  *gween.Tween
	onDone func(Pose)
}

// Tick advances the move. The last tick writes the destination exactly so
// float rounding in the easing never leaves the camera short.
func (m *cameraMove) Tick(dt float64) bool {
	eased, finished := m.tween.Update(float32(dt))
	if finished {
		m.cam.Position = m.to.Position
		m.cam.Target = m.to.Target
		if m.onDone != nil {
			m.onDone(m.to)
		}
		return true
	}
	e := float64(eased)
	m.cam.Position = lerp(m.from.Position, m.to.Position, e)
	m.cam.Target = lerp(m.from.Target, m.to.Target, e)
	return false
}

func lerp(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

// Animator moves the camera between presets with an ease-out cubic curve.
type Animator struct {
	sched    *Scheduler
	cam      *scene.Camera
	duration float32 // seconds
}

// NewAnimator returns an animator driving cam through sched.
func NewAnimator(sched *Scheduler, cam *scene.Camera, durationMs float64) *Animator {
	return &Animator{sched: sched, cam: cam, duration: float32(durationMs / 1000)}
}

// AnimateTo starts a move from the camera's current pose to p, replacing
// any move in flight. onDone runs once, after the camera reaches p.
func (a *Animator) AnimateTo(p Pose, onDone func(Pose)) {
	a.sched.Start(cameraSlot, &cameraMove{
		cam:    a.cam,
		from:   PoseOf(*a.cam),
		to:     p,
		tween:  gween.New(0, 1, a.duration, ease.OutCubic),
		onDone: onDone,
	})
}

// Busy reports whether a move is in flight.
func (a *Animator) Busy() bool {
	return a.sched.Active(cameraSlot)
}
