package configurator

import "github.com/chazu/padforge/pkg/scene"

// Trigger plays the button clip on activated nodes. A trigger without a
// clip name is disabled.
type Trigger struct {
	sched *Scheduler
	clip  scene.Clip
}

// NewTrigger returns a trigger playing clip through sched.
func NewTrigger(sched *Scheduler, clip scene.Clip) *Trigger {
	return &Trigger{sched: sched, clip: clip}
}

// Enabled reports whether a clip is configured.
func (t *Trigger) Enabled() bool {
	return t.clip.Name != ""
}

// Play starts the clip on n. Replaying a node restarts its clip.
func (t *Trigger) Play(n *scene.Node) bool {
	if !t.Enabled() || n == nil {
		return false
	}
	t.sched.Start(clipSlot(n), t.clip.Play(n))
	return true
}

func clipSlot(n *scene.Node) string {
	return "clip:" + n.Name
}
