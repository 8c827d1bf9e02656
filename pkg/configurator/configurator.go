// Package configurator is the interaction core of padforge: it classifies
// the loaded controller into colourable groups, runs the view mode and
// selection state machine, applies palette colours, animates the camera
// between presets, keeps the config in sync with the hosting page and
// captures checkout previews.
//
// Every exported method of Configurator takes the same lock, so callers on
// different goroutines see one event at a time.
package configurator

import (
	"fmt"
	"sync"

	"github.com/chazu/padforge/pkg/scene"
	"github.com/chazu/padforge/pkg/settings"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// Configurator ties the scene, the selection, the config and the camera
// together.
type Configurator struct {
	mu sync.Mutex

	settings settings.Settings
	palette  Palette
	matcher  Matcher
	log      logger.Logger

	painter  MaterialWriter
	store    *Store
	sched    *Scheduler
	animator *Animator
	trigger  *Trigger
	selector *Selector
	applier  *Applier
	snapper  *Snapshotter

	cam   scene.Camera
	orbit *scene.Orbit

	root   *scene.Node
	groups Classification
	mode   ViewMode
	home   *Pose
}

// New returns a configurator in Overview with the camera at the Overview
// preset and no model loaded.
func New(s settings.Settings, log logger.Logger) (*Configurator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	hl, err := colorful.Hex(s.Highlight)
	if err != nil {
		return nil, fmt.Errorf("configurator: highlight %q: %w", s.Highlight, err)
	}

	overview := PoseFrom(s.Camera.Overview)
	c := &Configurator{
		settings: s,
		palette:  DefaultPalette(),
		matcher:  NewMatcher(s.Classifier.Tokens),
		log:      log,
		painter:  scene.NewPainter(hl),
		store:    NewStore(),
		sched:    NewScheduler(),
		cam:      scene.NewCamera(overview.Position, overview.Target, s.Camera.FOV),
		orbit:    scene.NewOrbit(overview.Target),
		snapper:  NewSnapshotter(s.Snapshot),
	}
	c.orbit.Enabled = s.Camera.OrbitEnabled
	c.animator = NewAnimator(c.sched, &c.cam, s.Camera.DurationMs)
	c.selector = NewSelector(c.painter)
	c.applier = NewApplier(c.palette, c.painter, c.store)
	var clip scene.Clip
	if s.ButtonClip != "" {
		clip = scene.PressClip(s.ButtonClip)
	}
	c.trigger = NewTrigger(c.sched, clip)
	return c, nil
}

// Subscribe registers fn to receive the whole config on every commit. fn
// runs with the configurator locked and must not call back into it.
func (c *Configurator) Subscribe(fn func(Config)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Subscribe(fn)
}

// Sync posts a configUpdate message to p on every commit.
func (c *Configurator) Sync(p Poster) {
	c.mu.Lock()
	defer c.mu.Unlock()
	Sync(c.store, p)
}

// Loaded is the completion callback of the model loader. On success the
// model is classified and the initial config committed once. On failure
// the error is logged and the current model is kept.
//
// A new model drops the selection and stops running clips, since both refer
// to nodes of the previous scene. The view mode and camera are kept; in
// Chasis mode the new chassis is selected as on entering the mode.
func (c *Configurator) Loaded(root *scene.Node, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.log.Error(fmt.Sprintf("load: %v", err))
		return
	}
	if root == nil {
		c.log.Error("load: no scene")
		return
	}

	c.selector.Clear()
	for _, n := range c.groups.Buttons {
		c.sched.Cancel(clipSlot(n))
	}

	c.root = root
	groups, cfg := Classify(root, c.painter, ClassifyOptions{
		Matcher:       c.matcher,
		KnobThreshold: c.settings.Classifier.KnobBrightnessThreshold,
		Palette:       c.palette,
		Defaults:      DefaultColors,
	})
	c.groups = groups
	c.log.Info(fmt.Sprintf("classify: %d chasis, %d buttons, %d knobs",
		len(groups.Chasis), len(groups.Buttons), len(groups.Knobs)))
	c.store.Reset(cfg)

	if c.mode == ModeChasis && len(groups.Chasis) > 0 {
		c.selector.Select(groups.Chasis[0])
	}
}

// Click hit-tests the pointer at normalized device coordinates (x, y)
// against the active group and updates the selection. It returns the name
// of the node hit, or "" on a miss or in Overview.
func (c *Configurator) Click(x, y float64, shift bool) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.mode.Group()
	if !ok {
		c.log.Debug("click: ignored in overview")
		return ""
	}
	hit, ok := scene.Raycast(c.cam.RayFromNDC(x, y), c.groups.Nodes(g))
	if !ok {
		c.selector.Clear()
		return ""
	}
	c.pick(hit.Node, shift)
	return hit.Node.Name
}

// pick applies a hit to the selection.
func (c *Configurator) pick(n *scene.Node, shift bool) {
	if c.mode == ModeButtons && shift {
		wasEmpty := c.selector.Len() == 0
		c.selector.Toggle(n)
		if !wasEmpty || c.selector.Len() != 1 {
			return
		}
		// First shift-click behaves as a plain click.
	}
	c.selector.Select(n)
	if c.mode == ModeButtons {
		c.trigger.Play(n)
	}
}

// ClickNode selects a node by name as if it had been clicked. Names
// outside the active group are ignored.
func (c *Configurator) ClickNode(name string, shift bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.mode.Group()
	if !ok {
		return false
	}
	for _, n := range c.groups.Nodes(g) {
		if n.Name == name {
			c.pick(n, shift)
			return true
		}
	}
	return false
}

// Apply paints the selection of the active group with palette colour name.
// No selection is a silent no-op. In Buttons mode a multi-node apply also
// clears the selection.
func (c *Configurator) Apply(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.mode.Group()
	if !ok {
		c.log.Debug("apply: ignored in overview")
		return nil
	}
	nodes := c.selector.Nodes()
	if _, err := c.applier.Apply(nodes, g, name); err != nil {
		return err
	}
	if len(nodes) == 0 {
		c.log.Debug("apply: nothing selected")
		return nil
	}
	if c.mode == ModeButtons && len(nodes) > 1 {
		c.selector.Clear()
	}
	return nil
}

// Tick advances camera moves and clips by dt seconds. Call it once per
// rendered frame.
func (c *Configurator) Tick(dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sched.Tick(dt)
}

// Orbit rotates the camera about the orbit target when orbit is enabled.
func (c *Configurator) Orbit(yaw, pitch float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.animator.Busy() {
		return false
	}
	return c.orbit.Rotate(&c.cam, yaw, pitch)
}

// Zoom scales the orbit distance when orbit is enabled.
func (c *Configurator) Zoom(factor float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.animator.Busy() {
		return false
	}
	return c.orbit.Zoom(&c.cam, factor)
}

// SetAspect updates the viewport aspect ratio used for hit-testing.
func (c *Configurator) SetAspect(aspect float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect > 0 {
		c.cam.Aspect = aspect
	}
}

// Capture renders the catalog preview PNG. The camera is restored exactly.
func (c *Configurator) Capture() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapper.Capture(c.root, &c.cam)
}

// Config returns a copy of the current config.
func (c *Configurator) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Get()
}

// Mode returns the current view mode.
func (c *Configurator) Mode() ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Selection returns the selected node names.
func (c *Configurator) Selection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selector.Names()
}

// Camera returns a copy of the camera.
func (c *Configurator) Camera() scene.Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cam
}

// OrbitEnabled reports whether free orbit is on.
func (c *Configurator) OrbitEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orbit.Enabled
}

// Animating reports whether a camera move is in flight.
func (c *Configurator) Animating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.animator.Busy()
}

// Groups returns the classification.
func (c *Configurator) Groups() Classification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.groups
}

// Palette returns the swatches of group g.
func (c *Configurator) Palette(g Group) []Swatch {
	return c.palette.Swatches(g)
}

// NodeState is the visual state of one drawable node.
type NodeState struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Emissive    string `json:"emissive"`
	Highlighted bool   `json:"highlighted"`
	Offset      v3.Vec `json:"offset"`
}

// Nodes returns the visual state of every drawable node in scene order.
func (c *Configurator) Nodes() []NodeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.root == nil {
		return nil
	}
	var out []NodeState
	for _, n := range c.root.Drawables() {
		st := NodeState{Name: n.Name, Highlighted: n.Highlighted(), Offset: n.WorldOffset()}
		if m, ok := n.Material(); ok {
			if col, ok := m.Color(); ok {
				st.Color = col.Hex()
			}
			st.Emissive = m.Emissive().Hex()
		}
		out = append(out, st)
	}
	return out
}

// Root returns the loaded scene root, or nil.
func (c *Configurator) Root() *scene.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}
