package configurator

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/chazu/padforge/pkg/kernel"
	"github.com/chazu/padforge/pkg/scene"
	"github.com/chazu/padforge/pkg/settings"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// testLogger is a logger.Logger that records messages.
type testLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *testLogger) add(level, m string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, level+" "+m)
}

func (l *testLogger) Print(m string)   { l.add("PRINT", m) }
func (l *testLogger) Trace(m string)   { l.add("TRACE", m) }
func (l *testLogger) Debug(m string)   { l.add("DEBUG", m) }
func (l *testLogger) Info(m string)    { l.add("INFO", m) }
func (l *testLogger) Warning(m string) { l.add("WARNING", m) }
func (l *testLogger) Error(m string)   { l.add("ERROR", m) }
func (l *testLogger) Fatal(m string)   { l.add("FATAL", m) }

func (l *testLogger) has(prefix string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.msgs {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

// boxMesh builds an axis-aligned box mesh.
func boxMesh(min, max [3]float64) *kernel.Mesh {
	m := &kernel.Mesh{}
	for i := 0; i < 8; i++ {
		p := min
		if i&1 != 0 {
			p[0] = max[0]
		}
		if i&2 != 0 {
			p[1] = max[1]
		}
		if i&4 != 0 {
			p[2] = max[2]
		}
		m.Vertices = append(m.Vertices, float32(p[0]), float32(p[1]), float32(p[2]))
		m.Normals = append(m.Normals, 0, 1, 0)
	}
	for _, f := range [][4]int{{0, 1, 3, 2}, {4, 5, 7, 6}, {0, 1, 5, 4}, {2, 3, 7, 6}, {0, 2, 6, 4}, {1, 3, 7, 5}} {
		m.Indices = append(m.Indices,
			uint32(f[0]), uint32(f[1]), uint32(f[2]),
			uint32(f[0]), uint32(f[2]), uint32(f[3]))
	}
	return m
}

// part builds a drawable box node. An empty hex gives a node without a
// material.
func part(name, hex string, min, max [3]float64) *scene.Node {
	if hex == "" {
		return scene.NewMesh(name, boxMesh(min, max), nil)
	}
	m, err := scene.ParseMaterial(hex, 0, 0.5)
	if err != nil {
		panic(err)
	}
	return scene.NewMesh(name, boxMesh(min, max), &m)
}

// controllerScene is the four-node controller: a dark chassis, two light
// buttons and one dark knob.
func controllerScene() *scene.Node {
	return scene.NewGroup("controller",
		part("CubeChasis", "#333333", [3]float64{0, 0, 0}, [3]float64{300, 30, 200}),
		scene.NewGroup("buttons",
			part("Boton_1", "#f0f0f0", [3]float64{40, 30, 40}, [3]float64{60, 36, 60}),
			part("Boton_2", "#f0f0f0", [3]float64{80, 30, 40}, [3]float64{100, 36, 60}),
		),
		part("Knob_A", "#202020", [3]float64{200, 30, 100}, [3]float64{220, 48, 120}),
	)
}

func defaultOptions() ClassifyOptions {
	s := settings.Default()
	return ClassifyOptions{
		Matcher:       NewMatcher(s.Classifier.Tokens),
		KnobThreshold: s.Classifier.KnobBrightnessThreshold,
		Palette:       DefaultPalette(),
		Defaults:      DefaultColors,
	}
}

// newLoaded returns a configurator with controllerScene loaded.
func newLoaded(t *testing.T) (*Configurator, *testLogger) {
	t.Helper()
	log := &testLogger{}
	c, err := New(settings.Default(), log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Loaded(controllerScene(), nil)
	return c, log
}

// settle ticks until no camera move or clip is running.
func settle(t *testing.T, c *Configurator) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		c.Tick(1.0 / 60)
		c.mu.Lock()
		idle := c.sched.Len() == 0
		c.mu.Unlock()
		if idle {
			return
		}
	}
	t.Fatal("scheduler never went idle")
}

// ndcOf returns the normalized device coordinates of the centre of the
// node's bounding box.
func ndcOf(t *testing.T, c *Configurator, name string) (float64, float64) {
	t.Helper()
	n := c.Root().Find(name)
	if n == nil {
		t.Fatalf("no node %q", name)
	}
	min, max := n.Mesh.Bounds()
	centre := v3.Vec{X: (min[0] + max[0]) / 2, Y: (min[1] + max[1]) / 2, Z: (min[2] + max[2]) / 2}.Add(n.WorldOffset())
	x, y, _, ok := c.Camera().Project(centre)
	if !ok {
		t.Fatalf("%s is behind the camera", name)
	}
	return x, y
}

// highlighted returns the names of lit nodes under root.
func highlighted(root *scene.Node) []string {
	var out []string
	for _, n := range root.Drawables() {
		if n.Highlighted() {
			out = append(out, n.Name)
		}
	}
	return out
}

func hexOf(t *testing.T, n *scene.Node) string {
	t.Helper()
	c, ok := n.Color()
	if !ok {
		t.Fatalf("%s has no colour", n.Name)
	}
	return c.Hex()
}

func swatchHex(g Group, name string) string {
	for _, s := range DefaultPalette()[g] {
		if s.Name == name {
			return s.Hex
		}
	}
	panic(fmt.Sprintf("no swatch %s/%s", g, name))
}
