package configurator

import (
	"reflect"
	"testing"

	"github.com/chazu/padforge/pkg/scene"
	"github.com/lucasb-eyer/go-colorful"
)

func newSelectorScene() (*Selector, *scene.Node) {
	root := controllerScene()
	return NewSelector(scene.NewPainter(colorful.Color{R: 0.3})), root
}

func TestSelectorSelectReplaces(t *testing.T) {
	s, root := newSelectorScene()
	b1, b2 := root.Find("Boton_1"), root.Find("Boton_2")

	s.Select(b1)
	s.Select(b2)
	if got := s.Names(); !reflect.DeepEqual(got, []string{"Boton_2"}) {
		t.Errorf("selection = %v, want [Boton_2]", got)
	}
	if got := highlighted(root); !reflect.DeepEqual(got, []string{"Boton_2"}) {
		t.Errorf("highlighted = %v, want [Boton_2]", got)
	}
}

func TestSelectorToggle(t *testing.T) {
	s, root := newSelectorScene()
	b1, b2 := root.Find("Boton_1"), root.Find("Boton_2")

	if !s.Toggle(b1) || !s.Toggle(b2) {
		t.Fatal("Toggle should add absent nodes")
	}
	if s.Toggle(b1) {
		t.Error("Toggle should remove a present node")
	}
	if got := s.Names(); !reflect.DeepEqual(got, []string{"Boton_2"}) {
		t.Errorf("selection = %v, want [Boton_2]", got)
	}
	if b1.Highlighted() {
		t.Error("removed node still lit")
	}
}

func TestSelectorClear(t *testing.T) {
	s, root := newSelectorScene()
	s.Toggle(root.Find("Boton_1"))
	s.Toggle(root.Find("Boton_2"))
	s.Clear()
	if s.Len() != 0 || len(highlighted(root)) != 0 {
		t.Errorf("after Clear: selection %v, lit %v", s.Names(), highlighted(root))
	}
}

// The lit set equals the selection after any sequence of operations.
func TestSelectorPairing(t *testing.T) {
	s, root := newSelectorScene()
	nodes := root.Drawables()
	ops := []func(){
		func() { s.Select(nodes[1]) },
		func() { s.Toggle(nodes[2]) },
		func() { s.Toggle(nodes[1]) },
		func() { s.Toggle(nodes[3]) },
		func() { s.Select(nodes[0]) },
		func() { s.Toggle(nodes[0]) },
		func() { s.Toggle(nodes[2]) },
		func() { s.Clear() },
		func() { s.Toggle(nodes[3]) },
	}
	for i, op := range ops {
		op()
		if got, want := highlighted(root), s.Names(); !sameSet(got, want) {
			t.Fatalf("after op %d: lit %v, selected %v", i, got, want)
		}
	}
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]bool{}
	for _, x := range a {
		seen[x] = true
	}
	for _, x := range b {
		if !seen[x] {
			return false
		}
	}
	return true
}
