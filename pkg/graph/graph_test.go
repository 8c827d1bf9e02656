package graph

import "testing"

func TestNewLayoutGraph(t *testing.T) {
	g := New()
	if g.Nodes == nil {
		t.Fatal("Nodes map should be initialized")
	}
	if g.NameIndex == nil {
		t.Fatal("NameIndex map should be initialized")
	}
	if g.Units != "mm" {
		t.Errorf("units = %q, want %q", g.Units, "mm")
	}
	if g.NodeCount() != 0 {
		t.Errorf("empty graph should have 0 nodes, got %d", g.NodeCount())
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	g := New()

	id := NewNodeID("defpart/CubeChasis")
	node := &Node{
		ID:   id,
		Kind: NodePrimitive,
		Name: "CubeChasis",
		Data: BoxData{
			Dimensions: Vec3{300, 30, 200},
			Material:   &MaterialSpec{Color: "#202020", Metalness: 0.8},
		},
	}
	g.AddNode(node)
	g.AddRoot(id)

	if g.NodeCount() != 1 {
		t.Errorf("node count = %d, want 1", g.NodeCount())
	}

	found := g.Lookup("CubeChasis")
	if found == nil {
		t.Fatal("Lookup('CubeChasis') returned nil")
	}
	if found.ID != id {
		t.Errorf("lookup returned wrong node")
	}

	if must := g.MustLookup("CubeChasis"); must.ID != id {
		t.Errorf("MustLookup returned wrong node")
	}

	if g.Lookup("nonexistent") != nil {
		t.Error("Lookup should return nil for missing name")
	}

	if got := g.Get(id); got == nil || got.Name != "CubeChasis" {
		t.Errorf("Get by ID failed")
	}

	if len(g.Roots) != 1 || g.Roots[0] != id {
		t.Errorf("roots = %v, want [%s]", g.Roots, id.Short())
	}
}

func TestMustLookupPanics(t *testing.T) {
	g := New()
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLookup should panic on missing name")
		}
	}()
	g.MustLookup("missing")
}

func TestPartsAndChildren(t *testing.T) {
	g := New()

	btnID := NewNodeID("defpart/Boton_1")
	placeID := NewNodeID("place/Boton_1")
	asmID := NewNodeID("assembly/controller")

	g.AddNode(&Node{
		ID: btnID, Kind: NodePrimitive, Name: "Boton_1",
		Data: CylinderData{Radius: 8, Height: 6},
	})
	at := Vec3{10, 30, 10}
	g.AddNode(&Node{
		ID: placeID, Kind: NodeTransform,
		Children: []NodeID{btnID},
		Data:     TransformData{Translation: &at},
	})
	g.AddNode(&Node{
		ID: asmID, Kind: NodeGroup, Name: "controller",
		Children: []NodeID{placeID},
		Data:     GroupData{},
	})

	if parts := g.Parts(); len(parts) != 1 {
		t.Errorf("Parts() count = %d, want 1", len(parts))
	}

	children := g.Children(g.Get(asmID))
	if len(children) != 1 {
		t.Fatalf("Children count = %d, want 1", len(children))
	}
	if children[0].Kind != NodeTransform {
		t.Errorf("child kind = %s, want transform", children[0].Kind)
	}
}

func TestNodeIDDeterministic(t *testing.T) {
	a := NewNodeID("defpart/Knob_A")
	b := NewNodeID("defpart/Knob_A")
	if a != b {
		t.Error("same path should produce same NodeID")
	}
	if c := NewNodeID("defpart/Knob_B"); a == c {
		t.Error("different paths should produce different NodeIDs")
	}
}

func TestNodeIDZero(t *testing.T) {
	var id NodeID
	if !id.IsZero() {
		t.Error("zero-value NodeID should be zero")
	}
	if NewNodeID("something").IsZero() {
		t.Error("non-zero NodeID should not be zero")
	}
}

func TestMaterialOf(t *testing.T) {
	m := &MaterialSpec{Color: "#ff0000"}
	tests := []struct {
		name string
		data NodeData
		want *MaterialSpec
	}{
		{"box", BoxData{Material: m}, m},
		{"cylinder", CylinderData{Material: m}, m},
		{"bare box", BoxData{}, nil},
		{"group", GroupData{}, nil},
		{"transform", TransformData{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaterialOf(tt.data); got != tt.want {
				t.Errorf("MaterialOf(%T) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestNodeDataInterface(t *testing.T) {
	var _ NodeData = BoxData{}
	var _ NodeData = CylinderData{}
	var _ NodeData = TransformData{}
	var _ NodeData = GroupData{}
}

func TestStringers(t *testing.T) {
	if NodePrimitive.String() != "primitive" {
		t.Errorf("NodePrimitive.String() = %q", NodePrimitive.String())
	}
	if NodeGroup.String() != "group" {
		t.Errorf("NodeGroup.String() = %q", NodeGroup.String())
	}
	if NodeKind(42).String() != "unknown" {
		t.Errorf("NodeKind(42).String() = %q", NodeKind(42).String())
	}

	id := NewNodeID("test")
	if len(id.Short()) != 12 {
		t.Errorf("Short() len = %d, want 12", len(id.Short()))
	}

	v := Vec3{1.5, 2.5, 3.5}
	if v.String() != "(1.5, 2.5, 3.5)" {
		t.Errorf("Vec3.String() = %q", v.String())
	}
	if sum := v.Add(Vec3{0.5, 0.5, 0.5}); sum != (Vec3{2, 3, 4}) {
		t.Errorf("Add = %v, want (2, 3, 4)", sum)
	}
}
