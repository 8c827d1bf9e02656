// Package tessellate walks a layout graph and produces triangle meshes
// using a geometry kernel. One mesh is produced per part.
package tessellate

import (
	"fmt"

	"github.com/chazu/padforge/pkg/graph"
	"github.com/chazu/padforge/pkg/kernel"
)

// Part is one tessellated layout part: its mesh, the material it was
// declared with, and the assemblies enclosing it (outermost first).
type Part struct {
	Name       string
	Assemblies []string
	Material   *graph.MaterialSpec
	Mesh       *kernel.Mesh
}

// transformStack accumulates spatial transforms during graph traversal.
type transformStack struct {
	translations []graph.Vec3
	rotations    []graph.Vec3
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(translation, rotation graph.Vec3) {
	ts.translations = append(ts.translations, translation)
	ts.rotations = append(ts.rotations, rotation)
}

func (ts *transformStack) pop() {
	if len(ts.translations) > 0 {
		ts.translations = ts.translations[:len(ts.translations)-1]
	}
	if len(ts.rotations) > 0 {
		ts.rotations = ts.rotations[:len(ts.rotations)-1]
	}
}

// accumulatedTranslation returns the sum of all translations on the stack.
func (ts *transformStack) accumulatedTranslation() graph.Vec3 {
	var sum graph.Vec3
	for _, t := range ts.translations {
		sum = sum.Add(t)
	}
	return sum
}

// accumulatedRotation returns the sum of all rotations on the stack.
func (ts *transformStack) accumulatedRotation() graph.Vec3 {
	var sum graph.Vec3
	for _, r := range ts.rotations {
		sum = sum.Add(r)
	}
	return sum
}

// walker carries traversal state through one Tessellate call.
type walker struct {
	g          *graph.LayoutGraph
	k          kernel.Kernel
	ts         *transformStack
	assemblies []string
}

// Tessellate walks the layout graph and produces one part per primitive
// using the provided geometry kernel. Parts come out in depth-first order
// of the roots and their children. The graph is never mutated.
func Tessellate(g *graph.LayoutGraph, k kernel.Kernel) ([]Part, error) {
	if g == nil {
		return nil, nil
	}

	w := &walker{g: g, k: k, ts: newTransformStack()}
	var parts []Part
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := w.walk(root)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		parts = append(parts, collected...)
	}

	return parts, nil
}

// walk recursively traverses a node and its children, collecting parts.
func (w *walker) walk(n *graph.Node) ([]Part, error) {
	switch n.Kind {
	case graph.NodePrimitive:
		return w.primitive(n)
	case graph.NodeTransform:
		return w.transform(n)
	case graph.NodeGroup:
		return w.group(n)
	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// primitive creates geometry for a primitive node.
func (w *walker) primitive(n *graph.Node) ([]Part, error) {
	solid, err := w.solid(n.Data)
	if err != nil {
		return nil, fmt.Errorf("primitive node %s: %w", n.ID.Short(), err)
	}

	// Apply accumulated rotation first, then translation.
	if rot := w.ts.accumulatedRotation(); !rot.IsZero() {
		solid = w.k.Rotate(solid, rot.X, rot.Y, rot.Z)
	}
	if trans := w.ts.accumulatedTranslation(); !trans.IsZero() {
		solid = w.k.Translate(solid, trans.X, trans.Y, trans.Z)
	}

	mesh, err := w.k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.ID.Short(), err)
	}

	name := n.Name
	if name == "" {
		name = n.ID.Short()
	}
	mesh.PartName = name

	return []Part{{
		Name:       name,
		Assemblies: append([]string(nil), w.assemblies...),
		Material:   graph.MaterialOf(n.Data),
		Mesh:       mesh,
	}}, nil
}

// solid builds the kernel solid for a shape payload in part coordinates.
// CSG operands are posed (rotation, then translation) before they are
// combined left to right.
func (w *walker) solid(d graph.NodeData) (kernel.Solid, error) {
	switch data := d.(type) {
	case graph.BoxData:
		return w.k.Box(data.Dimensions.X, data.Dimensions.Y, data.Dimensions.Z), nil
	case graph.CylinderData:
		return w.k.Cylinder(data.Height, data.Radius), nil
	case graph.CSGData:
		if len(data.Operands) < 2 {
			return nil, fmt.Errorf("%s needs at least two operands, got %d", data.Op, len(data.Operands))
		}
		var acc kernel.Solid
		for i, op := range data.Operands {
			s, err := w.solid(op.Shape)
			if err != nil {
				return nil, fmt.Errorf("%s operand %d: %w", data.Op, i+1, err)
			}
			if !op.Rotation.IsZero() {
				s = w.k.Rotate(s, op.Rotation.X, op.Rotation.Y, op.Rotation.Z)
			}
			if !op.Translation.IsZero() {
				s = w.k.Translate(s, op.Translation.X, op.Translation.Y, op.Translation.Z)
			}
			if i == 0 {
				acc = s
				continue
			}
			switch data.Op {
			case graph.CSGUnion:
				acc = w.k.Union(acc, s)
			case graph.CSGDifference:
				acc = w.k.Difference(acc, s)
			case graph.CSGIntersection:
				acc = w.k.Intersection(acc, s)
			default:
				return nil, fmt.Errorf("unknown CSG operation %s", data.Op)
			}
		}
		return acc, nil
	}
	return nil, fmt.Errorf("unsupported data type %T", d)
}

// transform pushes the placement, recurses into children, then pops.
func (w *walker) transform(n *graph.Node) ([]Part, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	var translation, rotation graph.Vec3
	if td.Translation != nil {
		translation = *td.Translation
	}
	if td.Rotation != nil {
		rotation = *td.Rotation
	}
	w.ts.push(translation, rotation)
	defer w.ts.pop()

	return w.children(n)
}

// group records the assembly name and recurses into children.
func (w *walker) group(n *graph.Node) ([]Part, error) {
	w.assemblies = append(w.assemblies, n.Name)
	defer func() { w.assemblies = w.assemblies[:len(w.assemblies)-1] }()

	return w.children(n)
}

func (w *walker) children(n *graph.Node) ([]Part, error) {
	var parts []Part
	for _, child := range w.g.Children(n) {
		collected, err := w.walk(child)
		if err != nil {
			return nil, err
		}
		parts = append(parts, collected...)
	}
	return parts, nil
}
