// Package scene is the in-memory scene graph the configurator drives: a
// tree of named nodes carrying meshes and materials, a camera, an orbit
// controller, ray hit-testing and the button press clip.
//
// Material fields are unexported. Reads go through Node accessors; writes
// go through Painter, which is the only mutation path.
package scene

import (
	"fmt"

	"github.com/chazu/padforge/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/lucasb-eyer/go-colorful"
)

// Material is the surface of a drawable node.
type Material struct {
	color     colorful.Color
	hasColor  bool
	emissive  colorful.Color
	metalness float64
	roughness float64
}

// NewMaterial returns a material with the given base colour.
func NewMaterial(c colorful.Color, metalness, roughness float64) Material {
	return Material{color: c, hasColor: true, metalness: metalness, roughness: roughness}
}

// ParseMaterial returns a material whose colour is given as a hex string.
// An empty hex yields a material without a colour property.
func ParseMaterial(hex string, metalness, roughness float64) (Material, error) {
	if hex == "" {
		return Material{metalness: metalness, roughness: roughness}, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Material{}, fmt.Errorf("scene: material colour %q: %w", hex, err)
	}
	return NewMaterial(c, metalness, roughness), nil
}

// Color returns the base colour and whether the material has one.
func (m Material) Color() (colorful.Color, bool) { return m.color, m.hasColor }

// Emissive returns the emissive colour (black when not glowing).
func (m Material) Emissive() colorful.Color { return m.emissive }

// Metalness returns the metalness factor.
func (m Material) Metalness() float64 { return m.metalness }

// Roughness returns the roughness factor.
func (m Material) Roughness() float64 { return m.roughness }

// Node is one element of the scene tree. Drawable nodes carry a mesh.
type Node struct {
	Name     string
	Mesh     *kernel.Mesh
	Children []*Node

	parent   *Node
	material *Material
	offset   v3.Vec
}

// NewGroup returns a non-drawable node holding children.
func NewGroup(name string, children ...*Node) *Node {
	n := &Node{Name: name}
	for _, c := range children {
		n.Add(c)
	}
	return n
}

// NewMesh returns a drawable node. A nil material means the node has none.
func NewMesh(name string, mesh *kernel.Mesh, mat *Material) *Node {
	n := &Node{Name: name, Mesh: mesh}
	if mat != nil {
		m := *mat
		n.material = &m
	}
	return n
}

// Add appends c as a child of n.
func (n *Node) Add(c *Node) {
	c.parent = n
	n.Children = append(n.Children, c)
}

// Parent returns the enclosing node, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Drawable reports whether n carries a mesh.
func (n *Node) Drawable() bool { return n.Mesh != nil }

// Material returns a copy of the node's material and whether it has one.
func (n *Node) Material() (Material, bool) {
	if n.material == nil {
		return Material{}, false
	}
	return *n.material, true
}

// Color returns the node's base colour, if it has a coloured material.
func (n *Node) Color() (colorful.Color, bool) {
	if n.material == nil {
		return colorful.Color{}, false
	}
	return n.material.Color()
}

// Highlighted reports whether the node's emissive channel is lit.
func (n *Node) Highlighted() bool {
	return n.material != nil && n.material.emissive != (colorful.Color{})
}

// Offset returns the displacement applied by a playing clip.
func (n *Node) Offset() v3.Vec { return n.offset }

// WorldOffset sums the clip displacement of n and its ancestors.
func (n *Node) WorldOffset() v3.Vec {
	var o v3.Vec
	for p := n; p != nil; p = p.parent {
		o = o.Add(p.offset)
	}
	return o
}

// Walk visits n and its descendants depth-first, parents before children,
// in child order. Returning false from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Drawables returns every drawable node under n in Walk order.
func (n *Node) Drawables() []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Drawable() {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Find returns the first node named name, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}
