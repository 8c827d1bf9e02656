package graph

import "fmt"

// ---------------------------------------------------------------------------
// Vectors
// ---------------------------------------------------------------------------

// Vec3 is a 3D vector in model units (mm).
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// IsZero reports whether every component is zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// ---------------------------------------------------------------------------
// Material
// ---------------------------------------------------------------------------

// MaterialSpec is the surface a part is loaded with. Color is a hex string
// ("#1a1a1a"); an empty Color means the part carries no colour property.
type MaterialSpec struct {
	Color     string  `json:"color,omitempty"`
	Metalness float64 `json:"metalness,omitempty"`
	Roughness float64 `json:"roughness,omitempty"`
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// BoxData is a rectangular solid with its minimum corner at the origin.
type BoxData struct {
	Dimensions Vec3          `json:"dimensions"` // width (X) x height (Y) x depth (Z)
	Material   *MaterialSpec `json:"material,omitempty"`
}

func (BoxData) nodeData() {}

// CylinderData is a cylinder centred on the origin with its axis along Z.
type CylinderData struct {
	Radius   float64       `json:"radius"`
	Height   float64       `json:"height"`
	Material *MaterialSpec `json:"material,omitempty"`
}

func (CylinderData) nodeData() {}

// CSGOp is the boolean operation a CSGData applies.
type CSGOp int

const (
	CSGUnion        CSGOp = iota // (union a b ...)
	CSGDifference                // (difference a b ...): a minus the rest
	CSGIntersection              // (intersection a b ...)
)

func (op CSGOp) String() string {
	switch op {
	case CSGUnion:
		return "union"
	case CSGDifference:
		return "difference"
	case CSGIntersection:
		return "intersection"
	default:
		return fmt.Sprintf("CSGOp(%d)", int(op))
	}
}

// Operand is one input of a CSG shape, posed relative to the part origin.
// Rotation is applied before translation, as for placements.
type Operand struct {
	Shape       NodeData `json:"shape"`
	Translation Vec3     `json:"translation"`
	Rotation    Vec3     `json:"rotation"` // Euler angles in degrees
}

// CSGData folds its operands left to right with Op. The part is painted
// with the material of the first operand.
type CSGData struct {
	Op       CSGOp     `json:"op"`
	Operands []Operand `json:"operands"`
}

func (CSGData) nodeData() {}

// MaterialOf returns the material carried by a primitive payload, or nil.
func MaterialOf(d NodeData) *MaterialSpec {
	switch v := d.(type) {
	case BoxData:
		return v.Material
	case CylinderData:
		return v.Material
	case CSGData:
		if len(v.Operands) > 0 {
			return MaterialOf(v.Operands[0].Shape)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial placement applied to a child node.
// Created by the (place ...) form.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping. Created by the (assembly ...) form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
