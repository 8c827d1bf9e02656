package graph

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Tier 2: geometric validation
// ---------------------------------------------------------------------------

// validateGeometry checks that every part is a shape the kernel can build.
// Unbuildable shapes are errors. Difference cutters that miss the shape
// they cut are warnings.
func validateGeometry(g *LayoutGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		errs = append(errs, validateShape(node, node.Data)...)
	}
	return errs
}

// validateShape checks one shape payload, recursing into CSG operands.
func validateShape(node *Node, d NodeData) []ValidationError {
	switch d := d.(type) {
	case BoxData:
		if d.Dimensions.X <= 0 || d.Dimensions.Y <= 0 || d.Dimensions.Z <= 0 {
			return []ValidationError{{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("box %q has non-positive dimensions %v", node.Name, d.Dimensions),
				Severity: SeverityError,
			}}
		}
	case CylinderData:
		if d.Radius <= 0 || d.Height <= 0 {
			return []ValidationError{{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("cylinder %q has non-positive radius or height", node.Name),
				Severity: SeverityError,
			}}
		}
	case CSGData:
		return validateCSG(node, d)
	}
	return nil
}

func validateCSG(node *Node, d CSGData) []ValidationError {
	if len(d.Operands) < 2 {
		return []ValidationError{{
			NodeID:   node.ID,
			Message:  fmt.Sprintf("%s %q needs at least two operands, got %d", d.Op, node.Name, len(d.Operands)),
			Severity: SeverityError,
		}}
	}

	var errs []ValidationError
	for _, op := range d.Operands {
		errs = append(errs, validateShape(node, op.Shape)...)
	}
	if HasErrors(errs) || d.Op != CSGDifference {
		return errs
	}

	base := operandBounds(d.Operands[0])
	for i, op := range d.Operands[1:] {
		if !base.overlaps(operandBounds(op)) {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("difference %q: operand %d does not reach the first operand and cuts nothing", node.Name, i+2),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// bounds is an axis-aligned box in part coordinates.
type bounds struct {
	min, max Vec3
}

func (b bounds) overlaps(o bounds) bool {
	return b.min.X < o.max.X && o.min.X < b.max.X &&
		b.min.Y < o.max.Y && o.min.Y < b.max.Y &&
		b.min.Z < o.max.Z && o.min.Z < b.max.Z
}

func (b bounds) union(o bounds) bounds {
	return bounds{
		min: Vec3{math.Min(b.min.X, o.min.X), math.Min(b.min.Y, o.min.Y), math.Min(b.min.Z, o.min.Z)},
		max: Vec3{math.Max(b.max.X, o.max.X), math.Max(b.max.Y, o.max.Y), math.Max(b.max.Z, o.max.Z)},
	}
}

// shapeBounds returns the unposed bounds of a shape, using the kernel's
// conventions: boxes start at the origin, cylinders are centred on Z.
// Difference and intersection are bounded by their first operand.
func shapeBounds(d NodeData) bounds {
	switch d := d.(type) {
	case BoxData:
		return bounds{max: d.Dimensions}
	case CylinderData:
		r, h := d.Radius, d.Height/2
		return bounds{min: Vec3{-r, -r, -h}, max: Vec3{r, r, h}}
	case CSGData:
		if len(d.Operands) == 0 {
			return bounds{}
		}
		b := operandBounds(d.Operands[0])
		if d.Op == CSGUnion {
			for _, op := range d.Operands[1:] {
				b = b.union(operandBounds(op))
			}
		}
		return b
	}
	return bounds{}
}

// operandBounds poses the eight corners of an operand's shape bounds and
// returns the box around them.
func operandBounds(op Operand) bounds {
	local := shapeBounds(op.Shape)
	inf := math.Inf(1)
	out := bounds{min: Vec3{inf, inf, inf}, max: Vec3{-inf, -inf, -inf}}
	for i := 0; i < 8; i++ {
		p := local.min
		if i&1 != 0 {
			p.X = local.max.X
		}
		if i&2 != 0 {
			p.Y = local.max.Y
		}
		if i&4 != 0 {
			p.Z = local.max.Z
		}
		p = rotateEuler(p, op.Rotation).Add(op.Translation)
		out = out.union(bounds{min: p, max: p})
	}
	return out
}

// rotateEuler rotates p by Euler angles in degrees about X, then Y, then Z,
// the order the kernel composes them in.
func rotateEuler(p, deg Vec3) Vec3 {
	sx, cx := math.Sincos(deg.X * math.Pi / 180)
	sy, cy := math.Sincos(deg.Y * math.Pi / 180)
	sz, cz := math.Sincos(deg.Z * math.Pi / 180)

	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}
