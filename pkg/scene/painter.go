package scene

import "github.com/lucasb-eyer/go-colorful"

// Painter writes material state on scene nodes. It is the only code path
// that changes a node's colour, emissive channel or material.
type Painter struct {
	highlight colorful.Color
}

// NewPainter returns a painter that lights selected nodes with highlight.
func NewPainter(highlight colorful.Color) *Painter {
	return &Painter{highlight: highlight}
}

// SetColor replaces the base colour of n. Nodes without a material are
// left alone.
func (p *Painter) SetColor(n *Node, c colorful.Color) {
	if n.material == nil {
		return
	}
	n.material.color = c
	n.material.hasColor = true
}

// SetHighlight lights or clears the emissive channel of n.
func (p *Painter) SetHighlight(n *Node, on bool) {
	if n.material == nil {
		return
	}
	if on {
		n.material.emissive = p.highlight
	} else {
		n.material.emissive = colorful.Color{}
	}
}

// Assign gives n its own copy of m.
func (p *Painter) Assign(n *Node, m Material) {
	n.material = &m
}
