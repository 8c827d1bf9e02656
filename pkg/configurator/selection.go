package configurator

import (
	"github.com/chazu/padforge/pkg/scene"
	"github.com/samber/lo"
)

// Selector owns the selection and its highlights. Every node it adds is
// highlighted and every node it drops is un-highlighted, so the lit set
// always equals the selection.
type Selector struct {
	w     MaterialWriter
	nodes []*scene.Node
}

// NewSelector returns an empty selector writing through w.
func NewSelector(w MaterialWriter) *Selector {
	return &Selector{w: w}
}

// Nodes returns the selection in selection order.
func (s *Selector) Nodes() []*scene.Node {
	return append([]*scene.Node(nil), s.nodes...)
}

// Names returns the selected node names.
func (s *Selector) Names() []string {
	return lo.Map(s.nodes, func(n *scene.Node, _ int) string { return n.Name })
}

// Len returns the selection size.
func (s *Selector) Len() int {
	return len(s.nodes)
}

// Contains reports whether n is selected.
func (s *Selector) Contains(n *scene.Node) bool {
	return lo.Contains(s.nodes, n)
}

// Clear un-highlights and drops every selected node.
func (s *Selector) Clear() {
	for _, n := range s.nodes {
		s.w.SetHighlight(n, false)
	}
	s.nodes = nil
}

// Select replaces the selection with n alone.
func (s *Selector) Select(n *scene.Node) {
	s.Clear()
	s.nodes = []*scene.Node{n}
	s.w.SetHighlight(n, true)
}

// Toggle adds n if absent or removes it if present. It reports whether n
// is selected afterwards.
func (s *Selector) Toggle(n *scene.Node) bool {
	if s.Contains(n) {
		s.nodes = lo.Without(s.nodes, n)
		s.w.SetHighlight(n, false)
		return false
	}
	s.nodes = append(s.nodes, n)
	s.w.SetHighlight(n, true)
	return true
}
