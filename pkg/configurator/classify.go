package configurator

import (
	"strings"

	"github.com/chazu/padforge/pkg/scene"
	"github.com/chazu/padforge/pkg/settings"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"
)

// MaterialWriter is the narrow mutation path onto scene materials.
// Classification, selection and colour application write through it and
// nothing else does.
type MaterialWriter interface {
	SetColor(n *scene.Node, c colorful.Color)
	SetHighlight(n *scene.Node, on bool)
	Assign(n *scene.Node, m scene.Material)
}

var _ MaterialWriter = (*scene.Painter)(nil)

// Rule maps a lower-case name token to a class.
type Rule struct {
	Token string
	Class Class
}

// Matcher classifies node names by the first rule whose token occurs in
// the lower-cased name. Rule order is the tie-break.
type Matcher struct {
	Rules []Rule
}

// NewMatcher returns the chasis > button > knob matcher for tokens t.
func NewMatcher(t settings.Tokens) Matcher {
	return Matcher{Rules: []Rule{
		{Token: strings.ToLower(t.Chasis), Class: ClassChasis},
		{Token: strings.ToLower(t.Button), Class: ClassButton},
		{Token: strings.ToLower(t.Knob), Class: ClassKnob},
	}}
}

// Match returns the class of a node name.
func (m Matcher) Match(name string) Class {
	lower := strings.ToLower(name)
	for _, r := range m.Rules {
		if r.Token != "" && strings.Contains(lower, r.Token) {
			return r.Class
		}
	}
	return Unclassified
}

// Classification holds the nodes of each group in traversal order. It is
// computed once per load and never changes afterwards.
type Classification struct {
	Chasis  []*scene.Node
	Buttons []*scene.Node
	Knobs   []*scene.Node
}

// Nodes returns the nodes of group g.
func (c Classification) Nodes(g Group) []*scene.Node {
	switch g {
	case GroupChasis:
		return c.Chasis
	case GroupButtons:
		return c.Buttons
	case GroupKnobs:
		return c.Knobs
	}
	return nil
}

// Names returns the node names of group g.
func (c Classification) Names(g Group) []string {
	return lo.Map(c.Nodes(g), func(n *scene.Node, _ int) string { return n.Name })
}

func (c *Classification) add(g Group, n *scene.Node) {
	switch g {
	case GroupChasis:
		c.Chasis = append(c.Chasis, n)
	case GroupButtons:
		c.Buttons = append(c.Buttons, n)
	case GroupKnobs:
		c.Knobs = append(c.Knobs, n)
	}
}

// ClassifyOptions carries the data classification depends on.
type ClassifyOptions struct {
	Matcher       Matcher
	KnobThreshold float64
	Palette       Palette
	Defaults      map[Group]string
}

// defaultSurface is the metalness/roughness each group is reset to.
var defaultSurface = map[Group][2]float64{
	GroupChasis:  {0.8, 0.35},
	GroupButtons: {0.1, 0.5},
	GroupKnobs:   {0.3, 0.6},
}

// Classify walks every drawable node under root, partitions the matches
// into groups and gives each matched node its group's default material.
// Nodes without a coloured material are skipped. A knob-named node only
// counts when its current colour is darker than the threshold; brighter
// ones are indicator marks and stay untouched.
func Classify(root *scene.Node, w MaterialWriter, opts ClassifyOptions) (Classification, Config) {
	var cls Classification
	cfg := NewConfig()
	if root == nil {
		return cls, cfg
	}

	for _, n := range root.Drawables() {
		colour, ok := n.Color()
		if !ok {
			continue
		}
		class := opts.Matcher.Match(n.Name)
		g, ok := class.Group()
		if !ok {
			continue
		}
		if class == ClassKnob && brightness(colour) >= opts.KnobThreshold {
			continue
		}

		name := opts.Defaults[g]
		base, ok := opts.Palette.Lookup(g, name)
		if !ok {
			// A default missing from the palette would break Config; keep
			// the loaded colour and leave the node out.
			continue
		}
		surface := defaultSurface[g]
		w.Assign(n, scene.NewMaterial(base, surface[0], surface[1]))
		cls.add(g, n)
		cfg.set(g, n.Name, name)
	}
	return cls, cfg
}

// brightness is the mean of the RGB channels in [0, 1].
func brightness(c colorful.Color) float64 {
	return (c.R + c.G + c.B) / 3
}
