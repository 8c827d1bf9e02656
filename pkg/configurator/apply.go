package configurator

import (
	"errors"
	"fmt"

	"github.com/chazu/padforge/pkg/scene"
)

// ErrUnknownColor is returned for a colour name absent from the group's
// palette.
var ErrUnknownColor = errors.New("configurator: unknown color")

// Applier paints palette colours onto nodes and records them in the store.
type Applier struct {
	palette Palette
	w       MaterialWriter
	store   *Store
}

// NewApplier returns an applier over palette p.
func NewApplier(p Palette, w MaterialWriter, store *Store) *Applier {
	return &Applier{palette: p, w: w, store: store}
}

// Apply colours every node in nodes with colour name of group g and
// records each in one store commit. Empty nodes is a no-op. It reports
// whether the config changed.
func (a *Applier) Apply(nodes []*scene.Node, g Group, name string) (bool, error) {
	c, ok := a.palette.Lookup(g, name)
	if !ok {
		return false, fmt.Errorf("%w: %q for %s", ErrUnknownColor, name, g)
	}
	if len(nodes) == 0 {
		return false, nil
	}
	for _, n := range nodes {
		a.w.SetColor(n, c)
	}
	return a.store.Update(func(cfg *Config) {
		for _, n := range nodes {
			cfg.set(g, n.Name, name)
		}
	}), nil
}
