package configurator

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"
)

// Swatch is one named colour of a group palette.
type Swatch struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Palette maps each group to its ordered swatches.
type Palette map[Group][]Swatch

var (
	negro    = Swatch{"Negro", "#151515"}
	blanco   = Swatch{"Blanco", "#f2f2f2"}
	gris     = Swatch{"Gris", "#7d8085"}
	plata    = Swatch{"Plata", "#c3c7cc"}
	rojo     = Swatch{"Rojo", "#d0202a"}
	azul     = Swatch{"Azul", "#1f5fcf"}
	verde    = Swatch{"Verde", "#2f9e4a"}
	amarillo = Swatch{"Amarillo", "#f2c12e"}
	naranja  = Swatch{"Naranja", "#f27a12"}
	morado   = Swatch{"Morado", "#7a3ea1"}
	rosa     = Swatch{"Rosa", "#e8679a"}
	dorado   = Swatch{"Dorado", "#c8a046"}
)

// DefaultPalette returns the built-in palette.
func DefaultPalette() Palette {
	return Palette{
		GroupChasis:  {negro, blanco, gris, plata, rojo, azul, verde},
		GroupButtons: {blanco, negro, rojo, azul, verde, amarillo, naranja, morado, rosa},
		GroupKnobs:   {negro, blanco, plata, dorado, rojo, azul},
	}
}

// DefaultColors is the colour every node of a group starts with.
var DefaultColors = map[Group]string{
	GroupChasis:  "Negro",
	GroupButtons: "Blanco",
	GroupKnobs:   "Negro",
}

// Lookup returns the colour named name in group g.
func (p Palette) Lookup(g Group, name string) (colorful.Color, bool) {
	s, ok := lo.Find(p[g], func(s Swatch) bool { return s.Name == name })
	if !ok {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(s.Hex)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// Names returns the colour names of group g in palette order.
func (p Palette) Names(g Group) []string {
	return lo.Map(p[g], func(s Swatch, _ int) string { return s.Name })
}

// Swatches returns a copy of group g's swatches.
func (p Palette) Swatches(g Group) []Swatch {
	return append([]Swatch(nil), p[g]...)
}
