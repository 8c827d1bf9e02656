package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/chazu/padforge/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// Options controls a render.
type Options struct {
	Width, Height int
	Supersample   int // 1 disables supersampling
	Background    colorful.Color
	Light         v3.Vec // direction the light travels, need not be unit length
	Ambient       float64
}

// DefaultOptions returns a 2x supersampled render lit from above-front.
func DefaultOptions(w, h int) Options {
	return Options{
		Width:       w,
		Height:      h,
		Supersample: 2,
		Background:  colorful.Color{R: 0.93, G: 0.93, B: 0.94},
		Light:       v3.Vec{X: -0.4, Y: -1, Z: -0.6},
		Ambient:     0.35,
	}
}

// fallbackColor shades nodes that carry no coloured material.
var fallbackColor = colorful.Color{R: 0.6, G: 0.6, B: 0.65}

// Render draws every drawable node under root as seen from cam. The
// camera's aspect is taken from the output size; cam itself is not
// modified.
func Render(root *scene.Node, cam scene.Camera, opts Options) (*image.NRGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("render: invalid size %dx%d", opts.Width, opts.Height)
	}
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	w, h := opts.Width*ss, opts.Height*ss
	cam.Aspect = float64(w) / float64(h)

	bg := toNRGBA(opts.Background)
	fb := NewFrameBuffer(w, h, bg)
	light := opts.Light.Normalize().MulScalar(-1)

	if root != nil {
		for _, n := range root.Drawables() {
			drawNode(fb, n, cam, light, opts.Ambient)
		}
	}

	if ss == 1 {
		return fb.Color, nil
	}
	out := image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), fb.Color, fb.Color.Bounds(), draw.Src, nil)
	return out, nil
}

func drawNode(fb *FrameBuffer, n *scene.Node, cam scene.Camera, light v3.Vec, ambient float64) {
	base := fallbackColor
	var emissive colorful.Color
	if m, ok := n.Material(); ok {
		if c, ok := m.Color(); ok {
			base = c
		}
		emissive = m.Emissive()
	}

	off := n.WorldOffset()
	mesh := n.Mesh
	for t := 0; t < mesh.TriangleCount(); t++ {
		a, b, c := mesh.Triangle(t)
		wa := vec(a).Add(off)
		wb := vec(b).Add(off)
		wc := vec(c).Add(off)

		sa, ok1 := project(cam, wa, fb)
		sb, ok2 := project(cam, wb, fb)
		sc, ok3 := project(cam, wc, fb)
		if !ok1 || !ok2 || !ok3 {
			continue
		}

		normal := wb.Sub(wa).Cross(wc.Sub(wa))
		if normal.Length() == 0 {
			continue
		}
		normal = normal.Normalize()
		// Two-sided lighting: marching cubes winding is not guaranteed.
		toEye := cam.Position.Sub(wa)
		if normal.Dot(toEye) < 0 {
			normal = normal.MulScalar(-1)
		}
		diffuse := math.Max(0, normal.Dot(light))
		k := ambient + (1-ambient)*diffuse

		shaded := colorful.Color{
			R: clamp01(base.R*k + emissive.R),
			G: clamp01(base.G*k + emissive.G),
			B: clamp01(base.B*k + emissive.B),
		}
		fb.fillTriangle(sa, sb, sc, toNRGBA(shaded))
	}
}

func project(cam scene.Camera, p v3.Vec, fb *FrameBuffer) (screenVert, bool) {
	x, y, depth, ok := cam.Project(p)
	if !ok {
		return screenVert{}, false
	}
	return screenVert{
		x: (x + 1) / 2 * float64(fb.W),
		y: (1 - y) / 2 * float64(fb.H),
		z: depth,
	}, true
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func vec(p [3]float64) v3.Vec {
	return v3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
