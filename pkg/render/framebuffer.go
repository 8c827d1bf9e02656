// Package render draws a scene from a camera into an image with a small
// software z-buffer rasterizer. It serves the off-loop frames used for
// checkout previews, so it favours determinism over speed.
package render

import (
	"image"
	"image/color"
	"math"
)

// FrameBuffer holds colour and depth for one render target.
type FrameBuffer struct {
	W, H  int
	Color *image.NRGBA
	Depth []float64
}

// NewFrameBuffer allocates a cleared framebuffer.
func NewFrameBuffer(w, h int, bg color.NRGBA) *FrameBuffer {
	fb := &FrameBuffer{
		W:     w,
		H:     h,
		Color: image.NewNRGBA(image.Rect(0, 0, w, h)),
		Depth: make([]float64, w*h),
	}
	for i := range fb.Depth {
		fb.Depth[i] = math.Inf(1)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fb.Color.SetNRGBA(x, y, bg)
		}
	}
	return fb
}

// screenVert is a projected vertex in pixel space.
type screenVert struct {
	x, y, z float64
}

// fillTriangle rasterizes a flat-shaded triangle with depth testing.
func (fb *FrameBuffer) fillTriangle(a, b, c screenVert, col color.NRGBA) {
	minX := int(math.Max(0, math.Floor(math.Min(a.x, math.Min(b.x, c.x)))))
	maxX := int(math.Min(float64(fb.W-1), math.Ceil(math.Max(a.x, math.Max(b.x, c.x)))))
	minY := int(math.Max(0, math.Floor(math.Min(a.y, math.Min(b.y, c.y)))))
	maxY := int(math.Min(float64(fb.H-1), math.Ceil(math.Max(a.y, math.Max(b.y, c.y)))))
	if minX > maxX || minY > maxY {
		return
	}

	area := edge(a, b, c.x, c.y)
	if math.Abs(area) < 1e-12 {
		return
	}

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			sx, sy := float64(px)+0.5, float64(py)+0.5
			w0 := edge(b, c, sx, sy) / area
			w1 := edge(c, a, sx, sy) / area
			w2 := edge(a, b, sx, sy) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.z + w1*b.z + w2*c.z
			i := py*fb.W + px
			if z >= fb.Depth[i] {
				continue
			}
			fb.Depth[i] = z
			fb.Color.SetNRGBA(px, py, col)
		}
	}
}

func edge(a, b screenVert, x, y float64) float64 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}
