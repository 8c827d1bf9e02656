package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/chazu/padforge/pkg/kernel"
	"github.com/chazu/padforge/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/lucasb-eyer/go-colorful"
)

// quad returns a square mesh in the z=0 plane spanning [-s, s].
func quad(s float32) *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{-s, -s, 0, s, -s, 0, s, s, 0, -s, s, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
}

func redScene() *scene.Node {
	m := scene.NewMaterial(colorful.Color{R: 1}, 0, 0.5)
	return scene.NewGroup("root", scene.NewMesh("panel", quad(1), &m))
}

func TestRenderCentreIsLit(t *testing.T) {
	cam := scene.NewCamera(v3.Vec{Z: 5}, v3.Vec{}, 50)
	opts := DefaultOptions(32, 32)
	opts.Supersample = 1

	img, err := Render(redScene(), cam, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Fatalf("size = %v, want 32x32", img.Bounds())
	}

	centre := img.NRGBAAt(16, 16)
	if centre.R < 100 || centre.G != 0 || centre.B != 0 {
		t.Errorf("centre pixel = %v, want shaded red", centre)
	}
	corner := img.NRGBAAt(0, 0)
	if corner != toNRGBA(opts.Background) {
		t.Errorf("corner pixel = %v, want background", corner)
	}
}

func TestRenderSupersampleSize(t *testing.T) {
	cam := scene.NewCamera(v3.Vec{Z: 5}, v3.Vec{}, 50)
	img, err := Render(redScene(), cam, DefaultOptions(40, 30))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("size = %v, want 40x30", img.Bounds())
	}
}

func TestRenderEmissiveBrightens(t *testing.T) {
	cam := scene.NewCamera(v3.Vec{Z: 5}, v3.Vec{}, 50)
	opts := DefaultOptions(16, 16)
	opts.Supersample = 1

	root := redScene()
	plain, _ := Render(root, cam, opts)

	scene.NewPainter(colorful.Color{G: 0.5}).SetHighlight(root.Find("panel"), true)
	lit, _ := Render(root, cam, opts)

	if lit.NRGBAAt(8, 8).G <= plain.NRGBAAt(8, 8).G {
		t.Errorf("highlighted green = %d, plain = %d", lit.NRGBAAt(8, 8).G, plain.NRGBAAt(8, 8).G)
	}
}

func TestRenderDepthOrder(t *testing.T) {
	near := scene.NewMaterial(colorful.Color{B: 1}, 0, 0.5)
	far := scene.NewMaterial(colorful.Color{R: 1}, 0, 0.5)
	// Draw the far quad last so only the depth test keeps the near one.
	nearNode := scene.NewMesh("near", quad(1), &near)
	farNode := scene.NewMesh("far", &kernel.Mesh{
		Vertices: []float32{-2, -2, -1, 2, -2, -1, 2, 2, -1, -2, 2, -1},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}, &far)
	root := scene.NewGroup("root", nearNode, farNode)

	cam := scene.NewCamera(v3.Vec{Z: 5}, v3.Vec{}, 50)
	opts := DefaultOptions(16, 16)
	opts.Supersample = 1
	img, _ := Render(root, cam, opts)

	c := img.NRGBAAt(8, 8)
	if c.B == 0 || c.R != 0 {
		t.Errorf("centre = %v, want the near blue quad", c)
	}
}

func TestRenderDoesNotTouchCamera(t *testing.T) {
	cam := scene.NewCamera(v3.Vec{X: 1, Y: 2, Z: 5}, v3.Vec{}, 50)
	before := cam
	Render(redScene(), cam, DefaultOptions(8, 8))
	if cam != before {
		t.Error("Render modified the caller's camera")
	}
}

func TestRenderInvalidSize(t *testing.T) {
	if _, err := Render(nil, scene.Camera{}, Options{}); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestEncodePNG(t *testing.T) {
	cam := scene.NewCamera(v3.Vec{Z: 5}, v3.Vec{}, 50)
	img, _ := Render(redScene(), cam, DefaultOptions(8, 8))
	data, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatal("missing PNG signature")
	}
	back, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", back.Bounds(), img.Bounds())
	}
}
