package main

import (
	"context"
	_ "embed"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/chazu/padforge/pkg/configurator"
	"github.com/chazu/padforge/pkg/kernel/sdfx"
	"github.com/chazu/padforge/pkg/loader"
	"github.com/chazu/padforge/pkg/scene"
	"github.com/chazu/padforge/pkg/settings"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

//go:embed examples/controller.pad
var defaultLayout string

// Emitter delivers events to the frontend and opens external pages.
type Emitter interface {
	Emit(event string, data any)
	OpenURL(url string)
}

// wailsEmitter sends through the Wails runtime bound to ctx.
type wailsEmitter struct {
	ctx context.Context
}

func (w wailsEmitter) Emit(event string, data any) { runtime.EventsEmit(w.ctx, event, data) }
func (w wailsEmitter) OpenURL(url string)          { runtime.BrowserOpenURL(w.ctx, url) }

// nopEmitter drops everything until startup binds the runtime.
type nopEmitter struct{}

func (nopEmitter) Emit(string, any) {}
func (nopEmitter) OpenURL(string)   {}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx      context.Context
	settings settings.Settings
	log      logger.Logger
	loader   *loader.Loader
	core     *configurator.Configurator
	emit     Emitter
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// LoadResult is returned by LoadModel.
type LoadResult struct {
	Meshes []MeshData          `json:"meshes"`
	Config configurator.Config `json:"config"`
	Error  string              `json:"error,omitempty"`
}

// ModeResult is returned by SelectMode.
type ModeResult struct {
	Mode  string `json:"mode"`
	Error string `json:"error,omitempty"`
}

// ClickResult is returned by the click bindings.
type ClickResult struct {
	Hit       string   `json:"hit"`
	Selection []string `json:"selection"`
}

// ApplyResult is returned by ApplyColor.
type ApplyResult struct {
	Config configurator.Config `json:"config"`
	Error  string              `json:"error,omitempty"`
}

// CameraState is the camera as the frontend renderer needs it.
type CameraState struct {
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
	FOV      float64    `json:"fov"`
}

// FrameState is everything the frontend draws for one frame.
type FrameState struct {
	Camera       CameraState              `json:"camera"`
	Nodes        []configurator.NodeState `json:"nodes"`
	Mode         string                   `json:"mode"`
	Selection    []string                 `json:"selection"`
	Animating    bool                     `json:"animating"`
	OrbitEnabled bool                     `json:"orbitEnabled"`
}

// CheckoutResult carries the preview as a PNG data URL.
type CheckoutResult struct {
	Image  string              `json:"image"`
	Config configurator.Config `json:"config"`
	Error  string              `json:"error,omitempty"`
}

// NewApp creates an App from the settings named by PADFORGE_SETTINGS.
// Unreadable settings are logged and replaced by the defaults.
func NewApp() *App {
	log := logger.NewDefaultLogger()
	s, err := settings.FromEnv()
	if err != nil {
		log.Error(err.Error())
		s = settings.Default()
	}
	app, err := newApp(s, log, nopEmitter{})
	if err != nil {
		log.Error(err.Error())
		app, _ = newApp(settings.Default(), log, nopEmitter{})
	}
	return app
}

func newApp(s settings.Settings, log logger.Logger, emit Emitter) (*App, error) {
	core, err := configurator.New(s, log)
	if err != nil {
		return nil, err
	}
	a := &App{
		ctx:      context.Background(),
		settings: s,
		log:      log,
		loader:   loader.New(sdfx.NewWithCells(s.MeshCells), log),
		core:     core,
		emit:     emit,
	}
	core.Sync(configurator.PosterFunc(func(m configurator.Message) {
		a.emit.Emit(m.Type, m)
	}))
	return a, nil
}

// startup is called by Wails on app startup. The context is saved so
// events and navigation go through the runtime.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.emit = wailsEmitter{ctx: ctx}
}

// layout returns the script to load when the frontend asks for the default
// model: the settings layout file if one is named, else the built-in
// controller.
func (a *App) layout() (string, error) {
	if a.settings.Layout == "" {
		return defaultLayout, nil
	}
	data, err := os.ReadFile(a.settings.Layout)
	if err != nil {
		return "", fmt.Errorf("layout: %w", err)
	}
	return string(data), nil
}

// LoadModel builds the scene from source, or from the default layout when
// source is empty, and hands it to the configurator. Failures are logged
// and reported; the configurator then stays empty.
func (a *App) LoadModel(source string) LoadResult {
	result := LoadResult{Meshes: []MeshData{}}
	if source == "" {
		var err error
		if source, err = a.layout(); err != nil {
			a.core.Loaded(nil, err)
			result.Error = err.Error()
			return result
		}
	}

	res := <-a.loader.Load(a.ctx, source)
	a.core.Loaded(res.Root, res.Err)
	if res.Err != nil {
		result.Error = res.Err.Error()
		return result
	}

	for _, n := range res.Root.Drawables() {
		result.Meshes = append(result.Meshes, meshData(n))
	}
	result.Config = a.core.Config()
	return result
}

func meshData(n *scene.Node) MeshData {
	md := MeshData{
		Vertices: n.Mesh.Vertices,
		Normals:  n.Mesh.Normals,
		Indices:  n.Mesh.Indices,
		PartName: n.Name,
	}
	if c, ok := n.Color(); ok {
		md.Color = c.Hex()
	}
	return md
}

// SelectMode switches to the named view mode.
func (a *App) SelectMode(mode string) ModeResult {
	m, err := configurator.ParseViewMode(mode)
	if err != nil {
		return ModeResult{Mode: a.core.Mode().String(), Error: err.Error()}
	}
	a.core.SelectMode(m)
	return ModeResult{Mode: m.String()}
}

// Click hit-tests the pointer at normalized device coordinates.
func (a *App) Click(x, y float64, shift bool) ClickResult {
	hit := a.core.Click(x, y, shift)
	return ClickResult{Hit: hit, Selection: a.selection()}
}

// ClickPart selects a part by name, as the frontend does when it resolves
// the pick itself.
func (a *App) ClickPart(name string, shift bool) ClickResult {
	var hit string
	if a.core.ClickNode(name, shift) {
		hit = name
	}
	return ClickResult{Hit: hit, Selection: a.selection()}
}

func (a *App) selection() []string {
	sel := a.core.Selection()
	if sel == nil {
		return []string{}
	}
	return sel
}

// ApplyColor paints the current selection with the named swatch.
func (a *App) ApplyColor(name string) ApplyResult {
	if err := a.core.Apply(name); err != nil {
		a.log.Debug("apply: " + err.Error())
		return ApplyResult{Config: a.core.Config(), Error: err.Error()}
	}
	return ApplyResult{Config: a.core.Config()}
}

// Frame advances animations by dtMs milliseconds and returns what to draw.
func (a *App) Frame(dtMs float64) FrameState {
	if dtMs > 0 {
		a.core.Tick(dtMs / 1000)
	}
	cam := a.core.Camera()
	nodes := a.core.Nodes()
	if nodes == nil {
		nodes = []configurator.NodeState{}
	}
	return FrameState{
		Camera: CameraState{
			Position: [3]float64{cam.Position.X, cam.Position.Y, cam.Position.Z},
			Target:   [3]float64{cam.Target.X, cam.Target.Y, cam.Target.Z},
			FOV:      cam.FOV,
		},
		Nodes:        nodes,
		Mode:         a.core.Mode().String(),
		Selection:    a.selection(),
		Animating:    a.core.Animating(),
		OrbitEnabled: a.core.OrbitEnabled(),
	}
}

// Resize tells the configurator the viewport size.
func (a *App) Resize(width, height int) {
	if width > 0 && height > 0 {
		a.core.SetAspect(float64(width) / float64(height))
	}
}

// Orbit rotates the camera by yaw and pitch radians when orbit is enabled.
func (a *App) Orbit(yaw, pitch float64) bool {
	return a.core.Orbit(yaw, pitch)
}

// Zoom scales the camera distance when orbit is enabled.
func (a *App) Zoom(factor float64) bool {
	return a.core.Zoom(factor)
}

// Palette lists the swatches of a group. Unknown groups list nothing.
func (a *App) Palette(group string) []configurator.Swatch {
	g, err := configurator.ParseGroup(group)
	if err != nil {
		return []configurator.Swatch{}
	}
	return a.core.Palette(g)
}

// Config returns the current configuration.
func (a *App) Config() configurator.Config {
	return a.core.Config()
}

// Checkout captures the catalog preview, tells the hosting page, and
// opens the checkout page.
func (a *App) Checkout() CheckoutResult {
	cfg := a.core.Config()
	png, err := a.core.Capture()
	if err != nil {
		a.log.Error("checkout: " + err.Error())
		return CheckoutResult{Config: cfg, Error: err.Error()}
	}
	a.emit.Emit(configurator.MessageCheckout, configurator.NewMessage(configurator.MessageCheckout, cfg))
	a.emit.OpenURL(a.settings.CheckoutURL)
	return CheckoutResult{
		Image:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		Config: cfg,
	}
}
