// Package loader turns a controller layout script into a scene tree:
// evaluate, validate, tessellate, then wrap each part in a scene node.
// Load runs the pipeline off the caller's goroutine and delivers a single
// completion result.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chazu/padforge/pkg/engine"
	"github.com/chazu/padforge/pkg/graph"
	"github.com/chazu/padforge/pkg/kernel"
	"github.com/chazu/padforge/pkg/scene"
	"github.com/chazu/padforge/pkg/tessellate"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// ErrNoModel is returned when a script evaluates to a layout with no parts.
var ErrNoModel = errors.New("loader: layout has no parts")

// Result is the completion of one asynchronous load.
type Result struct {
	Root *scene.Node
	Err  error
}

// Loader builds scene trees from layout scripts.
type Loader struct {
	engine *engine.Engine
	kernel kernel.Kernel
	log    logger.Logger
}

// New returns a loader meshing with k and logging to log.
func New(k kernel.Kernel, log logger.Logger) *Loader {
	return &Loader{engine: engine.NewEngine(), kernel: k, log: log}
}

// Load runs Build in a new goroutine. The returned channel receives exactly
// one Result and is then closed. A cancelled ctx yields ctx.Err() without
// waiting for the pipeline to finish.
func (l *Loader) Load(ctx context.Context, source string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		done := make(chan Result, 1)
		go func() {
			root, err := l.build(ctx, source)
			done <- Result{Root: root, Err: err}
		}()
		select {
		case res := <-done:
			out <- res
		case <-ctx.Done():
			out <- Result{Err: ctx.Err()}
		}
	}()
	return out
}

// Build runs the whole pipeline synchronously.
func (l *Loader) Build(source string) (*scene.Node, error) {
	return l.build(context.Background(), source)
}

func (l *Loader) build(ctx context.Context, source string) (*scene.Node, error) {
	start := time.Now()

	g, evalErrs, err := l.engine.EvaluateContext(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("loader: evaluate: %w", err)
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("loader: script: %s", strings.Join(msgs, "; "))
	}

	findings := graph.Validate(g)
	for _, f := range findings {
		if f.Severity == graph.SeverityWarning {
			l.log.Warning("loader: " + f.Error())
		}
	}
	if graph.HasErrors(findings) {
		var msgs []string
		for _, f := range findings {
			if f.Severity == graph.SeverityError {
				msgs = append(msgs, f.Error())
			}
		}
		return nil, fmt.Errorf("loader: invalid layout: %s", strings.Join(msgs, "; "))
	}

	parts, err := tessellate.Tessellate(g, l.kernel)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if len(parts) == 0 {
		return nil, ErrNoModel
	}

	root, err := buildScene(rootName(g), parts)
	if err != nil {
		return nil, err
	}
	l.log.Info(fmt.Sprintf("loader: %d parts in %s", len(parts), time.Since(start).Round(time.Millisecond)))
	return root, nil
}

// rootName names the scene root after the single layout root, if any.
func rootName(g *graph.LayoutGraph) string {
	if len(g.Roots) == 1 {
		if n := g.Get(g.Roots[0]); n != nil && n.Name != "" {
			return n.Name
		}
	}
	return "scene"
}

// buildScene nests each part under group nodes mirroring its assemblies.
// The outermost assembly of a single-root layout becomes the root itself.
func buildScene(name string, parts []tessellate.Part) (*scene.Node, error) {
	root := scene.NewGroup(name)
	for _, p := range parts {
		var mat *scene.Material
		if p.Material != nil {
			m, err := scene.ParseMaterial(p.Material.Color, p.Material.Metalness, p.Material.Roughness)
			if err != nil {
				return nil, fmt.Errorf("loader: part %q: %w", p.Name, err)
			}
			mat = &m
		}

		path := p.Assemblies
		if len(path) > 0 && path[0] == name {
			path = path[1:]
		}
		parent := root
		for _, asm := range path {
			parent = childGroup(parent, asm)
		}
		parent.Add(scene.NewMesh(p.Name, p.Mesh, mat))
	}
	return root, nil
}

// childGroup returns the non-drawable child of parent named name,
// creating it if needed.
func childGroup(parent *scene.Node, name string) *scene.Node {
	for _, c := range parent.Children {
		if c.Name == name && !c.Drawable() {
			return c
		}
	}
	g := scene.NewGroup(name)
	parent.Add(g)
	return g
}
