package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/padforge/pkg/graph"
)

// DefaultTimeout bounds a single evaluation unless the engine is built with
// WithTimeout.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine timeout.
	ErrTimeout = errors.New("engine: evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one had started on the same engine.
	ErrSuperseded = errors.New("engine: evaluation superseded by a newer request")
)

type evalResult struct {
	graph  *graph.LayoutGraph
	errors []EvalError
	err    error
}

// wait blocks for the result of evaluation gen. A timed-out script keeps
// running in its goroutine; its result is dropped on arrival because the
// channel is buffered and nobody reads it.
func (e *Engine) wait(ctx context.Context, ch <-chan evalResult, gen uint64) (*graph.LayoutGraph, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !e.current(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.graph, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}

// next starts a new generation and returns its number.
func (e *Engine) next() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}
