package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEvaluateBlankSources(t *testing.T) {
	eng := NewEngine()
	for _, src := range []string{"", "   \n\t  \n  ", "; only a comment\n"} {
		g, evalErrs, err := eng.Evaluate(src)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("Evaluate(%q) = %v, %v", src, evalErrs, err)
		}
		if g == nil || g.NodeCount() != 0 {
			t.Errorf("Evaluate(%q): want an empty graph, got %v", src, g)
		}
	}
}

func TestEvaluateDefinitionsOnly(t *testing.T) {
	eng := NewEngine()

	// Plain definitions declare no parts, so the graph is empty.
	source := `
(def button-radius 9)
(def knob-radius (* button-radius 1.5))
(+ button-radius knob-radius)
`
	g, evalErrs, err := eng.Evaluate(source)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("Evaluate = %v, %v", evalErrs, err)
	}
	if g.NodeCount() != 0 || len(g.Roots) != 0 {
		t.Errorf("graph = %d nodes, %d roots; want empty", g.NodeCount(), len(g.Roots))
	}
}

func TestEvaluateScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unmatched paren", `(defpart "Boton_1" (box :width 10 :height 4 :depth 10)`},
		{"undefined symbol", `(defpart "Boton_1" (box :width undefined-width :height 4 :depth 10))`},
		{"builtin error", `(box :width "ten" :height 4 :depth 10)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected a script error, got fatal: %v", err)
			}
			if g != nil {
				t.Error("expected nil graph on script error")
			}
			if len(evalErrs) == 0 || evalErrs[0].Message == "" {
				t.Fatalf("eval errors = %v, want a message", evalErrs)
			}
		})
	}
}

func TestEvalErrorString(t *testing.T) {
	e := EvalError{Line: 5, Message: "box: width must be a number"}
	if got := e.Error(); got != "line 5: box: width must be a number" {
		t.Errorf("Error() = %q", got)
	}
	e = EvalError{Message: "no location"}
	if got := e.Error(); got != "no location" {
		t.Errorf("Error() = %q", got)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	source := `
(defpart "CubeChasis" (box :width 300 :height 30 :depth 200))
(assembly "controller" (part "CubeChasis"))
`
	first, _, err := eng.Evaluate(source)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		g, evalErrs, err := eng.Evaluate(source)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("iteration %d: %v %v", i, evalErrs, err)
		}
		if g.NodeCount() != first.NodeCount() || g.Roots[0] != first.Roots[0] {
			t.Errorf("iteration %d: graph differs from the first evaluation", i)
		}
	}
}

func TestWaitTimesOut(t *testing.T) {
	eng := NewEngine(WithTimeout(20 * time.Millisecond))
	gen := eng.next()
	ch := make(chan evalResult) // never sends

	start := time.Now()
	_, _, err := eng.wait(context.Background(), ch, gen)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %s", elapsed)
	}
}

func TestWaitDiscardsStale(t *testing.T) {
	eng := NewEngine()
	stale := eng.next()
	eng.next()

	ch := make(chan evalResult, 1)
	ch <- evalResult{}
	if _, _, err := eng.wait(context.Background(), ch, stale); !errors.Is(err, ErrSuperseded) {
		t.Errorf("err = %v, want ErrSuperseded", err)
	}
}

func TestEvaluateContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eng := NewEngine()
	gen := eng.next()
	_, _, err := eng.wait(ctx, make(chan evalResult), gen)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	if got := NewEngine(WithTimeout(0)).timeout; got != DefaultTimeout {
		t.Errorf("timeout = %s, want %s", got, DefaultTimeout)
	}
	if got := NewEngine(WithTimeout(time.Second)).timeout; got != time.Second {
		t.Errorf("timeout = %s, want 1s", got)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short form", "line 3: box: width", 3, "box: width"},
		{"no line info", "some generic error", 0, "some generic error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errors.New(tt.msg))
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1", len(errs))
			}
			if errs[0].Line != tt.wantLine {
				t.Errorf("line = %d, want %d", errs[0].Line, tt.wantLine)
			}
			if !strings.Contains(errs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}
