package configurator

import (
	"math"
	"testing"

	"github.com/chazu/padforge/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestAnimatorEndsExactly(t *testing.T) {
	starts := []v3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: -123.456, Y: 7.89, Z: 1e3},
		{X: 0.1, Y: 0.2, Z: 0.3},
	}
	dest := Pose{
		Position: v3.Vec{X: 210.123456789, Y: 330.1, Z: 180.7},
		Target:   v3.Vec{X: 150.3, Y: 15.01, Z: 99.9},
	}
	for _, start := range starts {
		sched := NewScheduler()
		cam := scene.NewCamera(start, v3.Vec{}, 50)
		a := NewAnimator(sched, &cam, 1000)
		a.AnimateTo(dest, nil)

		ticks := 0
		for a.Busy() {
			sched.Tick(1.0 / 60)
			ticks++
			if ticks > 120 {
				t.Fatalf("animation from %v did not finish in 2s", start)
			}
		}
		if cam.Position != dest.Position || cam.Target != dest.Target {
			t.Errorf("from %v: ended at %v/%v, want %v/%v", start, cam.Position, cam.Target, dest.Position, dest.Target)
		}
	}
}

func TestAnimatorMonotonic(t *testing.T) {
	sched := NewScheduler()
	cam := scene.NewCamera(v3.Vec{}, v3.Vec{Z: -1}, 50)
	a := NewAnimator(sched, &cam, 500)
	dest := Pose{Position: v3.Vec{X: 100}, Target: v3.Vec{X: 100, Z: -1}}
	a.AnimateTo(dest, nil)

	prev := cam.Position.X
	for a.Busy() {
		sched.Tick(1.0 / 60)
		if cam.Position.X < prev {
			t.Fatalf("moved backwards: %v < %v", cam.Position.X, prev)
		}
		if cam.Position.X > 100 {
			t.Fatalf("overshot: %v", cam.Position.X)
		}
		prev = cam.Position.X
	}
}

func TestAnimatorEaseOutCubic(t *testing.T) {
	sched := NewScheduler()
	cam := scene.NewCamera(v3.Vec{}, v3.Vec{Z: -1}, 50)
	a := NewAnimator(sched, &cam, 1000)
	a.AnimateTo(Pose{Position: v3.Vec{X: 100}, Target: v3.Vec{Z: -1}}, nil)

	sched.Tick(0.5)
	// 1 - (1 - 0.5)^3 = 0.875
	if math.Abs(cam.Position.X-87.5) > 1e-3 {
		t.Errorf("halfway X = %v, want 87.5", cam.Position.X)
	}
}

func TestAnimatorRedirect(t *testing.T) {
	sched := NewScheduler()
	cam := scene.NewCamera(v3.Vec{}, v3.Vec{Z: -1}, 50)
	a := NewAnimator(sched, &cam, 1000)

	first := 0
	a.AnimateTo(Pose{Position: v3.Vec{X: 100}}, func(Pose) { first++ })
	sched.Tick(0.3)
	mid := cam.Position

	second := 0
	dest := Pose{Position: v3.Vec{Y: 50}, Target: v3.Vec{Y: 50, Z: -1}}
	a.AnimateTo(dest, func(Pose) { second++ })

	sched.Tick(1.0 / 60)
	if cam.Position.X > mid.X {
		t.Errorf("redirected move continued towards the old destination: %v", cam.Position)
	}
	for a.Busy() {
		sched.Tick(1.0 / 60)
	}
	if first != 0 {
		t.Errorf("cancelled move completion ran %d times", first)
	}
	if second != 1 {
		t.Errorf("completion ran %d times, want 1", second)
	}
	if cam.Position != dest.Position || cam.Target != dest.Target {
		t.Errorf("ended at %v/%v, want %v/%v", cam.Position, cam.Target, dest.Position, dest.Target)
	}
}
