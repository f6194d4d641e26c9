package render

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/taigrr/tinyrasta/pkg/math3d"
)

const eps = 1e-5

func approxVec3(a, b math3d.Vec3) bool {
	return a.Distance(b) < eps
}

func TestCameraDirections(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float32
		forward    math3d.Vec3
		right      math3d.Vec3
	}{
		{"zero", 0, 0, math3d.V3(0, 0, 1), math3d.V3(1, 0, 0)},
		{"yaw quarter", math32.Pi / 2, 0, math3d.V3(1, 0, 0), math3d.V3(0, 0, -1)},
		{"yaw half", math32.Pi, 0, math3d.V3(0, 0, -1), math3d.V3(-1, 0, 0)},
		{"pitch up", 0, math32.Pi / 4, math3d.V3(0, math32.Sqrt(0.5), math32.Sqrt(0.5)), math3d.V3(1, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Camera{Yaw: tc.yaw, Pitch: tc.pitch}
			if got := c.Forward(); !approxVec3(got, tc.forward) {
				t.Errorf("Forward() = %v, want %v", got, tc.forward)
			}
			if got := c.Right(); !approxVec3(got, tc.right) {
				t.Errorf("Right() = %v, want %v", got, tc.right)
			}
			if l := c.Forward().Len(); math32.Abs(l-1) > eps {
				t.Errorf("|Forward()| = %v, want 1", l)
			}
		})
	}
}

func TestCameraViewMatrix(t *testing.T) {
	c := NewCamera()
	want := math3d.LookAt(c.Position, c.Position.Add(c.Forward()), math3d.Up())
	if got := c.ViewMatrix(); !got.ApproxEqual(want, eps) {
		t.Errorf("ViewMatrix() = %v, want %v", got, want)
	}

	// The eye maps to the view-space origin.
	if got := c.ViewMatrix().MulVec3(c.Position); !approxVec3(got, math3d.Zero3()) {
		t.Errorf("eye in view space = %v, want origin", got)
	}
}

func TestCameraMove(t *testing.T) {
	c := NewCamera()
	c.MoveForward(1)
	if !approxVec3(c.Position, math3d.V3(0, 0, 3)) {
		t.Errorf("after MoveForward(1) Position = %v", c.Position)
	}
	c.MoveRight(-2)
	if !approxVec3(c.Position, math3d.V3(-2, 0, 3)) {
		t.Errorf("after MoveRight(-2) Position = %v", c.Position)
	}
}

func TestCameraRotateClampsPitch(t *testing.T) {
	c := NewCamera()
	c.Rotate(10, 0.5, 1.55)
	if c.Pitch != 1.55 {
		t.Errorf("Pitch = %v, want 1.55", c.Pitch)
	}
	if c.Yaw != 0.5 {
		t.Errorf("Yaw = %v, want 0.5", c.Yaw)
	}

	c.Rotate(-20, 0, 1.55)
	if c.Pitch != -1.55 {
		t.Errorf("Pitch = %v, want -1.55", c.Pitch)
	}

	c.Rotate(5, 0, 0)
	if math32.Abs(c.Pitch-3.45) > eps {
		t.Errorf("unclamped Pitch = %v, want 3.45", c.Pitch)
	}
}

func TestDefaultLens(t *testing.T) {
	l := DefaultLens(640, 480)
	if l.Aspect != float32(640)/480 {
		t.Errorf("Aspect = %v", l.Aspect)
	}
	if l.Near != 0.1 || l.Far != 100 {
		t.Errorf("Near, Far = %v, %v", l.Near, l.Far)
	}
	want := math3d.Perspective(70*math32.Pi/180, float32(640)/480, 0.1, 100)
	if !l.Matrix().ApproxEqual(want, eps) {
		t.Errorf("Matrix() = %v, want %v", l.Matrix(), want)
	}

	l.SetSize(0, 10)
	if l.Aspect != float32(640)/480 {
		t.Error("SetSize with zero width changed the aspect")
	}
}
