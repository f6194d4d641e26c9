package main

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/taigrr/tinyrasta/pkg/config"
	"github.com/taigrr/tinyrasta/pkg/render"
)

func newTestController() *Controller {
	return NewController(config.Default(), render.NewCamera())
}

// settle runs enough frames for the springs to reach their target.
func settle(c *Controller, frames int) render.Camera {
	var cam render.Camera
	for range frames {
		cam = c.Update(1.0/60, 0)
	}
	return cam
}

func TestControllerMoveDirections(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		check func(before, after render.Camera) bool
	}{
		// W moves against the forward vector (+z at zero yaw).
		{"w", Input{Move: 1}, func(b, a render.Camera) bool { return a.Position.Z < b.Position.Z }},
		{"s", Input{Move: -1}, func(b, a render.Camera) bool { return a.Position.Z > b.Position.Z }},
		{"a", Input{Strafe: -1}, func(b, a render.Camera) bool { return a.Position.X < b.Position.X }},
		{"d", Input{Strafe: 1}, func(b, a render.Camera) bool { return a.Position.X > b.Position.X }},
		{"right", Input{Turn: 1}, func(b, a render.Camera) bool { return a.Yaw < b.Yaw }},
		{"left", Input{Turn: -1}, func(b, a render.Camera) bool { return a.Yaw > b.Yaw }},
		{"up", Input{Tilt: 1}, func(b, a render.Camera) bool { return a.Pitch > b.Pitch }},
		{"down", Input{Tilt: -1}, func(b, a render.Camera) bool { return a.Pitch < b.Pitch }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestController()
			before := c.Camera()
			c.SetInput(tc.in)
			after := settle(c, 30)
			if !tc.check(before, after) {
				t.Errorf("camera %+v -> %+v", before, after)
			}
		})
	}
}

func TestControllerPitchClamp(t *testing.T) {
	c := newTestController()
	c.SetInput(Input{Tilt: 1})
	cam := settle(c, 60*10)
	if cam.Pitch > c.PitchLimit+1e-6 {
		t.Errorf("Pitch = %v, want <= %v", cam.Pitch, c.PitchLimit)
	}

	c.Look(0, 1e9)
	if cam := c.Camera(); cam.Pitch < -c.PitchLimit-1e-6 {
		t.Errorf("Pitch after mouse = %v, want >= %v", cam.Pitch, -c.PitchLimit)
	}
}

func TestControllerLook(t *testing.T) {
	c := newTestController()
	c.Look(100, 50)

	cam := c.Camera()
	if math32.Abs(cam.Yaw-(-0.1)) > 1e-6 {
		t.Errorf("Yaw = %v, want -0.1", cam.Yaw)
	}
	if math32.Abs(cam.Pitch-(-0.05)) > 1e-6 {
		t.Errorf("Pitch = %v, want -0.05", cam.Pitch)
	}
}

func TestControllerDecay(t *testing.T) {
	c := newTestController()
	c.Press(Input{Move: 1})
	for range 200 {
		c.Update(1.0/60, 0.9)
	}
	before := c.Camera().Position
	c.Update(1.0/60, 0.9)
	if d := c.Camera().Position.Distance(before); d > 1e-4 {
		t.Errorf("camera still moving %v per frame after release", d)
	}
}

func TestControllerReset(t *testing.T) {
	c := newTestController()
	c.SetInput(Input{Move: 1, Turn: 1})
	settle(c, 30)
	c.Reset()

	if cam := c.Camera(); cam != render.NewCamera() {
		t.Errorf("Camera() = %+v after Reset", cam)
	}
	if cam := c.Update(1.0/60, 0); cam != render.NewCamera() {
		t.Errorf("camera moved after Reset: %+v", cam)
	}
}

func TestControllerScaleSpeed(t *testing.T) {
	c := newTestController()
	c.ScaleSpeed(2)
	if c.Speed() != 2 {
		t.Errorf("Speed() = %v, want 2", c.Speed())
	}
	for range 100 {
		c.ScaleSpeed(0.1)
	}
	if c.Speed() < 0.05 {
		t.Errorf("Speed() = %v, want clamped at 0.05", c.Speed())
	}
}

func TestFramebufferSize(t *testing.T) {
	tests := []struct {
		width, cols, rows int
		w, h              int
	}{
		{640, 80, 24, 640, 384},
		{640, 0, 0, 640, 480},
		{100, 200, 1, 100, 1},
	}
	for _, tc := range tests {
		w, h := framebufferSize(tc.width, tc.cols, tc.rows)
		if w != tc.w || h != tc.h {
			t.Errorf("framebufferSize(%d, %d, %d) = %d, %d, want %d, %d", tc.width, tc.cols, tc.rows, w, h, tc.w, tc.h)
		}
	}
}
