package main

import (
	"sync"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/tinyrasta/pkg/config"
	"github.com/taigrr/tinyrasta/pkg/render"
)

// Input is the movement intent for one frame. Every component is in
// [-1, 1]; zero means idle.
type Input struct {
	Move   float32 // +1 = W (along -forward), -1 = S
	Strafe float32 // +1 = D (along +right), -1 = A
	Turn   float32 // +1 = right arrow (yaw decreases)
	Tilt   float32 // +1 = up arrow (pitch increases)
}

// Decay scales the intent towards idle. Terminals do not report key
// releases reliably, so held keys are modelled as repeated presses that
// fade out.
func (in *Input) Decay(factor float32) {
	in.Move *= factor
	in.Strafe *= factor
	in.Turn *= factor
	in.Tilt *= factor
}

// axis smooths one velocity towards its target with a critically damped
// spring.
type axis struct {
	vel    float64
	accel  float64
	spring harmonica.Spring
}

func newAxis(fps int) axis {
	// Frequency 6.0 = quick response, damping 1.0 = critically damped (no overshoot)
	return axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

func (a *axis) step(target float32) float32 {
	a.vel, a.accel = a.spring.Update(a.vel, a.accel, float64(target))
	return float32(a.vel)
}

// Controller owns the interactive camera. Front-ends feed it input and
// hand the renderer a copy of the camera every frame.
type Controller struct {
	mu sync.Mutex

	cam   render.Camera
	home  render.Camera
	input Input
	fps   int

	move, strafe, turn, tilt axis

	MoveSpeed        float32 // units per second
	RotSpeed         float32 // radians per second
	MouseSensitivity float32 // radians per mouse unit
	PitchLimit       float32
}

// NewController creates a controller starting at home.
func NewController(cfg config.Config, home render.Camera) *Controller {
	c := &Controller{
		cam:              home,
		home:             home,
		fps:              cfg.FPS,
		MoveSpeed:        cfg.MoveSpeed,
		RotSpeed:         cfg.RotSpeed,
		MouseSensitivity: cfg.MouseSensitivity,
		PitchLimit:       cfg.PitchLimit,
	}
	c.resetAxes()
	return c
}

func (c *Controller) resetAxes() {
	c.move = newAxis(c.fps)
	c.strafe = newAxis(c.fps)
	c.turn = newAxis(c.fps)
	c.tilt = newAxis(c.fps)
}

// SetInput replaces the current intent.
func (c *Controller) SetInput(in Input) {
	c.mu.Lock()
	c.input = in
	c.mu.Unlock()
}

// Press merges in into the current intent; non-zero components win.
func (c *Controller) Press(in Input) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if in.Move != 0 {
		c.input.Move = in.Move
	}
	if in.Strafe != 0 {
		c.input.Strafe = in.Strafe
	}
	if in.Turn != 0 {
		c.input.Turn = in.Turn
	}
	if in.Tilt != 0 {
		c.input.Tilt = in.Tilt
	}
}

// Look applies a relative mouse motion immediately.
func (c *Controller) Look(dx, dy float32) {
	c.mu.Lock()
	c.cam.Rotate(-dy*c.MouseSensitivity, -dx*c.MouseSensitivity, c.PitchLimit)
	c.mu.Unlock()
}

// ScaleSpeed multiplies the movement speed, keeping it within sane bounds.
func (c *Controller) ScaleSpeed(factor float32) {
	c.mu.Lock()
	c.MoveSpeed = min(max(c.MoveSpeed*factor, 0.05), 100)
	c.mu.Unlock()
}

// Speed returns the current movement speed.
func (c *Controller) Speed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.MoveSpeed
}

// Reset returns the camera home and stops all motion.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.cam = c.home
	c.input = Input{}
	c.resetAxes()
	c.mu.Unlock()
}

// Update advances the springs one frame and moves the camera by dt
// seconds. It returns the new camera. When decay is non-zero the intent
// is faded by that factor afterwards.
func (c *Controller) Update(dt, decay float32) render.Camera {
	c.mu.Lock()
	defer c.mu.Unlock()

	move := c.move.step(c.input.Move * c.MoveSpeed)
	strafe := c.strafe.step(c.input.Strafe * c.MoveSpeed)
	turn := c.turn.step(c.input.Turn * c.RotSpeed)
	tilt := c.tilt.step(c.input.Tilt * c.RotSpeed)

	c.cam.Rotate(tilt*dt, -turn*dt, c.PitchLimit)
	c.cam.MoveForward(-move * dt)
	c.cam.MoveRight(strafe * dt)

	if decay != 0 {
		c.input.Decay(decay)
	}
	return c.cam
}

// Camera returns a copy of the current camera.
func (c *Controller) Camera() render.Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cam
}
