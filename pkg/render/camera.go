package render

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/tinyrasta/pkg/math3d"
)

// Default lens and camera placement.
const (
	DefaultFOV  = 70 * math32.Pi / 180
	DefaultNear = 0.1
	DefaultFar  = 100
)

// DefaultCameraPosition is where a fresh camera is placed.
var DefaultCameraPosition = math3d.V3(0, 0, 2)

// Camera is a position plus yaw and pitch Euler angles (radians).
// The renderer only reads it; front-ends own and mutate it.
type Camera struct {
	Position math3d.Vec3
	Yaw      float32 // Rotation around Y
	Pitch    float32 // Rotation around X
}

// NewCamera returns a camera at DefaultCameraPosition with zero rotation.
func NewCamera() Camera {
	return Camera{Position: DefaultCameraPosition}
}

// Forward returns the unit view direction.
func (c Camera) Forward() math3d.Vec3 {
	cp := math32.Cos(c.Pitch)
	return math3d.V3(
		cp*math32.Sin(c.Yaw),
		math32.Sin(c.Pitch),
		cp*math32.Cos(c.Yaw),
	)
}

// Right returns normalize(up × forward).
func (c Camera) Right() math3d.Vec3 {
	return math3d.Up().Cross(c.Forward()).Normalize()
}

// ViewMatrix looks from Position one unit along Forward with world up.
func (c Camera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.Position, c.Position.Add(c.Forward()), math3d.Up())
}

// MoveForward moves the camera along Forward (or backward if negative).
func (c *Camera) MoveForward(distance float32) {
	c.Position = c.Position.Add(c.Forward().Scale(distance))
}

// MoveRight moves the camera along Right (or left if negative).
func (c *Camera) MoveRight(distance float32) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
}

// Rotate adds the given angles and clamps pitch to [-limit, limit].
// A non-positive limit leaves pitch unclamped.
func (c *Camera) Rotate(deltaPitch, deltaYaw, limit float32) {
	c.Pitch += deltaPitch
	c.Yaw += deltaYaw

	if limit > 0 {
		c.Pitch = math32.Max(-limit, math32.Min(limit, c.Pitch))
	}
}

// Lens holds the perspective projection parameters.
type Lens struct {
	FOV    float32 // Vertical field of view in radians
	Aspect float32 // Width / Height
	Near   float32
	Far    float32
}

// DefaultLens returns a 70 degree lens for a width x height target.
func DefaultLens(width, height int) Lens {
	l := Lens{FOV: DefaultFOV, Near: DefaultNear, Far: DefaultFar}
	l.SetSize(width, height)
	return l
}

// SetSize updates the aspect ratio for a width x height target.
func (l *Lens) SetSize(width, height int) {
	if width > 0 && height > 0 {
		l.Aspect = float32(width) / float32(height)
	}
}

// Matrix returns the projection matrix.
func (l Lens) Matrix() math3d.Mat4 {
	return math3d.Perspective(l.FOV, l.Aspect, l.Near, l.Far)
}
