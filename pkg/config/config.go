// Package config holds the tunables of the viewer and loads them from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chewxy/math32"
	"github.com/taigrr/tinyrasta/pkg/math3d"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the config file looked up when none is given.
const DefaultFilename = "tinyrasta.yml"

// maxConfigSize bounds the config file.
const maxConfigSize = 1024 * 1024

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// CameraConfig is the initial camera placement.
type CameraConfig struct {
	Position []float32 `yaml:"position"` // x, y, z
	Yaw      float32   `yaml:"yaw"`      // radians
	Pitch    float32   `yaml:"pitch"`    // radians
}

// Config holds every tunable of the renderer and its front-ends.
type Config struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	FOVDegrees float32 `yaml:"fov_degrees"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`

	// Importer capacities; 0 means unlimited.
	MaxVertices  int `yaml:"max_vertices"`
	MaxTriangles int `yaml:"max_triangles"`

	// Seed for the per-triangle colours; 0 picks a random seed.
	Seed uint64 `yaml:"seed"`

	FPS              int     `yaml:"fps"`
	MoveSpeed        float32 `yaml:"move_speed"` // units per second
	RotSpeed         float32 `yaml:"rot_speed"`  // radians per second
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	PitchLimit       float32 `yaml:"pitch_limit"`

	Camera CameraConfig `yaml:"camera"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:            640,
		Height:           480,
		FOVDegrees:       70,
		Near:             0.1,
		Far:              100,
		MaxVertices:      50000,
		MaxTriangles:     100000,
		FPS:              60,
		MoveSpeed:        1.0,
		RotSpeed:         1.2,
		MouseSensitivity: 0.001,
		PitchLimit:       1.55,
		Camera: CameraConfig{
			Position: []float32{0, 0, 2},
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("config %s too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if c.Width <= 0 || c.Height <= 0 {
		invalid("size %dx%d must be positive", c.Width, c.Height)
	}
	if c.FOVDegrees <= 0 || c.FOVDegrees >= 180 {
		invalid("fov_degrees %v must be in (0, 180)", c.FOVDegrees)
	}
	if c.Near <= 0 || c.Near >= c.Far {
		invalid("near %v must be positive and below far %v", c.Near, c.Far)
	}
	if c.MaxVertices < 0 || c.MaxTriangles < 0 {
		invalid("capacities must not be negative")
	}
	if c.MoveSpeed < 0 || c.RotSpeed < 0 || c.MouseSensitivity < 0 {
		invalid("speeds must not be negative")
	}
	if c.FPS <= 0 {
		invalid("fps %d must be positive", c.FPS)
	}
	if c.PitchLimit < 0 || c.PitchLimit >= math32.Pi/2 {
		invalid("pitch_limit %v must be in [0, pi/2)", c.PitchLimit)
	}
	if len(c.Camera.Position) != 3 {
		invalid("camera.position needs 3 components, got %d", len(c.Camera.Position))
	}

	return errors.Join(errs...)
}

// FOV returns the vertical field of view in radians.
func (c Config) FOV() float32 {
	return c.FOVDegrees * math32.Pi / 180
}

// CameraPosition returns the configured start position.
func (c Config) CameraPosition() math3d.Vec3 {
	p := c.Camera.Position
	if len(p) != 3 {
		return math3d.V3(0, 0, 2)
	}
	return math3d.V3(p[0], p[1], p[2])
}
