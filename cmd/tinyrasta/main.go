// tinyrasta - CPU software rasterizer
// Loads an OBJ or glTF mesh and renders it with flat-coloured, depth-tested
// triangles, in the terminal, in a window, or to a PNG file.
//
// Controls:
//
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	Arrows      - Look around (mouse in window mode)
//	+/-         - Movement speed
//	X           - Toggle wireframe
//	R           - Reset camera
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/tinyrasta/pkg/config"
	"github.com/taigrr/tinyrasta/pkg/math3d"
	"github.com/taigrr/tinyrasta/pkg/models"
	"github.com/taigrr/tinyrasta/pkg/render"
)

var (
	configPath = flag.String("config", "", "Path to YAML config (default: ./"+config.DefaultFilename+" if present)")
	mode       = flag.String("mode", "term", "Front-end: term, window or png")
	outPath    = flag.String("out", "frame.png", "Output file for -mode png")
	width      = flag.Int("width", 0, "Framebuffer width (overrides config)")
	height     = flag.Int("height", 0, "Framebuffer height (overrides config)")
	fov        = flag.Float64("fov", 0, "Vertical field of view in degrees (overrides config)")
	targetFPS  = flag.Int("fps", 0, "Target FPS (overrides config)")
	seed       = flag.Uint64("seed", 0, "Colour seed (overrides config, 0 = random)")
	spin       = flag.Bool("spin", false, "Rotate the model around Y")
	fit        = flag.Bool("fit", false, "Centre the model and scale it to fit a 2 unit cube")
	wireframe  = flag.Bool("wireframe", false, "Start in wireframe mode")
	logPath    = flag.String("log", "", "Write logs to this file (term mode discards logs otherwise)")
	verbose    = flag.Bool("v", false, "Verbose logging")
	quiet      = flag.Bool("q", false, "No progress bar while loading")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tinyrasta - CPU software rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tinyrasta [options] <model.obj|model.glb>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/S         - Move forward/back\n")
		fmt.Fprintf(os.Stderr, "  A/D         - Strafe left/right\n")
		fmt.Fprintf(os.Stderr, "  Arrows      - Look around (mouse in window mode)\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Movement speed\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset camera\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// viewer is the state shared by every front-end.
type viewer struct {
	cfg        config.Config
	name       string
	mesh       *models.Mesh
	renderer   *render.Renderer
	controller *Controller
	spin       bool
	start      time.Time
}

// frame renders one frame from the given camera.
func (v *viewer) frame(cam render.Camera) render.Stats {
	if v.spin {
		angle := float32(time.Since(v.start).Seconds())
		v.renderer.Model = math3d.RotateY(angle)
	}
	return v.renderer.RenderFrame(cam, v.mesh)
}

func run(modelPath string) error {
	closeLog, err := setupLogger(*mode, *logPath, *verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mesh, err := loadMesh(modelPath, cfg)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	colorSeed := cfg.Seed
	if colorSeed == 0 {
		colorSeed = uint64(time.Now().UnixNano())
	}
	mesh.AssignRandomColors(rand.New(rand.NewPCG(colorSeed, colorSeed)))

	if *fit {
		fitMesh(mesh)
	}

	r := render.NewRenderer(cfg.Width, cfg.Height)
	r.Lens.FOV = cfg.FOV()
	r.Lens.Near = cfg.Near
	r.Lens.Far = cfg.Far
	r.Wireframe = *wireframe

	home := render.Camera{
		Position: cfg.CameraPosition(),
		Yaw:      cfg.Camera.Yaw,
		Pitch:    cfg.Camera.Pitch,
	}

	v := &viewer{
		cfg:        cfg,
		name:       filepath.Base(modelPath),
		mesh:       mesh,
		renderer:   r,
		controller: NewController(cfg, home),
		spin:       *spin,
		start:      time.Now(),
	}

	// Context for clean shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "png":
		return runSnapshot(v, *outPath)
	case "term":
		return runTerminal(ctx, v)
	case "window":
		return runWindow(ctx, v)
	default:
		return fmt.Errorf("unknown mode %q (use term, window or png)", *mode)
	}
}

// setupLogger installs the default slog logger. In terminal mode logs would
// corrupt the alternate screen, so they go to -log or nowhere.
func setupLogger(mode, path string, verbose bool) (func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closer := func() {}
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	case mode == "term":
		w = io.Discard
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closer, nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (config.Config, error) {
	path := *configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultFilename); err == nil {
			path = config.DefaultFilename
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		slog.Info("loaded config", "path", path)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "fov":
			cfg.FOVDegrees = float32(*fov)
		case "fps":
			cfg.FPS = *targetFPS
		case "seed":
			cfg.Seed = *seed
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadMesh imports the model, showing byte progress for OBJ text.
func loadMesh(path string, cfg config.Config) (*models.Mesh, error) {
	opts := models.Options{
		MaxVertices:  cfg.MaxVertices,
		MaxTriangles: cfg.MaxTriangles,
	}

	var bar *progressbar.ProgressBar
	if !*quiet && strings.EqualFold(filepath.Ext(path), ".obj") {
		if info, err := os.Stat(path); err == nil {
			bar = progressbar.DefaultBytes(info.Size(), "loading "+filepath.Base(path))
			opts.Progress = bar
		}
	}

	started := time.Now()
	mesh, err := models.Load(path, opts)
	if bar != nil {
		if err != nil {
			_ = bar.Exit()
		} else {
			_ = bar.Finish()
		}
	}
	if err != nil {
		if errors.Is(err, models.ErrEmptyMesh) {
			slog.Error("model has no usable triangles", "path", path)
		}
		return nil, err
	}

	slog.Info("loaded mesh",
		"path", path,
		"triangles", mesh.TriangleCount(),
		"vertices", mesh.VerticesRead,
		"rejected_faces", mesh.FacesRejected,
		"took", time.Since(started),
	)
	if mesh.Truncated() {
		slog.Warn("mesh truncated at importer capacity",
			"dropped_vertices", mesh.VerticesDropped,
			"dropped_faces", mesh.FacesDropped,
			"max_vertices", cfg.MaxVertices,
			"max_triangles", cfg.MaxTriangles,
		)
	}
	return mesh, nil
}

// fitMesh centres the mesh on the origin and scales it to a 2 unit cube.
func fitMesh(mesh *models.Mesh) {
	center := mesh.Center()
	size := mesh.Size()
	maxDim := max(size.X, size.Y, size.Z)
	if maxDim <= 0 {
		return
	}
	scale := 2.0 / maxDim
	mesh.Transform(math3d.ScaleUniform(scale).Mul(math3d.Translate(center.Negate())))
}

// runSnapshot renders a single frame and writes it as PNG.
func runSnapshot(v *viewer, path string) error {
	stats := v.frame(v.controller.Camera())
	if err := v.renderer.Framebuffer().SavePNG(path); err != nil {
		return err
	}
	slog.Info("wrote frame",
		"path", path,
		"drawn", stats.Drawn,
		"backfaced", stats.Backfaced,
		"behind_camera", stats.BehindCamera,
		"fragments", stats.Fragments,
	)
	return nil
}
