package main

import (
	"fmt"
	"time"

	"github.com/taigrr/tinyrasta/pkg/render"
)

// HUD tracks the frame rate and formats the overlay text.
type HUD struct {
	filename  string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(filename string, polyCount int) *HUD {
	return &HUD{
		filename:  filename,
		polyCount: polyCount,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// SetFPS overrides the measured frame rate (front-ends that measure it
// themselves).
func (h *HUD) SetFPS(fps float64) {
	h.fps = fps
}

// Header returns the top line: frame rate, file and triangle counts.
func (h *HUD) Header(stats render.Stats) string {
	return fmt.Sprintf("%.0f FPS  %s  %d tris  %d drawn  %d culled",
		h.fps, h.filename, h.polyCount, stats.Drawn, stats.Backfaced+stats.BehindCamera)
}

// Footer returns the bottom line: camera state and toggles.
func (h *HUD) Footer(cam render.Camera, speed float32, wireframe bool) string {
	check := "[ ]"
	if wireframe {
		check = "[x]"
	}
	p := cam.Position
	return fmt.Sprintf("pos %.2f,%.2f,%.2f  yaw %.2f  pitch %.2f  speed %.2f  %s wireframe",
		p.X, p.Y, p.Z, cam.Yaw, cam.Pitch, speed, check)
}
