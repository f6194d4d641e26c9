package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/tinyrasta/pkg/render"
)

// windowGame drives the viewer from ebiten's update and draw callbacks.
type windowGame struct {
	ctx    context.Context
	v      *viewer
	hud    *HUD
	pixels []byte
	stats  render.Stats
	cam    render.Camera

	mouseX, mouseY int
	mouseReady     bool
	showHUD        bool
}

func (g *windowGame) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	ctl := g.v.controller

	var in Input
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		in.Move++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		in.Move--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		in.Strafe++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		in.Strafe--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Turn++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Turn--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Tilt++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Tilt--
	}
	ctl.SetInput(in)

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		ctl.ScaleSpeed(1.25)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		ctl.ScaleSpeed(0.8)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		ctl.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		g.v.renderer.Wireframe = !g.v.renderer.Wireframe
	case inpututil.IsKeyJustPressed(ebiten.KeySlash):
		g.showHUD = !g.showHUD
	}

	// Relative mouse look; the first position only seeds the delta
	x, y := ebiten.CursorPosition()
	if g.mouseReady {
		ctl.Look(float32(x-g.mouseX), float32(y-g.mouseY))
	}
	g.mouseX, g.mouseY, g.mouseReady = x, y, true

	g.cam = ctl.Update(1/float32(ebiten.TPS()), 0)
	g.stats = g.v.frame(g.cam)
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	g.v.renderer.Framebuffer().CopyRGBA(g.pixels)
	screen.WritePixels(g.pixels)

	g.hud.SetFPS(ebiten.ActualFPS())
	if g.showHUD {
		ebitenutil.DebugPrint(screen, g.hud.Header(g.stats)+"\n"+
			g.hud.Footer(g.cam, g.v.controller.Speed(), g.v.renderer.Wireframe))
		return
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%.0f", ebiten.ActualFPS()))
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	fb := g.v.renderer.Framebuffer()
	return fb.Width, fb.Height
}

// runWindow opens a window at the configured size with the mouse captured
// for looking around.
func runWindow(ctx context.Context, v *viewer) error {
	fb := v.renderer.Framebuffer()

	ebiten.SetWindowSize(fb.Width, fb.Height)
	ebiten.SetWindowTitle("tinyrasta - " + v.name)
	ebiten.SetTPS(v.cfg.FPS)
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	g := &windowGame{
		ctx:    ctx,
		v:      v,
		hud:    NewHUD(v.name, v.mesh.TriangleCount()),
		pixels: make([]byte, 4*fb.Width*fb.Height),
		cam:    v.controller.Camera(),
	}

	slog.Info("window front-end started", "width", fb.Width, "height", fb.Height, "fps", v.cfg.FPS)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
