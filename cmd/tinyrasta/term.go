package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

// termState is the part of the terminal front-end touched by the event
// goroutine.
type termState struct {
	mu        sync.Mutex
	cols      int
	rows      int
	resized   bool
	showHUD   bool
	wireframe bool
}

// framebufferSize keeps the configured width and matches the aspect ratio
// of the cell grid, where every cell holds two square-ish pixels.
func framebufferSize(width, cols, rows int) (int, int) {
	if cols <= 0 || rows <= 0 {
		return width, width * 3 / 4
	}
	return width, max(1, width*rows*2/cols)
}

// runTerminal renders into the terminal with half-block cells until Esc,
// Ctrl+C or ctx is done.
func runTerminal(ctx context.Context, v *viewer) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			slog.Warn("terminal shutdown", "error", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := &termState{cols: cols, rows: rows, resized: true, wireframe: v.renderer.Wireframe}
	go handleTermEvents(term, state, v.controller, cancel)

	hud := NewHUD(v.name, v.mesh.TriangleCount())
	slog.Info("terminal front-end started", "cols", cols, "rows", rows, "fps", v.cfg.FPS)

	// Main loop
	targetDuration := time.Second / time.Duration(v.cfg.FPS)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		state.mu.Lock()
		cols, rows = state.cols, state.rows
		resized, showHUD, wire := state.resized, state.showHUD, state.wireframe
		state.resized = false
		state.mu.Unlock()

		if resized {
			term.Erase()
			term.Resize(cols, rows)
			fbw, fbh := framebufferSize(v.cfg.Width, cols, rows)
			v.renderer.Resize(fbw, fbh)
			slog.Debug("resized", "cols", cols, "rows", rows, "width", fbw, "height", fbh)
		}

		// Key release events are unreliable, so held keys fade out
		cam := v.controller.Update(float32(dt), 0.9)
		v.renderer.Wireframe = wire
		stats := v.frame(cam)

		area := uv.Rect(0, 0, cols, rows)
		v.renderer.Framebuffer().Draw(term, area)

		hud.UpdateFPS()
		if showHUD && rows > 1 {
			const style = "\x1b[40;97m"
			const reset = "\x1b[0m"
			uv.NewStyledString(style+" "+hud.Header(stats)+" "+reset).Draw(term, uv.Rect(0, 0, cols, 1))
			uv.NewStyledString(style+" "+hud.Footer(cam, v.controller.Speed(), wire)+" "+reset).
				Draw(term, uv.Rect(0, rows-1, cols, 1))
		}

		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// handleTermEvents turns terminal events into controller input and state
// changes.
func handleTermEvents(term *uv.Terminal, state *termState, ctl *Controller, cancel context.CancelFunc) {
	for ev := range term.Events() {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			state.mu.Lock()
			state.cols, state.rows = ev.Width, ev.Height
			state.resized = true
			state.mu.Unlock()

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape", "ctrl+c"):
				cancel()
				return
			case ev.MatchString("w"):
				ctl.Press(Input{Move: 1})
			case ev.MatchString("s"):
				ctl.Press(Input{Move: -1})
			case ev.MatchString("a"):
				ctl.Press(Input{Strafe: -1})
			case ev.MatchString("d"):
				ctl.Press(Input{Strafe: 1})
			case ev.MatchString("right"):
				ctl.Press(Input{Turn: 1})
			case ev.MatchString("left"):
				ctl.Press(Input{Turn: -1})
			case ev.MatchString("up"):
				ctl.Press(Input{Tilt: 1})
			case ev.MatchString("down"):
				ctl.Press(Input{Tilt: -1})
			case ev.MatchString("+", "="):
				ctl.ScaleSpeed(1.25)
			case ev.MatchString("-", "_"):
				ctl.ScaleSpeed(0.8)
			case ev.MatchString("r"):
				ctl.Reset()
			case ev.MatchString("x"):
				state.mu.Lock()
				state.wireframe = !state.wireframe
				state.mu.Unlock()
			case ev.MatchString("?", "shift+/"):
				state.mu.Lock()
				state.showHUD = !state.showHUD
				state.mu.Unlock()
			}
		}
	}
}
