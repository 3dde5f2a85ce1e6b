package main

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/inkflow/config"
	"github.com/pthm-cable/inkflow/game"
	"github.com/pthm-cable/inkflow/renderer"
	"github.com/pthm-cable/inkflow/ui"
)

const controlsLegend = "LMB: ink | RMB: emitter | Space: pause | R: reset | C: clear emitters | S: snapshot | Tab: panel"

// window is the raylib front end around a Game.
type window struct {
	game  *game.Game
	cfg   *config.Config
	scale float32

	ink   *renderer.InkRenderer
	panel *ui.ControlsPanel
	hud   *ui.HUD

	screenW, screenH int32
}

func newWindow(g *game.Game, cfg *config.Config) *window {
	w := int32(cfg.Derived.ScreenWidth)
	h := int32(cfg.Derived.ScreenHeight)
	scale := float32(cfg.Screen.Scale)
	if scale < 1 {
		scale = 1
	}

	win := &window{
		game:    g,
		cfg:     cfg,
		scale:   scale,
		ink:     renderer.NewInkRenderer(w, h),
		panel:   ui.NewControlsPanel(10, 10, 240),
		hud:     ui.NewHUD(),
		screenW: w,
		screenH: h,
	}
	win.ink.Init(g.Sim().Width(), g.Sim().Height())
	return win
}

// frame runs one update and draw.
func (w *window) frame() {
	w.game.Update(w.handleInput)
	w.draw()
	w.game.Perf().RecordFrame()
}

// handleInput processes mouse and keyboard input.
func (w *window) handleInput() {
	mouse := rl.GetMousePosition()
	overPanel := w.panel.Contains(mouse.X, mouse.Y)
	x, y := int(mouse.X/w.scale), int(mouse.Y/w.scale)

	// Held button injects every frame, as a brush.
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) && !overPanel {
		w.game.Inject(x, y)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) && !overPanel {
		if !w.game.SpawnEmitter(x, y) {
			slog.Info("emitter not placed", "x", x, "y", y, "active", w.game.EmitterCount())
		}
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		w.game.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		w.reset()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		w.game.ClearEmitters()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		if path, err := w.game.SaveSnapshot(); err != nil {
			slog.Warn("snapshot not saved", "error", err)
		} else {
			slog.Info("snapshot saved", "path", path)
		}
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		w.panel.Toggle()
	}
}

func (w *window) reset() {
	if err := w.game.Reset(); err != nil {
		slog.Error("reset failed", "error", err)
	}
}

// draw renders the ink layer, emitter markers, panel and HUD, then applies
// panel changes.
func (w *window) draw() {
	sim := w.game.Sim()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	w.ink.Update(w.game.Pixels(), sim.Width(), sim.Height())
	w.ink.Draw()

	half := w.scale / 2
	w.game.EachEmitter(func(x, y int) {
		cx := int32(float32(x)*w.scale + half)
		cy := int32(float32(y)*w.scale + half)
		rl.DrawCircleLines(cx, cy, 4+half, rl.Orange)
	})

	fps := rl.GetFPS()
	actions := w.panel.Draw(ui.PanelData{
		Tick:        sim.Tick(),
		Mass:        sim.Mass(),
		Occupied:    sim.OccupiedCells(),
		Cells:       sim.Width() * sim.Height(),
		PeakSpeed:   sim.PeakSpeed(),
		CFL:         sim.CFL(),
		FPS:         fps,
		Emitters:    w.game.EmitterCount(),
		MaxEmitters: w.cfg.Emitters.Max,
		StampMode:   sim.Params().StampMode.String(),
		Viscosity:   w.game.Viscosity(),
		DT:          sim.DT(),
		PendingDT:   w.game.PendingDT(),
		DTMin:       float32(w.cfg.Controls.DTMin),
		DTMax:       float32(w.cfg.Controls.DTMax),
	})
	w.hud.Draw(ui.HUDData{Tick: sim.Tick(), FPS: fps, Paused: w.game.Paused()}, w.screenW)
	w.hud.DrawControls(w.screenH, controlsLegend)

	rl.EndDrawing()

	w.game.SetViscosity(actions.Viscosity)
	w.game.SetPendingDT(actions.PendingDT)
	if actions.Reset {
		w.reset()
	}
	if actions.Clear {
		w.game.ClearEmitters()
	}
}

// unload frees GPU resources.
func (w *window) unload() {
	w.ink.Unload()
}
