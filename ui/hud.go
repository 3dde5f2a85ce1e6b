package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds the status line contents.
type HUDData struct {
	Tick   int32
	FPS    int32
	Paused bool
}

// HUD renders the status line and control legend.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the status line in the top-right corner.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	status := fmt.Sprintf("Tick %d | FPS %d", data.Tick, data.FPS)
	if data.Paused {
		status += " | PAUSED"
	}
	w := rl.MeasureText(status, 16)
	rl.DrawText(status, screenWidth-w-10, 10, 16, rl.LightGray)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
