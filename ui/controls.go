package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// PanelData holds the readouts and control values shown in the panel.
type PanelData struct {
	Tick        int32
	Mass        float64
	Occupied    int
	Cells       int
	PeakSpeed   float32
	CFL         float32
	FPS         int32
	Emitters    int
	MaxEmitters int
	StampMode   string

	Viscosity float32
	DT        float32 // Timestep of the running simulation
	PendingDT float32 // Timestep the next reset uses
	DTMin     float32
	DTMax     float32
}

// PanelActions reports what the user changed this frame.
type PanelActions struct {
	Viscosity float32
	PendingDT float32
	Reset     bool
	Clear     bool
}

// ControlsPanel renders the left-side panel with sliders, buttons and readouts.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel, shown by default.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether screen point (x, y) is over the visible panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x < float32(c.x+c.width) &&
		y >= float32(c.y) && y < float32(c.y+c.height())
}

func (c *ControlsPanel) height() int32 {
	t := c.renderer.Theme
	return t.LineHeight*19 + t.Padding*2
}

// Draw renders the panel and returns the control values after user input.
// A hidden panel returns the incoming values unchanged.
func (c *ControlsPanel) Draw(data PanelData) PanelActions {
	actions := PanelActions{Viscosity: data.Viscosity, PendingDT: data.PendingDT}
	if !c.visible {
		return actions
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	x := c.x + padding
	inner := c.width - padding*2

	r.DrawPanel(c.x, c.y, c.width, c.height())
	y := c.y + padding

	rl.DrawText("Controls", x, y, 16, rl.White)
	y += lineHeight + 4

	// Sliders
	rl.DrawText(fmt.Sprintf("Viscosity %.2f (inert)", data.Viscosity), x, y, r.Theme.FontSize, r.Theme.MutedColor)
	y += lineHeight
	actions.Viscosity = gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner), Height: 14},
		"", "", data.Viscosity, 0, 1,
	)
	y += lineHeight + 4

	dtLabel := fmt.Sprintf("Time Step %.4f", data.PendingDT)
	if data.PendingDT != data.DT {
		dtLabel += " (on reset)"
	}
	rl.DrawText(dtLabel, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lineHeight
	actions.PendingDT = gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner), Height: 14},
		"", "", data.PendingDT, data.DTMin, data.DTMax,
	)
	y += lineHeight + 6

	// Buttons
	half := float32(inner-padding) / 2
	actions.Reset = gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 22}, "Reset [R]")
	actions.Clear = gui.Button(rl.Rectangle{X: float32(x) + half + float32(padding), Y: float32(y), Width: half, Height: 22}, "Clear [C]")
	y += 30

	// Readouts
	y = r.DrawSectionHeader(x, y, "Simulation")
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "DT", fmt.Sprintf("%.4f", data.DT))
	y = r.DrawLabelValue(x, y, "Mass", fmt.Sprintf("%.1f", data.Mass))
	y = r.DrawLabelValue(x, y, "Occupied", fmt.Sprintf("%d", data.Occupied))
	var coverage float32
	if data.Cells > 0 {
		coverage = float32(data.Occupied) / float32(data.Cells)
	}
	y = r.DrawBar(x, y, "Coverage", coverage, 0.5, inner)
	y = r.DrawLabelValue(x, y, "Peak speed", fmt.Sprintf("%.1f", data.PeakSpeed))
	y = r.DrawBar(x, y, "CFL", data.CFL, 1, inner)
	y = r.DrawLabelValue(x, y, "Emitters", fmt.Sprintf("%d/%d", data.Emitters, data.MaxEmitters))
	y = r.DrawLabelValue(x, y, "Stamp", data.StampMode)
	r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))

	return actions
}
