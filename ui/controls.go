package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxSpeed is the highest ticks-per-frame multiplier the slider allows.
const MaxSpeed = 20

// ControlState is what the control panel can change.
type ControlState struct {
	Speed  int
	Paused bool
}

// ControlsPanel renders raygui widgets for speed, pause and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the panel and applies any widget changes to state and overlays.
func (c *ControlsPanel) Draw(state *ControlState, overlays *OverlayRegistry) {
	r := c.renderer
	pad := float32(r.Theme.Padding)
	rowH := float32(20)

	toggles := overlays.All()
	height := int32(pad*2 + rowH*float32(len(toggles)+3))
	r.DrawPanel(c.x, c.y, c.width, height)

	x := float32(c.x) + pad
	y := float32(c.y) + pad
	w := float32(c.width) - pad*2

	speed := gui.SliderBar(
		rl.Rectangle{X: x + 40, Y: y, Width: w - 80, Height: rowH - 4},
		"Speed", fmt.Sprintf("%dx", state.Speed),
		float32(state.Speed), 1, MaxSpeed,
	)
	state.Speed = max(1, min(int(speed+0.5), MaxSpeed))
	y += rowH

	label := "Pause"
	if state.Paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: rowH - 2}, label) {
		state.Paused = !state.Paused
	}
	y += rowH + 4

	for _, desc := range toggles {
		if desc.ID == OverlayControlPanel {
			continue
		}
		text := desc.Name
		if desc.KeyLabel != "" {
			text = fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
		}
		enabled := overlays.IsEnabled(desc.ID)
		if checked := gui.CheckBox(rl.Rectangle{X: x, Y: y + 2, Width: 12, Height: 12}, text, enabled); checked != enabled {
			overlays.SetEnabled(desc.ID, checked)
		}
		y += rowH
	}
}
