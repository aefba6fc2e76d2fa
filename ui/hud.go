package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Mode        string
	Score       int
	Generation  int // Shown only when ShowGen is set
	ShowGen     bool
	Alive       int
	Population  int
	Tick        int
	Speed       int
	FPS         int32
	Paused      bool
	BestFitness float64
	GameOver    bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the score in the top-right corner and round info on the left.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	score := fmt.Sprintf("Score: %d", data.Score)
	rl.DrawText(score, screenWidth-10-rl.MeasureText(score, 20), 10, 20, rl.White)

	y := int32(10)
	if data.ShowGen {
		rl.DrawText(fmt.Sprintf("Gen: %d", data.Generation), 10, y, 20, rl.White)
		y += 22
		rl.DrawText(fmt.Sprintf("Alive: %d/%d", data.Alive, data.Population), 10, y, 16, rl.White)
		y += 18
		rl.DrawText(fmt.Sprintf("Best: %.1f", data.BestFitness), 10, y, 14, rl.LightGray)
		y += 16
	}
	rl.DrawText(fmt.Sprintf("%s  tick %d  %dx  %d fps", data.Mode, data.Tick, data.Speed, data.FPS), 10, y, 12, rl.LightGray)
	y += 14

	if data.Paused {
		rl.DrawText("PAUSED", 10, y, 16, rl.Yellow)
	}
	if data.GameOver {
		text := "GAME OVER - R to restart"
		rl.DrawText(text, (screenWidth-rl.MeasureText(text, 16))/2, 200, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 6, screenHeight-16, 10, rl.Gray)
}

// PerfPanel renders per-phase tick timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	pad := r.Theme.Padding
	names := telemetry.Phases()
	height := r.Theme.LineHeight*int32(len(names)+2) + pad*2

	r.DrawPanel(p.x, p.y, p.width, height)

	y := r.DrawSectionHeader(p.x+pad, p.y+pad, "Tick phases")
	y = r.DrawLabelValue(p.x+pad, y, "avg", fmt.Sprintf("%s  %.0f/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond))
	for _, name := range names {
		y = r.DrawBar(p.x+pad, y, name, stats.PhasePct[name], p.width-pad*2)
	}
}
