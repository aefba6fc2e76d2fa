package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/renderer"
	"github.com/pthm-cable/flappy/ui"
)

const controlsLegend = "SPACE flap/pause  P pause  </> speed  L lines  S species  T target  B boxes  F perf  C panel"

// Draw renders the game.
func (g *Game) Draw() {
	g.perf.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	screenW := int32(g.cfg.Screen.Width)
	screenH := int32(g.cfg.Screen.Height)
	pipeW := float64(g.atlas.PipeWidth())
	birdW, birdH := float64(g.atlas.BirdWidth()), float64(g.atlas.BirdHeight())

	g.sprites.DrawBackground(screenW)

	target, targetPipe, hasTarget := g.round.Target()
	if hasTarget && g.overlays.IsEnabled(ui.OverlayTargetPipe) {
		renderer.HighlightPipe(target, targetPipe, pipeW)
	}

	g.round.Pipes(func(pos components.Position, pipe components.Pipe) {
		g.sprites.DrawPipe(pos, pipe)
		if g.overlays.IsEnabled(ui.OverlayHitboxes) {
			pipeH := float64(g.atlas.PipeHeight())
			renderer.DrawHitbox(pos.X, pipe.Top, pipeW, pipeH, rl.Green)
			renderer.DrawHitbox(pos.X, pipe.Bottom, pipeW, pipeH, rl.Green)
		}
	})

	g.sprites.DrawBase(g.round.Base())

	showLines := hasTarget && g.overlays.IsEnabled(ui.OverlaySensorLines)
	var gapTop, gapBottom rl.Vector2
	if showLines {
		gapTop, gapBottom = renderer.GapEdges(target, targetPipe, pipeW)
	}

	best := g.round.Best()
	g.round.Birds(func(pos components.Position, kin components.Kinematics, spr components.Sprite, agent components.Agent) {
		if showLines {
			renderer.DrawSensorLines(pos, birdW, birdH, gapTop, gapBottom)
		}
		g.sprites.DrawBird(pos, kin, spr, g.birdTint(agent.Index, best))
		if g.overlays.IsEnabled(ui.OverlayHitboxes) {
			renderer.DrawHitbox(pos.X, pos.Y, birdW, birdH, rl.Blue)
		}
	})

	g.drawUI(screenW, screenH, best)

	rl.EndDrawing()
}

// birdTint fades every bird but the current best, optionally coloring by species.
func (g *Game) birdTint(index, best int) rl.Color {
	if g.evolver == nil {
		return rl.White
	}
	tint := rl.White
	if g.overlays.IsEnabled(ui.OverlaySpecies) {
		c := g.palette.Color(g.evolver.SpeciesID(index))
		tint = rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
	}
	if index != best {
		tint = rl.Fade(tint, 0.6)
	}
	return tint
}

func (g *Game) drawUI(screenW, screenH int32, best int) {
	data := ui.HUDData{
		Mode:       string(g.opts.Mode),
		Score:      g.round.Score(),
		Alive:      g.round.Active(),
		Population: len(g.round.Fitness()),
		Tick:       g.round.Tick(),
		Speed:      g.control.Speed,
		FPS:        rl.GetFPS(),
		Paused:     g.control.Paused,
		GameOver:   g.gameOver,
	}
	if g.evolver != nil {
		data.ShowGen = true
		data.Generation = g.evolver.Generation()
		if best >= 0 {
			data.BestFitness = g.round.Fitness()[best]
		}
	}
	g.hud.Draw(data, screenW)
	g.hud.DrawControls(screenH, controlsLegend)

	if g.overlays.IsEnabled(ui.OverlayControlPanel) {
		g.controls.Draw(&g.control, g.overlays)
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perf.Stats())
	}
}
