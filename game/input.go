package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/ui"
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if g.player != nil && (rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyUp)) {
		g.player.Press()
	}

	if rl.IsKeyPressed(rl.KeyP) || (g.player == nil && rl.IsKeyPressed(rl.KeySpace)) {
		g.control.Paused = !g.control.Paused
	}

	if g.gameOver && rl.IsKeyPressed(rl.KeyR) {
		g.restart()
	}

	// Ticks-per-frame control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.control.Speed > 1 {
		g.control.Speed--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.control.Speed < ui.MaxSpeed {
		g.control.Speed++
	}

	g.overlays.PollKeys()
}
