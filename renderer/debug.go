package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/components"
)

// SensorColor is the color of the bird-to-gap lines.
var SensorColor = rl.Red

// GapEdges returns the points the sensor lines end at: the horizontal middle
// of the pipe at the gap's upper and lower edges.
func GapEdges(pos components.Position, pipe components.Pipe, pipeWidth float64) (top, bottom rl.Vector2) {
	x := float32(pos.X + pipeWidth/2)
	return rl.Vector2{X: x, Y: float32(pipe.Height)}, rl.Vector2{X: x, Y: float32(pipe.Bottom)}
}

// DrawSensorLines draws two lines from the bird's center to the gap edges.
func DrawSensorLines(bird components.Position, birdW, birdH float64, top, bottom rl.Vector2) {
	center := rl.Vector2{X: float32(bird.X + birdW/2), Y: float32(bird.Y + birdH/2)}
	rl.DrawLineEx(center, top, 2, SensorColor)
	rl.DrawLineEx(center, bottom, 2, SensorColor)
}

// DrawHitbox outlines an axis-aligned sprite box.
func DrawHitbox(x, y, w, h float64, color rl.Color) {
	rl.DrawRectangleLinesEx(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}, 1, color)
}

// HighlightPipe tints the gap of the pipe the birds are steering for.
func HighlightPipe(pos components.Position, pipe components.Pipe, pipeWidth float64) {
	rl.DrawRectangle(int32(pos.X), int32(pipe.Height), int32(pipeWidth), int32(pipe.Bottom-pipe.Height),
		rl.Color{R: 255, G: 255, B: 0, A: 50})
}
