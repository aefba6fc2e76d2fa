package systems

import (
	"math"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/sprites"
)

// PipeMasks bundles the two pipe piece masks.
type PipeMasks struct {
	Top    *sprites.Mask
	Bottom *sprites.Mask
}

// Collide tests the bird's current-frame mask against both pipe pieces.
// Offsets are the piece origins relative to the bird's origin.
func Collide(bird *sprites.Mask, birdPos components.Position, pipeX float64, pipe components.Pipe, masks PipeMasks) bool {
	by := round(birdPos.Y)
	dx := round(pipeX - birdPos.X)

	if bird.Overlap(masks.Bottom, dx, round(pipe.Bottom)-by) {
		return true
	}
	return bird.Overlap(masks.Top, dx, round(pipe.Top)-by)
}

// OutOfBounds reports whether a bird has hit the ground line or left the top
// of the screen, both with a margin of slack.
func OutOfBounds(y float64, spriteHeight int, floor, margin float64) bool {
	return y+float64(spriteHeight)-margin >= floor || y < -margin
}

// round converts a position to pixels, rounding halves to even.
func round(v float64) int {
	return int(math.RoundToEven(v))
}
