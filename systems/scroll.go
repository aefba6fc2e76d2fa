package systems

import "github.com/pthm-cable/flappy/components"

// Base is the looping ground strip: two copies of the same image side by side.
type Base struct {
	Y      float64
	X1, X2 float64
	Width  float64
}

// NewBase places the two strips edge to edge starting at x = 0.
func NewBase(y, width float64) Base {
	return Base{Y: y, X1: 0, X2: width, Width: width}
}

// Move scrolls both strips left. A strip that has fully left the screen is
// moved to the right edge of the other one.
func (b *Base) Move(velocity float64) {
	b.X1 -= velocity
	b.X2 -= velocity

	if b.X1+b.Width < 0 {
		b.X1 = b.X2 + b.Width
	}
	if b.X2+b.Width < 0 {
		b.X2 = b.X1 + b.Width
	}
}

// ScrollPipe moves a pipe left by one tick.
func ScrollPipe(pos *components.Position, velocity float64) {
	pos.X -= velocity
}
