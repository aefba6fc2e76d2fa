package systems

import (
	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

// AnimParams holds the flap cycle timing.
type AnimParams struct {
	FrameTicks   int     // Ticks each frame is shown
	NoseDiveTilt float64 // At or below this tilt the wings stop flapping
}

// flapCycle is the frame sequence of one wing beat.
var flapCycle = [...]int{0, 1, 2, 1}

// Animate advances a bird's flap cycle by one tick.
// The cycle is 0,1,2,1 for FrameTicks each, then back to 0.
// A nose-diving bird holds frame 1.
func Animate(s *components.Sprite, tilt float64, p AnimParams) {
	s.Counter++

	step := (s.Counter - 1) / p.FrameTicks
	if step < len(flapCycle) {
		s.Frame = flapCycle[step]
	} else {
		s.Frame = 0
		s.Counter = 0
	}

	if tilt <= p.NoseDiveTilt {
		s.Frame = 1
		s.Counter = p.FrameTicks * 2
	}
}

// AnimParamsFromConfig extracts animation timing from the bird config.
func AnimParamsFromConfig(cfg *config.Config) AnimParams {
	return AnimParams{
		FrameTicks:   cfg.Bird.AnimationTicks,
		NoseDiveTilt: cfg.Bird.NoseDiveTilt,
	}
}
