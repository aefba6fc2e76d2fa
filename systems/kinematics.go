// Package systems implements the per-tick simulation systems: bird motion,
// animation, scrolling, pipe spawning and collision.
package systems

import (
	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

// BirdParams holds the bird motion constants.
type BirdParams struct {
	JumpVelocity         float64
	Gravity              float64
	TerminalDisplacement float64
	MaxRotation          float64
	RotationVelocity     float64
	MinTilt              float64
	TiltHold             float64
}

// BirdParamsFromConfig extracts bird motion constants.
func BirdParamsFromConfig(cfg *config.Config) BirdParams {
	b := cfg.Bird
	return BirdParams{
		JumpVelocity:         b.JumpVelocity,
		Gravity:              b.Gravity,
		TerminalDisplacement: b.TerminalDisplacement,
		MaxRotation:          b.MaxRotation,
		RotationVelocity:     b.RotationVelocity,
		MinTilt:              b.MinTilt,
		TiltHold:             b.TiltHold,
	}
}

// Jump applies the upward impulse and restarts the motion clock.
func Jump(pos *components.Position, kin *components.Kinematics, p BirdParams) {
	kin.Velocity = p.JumpVelocity
	kin.Ticks = 0
	kin.RefHeight = pos.Y
}

// Displacement returns the vertical move for tick t after a jump with velocity v,
// capped at the terminal displacement.
func Displacement(v float64, t int, p BirdParams) float64 {
	tf := float64(t)
	d := v*tf + 0.5*p.Gravity*tf*tf
	if d >= p.TerminalDisplacement {
		d = p.TerminalDisplacement
	}
	return d
}

// Move advances the bird by one tick and updates its tilt.
// Returns the displacement applied.
func Move(pos *components.Position, kin *components.Kinematics, p BirdParams) float64 {
	kin.Ticks++
	d := Displacement(kin.Velocity, kin.Ticks, p)
	pos.Y += d

	if d < 0 || pos.Y < kin.RefHeight+p.TiltHold {
		if kin.Tilt < p.MaxRotation {
			kin.Tilt = p.MaxRotation
		}
	} else if kin.Tilt > p.MinTilt {
		kin.Tilt = max(kin.Tilt-p.RotationVelocity, p.MinTilt)
	}

	return d
}
