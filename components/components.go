// Package components defines ECS components for the simulation.
package components

// Position is an entity's top-left screen position.
// Pipes only use X; their vertical layout lives in Pipe.
type Position struct {
	X, Y float64
}

// Kinematics holds a bird's vertical motion state.
// Motion is a pure function of Ticks since the last jump.
type Kinematics struct {
	Velocity  float64 // Set by the last jump (0 before the first)
	Ticks     int     // Ticks since the last jump
	RefHeight float64 // y at the moment of the last jump
	Tilt      float64 // Degrees, cosmetic
}

// Sprite is a bird's render state.
// Frame selects the image and therefore the collision mask.
type Sprite struct {
	Frame   int
	Counter int // Ticks into the flap cycle
}

// Agent links an entity to its slot in the round's per-agent tables.
type Agent struct {
	Index      int  // Stable slot: decision model and fitness index
	Eliminated bool // Marked during a tick, removed at the end of the phase
}

// Pipe is a top/bottom obstacle pair with a vertical gap.
type Pipe struct {
	Seq       int     // Spawn order; pipes are processed in this order
	Height    float64 // y of the gap's upper edge
	Top       float64 // y of the top sprite's origin (Height - sprite height)
	Bottom    float64 // y of the bottom sprite's origin (Height + gap)
	Passed    bool    // Set once the lead agent's x exceeds the pipe's x
	Offscreen bool    // Scrolled past the left edge, removed after the tick
}
