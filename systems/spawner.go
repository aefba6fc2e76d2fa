package systems

import (
	"math/rand"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

// PipeParams holds pipe geometry.
type PipeParams struct {
	Gap          int
	MinClearance int
	Floor        float64
	SpawnX       float64
	Width        float64 // Sprite width, for off-screen and target checks
	Height       float64 // Sprite height, for the top piece's origin
}

// PipeParamsFromConfig combines configured gap rules with sprite dimensions.
func PipeParamsFromConfig(cfg *config.Config, spriteW, spriteH int) PipeParams {
	return PipeParams{
		Gap:          cfg.Pipe.Gap,
		MinClearance: cfg.Pipe.MinClearance,
		Floor:        cfg.World.Floor,
		SpawnX:       cfg.Derived.SpawnX,
		Width:        float64(spriteW),
		Height:       float64(spriteH),
	}
}

// GapRange returns the half-open range [lo, hi) for a gap's upper edge.
func (p PipeParams) GapRange() (lo, hi int) {
	return p.MinClearance, int(p.Floor) - p.Gap - p.MinClearance
}

// NewPipe creates a pipe at the spawn edge with a random gap height.
func NewPipe(rng *rand.Rand, p PipeParams, seq int) (components.Position, components.Pipe) {
	lo, hi := p.GapRange()
	height := float64(lo + rng.Intn(hi-lo))

	pos := components.Position{X: p.SpawnX}
	pipe := components.Pipe{
		Seq:    seq,
		Height: height,
		Top:    height - p.Height,
		Bottom: height + float64(p.Gap),
	}
	return pos, pipe
}

// MarkPassed flips the pipe's Passed flag the first time the lead agent's x
// exceeds the pipe's x. Returns true only on that transition.
func MarkPassed(pipe *components.Pipe, pipeX, agentX float64) bool {
	if pipe.Passed || pipeX >= agentX {
		return false
	}
	pipe.Passed = true
	return true
}

// Offscreen reports whether a pipe's right edge has scrolled past x = 0.
func (p PipeParams) Offscreen(pipeX float64) bool {
	return pipeX+p.Width < 0
}

// Behind reports whether an agent at agentX is past the pipe's right edge.
func (p PipeParams) Behind(pipeX, agentX float64) bool {
	return agentX > pipeX+p.Width
}
