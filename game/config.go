package game

import (
	"fmt"

	"github.com/yaricom/goNEAT/v4/neat"

	"github.com/pthm-cable/flappy/telemetry"
)

// Mode selects what the window runs.
type Mode string

const (
	ModePlay   Mode = "play"   // One bird flown with the space bar
	ModeEvolve Mode = "evolve" // NEAT population, one round per generation
	ModeReplay Mode = "replay" // One bird flown by a saved genome or linear policy
)

// ParseMode validates a -mode flag value.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModePlay, ModeEvolve, ModeReplay:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want play, evolve or replay)", s)
}

// Options holds configuration for game initialization.
type Options struct {
	Mode     Mode
	Seed     int64
	NEAT     *neat.Options            // Evolve mode; nil uses the defaults
	Output   *telemetry.OutputManager // nil disables file output
	BestFile string                   // Winner output in evolve mode, model input in replay mode
	MaxTicks int                      // Per-round tick cap, 0 for none
}
