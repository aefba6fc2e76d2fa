package game

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/sprites"
)

// LoadModel reads a saved decision model. YAML files are linear policies,
// anything else is a goNEAT genome in plain encoding.
func LoadModel(path string) (neural.DecisionModel, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return neural.LoadLinearPolicy(path)
	}

	genome, err := neural.LoadGenome(path)
	if err != nil {
		return nil, err
	}
	bc, err := neural.NewBrainController(genome)
	if err != nil {
		return nil, fmt.Errorf("building network from %s: %w", path, err)
	}
	return bc, nil
}

// ReplayResult summarizes a single-agent round.
type ReplayResult struct {
	Score   int
	Ticks   int
	Fitness float64
}

// Replay flies one bird with model until it is eliminated, the tick cap is
// hit or ctx is cancelled. Cancellation returns the partial result and ctx.Err().
func Replay(ctx context.Context, cfg *config.Config, atlas *sprites.Atlas, model neural.DecisionModel, rng *rand.Rand, maxTicks int) (ReplayResult, error) {
	r := NewRound(cfg, atlas, []neural.DecisionModel{model}, rng, Limits{Ticks: maxTicks})

	var err error
	for r.Step() {
		if err = ctx.Err(); err != nil {
			break
		}
	}

	return ReplayResult{
		Score:   r.Score(),
		Ticks:   r.Tick(),
		Fitness: r.Fitness()[0],
	}, err
}
