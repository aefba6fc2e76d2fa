package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/yaricom/goNEAT/v4/neat"
	"github.com/yaricom/goNEAT/v4/neat/genetics"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/sprites"
	"github.com/pthm-cable/flappy/telemetry"
)

// minOrganismFitness keeps fitness handed to NEAT positive. Early eliminations
// go negative, and fitness sharing expects non-negative values.
const minOrganismFitness = 0.001

// hallOfFameSize is the number of generation champions kept for output.
const hallOfFameSize = 10

// EvolverOptions configures an evolution run.
type EvolverOptions struct {
	NEAT     *neat.Options
	Rng      *rand.Rand
	Output   *telemetry.OutputManager // nil disables file output
	BestFile string                   // Where the score-limit winner is written
	MaxTicks int                      // Per-round tick cap, 0 for none
}

// Evolver drives NEAT generations: one round per generation, fitness written
// back to the organisms, then the library's epoch step.
type Evolver struct {
	cfg      *config.Config
	atlas    *sprites.Atlas
	opts     *neat.Options
	rng      *rand.Rand
	output   *telemetry.OutputManager
	bestFile string
	maxTicks int

	pop      *genetics.Population
	executor *genetics.SequentialPopulationEpochExecutor
	hof      *telemetry.HallOfFame
	perf     *telemetry.PerfCollector

	generation  int
	round       *Round
	controllers []*neural.BrainController // nil where the phenotype failed to build
	started     time.Time

	bestGenome  *genetics.Genome
	bestFitness float64
	solved      bool
	history     []telemetry.GenerationStats
}

// NewEvolver seeds a population from the minimal sensor->output genome.
func NewEvolver(cfg *config.Config, atlas *sprites.Atlas, o EvolverOptions) (*Evolver, error) {
	opts := o.NEAT
	if opts == nil {
		opts = neural.DefaultNEATOptions()
	}
	if cfg.Evolution.Population > 0 {
		opts.PopSize = cfg.Evolution.Population
	}
	if cfg.Evolution.Generations > 0 {
		opts.NumGenerations = cfg.Evolution.Generations
	}

	rng := o.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	seed := neural.SeedGenome(1, rng, cfg.Evolution.ConnectionProb)
	pop, err := genetics.NewPopulation(seed, opts)
	if err != nil {
		return nil, fmt.Errorf("creating population: %w", err)
	}

	bestFile := o.BestFile
	if bestFile == "" {
		bestFile = cfg.Evolution.BestFile
	}

	return &Evolver{
		cfg:         cfg,
		atlas:       atlas,
		opts:        opts,
		rng:         rng,
		output:      o.Output,
		bestFile:    bestFile,
		maxTicks:    o.MaxTicks,
		pop:         pop,
		executor:    &genetics.SequentialPopulationEpochExecutor{},
		hof:         telemetry.NewHallOfFame(hallOfFameSize),
		perf:        telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bestFitness: -1e18,
	}, nil
}

// BeginGeneration builds one controller per organism and starts a fresh round.
func (e *Evolver) BeginGeneration() {
	orgs := e.pop.Organisms
	models := make([]neural.DecisionModel, len(orgs))
	e.controllers = make([]*neural.BrainController, len(orgs))

	for i, org := range orgs {
		bc, err := neural.NewBrainController(org.Genotype)
		if err != nil {
			// The agent is eliminated on its first decision.
			buildErr := err
			models[i] = neural.ModelFunc(func([]float64) ([]float64, error) { return nil, buildErr })
			continue
		}
		e.controllers[i] = bc
		models[i] = bc
	}

	e.round = NewRound(e.cfg, e.atlas, models, e.rng, Limits{
		Score: e.cfg.Evolution.ScoreLimit,
		Ticks: e.maxTicks,
	})
	e.perf.BeginRound(e.generation)
	e.round.SetPerf(e.perf)
	e.started = time.Now()
}

// Round returns the round of the current generation.
func (e *Evolver) Round() *Round { return e.round }

// Generation returns the zero-based index of the current generation.
func (e *Evolver) Generation() int { return e.generation }

// Solved reports whether a round reached the score limit.
func (e *Evolver) Solved() bool { return e.solved }

// History returns the stats of every finished generation.
func (e *Evolver) History() []telemetry.GenerationStats { return e.history }

// Population returns the NEAT population.
func (e *Evolver) Population() *genetics.Population { return e.pop }

// SpeciesID returns the NEAT species of agent i in the current round, or 0.
func (e *Evolver) SpeciesID(i int) int {
	if i < 0 || i >= len(e.pop.Organisms) {
		return 0
	}
	return neural.SpeciesID(e.pop.Organisms[i])
}

// HallOfFame returns the best champions so far.
func (e *Evolver) HallOfFame() *telemetry.HallOfFame { return e.hof }

// EndGeneration scores the finished round and either stops (limit reached or
// generations exhausted) or advances the population by one epoch.
// It returns true when evolution is over.
func (e *Evolver) EndGeneration(ctx context.Context) (bool, error) {
	r := e.round
	fitness := r.Fitness()
	orgs := e.pop.Organisms

	for i, org := range orgs {
		org.Fitness = max(fitness[i], minOrganismFitness)
	}

	best := r.Best()
	stats := e.generationStats(best)
	e.history = append(e.history, stats)
	e.recordChampion(best, fitness[best], r.Score())

	slog.Info("generation", "stats", stats)
	perf := e.perf.RoundStats()
	slog.Info("perf", "stats", perf)
	if err := e.output.WriteGeneration(stats); err != nil {
		slog.Error("failed to write generation", "error", err)
	}
	if err := e.output.WritePerf(perf); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	if r.LimitReached() {
		e.solved = true
		orgs[best].IsWinner = true
		if err := neural.SaveGenome(e.bestFile, orgs[best].Genotype); err != nil {
			return true, fmt.Errorf("saving winner: %w", err)
		}
		slog.Info("score_limit_reached",
			"generation", e.generation,
			"score", r.Score(),
			"organism", orgs[best].Genotype.Id,
			"path", e.bestFile,
		)
		return true, e.finish()
	}

	if e.generation+1 >= e.opts.NumGenerations {
		return true, e.finish()
	}

	if err := e.executor.NextEpoch(neat.NewContext(ctx, e.opts), e.generation, e.pop); err != nil {
		return true, fmt.Errorf("epoch %d: %w", e.generation, err)
	}
	e.generation++
	return false, nil
}

// Run evolves until a stop condition. Cancellation is checked between ticks;
// on cancellation the best genome so far is checkpointed and ctx.Err() returned.
func (e *Evolver) Run(ctx context.Context) error {
	for {
		e.BeginGeneration()
		for e.round.Step() {
			if ctx.Err() != nil {
				return e.interrupt(ctx)
			}
		}
		if ctx.Err() != nil {
			return e.interrupt(ctx)
		}

		done, err := e.EndGeneration(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (e *Evolver) interrupt(ctx context.Context) error {
	slog.Info("evolution_interrupted", "generation", e.generation, "tick", e.round.Tick())
	if err := e.Checkpoint(); err != nil {
		return errors.Join(ctx.Err(), err)
	}
	return ctx.Err()
}

// Checkpoint writes the best genome seen so far next to the run output.
// It is a no-op before the first generation finishes.
func (e *Evolver) Checkpoint() error {
	if e.bestGenome == nil {
		return nil
	}
	path := e.output.Path("checkpoint_genome")
	if err := neural.SaveGenome(path, e.bestGenome); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	slog.Info("checkpoint_saved", "path", path, "fitness", e.bestFitness)
	return nil
}

// finish writes the end-of-run artifacts into the output directory, if any.
func (e *Evolver) finish() error {
	if e.output == nil {
		return nil
	}
	if err := e.output.WriteHallOfFame(e.hof); err != nil {
		return err
	}
	return e.Checkpoint()
}

func (e *Evolver) generationStats(best int) telemetry.GenerationStats {
	r := e.round
	elim := r.Eliminations()

	stats := telemetry.GenerationStats{
		Generation:   e.generation,
		Ticks:        r.Tick(),
		Score:        r.Score(),
		Population:   len(e.pop.Organisms),
		Species:      len(e.pop.Species),
		PipeHits:     elim.Pipe,
		BoundsHits:   elim.Bounds,
		Failures:     elim.Failed,
		LimitReached: r.LimitReached(),
		WallMS:       time.Since(e.started).Milliseconds(),
	}
	stats.SetFitness(telemetry.ComputeFitnessStats(r.Fitness()))

	if bc := e.controllers[best]; bc != nil {
		stats.BestNodes = bc.NodeCount()
		stats.BestLinks = bc.LinkCount()
	}
	return stats
}

func (e *Evolver) recordChampion(best int, fitness float64, score int) {
	org := e.pop.Organisms[best]
	genome, err := org.Genotype.Duplicate(org.Genotype.Id)
	if err != nil {
		slog.Warn("champion_copy_failed", "organism", org.Genotype.Id, "error", err)
		return
	}

	if fitness > e.bestFitness {
		e.bestFitness = fitness
		e.bestGenome = genome
	}

	c := telemetry.Champion{
		Generation: e.generation,
		OrganismID: genome.Id,
		Fitness:    fitness,
		Score:      score,
		Genome:     genome,
	}
	if bc := e.controllers[best]; bc != nil {
		c.Nodes = bc.NodeCount()
		c.Links = bc.LinkCount()
	}
	e.hof.Consider(c)
}
