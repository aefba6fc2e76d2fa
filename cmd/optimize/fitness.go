package main

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/sprites"
)

// failedFitness is returned for parameter vectors that cannot build a policy.
const failedFitness = 1e9

// FitnessEvaluator runs headless single-bird rounds and computes fitness.
type FitnessEvaluator struct {
	params   *ParamVector
	maxTicks int
	seeds    []int64
	cfg      *config.Config
	atlas    *sprites.Atlas

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestScore   int
	lastScore   float64 // mean score from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, cfg *config.Config, atlas *sprites.Atlas) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		cfg:         cfg,
		atlas:       atlas,
		bestFitness: math.Inf(1),
	}
}

// LastScore returns the mean pipes passed in the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// BestScore returns the best single-seed score seen so far.
func (fe *FitnessEvaluator) BestScore() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestScore
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	score   int
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Fitness is the negated mean round fitness over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	policy, err := fe.params.Policy(x)
	if err != nil {
		return failedFitness
	}

	// Run all seeds in parallel; rounds share only read-only config and sprites.
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runRound(policy, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalScore float64
	bestSeedScore := 0
	for _, r := range results {
		totalFitness += r.fitness
		totalScore += float64(r.score)
		bestSeedScore = max(bestSeedScore, r.score)
	}

	n := float64(len(fe.seeds))
	fitness := -totalFitness / n

	fe.mu.Lock()
	fe.lastScore = totalScore / n
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.bestScore = max(fe.bestScore, bestSeedScore)
	fe.mu.Unlock()

	return fitness
}

func (fe *FitnessEvaluator) runRound(policy neural.DecisionModel, seed int64) seedResult {
	r := game.NewRound(fe.cfg, fe.atlas, []neural.DecisionModel{policy}, rand.New(rand.NewSource(seed)), game.Limits{Ticks: fe.maxTicks})
	for r.Step() {
	}
	return seedResult{fitness: r.Fitness()[0], score: r.Score()}
}
