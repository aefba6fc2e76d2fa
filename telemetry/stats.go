package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes one evolution generation.
type GenerationStats struct {
	Generation int `csv:"generation"`
	Ticks      int `csv:"ticks"`
	Score      int `csv:"score"`
	Population int `csv:"population"`
	Species    int `csv:"species"`

	// Fitness distribution over the whole population
	BestFitness float64 `csv:"best_fitness"`
	MeanFitness float64 `csv:"mean_fitness"`
	StdFitness  float64 `csv:"std_fitness"`
	FitnessP10  float64 `csv:"fitness_p10"`
	FitnessP50  float64 `csv:"fitness_p50"`
	FitnessP90  float64 `csv:"fitness_p90"`

	// Eliminations by cause
	PipeHits   int `csv:"pipe_hits"`
	BoundsHits int `csv:"bounds_hits"`
	Failures   int `csv:"failures"`

	// Champion network size
	BestNodes int `csv:"best_nodes"`
	BestLinks int `csv:"best_links"`

	LimitReached bool  `csv:"limit_reached"`
	WallMS       int64 `csv:"wall_ms"`
}

// FitnessStats holds the distribution of a fitness sample.
type FitnessStats struct {
	Best, Mean, Std float64
	P10, P50, P90   float64
}

// ComputeFitnessStats calculates max, mean, sample std and empirical
// percentiles. An empty sample yields zeros.
func ComputeFitnessStats(values []float64) FitnessStats {
	n := len(values)
	if n == 0 {
		return FitnessStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if n < 2 {
		std = 0
	}

	return FitnessStats{
		Best: sorted[n-1],
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// SetFitness copies a fitness distribution into the record.
func (s *GenerationStats) SetFitness(f FitnessStats) {
	s.BestFitness = f.Best
	s.MeanFitness = f.Mean
	s.StdFitness = f.Std
	s.FitnessP10 = f.P10
	s.FitnessP50 = f.P50
	s.FitnessP90 = f.P90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("score", s.Score),
		slog.Int("ticks", s.Ticks),
		slog.Int("species", s.Species),
		slog.Float64("best", s.BestFitness),
		slog.Float64("mean", s.MeanFitness),
		slog.Float64("std", s.StdFitness),
		slog.Int("pipe_hits", s.PipeHits),
		slog.Int("bounds_hits", s.BoundsHits),
		slog.Int("best_nodes", s.BestNodes),
		slog.Int("best_links", s.BestLinks),
		slog.Bool("limit_reached", s.LimitReached),
	)
}
