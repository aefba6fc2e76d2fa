package telemetry

import (
	"log/slog"
	"math"
	"testing"
)

func TestComputeFitnessStats(t *testing.T) {
	values := []float64{7, 3, 10, 1, 5, 9, 2, 8, 4, 6}
	s := ComputeFitnessStats(values)

	if s.Best != 10 {
		t.Errorf("best = %v, want 10", s.Best)
	}
	if math.Abs(s.Mean-5.5) > 1e-9 {
		t.Errorf("mean = %v, want 5.5", s.Mean)
	}
	// Sample standard deviation of 1..10
	if math.Abs(s.Std-3.0277) > 0.001 {
		t.Errorf("std = %v, want ~3.0277", s.Std)
	}
	if !(s.P10 <= s.P50 && s.P50 <= s.P90) {
		t.Errorf("percentiles out of order: %v %v %v", s.P10, s.P50, s.P90)
	}
	if s.P10 < 1 || s.P90 > 10 {
		t.Errorf("percentiles %v..%v outside the sample range", s.P10, s.P90)
	}

	// Input order is preserved for the caller.
	if values[0] != 7 {
		t.Error("ComputeFitnessStats sorted its input in place")
	}
}

func TestComputeFitnessStatsEdgeCases(t *testing.T) {
	if s := ComputeFitnessStats(nil); s != (FitnessStats{}) {
		t.Errorf("empty sample = %+v, want zeros", s)
	}

	s := ComputeFitnessStats([]float64{-0.9})
	if s.Best != -0.9 || s.Mean != -0.9 || s.Std != 0 {
		t.Errorf("single sample = %+v", s)
	}
	if math.IsNaN(s.Std) {
		t.Error("std of a single sample should be 0, not NaN")
	}
}

func TestGenerationStatsLogValue(t *testing.T) {
	var s GenerationStats
	s.Generation = 3
	s.SetFitness(FitnessStats{Best: 12.5, Mean: 4})

	v := s.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("LogValue kind = %v, want group", v.Kind())
	}

	found := map[string]bool{}
	for _, a := range v.Group() {
		found[a.Key] = true
		if a.Key == "best" && a.Value.Float64() != 12.5 {
			t.Errorf("best = %v, want 12.5", a.Value.Float64())
		}
	}
	for _, key := range []string{"generation", "score", "best", "mean"} {
		if !found[key] {
			t.Errorf("missing attribute %q", key)
		}
	}
}
