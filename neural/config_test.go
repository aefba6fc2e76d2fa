package neural

import (
	"path/filepath"
	"testing"
)

func TestDefaultNEATOptions(t *testing.T) {
	opts := DefaultNEATOptions()

	if opts.PopSize != 50 {
		t.Errorf("PopSize = %d, want 50", opts.PopSize)
	}
	if len(opts.NodeActivators) == 0 || len(opts.NodeActivators) != len(opts.NodeActivatorsProb) {
		t.Errorf("node activators %v / probs %v mismatched", opts.NodeActivators, opts.NodeActivatorsProb)
	}

	mating := opts.MateMultipointProb + opts.MateMultipointAvgProb + opts.MateSinglepointProb
	if mating <= 0 {
		t.Error("at least one crossover operator must be enabled")
	}
}

func TestLoadNEATOptions(t *testing.T) {
	opts, err := LoadNEATOptions("")
	if err != nil {
		t.Fatalf("LoadNEATOptions(\"\"): %v", err)
	}
	if opts.PopSize != DefaultNEATOptions().PopSize {
		t.Error("empty path should return defaults")
	}

	if _, err := LoadNEATOptions(filepath.Join(t.TempDir(), "missing.neat")); err == nil {
		t.Error("expected error for missing options file")
	}
}
