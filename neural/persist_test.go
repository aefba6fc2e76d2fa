package neural

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"
)

func TestSaveLoadGenome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best_genome")
	genome := SeedGenome(7, rand.New(rand.NewSource(11)), 1.0)

	if err := SaveGenome(path, genome); err != nil {
		t.Fatalf("SaveGenome: %v", err)
	}
	loaded, err := LoadGenome(path)
	if err != nil {
		t.Fatalf("LoadGenome: %v", err)
	}

	if loaded.Id != genome.Id {
		t.Errorf("id = %d, want %d", loaded.Id, genome.Id)
	}
	if len(loaded.Nodes) != len(genome.Nodes) || len(loaded.Genes) != len(genome.Genes) {
		t.Fatalf("loaded %d nodes/%d genes, want %d/%d",
			len(loaded.Nodes), len(loaded.Genes), len(genome.Nodes), len(genome.Genes))
	}

	// The reloaded network must decide the same way.
	a, err := NewBrainController(genome)
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	b, err := NewBrainController(loaded)
	if err != nil {
		t.Fatalf("controller from loaded genome: %v", err)
	}

	for _, in := range [][]float64{{256, 10, 90}, {50, 200, 300}, {0, 0, 0}} {
		oa, _ := a.Evaluate(in)
		ob, _ := b.Evaluate(in)
		if math.Abs(oa[0]-ob[0]) > 1e-6 {
			t.Errorf("inputs %v: output %v after reload, want %v", in, ob[0], oa[0])
		}
	}
}

func TestLoadGenomeMissing(t *testing.T) {
	if _, err := LoadGenome(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing genome file")
	}
}
