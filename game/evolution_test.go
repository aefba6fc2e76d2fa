package game

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/sprites"
	"github.com/pthm-cable/flappy/telemetry"
)

func newTestEvolver(t *testing.T, population, generations, maxTicks int) (*Evolver, string) {
	t.Helper()

	cfg := config.Default()
	cfg.Evolution.Population = population
	cfg.Evolution.Generations = generations

	dir := t.TempDir()
	out, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	t.Cleanup(func() { out.Close() })

	ev, err := NewEvolver(cfg, sprites.Procedural(), EvolverOptions{
		Rng:      rand.New(rand.NewSource(7)),
		Output:   out,
		BestFile: filepath.Join(dir, "best_genome"),
		MaxTicks: maxTicks,
	})
	if err != nil {
		t.Fatalf("NewEvolver: %v", err)
	}
	return ev, dir
}

func TestEvolverRunsGenerations(t *testing.T) {
	ev, dir := newTestEvolver(t, 10, 3, 40)

	if got := len(ev.Population().Organisms); got != 10 {
		t.Fatalf("population = %d organisms, want 10", got)
	}

	if err := ev.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	history := ev.History()
	if len(history) != 3 {
		t.Fatalf("history has %d generations, want 3", len(history))
	}
	for i, s := range history {
		if s.Generation != i {
			t.Errorf("history[%d].Generation = %d", i, s.Generation)
		}
		if s.Ticks > 40 {
			t.Errorf("generation %d ran %d ticks, cap is 40", i, s.Ticks)
		}
		if s.Population == 0 || s.Species == 0 {
			t.Errorf("generation %d: population %d, species %d", i, s.Population, s.Species)
		}
		if s.BestFitness < s.MeanFitness {
			t.Errorf("generation %d: best %v below mean %v", i, s.BestFitness, s.MeanFitness)
		}
		t.Logf("gen %d: ticks=%d best=%.2f mean=%.2f species=%d", i, s.Ticks, s.BestFitness, s.MeanFitness, s.Species)
	}

	if ev.Solved() {
		t.Error("Solved() = true without reaching the score limit")
	}
	for _, name := range []string{"generations.csv", "perf.csv", "hall_of_fame.yaml", "checkpoint_genome"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "best_genome")); !os.IsNotExist(err) {
		t.Error("best_genome written although the score limit was never reached")
	}

	best, ok := ev.HallOfFame().Best()
	if !ok {
		t.Fatal("hall of fame is empty")
	}
	if _, err := neural.LoadGenome(filepath.Join(dir, best.GenomeFile)); err != nil {
		t.Errorf("champion genome unreadable: %v", err)
	}
}

func TestEvolverWithoutOutputLeavesNoFiles(t *testing.T) {
	wd := t.TempDir()
	t.Chdir(wd)

	cfg := config.Default()
	cfg.Evolution.Population = 6
	cfg.Evolution.Generations = 2

	ev, err := NewEvolver(cfg, sprites.Procedural(), EvolverOptions{
		Rng:      rand.New(rand.NewSource(3)),
		BestFile: filepath.Join(t.TempDir(), "best_genome"),
		MaxTicks: 30,
	})
	if err != nil {
		t.Fatalf("NewEvolver: %v", err)
	}
	if err := ev.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries, err := os.ReadDir(wd)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Errorf("unexpected file %s in the working directory", e.Name())
	}
}

func TestEvolverPerfRowPerRound(t *testing.T) {
	ev, dir := newTestEvolver(t, 6, 3, 25)
	if err := ev.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var rows []telemetry.PerfStatsCSV
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}

	history := ev.History()
	if len(rows) != len(history) {
		t.Fatalf("perf.csv has %d rows, want %d", len(rows), len(history))
	}
	for i, row := range rows {
		if row.Generation != history[i].Generation || row.Ticks != history[i].Ticks {
			t.Errorf("row %d: generation %d ticks %d, want generation %d ticks %d",
				i, row.Generation, row.Ticks, history[i].Generation, history[i].Ticks)
		}
	}
}

func TestEvolverAdvancesOneEpoch(t *testing.T) {
	ev, _ := newTestEvolver(t, 8, 5, 30)

	ev.BeginGeneration()
	for ev.Round().Step() {
	}
	if _, err := ev.EndGeneration(context.Background()); err != nil {
		t.Fatalf("EndGeneration: %v", err)
	}

	s := ev.History()[0]
	if s.Ticks > 30 {
		t.Errorf("ticks = %d, cap is 30", s.Ticks)
	}
	if ev.Generation() != 1 {
		t.Errorf("generation = %d after one epoch, want 1", ev.Generation())
	}
	for _, org := range ev.Population().Organisms {
		if org.Genotype == nil {
			t.Fatal("organism without genotype after epoch")
		}
	}
}

func TestEvolverCancel(t *testing.T) {
	ev, dir := newTestEvolver(t, 6, 50, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ev.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if len(ev.History()) != 0 {
		t.Errorf("history = %d generations, want none", len(ev.History()))
	}
	// Nothing finished yet, so there is nothing to checkpoint.
	if _, err := os.Stat(filepath.Join(dir, "checkpoint_genome")); !os.IsNotExist(err) {
		t.Error("checkpoint written before any generation finished")
	}
}

func TestEvolverSavesWinnerOnScoreLimit(t *testing.T) {
	ev, dir := newTestEvolver(t, 4, 10, 0)
	ev.cfg.Evolution.ScoreLimit = 1

	ev.BeginGeneration()

	// Swap in scripted players that reliably clear pipes.
	models := make([]neural.DecisionModel, len(ev.Population().Organisms))
	models[0] = neural.Constant(0)
	for i := 1; i < len(models); i++ {
		models[i] = gapSeeker
	}
	ev.round = NewRound(ev.cfg, ev.atlas, models, ev.rng, Limits{Score: 1})

	runToEnd(t, ev.round, 5000)
	if !ev.round.LimitReached() {
		t.Fatalf("round ended at tick %d with score %d before the limit", ev.round.Tick(), ev.round.Score())
	}

	done, err := ev.EndGeneration(context.Background())
	if err != nil {
		t.Fatalf("EndGeneration: %v", err)
	}
	if !done {
		t.Error("EndGeneration should stop evolution once the score limit is reached")
	}
	if !ev.Solved() {
		t.Error("Solved() = false")
	}

	best := ev.round.Best()
	if best != 1 {
		t.Errorf("best agent = %d, want 1 (lowest-index survivor)", best)
	}
	if !ev.Population().Organisms[best].IsWinner {
		t.Error("winning organism not marked")
	}

	saved, err := neural.LoadGenome(filepath.Join(dir, "best_genome"))
	if err != nil {
		t.Fatalf("winner genome not saved: %v", err)
	}
	if saved.Id != ev.Population().Organisms[best].Genotype.Id {
		t.Errorf("saved genome id %d, want %d", saved.Id, ev.Population().Organisms[best].Genotype.Id)
	}
	if !ev.History()[0].LimitReached {
		t.Error("generation stats do not record the score limit")
	}
}
