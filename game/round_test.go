package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/sprites"
	"github.com/pthm-cable/flappy/telemetry"
)

func newTestRound(t *testing.T, models []neural.DecisionModel, seed int64, limits Limits) *Round {
	t.Helper()
	return NewRound(config.Default(), sprites.Procedural(), models, rand.New(rand.NewSource(seed)), limits)
}

func runToEnd(t *testing.T, r *Round, maxTicks int) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if !r.Step() {
			return
		}
	}
	t.Fatalf("round still running after %d ticks", maxTicks)
}

// gapSeeker jumps once the bird sinks 60px below the gap's upper edge.
// dbottom < dtop only holds when the bird is below the upper edge.
var gapSeeker = neural.ModelFunc(func(in []float64) ([]float64, error) {
	dtop, dbottom := in[1], in[2]
	if dtop > 60 && dbottom < dtop {
		return []float64{1}, nil
	}
	return []float64{0}, nil
})

func TestSingleAgentNeverJumps(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		r := newTestRound(t, []neural.DecisionModel{neural.Constant(0)}, seed, Limits{})
		runToEnd(t, r, 200)

		if r.Tick() != 18 {
			t.Errorf("seed %d: eliminated at tick %d, want 18", seed, r.Tick())
		}
		if r.Score() != 0 {
			t.Errorf("seed %d: score = %d, want 0", seed, r.Score())
		}
		if got := r.Fitness()[0]; math.Abs(got-0.8) > 1e-9 {
			t.Errorf("seed %d: fitness = %v, want 0.1*18 - 1 = 0.8", seed, got)
		}
	}
}

func TestTwoAgentsAlwaysAndNeverJump(t *testing.T) {
	r := newTestRound(t, []neural.DecisionModel{neural.Constant(1), neural.Constant(0)}, 42, Limits{})

	for r.Tick() < 18 {
		r.Step()
	}
	if r.Active() != 1 || !r.IsActive(0) || r.IsActive(1) {
		t.Fatalf("after tick 18: active=%d, want only the jumper", r.Active())
	}

	runToEnd(t, r, 200)

	if r.Tick() != 46 {
		t.Errorf("jumper left the top at tick %d, want 46", r.Tick())
	}
	fit := r.Fitness()
	if math.Abs(fit[0]-3.6) > 1e-9 {
		t.Errorf("jumper fitness = %v, want 0.1*46 - 1 = 3.6", fit[0])
	}
	if math.Abs(fit[1]-0.8) > 1e-9 {
		t.Errorf("faller fitness = %v, want 0.8", fit[1])
	}
	if r.Score() != 0 {
		t.Errorf("score = %d, want 0", r.Score())
	}
	if got := r.Eliminations(); got != (Eliminations{Bounds: 2}) {
		t.Errorf("eliminations = %+v, want both out of bounds", got)
	}
	t.Logf("fitness: %v", fit)
}

func TestEliminatedAgentStopsAccruing(t *testing.T) {
	r := newTestRound(t, []neural.DecisionModel{neural.Constant(0), gapSeeker}, 5, Limits{})

	for r.IsActive(0) {
		r.Step()
	}
	frozen := r.Fitness()[0]

	for i := 0; i < 50; i++ {
		r.Step()
	}
	if r.Fitness()[0] != frozen {
		t.Errorf("eliminated agent fitness moved from %v to %v", frozen, r.Fitness()[0])
	}
}

func TestEliminatedAgentNotAskedAgain(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *Round)
		want  Eliminations
	}{
		{
			name: "bounds",
			want: Eliminations{Bounds: 1},
		},
		{
			// Drop agent 0 onto the first pipe's bottom piece, away from agent 1.
			name: "pipe",
			setup: func(r *Round) {
				ppos, pipe := r.pipeMapper.Get(r.pipes[0])
				pos, _, _, _ := r.birdMapper.Get(r.agents[0])
				pos.X = ppos.X
				pos.Y = pipe.Bottom - 10
			},
			want: Eliminations{Pipe: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r *Round
			var calls []int
			counting := neural.ModelFunc(func([]float64) ([]float64, error) {
				calls = append(calls, r.Tick())
				return []float64{0}, nil
			})
			r = newTestRound(t, []neural.DecisionModel{counting, gapSeeker}, 5, Limits{})
			if tt.setup != nil {
				tt.setup(r)
			}

			for r.IsActive(0) {
				if !r.Step() {
					t.Fatal("round ended before agent 0 was eliminated")
				}
			}
			eliminatedAt := r.Tick()

			for i := 0; i < 30 && r.Step(); i++ {
			}
			if r.Tick() <= eliminatedAt {
				t.Fatal("round did not continue past the elimination")
			}

			if len(calls) == 0 || calls[len(calls)-1] != eliminatedAt {
				t.Errorf("last decision at %v, want tick %d", calls, eliminatedAt)
			}
			for _, tick := range calls {
				if tick > eliminatedAt {
					t.Errorf("decision at tick %d after elimination at tick %d", tick, eliminatedAt)
				}
			}
			if got := r.Eliminations(); got != tt.want {
				t.Errorf("eliminations = %+v, want %+v", got, tt.want)
			}
			t.Logf("eliminated at tick %d after %d decisions", eliminatedAt, len(calls))
		})
	}
}

func TestActiveCountNeverIncreases(t *testing.T) {
	models := []neural.DecisionModel{
		neural.Constant(0), neural.Constant(1), gapSeeker, neural.Constant(0.4), gapSeeker,
	}
	r := newTestRound(t, models, 9, Limits{Ticks: 2000})

	prev := r.Active()
	for r.Step() {
		if r.Active() > prev {
			t.Fatalf("tick %d: active grew from %d to %d", r.Tick(), prev, r.Active())
		}
		prev = r.Active()
		if r.PipeCount() == 0 {
			t.Fatalf("tick %d: no pipes while agents are active", r.Tick())
		}
	}
}

func TestEliminationChargedOnce(t *testing.T) {
	r := newTestRound(t, []neural.DecisionModel{neural.Constant(0)}, 1, Limits{})

	// Put the bird just above the ground and drive the pipe's bottom piece
	// into it, so one tick both collides and leaves the bounds.
	pos, _, _, _ := r.birdMapper.Get(r.agents[0])
	pos.Y = 390
	ppos, pipe := r.pipeMapper.Get(r.pipes[0])
	ppos.X = 60
	pipe.Bottom = 380

	r.Step()

	if r.Active() != 0 {
		t.Fatal("agent should be eliminated")
	}
	if got := r.Fitness()[0]; math.Abs(got-(-0.9)) > 1e-9 {
		t.Errorf("fitness = %v, want 0.1 - 1 = -0.9 (penalty applied once)", got)
	}
	if got := r.Eliminations(); got != (Eliminations{Pipe: 1}) {
		t.Errorf("eliminations = %+v, want one pipe hit", got)
	}
	if r.Step() {
		t.Error("Step on a finished round should report false")
	}
	if r.Tick() != 1 {
		t.Errorf("finished round advanced to tick %d", r.Tick())
	}
}

func TestScoreLimitEndsRound(t *testing.T) {
	models := []neural.DecisionModel{gapSeeker, gapSeeker, neural.Constant(0)}
	r := newTestRound(t, models, 3, Limits{Score: 3})

	runToEnd(t, r, 5000)

	if !r.LimitReached() {
		t.Fatalf("round ended at tick %d with score %d without reaching the limit", r.Tick(), r.Score())
	}
	if r.Score() != 4 {
		t.Errorf("score = %d, want 4 (first score above the limit)", r.Score())
	}
	if r.Active() != 2 {
		t.Errorf("active = %d, want both seekers", r.Active())
	}

	// Both seekers earned the same rewards; ties go to the lower index.
	fit := r.Fitness()
	if fit[0] != fit[1] {
		t.Errorf("seekers diverged: %v vs %v", fit[0], fit[1])
	}
	if best := r.Best(); best != 0 {
		t.Errorf("Best() = %d, want 0", best)
	}

	// 0.1 per tick plus 5 per pipe.
	want := 0.1*float64(r.Tick()) + 5*4
	if math.Abs(fit[0]-want) > 1e-6 {
		t.Errorf("seeker fitness = %v, want %v", fit[0], want)
	}
	t.Logf("limit reached at tick %d, fitness %v", r.Tick(), fit)
}

func TestPassSpawnsExactlyOnePipe(t *testing.T) {
	r := newTestRound(t, []neural.DecisionModel{gapSeeker}, 11, Limits{})

	for r.Score() == 0 {
		if !r.Step() {
			t.Fatalf("seeker died at tick %d before the first pass", r.Tick())
		}
	}

	// The first pipe passes x=70 on tick 71 (282 - 3*71 = 69).
	if r.Tick() != 71 {
		t.Errorf("first pass at tick %d, want 71", r.Tick())
	}
	if r.PipeCount() != 2 {
		t.Errorf("pipes after first pass = %d, want 2", r.PipeCount())
	}

	var seqs []int
	r.Pipes(func(_ components.Position, pipe components.Pipe) {
		seqs = append(seqs, pipe.Seq)
	})
	if len(seqs) != 2 || seqs[0] != 0 || seqs[1] != 1 {
		t.Errorf("pipe order = %v, want [0 1]", seqs)
	}
}

func TestTargetSwitchesPastFirstPipe(t *testing.T) {
	r := newTestRound(t, []neural.DecisionModel{gapSeeker}, 11, Limits{})

	// Selection runs before scrolling, so on tick k the first pipe sits at
	// 282 - 3(k-1). It is behind the bird once that drops below 70 - 52.
	for r.Tick() < 89 {
		if !r.Step() {
			t.Fatalf("seeker died at tick %d", r.Tick())
		}
		pos, pipe, ok := r.Target()
		if !ok {
			t.Fatalf("tick %d: no target", r.Tick())
		}
		if pipe.Seq != 0 {
			t.Fatalf("tick %d: target seq %d at x=%v, want 0", r.Tick(), pipe.Seq, pos.X)
		}
	}

	r.Step()
	_, pipe, _ := r.Target()
	if pipe.Seq != 1 {
		t.Errorf("tick %d: target seq = %d, want 1", r.Tick(), pipe.Seq)
	}
}

func TestDecisionErrorEliminates(t *testing.T) {
	failing := neural.ModelFunc(func([]float64) ([]float64, error) {
		return nil, errors.New("activation failed")
	})
	r := newTestRound(t, []neural.DecisionModel{failing, neural.Constant(0)}, 1, Limits{})

	r.Step()

	if r.IsActive(0) {
		t.Error("agent with a failing model should be eliminated")
	}
	if !r.IsActive(1) {
		t.Error("other agents keep playing")
	}
	if got := r.Fitness()[0]; math.Abs(got-(-0.9)) > 1e-9 {
		t.Errorf("failed agent fitness = %v, want -0.9", got)
	}
	if r.Eliminations().Failed != 1 {
		t.Errorf("eliminations = %+v, want one failure", r.Eliminations())
	}
}

func TestSeededRoundsAreDeterministic(t *testing.T) {
	run := func() ([]float64, int) {
		r := newTestRound(t, []neural.DecisionModel{gapSeeker, neural.Constant(0.6)}, 77, Limits{Ticks: 600})
		for r.Step() {
		}
		return append([]float64(nil), r.Fitness()...), r.Score()
	}

	f1, s1 := run()
	f2, s2 := run()
	if s1 != s2 || f1[0] != f2[0] || f1[1] != f2[1] {
		t.Errorf("runs differ: %v/%d vs %v/%d", f1, s1, f2, s2)
	}
}

func TestRoundRecordsPerf(t *testing.T) {
	r := newTestRound(t, []neural.DecisionModel{neural.Constant(0)}, 1, Limits{})
	pc := telemetry.NewPerfCollector(10)
	r.SetPerf(pc)

	for r.Step() {
	}

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg[telemetry.PhaseCollision]; !ok {
		t.Error("expected collision phase to be timed")
	}
}
