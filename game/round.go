package game

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/sprites"
	"github.com/pthm-cable/flappy/systems"
	"github.com/pthm-cable/flappy/telemetry"
)

// Limits bounds a round. Zero values disable a limit.
type Limits struct {
	Score int // Round ends once score exceeds this
	Ticks int // Round ends after this many ticks
}

// Eliminations counts eliminated agents by cause.
type Eliminations struct {
	Pipe   int
	Bounds int
	Failed int // Decision model returned an error
}

type eliminationCause int

const (
	causePipe eliminationCause = iota
	causeBounds
	causeFailed
)

// Round is one play-through of the course by a cohort of agents, from the
// first pipe until every agent is eliminated or a limit fires.
// It owns all mutable simulation state; nothing is shared between rounds.
type Round struct {
	cfg    *config.Config
	atlas  *sprites.Atlas
	rng    *rand.Rand
	limits Limits
	perf   *telemetry.PerfCollector

	bird    systems.BirdParams
	anim    systems.AnimParams
	pipeCfg systems.PipeParams
	masks   systems.PipeMasks

	// ECS
	world      *ecs.World
	birdMapper *ecs.Map4[components.Position, components.Kinematics, components.Sprite, components.Agent]
	pipeMapper *ecs.Map2[components.Position, components.Pipe]
	birdFilter *ecs.Filter4[components.Position, components.Kinematics, components.Sprite, components.Agent]
	pipeFilter *ecs.Filter2[components.Position, components.Pipe]

	// Order-sensitive views. agents is sorted by Agent.Index, pipes by Pipe.Seq.
	agents []ecs.Entity
	pipes  []ecs.Entity

	models  []neural.DecisionModel
	fitness []float64
	inputs  []float64

	base         systems.Base
	score        int
	tick         int
	nextSeq      int
	target       int // Index into pipes, -1 when there is none
	limitReached bool
	eliminations Eliminations
}

// NewRound places one agent per model at the start position and spawns the
// first pipe at the right edge.
func NewRound(cfg *config.Config, atlas *sprites.Atlas, models []neural.DecisionModel, rng *rand.Rand, limits Limits) *Round {
	world := ecs.NewWorld()

	r := &Round{
		cfg:     cfg,
		atlas:   atlas,
		rng:     rng,
		limits:  limits,
		bird:    systems.BirdParamsFromConfig(cfg),
		anim:    systems.AnimParamsFromConfig(cfg),
		pipeCfg: systems.PipeParamsFromConfig(cfg, atlas.PipeWidth(), atlas.PipeHeight()),
		masks:   systems.PipeMasks{Top: atlas.PipeTopMask, Bottom: atlas.PipeBottomMask},
		world:   world,
		birdMapper: ecs.NewMap4[
			components.Position,
			components.Kinematics,
			components.Sprite,
			components.Agent,
		](world),
		pipeMapper: ecs.NewMap2[components.Position, components.Pipe](world),
		birdFilter: ecs.NewFilter4[
			components.Position,
			components.Kinematics,
			components.Sprite,
			components.Agent,
		](world),
		pipeFilter: ecs.NewFilter2[components.Position, components.Pipe](world),
		models:     models,
		fitness:    make([]float64, len(models)),
		inputs:     make([]float64, neural.SensorInputs),
		base:       systems.NewBase(cfg.World.Floor, float64(atlas.BaseWidth())),
		target:     -1,
	}

	r.agents = make([]ecs.Entity, 0, len(models))
	for i := range models {
		pos := components.Position{X: cfg.Derived.StartX, Y: cfg.Derived.StartY}
		kin := components.Kinematics{RefHeight: pos.Y}
		spr := components.Sprite{}
		agent := components.Agent{Index: i}
		r.agents = append(r.agents, r.birdMapper.NewEntity(&pos, &kin, &spr, &agent))
	}

	r.spawnPipe()
	return r
}

// SetPerf attaches a collector that times each phase of Step.
func (r *Round) SetPerf(p *telemetry.PerfCollector) {
	r.perf = p
}

// Step advances the round by one tick. It returns false once the round is over;
// calling it after that is a no-op.
func (r *Round) Step() bool {
	if r.Done() {
		return false
	}
	if r.perf != nil {
		r.perf.StartTick()
		defer r.perf.EndTick()
	}

	r.tick++
	r.phase(telemetry.PhaseDecide)
	r.target = r.selectTarget()
	r.moveAndDecide()

	r.phase(telemetry.PhaseScroll)
	velocity := r.cfg.World.ScrollVelocity
	r.base.Move(velocity)

	r.phase(telemetry.PhaseCollision)
	passed := r.updatePipes(velocity)
	if passed {
		r.score++
		r.rewardActive(r.cfg.Fitness.PassBonus)
		r.spawnPipe()
	}
	r.removeOffscreenPipes()

	r.phase(telemetry.PhaseBounds)
	r.checkBounds()

	r.phase(telemetry.PhaseCleanup)
	r.removeEliminated()

	r.phase(telemetry.PhaseAnimation)
	r.animate()

	if r.limits.Score > 0 && r.score > r.limits.Score {
		r.limitReached = true
	}
	return !r.Done()
}

func (r *Round) phase(name string) {
	if r.perf != nil {
		r.perf.StartPhase(name)
	}
}

// selectTarget returns the pipe the cohort should steer for: the second pipe
// once the lead agent is past the first pipe's right edge, else the first.
func (r *Round) selectTarget() int {
	if len(r.pipes) == 0 || len(r.agents) == 0 {
		return -1
	}
	leadX := r.cfg.Derived.StartX
	first, _ := r.pipeMapper.Get(r.pipes[0])
	if len(r.pipes) > 1 && r.pipeCfg.Behind(first.X, leadX) {
		return 1
	}
	return 0
}

// moveAndDecide applies the survival bonus, moves every agent and asks its
// model whether to jump.
func (r *Round) moveAndDecide() {
	var gapTop, gapBottom float64
	hasTarget := r.target >= 0 && r.target < len(r.pipes)
	if hasTarget {
		_, pipe := r.pipeMapper.Get(r.pipes[r.target])
		gapTop, gapBottom = pipe.Height, pipe.Bottom
	}

	for _, e := range r.agents {
		pos, kin, _, agent := r.birdMapper.Get(e)
		r.fitness[agent.Index] += r.cfg.Fitness.SurvivalBonus
		systems.Move(pos, kin, r.bird)

		if !hasTarget {
			continue
		}

		r.inputs[0] = pos.Y
		r.inputs[1] = math.Abs(pos.Y - gapTop)
		r.inputs[2] = math.Abs(pos.Y - gapBottom)

		out, err := r.models[agent.Index].Evaluate(r.inputs)
		if err != nil {
			slog.Warn("decision_failed", "agent", agent.Index, "tick", r.tick, "error", err)
			r.eliminate(agent, causeFailed)
			continue
		}
		if len(out) > 0 && out[0] > r.cfg.Fitness.JumpThreshold {
			systems.Jump(pos, kin, r.bird)
		}
	}
}

// updatePipes scrolls each pipe, eliminates agents that hit it and runs the
// pass trigger. Returns true if a pipe was passed this tick.
func (r *Round) updatePipes(velocity float64) bool {
	passed := false
	leadX := r.cfg.Derived.StartX

	for _, pe := range r.pipes {
		ppos, pipe := r.pipeMapper.Get(pe)
		systems.ScrollPipe(ppos, velocity)

		for _, e := range r.agents {
			pos, _, spr, agent := r.birdMapper.Get(e)
			if agent.Eliminated {
				continue
			}
			if systems.Collide(r.atlas.BirdMask(spr.Frame), *pos, ppos.X, *pipe, r.masks) {
				r.eliminate(agent, causePipe)
			}
		}

		if r.pipeCfg.Offscreen(ppos.X) {
			pipe.Offscreen = true
		}
		if systems.MarkPassed(pipe, ppos.X, leadX) {
			passed = true
		}
	}
	return passed
}

func (r *Round) rewardActive(bonus float64) {
	for _, e := range r.agents {
		agent := r.agentOf(e)
		if !agent.Eliminated {
			r.fitness[agent.Index] += bonus
		}
	}
}

func (r *Round) checkBounds() {
	spriteH := r.atlas.BirdHeight()
	for _, e := range r.agents {
		pos, _, _, agent := r.birdMapper.Get(e)
		if agent.Eliminated {
			continue
		}
		if systems.OutOfBounds(pos.Y, spriteH, r.cfg.World.Floor, r.cfg.World.BoundsMargin) {
			r.eliminate(agent, causeBounds)
		}
	}
}

// eliminate marks an agent and applies the penalty. Repeat calls within a tick
// are no-ops, so an agent is charged at most once.
func (r *Round) eliminate(agent *components.Agent, cause eliminationCause) {
	if agent.Eliminated {
		return
	}
	agent.Eliminated = true
	r.fitness[agent.Index] -= r.cfg.Fitness.CollisionPenalty

	switch cause {
	case causePipe:
		r.eliminations.Pipe++
	case causeBounds:
		r.eliminations.Bounds++
	case causeFailed:
		r.eliminations.Failed++
	}
}

// removeEliminated drops marked agents from the world, preserving order.
func (r *Round) removeEliminated() {
	kept := r.agents[:0]
	for _, e := range r.agents {
		if r.agentOf(e).Eliminated {
			r.world.RemoveEntity(e)
			continue
		}
		kept = append(kept, e)
	}
	r.agents = kept
}

func (r *Round) spawnPipe() {
	pos, pipe := systems.NewPipe(r.rng, r.pipeCfg, r.nextSeq)
	r.nextSeq++
	r.pipes = append(r.pipes, r.pipeMapper.NewEntity(&pos, &pipe))
}

func (r *Round) removeOffscreenPipes() {
	kept := r.pipes[:0]
	for _, e := range r.pipes {
		_, pipe := r.pipeMapper.Get(e)
		if pipe.Offscreen {
			r.world.RemoveEntity(e)
			continue
		}
		kept = append(kept, e)
	}
	r.pipes = kept
}

// animate advances every surviving bird's flap cycle. Order does not matter
// here, so it runs as a plain ECS query.
func (r *Round) animate() {
	query := r.birdFilter.Query()
	for query.Next() {
		_, kin, spr, _ := query.Get()
		systems.Animate(spr, kin.Tilt, r.anim)
	}
}

func (r *Round) agentOf(e ecs.Entity) *components.Agent {
	_, _, _, agent := r.birdMapper.Get(e)
	return agent
}

// Done reports whether the round is over.
func (r *Round) Done() bool {
	if len(r.agents) == 0 || r.limitReached {
		return true
	}
	return r.limits.Ticks > 0 && r.tick >= r.limits.Ticks
}

// LimitReached reports whether the round ended because the score limit fired.
func (r *Round) LimitReached() bool { return r.limitReached }

// Eliminations returns elimination counts by cause.
func (r *Round) Eliminations() Eliminations { return r.eliminations }

// Score returns the number of pipes passed.
func (r *Round) Score() int { return r.score }

// Tick returns the number of ticks simulated.
func (r *Round) Tick() int { return r.tick }

// Active returns the number of agents still in play.
func (r *Round) Active() int { return len(r.agents) }

// Fitness returns the accumulated fitness of every agent by index, including
// eliminated ones.
func (r *Round) Fitness() []float64 { return r.fitness }

// IsActive reports whether agent i is still in play.
func (r *Round) IsActive(i int) bool {
	for _, e := range r.agents {
		if r.agentOf(e).Index == i {
			return true
		}
	}
	return false
}

// Best returns the index of the active agent with the highest fitness, lowest
// index on ties. With no active agents it considers everyone.
func (r *Round) Best() int {
	best := -1
	consider := func(i int) {
		if best < 0 || r.fitness[i] > r.fitness[best] {
			best = i
		}
	}
	if len(r.agents) > 0 {
		for _, e := range r.agents {
			consider(r.agentOf(e).Index)
		}
		return best
	}
	for i := range r.fitness {
		consider(i)
	}
	return best
}

// Target returns the pipe agents are steering for, if any.
func (r *Round) Target() (components.Position, components.Pipe, bool) {
	if r.target < 0 || r.target >= len(r.pipes) {
		return components.Position{}, components.Pipe{}, false
	}
	pos, pipe := r.pipeMapper.Get(r.pipes[r.target])
	return *pos, *pipe, true
}

// Base returns the ground strip.
func (r *Round) Base() systems.Base { return r.base }

// Pipes calls fn for each pipe in spawn order.
func (r *Round) Pipes(fn func(pos components.Position, pipe components.Pipe)) {
	for _, e := range r.pipes {
		pos, pipe := r.pipeMapper.Get(e)
		fn(*pos, *pipe)
	}
}

// Birds calls fn for each active bird in world order.
func (r *Round) Birds(fn func(pos components.Position, kin components.Kinematics, spr components.Sprite, agent components.Agent)) {
	query := r.birdFilter.Query()
	for query.Next() {
		pos, kin, spr, agent := query.Get()
		fn(*pos, *kin, *spr, *agent)
	}
}

// PipeCount returns the number of pipes on screen.
func (r *Round) PipeCount() int {
	n := 0
	query := r.pipeFilter.Query()
	for query.Next() {
		n++
	}
	return n
}
