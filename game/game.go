package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/renderer"
	"github.com/pthm-cable/flappy/sprites"
	"github.com/pthm-cable/flappy/telemetry"
	"github.com/pthm-cable/flappy/ui"
)

// Game is the windowed front end. It advances a round (or a whole evolution
// run) a few ticks per frame and draws it.
type Game struct {
	opts  Options
	cfg   *config.Config
	atlas *sprites.Atlas
	rng   *rand.Rand

	// Exactly one of evolver or model drives the round.
	evolver *Evolver
	model   neural.DecisionModel
	player  *neural.PlayerInput
	round   *Round
	palette *neural.SpeciesPalette

	perf *telemetry.PerfCollector

	// Rendering
	sprites   *renderer.SpriteRenderer
	hud       *ui.HUD
	overlays  *ui.OverlayRegistry
	controls  *ui.ControlsPanel
	perfPanel *ui.PerfPanel

	// State
	control  ui.ControlState
	gameOver bool // play/replay round ended
	finished bool // evolution stopped
}

// NewGame creates a game for the given mode. The raylib window must already exist.
func NewGame(cfg *config.Config, atlas *sprites.Atlas, opts Options) (*Game, error) {
	g := &Game{
		opts:      opts,
		cfg:       cfg,
		atlas:     atlas,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		sprites:   renderer.NewSpriteRenderer(atlas),
		hud:       ui.NewHUD(),
		overlays:  ui.NewOverlayRegistry(),
		controls:  ui.NewControlsPanel(6, 90, 170),
		perfPanel: ui.NewPerfPanel(int32(cfg.Screen.Width)-176, 40, 170),
		control:   ui.ControlState{Speed: 1},
	}
	g.overlays.SetEnabled(ui.OverlaySensorLines, cfg.Telemetry.DrawLines)

	switch opts.Mode {
	case ModeEvolve:
		ev, err := NewEvolver(cfg, atlas, EvolverOptions{
			NEAT:     opts.NEAT,
			Rng:      g.rng,
			Output:   opts.Output,
			BestFile: opts.BestFile,
			MaxTicks: opts.MaxTicks,
		})
		if err != nil {
			return nil, err
		}
		g.evolver = ev
		g.perf = ev.perf
		g.palette = neural.NewSpeciesPalette(64)
		ev.BeginGeneration()
		g.round = ev.Round()

	case ModeReplay:
		model, err := LoadModel(opts.BestFile)
		if err != nil {
			return nil, err
		}
		g.model = model
		g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
		g.restart()

	case ModePlay:
		g.player = &neural.PlayerInput{}
		g.model = g.player
		g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
		g.restart()

	default:
		return nil, fmt.Errorf("unknown mode %q", opts.Mode)
	}

	slog.Info("game_started", "mode", opts.Mode, "seed", opts.Seed)
	return g, nil
}

// restart begins a new single-agent round.
func (g *Game) restart() {
	g.round = NewRound(g.cfg, g.atlas, []neural.DecisionModel{g.model}, g.rng, Limits{Ticks: g.opts.MaxTicks})
	g.perf.BeginRound(0)
	g.round.SetPerf(g.perf)
	g.gameOver = false
}

// Update handles input and advances the simulation by Speed ticks.
// It returns true once there is nothing left to simulate in evolve mode.
func (g *Game) Update(ctx context.Context) (bool, error) {
	g.handleInput()

	if g.control.Paused || g.finished {
		return g.finished, nil
	}

	speed := g.control.Speed
	if g.opts.Mode == ModePlay {
		speed = 1
	}

	for i := 0; i < speed; i++ {
		if g.evolver != nil {
			if err := g.stepEvolution(ctx); err != nil {
				return true, err
			}
			if g.finished {
				break
			}
			continue
		}

		if g.gameOver {
			break
		}
		if !g.round.Step() {
			g.gameOver = true
			slog.Info("round_over", "mode", g.opts.Mode, "score", g.round.Score(), "ticks", g.round.Tick())
		}
	}
	return g.finished, nil
}

func (g *Game) stepEvolution(ctx context.Context) error {
	if g.round.Step() {
		return nil
	}

	done, err := g.evolver.EndGeneration(ctx)
	if err != nil {
		g.finished = true
		return err
	}
	if done {
		g.finished = true
		return nil
	}
	g.evolver.BeginGeneration()
	g.round = g.evolver.Round()
	return nil
}

// Checkpoint saves the best genome so far when evolving.
func (g *Game) Checkpoint() error {
	if g.evolver == nil {
		return nil
	}
	return g.evolver.Checkpoint()
}

// Unload frees GPU resources.
func (g *Game) Unload() {
	g.sprites.Unload()
}
