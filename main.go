package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/sprites"
	"github.com/pthm-cable/flappy/telemetry"
)

// cliFlags holds the parsed command line.
type cliFlags struct {
	Mode        string
	ConfigPath  string
	NEATConfig  string
	Headless    bool
	Seed        int64
	Generations int
	OutputDir   string
	BestFile    string
	MaxTicks    int
}

func parseFlags(args []string) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("flappy", flag.ContinueOnError)
	fs.StringVar(&f.Mode, "mode", "evolve", "play, evolve or replay")
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config.yaml (empty = use defaults)")
	fs.StringVar(&f.NEATConfig, "neat-config", "", "goNEAT options file, .neat or .yml (empty = built-in defaults)")
	fs.BoolVar(&f.Headless, "headless", false, "Run without graphics (evolve and replay only)")
	fs.Int64Var(&f.Seed, "seed", 0, "RNG seed (0 = time-based)")
	fs.IntVar(&f.Generations, "generations", 0, "Number of generations (0 = use config)")
	fs.StringVar(&f.OutputDir, "output-dir", "", "Output directory for CSV logs, champions and config snapshot")
	fs.StringVar(&f.BestFile, "best-file", "", "Winner genome output (evolve) or model input (replay); empty = use config")
	fs.IntVar(&f.MaxTicks, "max-ticks", 0, "Stop each round after N ticks (0 = unlimited)")
	err := fs.Parse(args)
	return f, err
}

func main() {
	flags, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(flags); err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("interrupted")
			return
		}
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(flags cliFlags) error {
	mode, err := game.ParseMode(flags.Mode)
	if err != nil {
		return err
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	if flags.Generations > 0 {
		cfg.Evolution.Generations = flags.Generations
	}
	bestFile := flags.BestFile
	if bestFile == "" {
		bestFile = cfg.Evolution.BestFile
	}

	seed := flags.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	atlas, err := sprites.Load(cfg.Sprites.Dir)
	if err != nil {
		return err
	}

	opts := game.Options{
		Mode:     mode,
		Seed:     seed,
		BestFile: bestFile,
		MaxTicks: flags.MaxTicks,
	}

	if mode == game.ModeEvolve {
		if opts.NEAT, err = neural.LoadNEATOptions(flags.NEATConfig); err != nil {
			return err
		}
		out, err := telemetry.NewOutputManager(flags.OutputDir)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := out.WriteConfig(cfg); err != nil {
			return err
		}
		opts.Output = out
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting",
		"mode", mode,
		"seed", seed,
		"headless", flags.Headless,
		"generations", cfg.Evolution.Generations,
		"max_ticks", flags.MaxTicks,
	)

	if flags.Headless {
		return runHeadless(ctx, cfg, atlas, opts)
	}
	return runWindow(ctx, cfg, atlas, opts)
}

func runHeadless(ctx context.Context, cfg *config.Config, atlas *sprites.Atlas, opts game.Options) error {
	rng := rand.New(rand.NewSource(opts.Seed))

	switch opts.Mode {
	case game.ModeEvolve:
		ev, err := game.NewEvolver(cfg, atlas, game.EvolverOptions{
			NEAT:     opts.NEAT,
			Rng:      rng,
			Output:   opts.Output,
			BestFile: opts.BestFile,
			MaxTicks: opts.MaxTicks,
		})
		if err != nil {
			return err
		}
		if err := ev.Run(ctx); err != nil {
			return err
		}
		slog.Info("evolution_finished", "generations", len(ev.History()), "solved", ev.Solved())
		return nil

	case game.ModeReplay:
		model, err := game.LoadModel(opts.BestFile)
		if err != nil {
			return err
		}
		res, err := game.Replay(ctx, cfg, atlas, model, rng, opts.MaxTicks)
		slog.Info("replay_finished", "score", res.Score, "ticks", res.Ticks, "fitness", res.Fitness)
		return err

	default:
		return errors.New("play mode needs a window")
	}
}

func runWindow(ctx context.Context, cfg *config.Config, atlas *sprites.Atlas, opts game.Options) error {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Flappy Bird")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cfg, atlas, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			break
		}
		done, err := g.Update(ctx)
		if err != nil {
			return err
		}
		g.Draw()
		if done {
			// Keep the final frame up until the window is closed.
			for !rl.WindowShouldClose() && ctx.Err() == nil {
				g.Draw()
			}
			return nil
		}
	}

	return g.Checkpoint()
}
