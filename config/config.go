// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Bird      BirdConfig      `yaml:"bird"`
	Pipe      PipeConfig      `yaml:"pipe"`
	Sprites   SpritesConfig   `yaml:"sprites"`
	Fitness   FitnessConfig   `yaml:"fitness"`
	Evolution EvolutionConfig `yaml:"evolution"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds playfield geometry and scrolling.
type WorldConfig struct {
	Floor          float64 `yaml:"floor"`
	ScrollVelocity float64 `yaml:"scroll_velocity"`
	BoundsMargin   float64 `yaml:"bounds_margin"`
}

// BirdConfig holds bird motion and tilt parameters.
type BirdConfig struct {
	JumpVelocity         float64 `yaml:"jump_velocity"`
	Gravity              float64 `yaml:"gravity"`
	TerminalDisplacement float64 `yaml:"terminal_displacement"`
	MaxRotation          float64 `yaml:"max_rotation"`
	RotationVelocity     float64 `yaml:"rotation_velocity"`
	MinTilt              float64 `yaml:"min_tilt"`
	TiltHold             float64 `yaml:"tilt_hold"`
	AnimationTicks       int     `yaml:"animation_ticks"`
	NoseDiveTilt         float64 `yaml:"nose_dive_tilt"`
}

// PipeConfig holds obstacle parameters.
type PipeConfig struct {
	Gap          int `yaml:"gap"`
	MinClearance int `yaml:"min_clearance"`
}

// SpritesConfig points at optional image assets.
type SpritesConfig struct {
	Dir string `yaml:"dir"`
}

// FitnessConfig holds the per-round reward schedule.
type FitnessConfig struct {
	SurvivalBonus    float64 `yaml:"survival_bonus"`    // Added to every active agent each tick
	CollisionPenalty float64 `yaml:"collision_penalty"` // Subtracted on elimination
	PassBonus        float64 `yaml:"pass_bonus"`        // Added to every active agent when a pipe is passed
	JumpThreshold    float64 `yaml:"jump_threshold"`    // Output[0] above this triggers a jump
}

// EvolutionConfig holds evolution driver parameters.
// Everything about selection and mutation lives in the NEAT options instead.
type EvolutionConfig struct {
	Population     int     `yaml:"population"`
	Generations    int     `yaml:"generations"`
	ScoreLimit     int     `yaml:"score_limit"` // Round stops once score exceeds this
	BestFile       string  `yaml:"best_file"`
	ConnectionProb float64 `yaml:"connection_prob"` // Seed genome input->output link probability
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int  `yaml:"perf_window"`
	DrawLines  bool `yaml:"draw_lines"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StartX float64 // Bird x, a quarter of the screen width
	StartY float64 // Bird spawn y, half the screen height
	SpawnX float64 // Pipes enter at the right screen edge
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Default returns the embedded defaults. Panics if they fail to parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	lo := c.Pipe.MinClearance
	hi := int(c.World.Floor) - c.Pipe.Gap - c.Pipe.MinClearance
	if hi <= lo {
		return fmt.Errorf("pipe gap %d with clearance %d does not fit above floor %.0f", c.Pipe.Gap, c.Pipe.MinClearance, c.World.Floor)
	}
	if c.Bird.AnimationTicks < 1 {
		c.Bird.AnimationTicks = 1
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StartX = float64(c.Screen.Width / 4)
	c.Derived.StartY = float64(c.Screen.Height / 2)
	c.Derived.SpawnX = float64(c.Screen.Width)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
