// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/sparks/systems"
	"github.com/pthm-cable/sparks/universe"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Detonation DetonationConfig `yaml:"detonation"`
	Events     EventsConfig     `yaml:"events"`
	Population PopulationConfig `yaml:"population"`
	Render     RenderConfig     `yaml:"render"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	Tune       TuneConfig       `yaml:"tune"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation world dimensions.
// Zero means "same as the screen".
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PhysicsConfig holds motion and broad phase parameters.
type PhysicsConfig struct {
	DT               float64 `yaml:"dt"`                // fixed step for headless runs
	FrictionCoeff    float64 `yaml:"friction_coeff"`    // proportional decay per time unit
	FrictionConstant float64 `yaml:"friction_constant"` // constant decay per time unit
	CellSize         float64 `yaml:"cell_size"`
	Wrap             string  `yaml:"wrap"`           // toroidal | reflect
	ReserveBorder    bool    `yaml:"reserve_border"` // wrap over width-1/height-1
	Broadphase       string  `yaml:"broadphase"`     // grid | linear
}

// DetonationConfig holds the chain reaction parameters.
type DetonationConfig struct {
	ExplosionRadius float64 `yaml:"explosion_radius"`
	MinTime         float64 `yaml:"min_time"`
	MaxTime         float64 `yaml:"max_time"`
	ImpulseStrength float64 `yaml:"impulse_strength"`
}

// EventsConfig holds impulse queue and input parameters.
type EventsConfig struct {
	MaxPerTick    int     `yaml:"max_per_tick"`
	ClickRadius   float64 `yaml:"click_radius"`    // radius of pointer impulses
	FastForwardDT float64 `yaml:"fast_forward_dt"` // step taken by the fast-forward key
}

// PopulationConfig holds initial population settings.
type PopulationConfig struct {
	Dots            int     `yaml:"dots"`
	InitialVelocity string  `yaml:"initial_velocity"` // random | zero
	MaxInitialSpeed float64 `yaml:"max_initial_speed"`
}

// RenderConfig holds canvas settings.
type RenderConfig struct {
	Clear   string `yaml:"clear"` // alpha | full
	ShowHUD bool   `yaml:"show_hud"`
}

// TelemetryConfig holds telemetry settings.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds of sim time
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	SpeedSample         int     `yaml:"speed_sample"` // max dots sampled for motion stats
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	BacklogSaturated BacklogSaturatedConfig `yaml:"backlog_saturated"`
	PopulationCrash  PopulationCrashConfig  `yaml:"population_crash"`
	PeakActivity     PeakActivityConfig     `yaml:"peak_activity"`
}

// BacklogSaturatedConfig holds backlog detection parameters.
type BacklogSaturatedConfig struct {
	MinPending int `yaml:"min_pending"`
}

// PopulationCrashConfig holds population crash detection parameters.
type PopulationCrashConfig struct {
	DropFraction float64 `yaml:"drop_fraction"` // window-over-window loss that counts as a crash
}

// PeakActivityConfig holds peak detection parameters.
type PeakActivityConfig struct {
	Multiplier   float64 `yaml:"multiplier"`
	MinIgnitions int     `yaml:"min_ignitions"`
}

// TuneConfig holds the fitness target of the parameter tuner.
type TuneConfig struct {
	TargetConsumed float64 `yaml:"target_consumed"` // fraction of dots a good chain burns
	MaxTicks       int     `yaml:"max_ticks"`
	Dots           int     `yaml:"dots"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	WorldW    int     // effective world width
	WorldH    int     // effective world height
	ScreenW32 float32
	ScreenH32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path (or defaults if empty) and
// installs it as the global configuration.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse overlays data on the embedded defaults, computes derived values and
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	// Unmarshal into same struct - only overwrites fields present in data
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// World dimensions default to screen size if not specified
	c.Derived.WorldW = c.World.Width
	if c.Derived.WorldW == 0 {
		c.Derived.WorldW = c.Screen.Width
	}
	c.Derived.WorldH = c.World.Height
	if c.Derived.WorldH == 0 {
		c.Derived.WorldH = c.Screen.Height
	}
}

// Validate checks values the engine and front ends cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.Derived.WorldW <= 0 || c.Derived.WorldH <= 0:
		return fmt.Errorf("%w: world %dx%d", ErrInvalid, c.Derived.WorldW, c.Derived.WorldH)
	case c.Physics.DT <= 0:
		return fmt.Errorf("%w: physics.dt %v must be positive", ErrInvalid, c.Physics.DT)
	case c.Population.Dots < 0:
		return fmt.Errorf("%w: population.dots %d is negative", ErrInvalid, c.Population.Dots)
	case c.Events.ClickRadius <= 0:
		return fmt.Errorf("%w: events.click_radius %v must be positive", ErrInvalid, c.Events.ClickRadius)
	case c.Render.Clear != "alpha" && c.Render.Clear != "full":
		return fmt.Errorf("%w: render.clear %q (want alpha or full)", ErrInvalid, c.Render.Clear)
	}
	if _, err := c.EngineParams(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// EngineParams converts the physics, detonation, events and population
// sections into engine parameters.
func (c *Config) EngineParams() (universe.Params, error) {
	wrap, err := systems.ParseWrapMode(c.Physics.Wrap)
	if err != nil {
		return universe.Params{}, err
	}
	vel, err := universe.ParseVelocityPolicy(c.Population.InitialVelocity)
	if err != nil {
		return universe.Params{}, err
	}
	broad, err := universe.ParseBroadphase(c.Physics.Broadphase)
	if err != nil {
		return universe.Params{}, err
	}

	p := universe.Params{
		FrictionCoeff:    float32(c.Physics.FrictionCoeff),
		FrictionConstant: float32(c.Physics.FrictionConstant),
		ExplosionRadius:  float32(c.Detonation.ExplosionRadius),
		MinDetonateTime:  float32(c.Detonation.MinTime),
		MaxDetonateTime:  float32(c.Detonation.MaxTime),
		ImpulseStrength:  float32(c.Detonation.ImpulseStrength),
		MaxEventsPerTick: c.Events.MaxPerTick,
		CellSize:         float32(c.Physics.CellSize),
		InitialVelocity:  vel,
		MaxInitialSpeed:  float32(c.Population.MaxInitialSpeed),
		Wrap:             wrap,
		ReserveBorder:    c.Physics.ReserveBorder,
		Broadphase:       broad,
	}
	if err := p.Validate(); err != nil {
		return universe.Params{}, err
	}
	return p, nil
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
