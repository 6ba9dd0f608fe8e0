// Package game drives a universe from a raylib window or headless.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/pthm-cable/sparks/camera"
	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/renderer"
	"github.com/pthm-cable/sparks/telemetry"
	"github.com/pthm-cable/sparks/ui"
	"github.com/pthm-cable/sparks/universe"
)

// Options configures game initialization.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	Dots           int  // 0 = use config
	PresetClick    bool // queue a click at the world centre before the first tick
}

// Game holds the complete game state.
type Game struct {
	cfg *config.Config
	uni *universe.Universe
	rng *rand.Rand

	rngSeed int64
	dots    int

	// State
	tick           int32
	simTime        float64
	paused         bool
	headless       bool
	stepsPerUpdate int
	fastForwardDT  float32
	fastForward    bool
	clickRadius    float32

	// Rendering (nil in headless mode)
	viewport  *camera.Viewport
	canvas    *renderer.Canvas
	layer     *dotLayer
	snapshot  []components.Dot
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	showPerf  bool

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
}

// NewGameWithOptions creates a game from the global config. In graphical
// mode the raylib window must already be open.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	params, err := cfg.EngineParams()
	if err != nil {
		return nil, err
	}

	dots := cfg.Population.Dots
	if opts.Dots > 0 {
		dots = opts.Dots
	}

	seed := uint64(opts.Seed)
	rng := rand.New(rand.NewPCG(seed, seed))

	uni, err := universe.New(cfg.Derived.WorldW, cfg.Derived.WorldH, dots, rng, params)
	if err != nil {
		return nil, fmt.Errorf("creating universe: %w", err)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:            cfg,
		uni:            uni,
		rng:            rng,
		rngSeed:        opts.Seed,
		dots:           dots,
		headless:       opts.Headless,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		fastForwardDT:  float32(cfg.Events.FastForwardDT),
		clickRadius:    float32(cfg.Events.ClickRadius),

		collector:        telemetry.NewCollector(statsWindow, params.MaxEventsPerTick),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		logStats:         opts.LogStats,
	}
	uni.SetPhaseTimer(g.perfCollector)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, err
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("writing config: %w", err)
		}
		g.outputManager = om
	}

	if !opts.Headless {
		clearPolicy, err := renderer.ParseClearPolicy(cfg.Render.Clear)
		if err != nil {
			return nil, err
		}
		g.viewport = camera.New(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32,
			float32(cfg.Derived.WorldW), float32(cfg.Derived.WorldH))
		g.canvas = renderer.NewCanvas(cfg.Derived.WorldW, cfg.Derived.WorldH, clearPolicy)
		g.layer = newDotLayer(cfg.Derived.WorldW, cfg.Derived.WorldH)
		g.hud = ui.NewHUD(10, 10, 300)
		g.perfPanel = ui.NewPerfPanel(int32(cfg.Derived.ScreenW32)-240, 10)
	}

	if opts.PresetClick {
		g.click(float32(cfg.Derived.WorldW)/2, float32(cfg.Derived.WorldH)/2)
	}

	slog.Info("universe created",
		"seed", opts.Seed,
		"dots", dots,
		"world_w", cfg.Derived.WorldW,
		"world_h", cfg.Derived.WorldH,
		"headless", opts.Headless,
	)

	return g, nil
}

// Update runs one frame: input, then stepsPerUpdate ticks of the frame time.
func (g *Game) Update(frameDT float32) {
	g.handleInput()

	g.perfCollector.StartTick()
	if g.fastForward {
		g.fastForward = false
		g.step(g.fastForwardDT)
	}
	if !g.paused {
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.step(frameDT)
		}
	}
}

// UpdateHeadless runs stepsPerUpdate ticks of the configured fixed step.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartTick()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(g.cfg.Derived.DT32)
	}
	g.perfCollector.EndTick()
}

// step advances the universe by one tick and feeds telemetry.
func (g *Game) step(dt float32) {
	report := g.uni.Tick(dt)
	g.tick++
	g.simTime += float64(dt)
	g.collector.Record(report, dt)
	g.flushTelemetry()
}

// click queues an impulse of the current click radius.
func (g *Game) click(x, y float32) {
	if err := g.uni.AddEvent(x, y, g.clickRadius); err != nil {
		slog.Warn("click rejected", "x", x, "y", y, "error", err)
	}
}

// Reset repopulates the universe and restarts the tick counter.
func (g *Game) Reset() {
	g.uni.Reset(g.dots)
	g.tick = 0
	g.simTime = 0
	g.collector.Reset()
	g.bookmarkDetector.Reset()
	slog.Info("universe reset", "dots", g.dots)
}

// Tick returns the number of ticks run since creation or the last reset.
func (g *Game) Tick() int32 {
	return g.tick
}

// Universe returns the simulated universe.
func (g *Game) Universe() *universe.Universe {
	return g.uni
}

// Unload releases GPU resources and closes output files.
func (g *Game) Unload() {
	if g.layer != nil {
		g.layer.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
