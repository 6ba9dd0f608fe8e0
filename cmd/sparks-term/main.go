// Terminal front end: the chain reaction rendered in terminal cells.
//
// Usage: go run ./cmd/sparks-term -seed 42
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/terminal"
	"github.com/pthm-cable/sparks/universe"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	fps := flag.Int("fps", 30, "Frames per second")
	dots := flag.Int("dots", 0, "Initial dot count (0 = use config)")
	logPath := flag.String("log", "sparks-term.log", "Log file (stdout belongs to the screen)")
	flag.Parse()

	if err := run(*configPath, *seed, *fps, *dots, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "sparks-term: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, fps, dots int, logPath string) error {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))

	if err := config.Init(configPath); err != nil {
		return err
	}
	cfg := config.Cfg()

	params, err := cfg.EngineParams()
	if err != nil {
		return err
	}
	if dots <= 0 {
		dots = cfg.Population.Dots
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	uni, err := universe.New(cfg.Derived.WorldW, cfg.Derived.WorldH, dots, rng, params)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	slog.Info("terminal started", "seed", seed, "dots", dots, "fps", fps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := terminal.New(screen, uni, terminal.Options{
		FPS:           fps,
		ClickRadius:   float32(cfg.Events.ClickRadius),
		FastForwardDT: float32(cfg.Events.FastForwardDT),
		Dots:          dots,
	})
	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
