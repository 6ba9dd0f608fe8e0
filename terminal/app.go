package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/renderer"
	"github.com/pthm-cable/sparks/universe"
)

// Options configures the terminal front end.
type Options struct {
	FPS           int
	ClickRadius   float32
	FastForwardDT float32
	Dots          int // population used by reset
}

// action is what a key press asks for.
type action uint8

const (
	actionNone action = iota
	actionQuit
	actionReset
	actionFastForward
	actionPause
)

func keyAction(key tcell.Key, r rune) action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyRune:
		switch r {
		case 'q':
			return actionQuit
		case 'r', 'R':
			return actionReset
		case 'a', 'A':
			return actionFastForward
		case ' ':
			return actionPause
		}
	}
	return actionNone
}

// App runs a universe inside a terminal. The bottom row is a status line.
type App struct {
	screen tcell.Screen
	uni    *universe.Universe
	opts   Options

	palette  renderer.Palette
	cells    []renderer.Cell
	snapshot []components.Dot
	glyphs   []Glyph
	cols     int
	rows     int

	tick       int
	paused     bool
	mouseDown  bool
	lastReport universe.TickReport
}

// New creates an app on an initialised screen.
func New(screen tcell.Screen, uni *universe.Universe, opts Options) *App {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	a := &App{
		screen:  screen,
		uni:     uni,
		opts:    opts,
		palette: renderer.DefaultPalette(),
	}
	a.resize()
	return a
}

func (a *App) resize() {
	w, h := a.screen.Size()
	a.cols = max(w, 1)
	a.rows = max(h-1, 1)
}

// Run polls input and ticks at the configured frame rate until the user
// quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	frame := time.Second / time.Duration(a.opts.FPS)
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(a.screen, events, done)

	dt := float32(frame.Seconds())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if !a.paused {
				a.Step(dt)
			}
			a.Draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalised or done
// is closed.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return // screen finalised
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// Step advances the universe by dt.
func (a *App) Step(dt float32) {
	a.lastReport = a.uni.Tick(dt)
	a.tick++
}

// HandleEvent applies one input event. Returns false when the app should exit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch keyAction(ev.Key(), ev.Rune()) {
		case actionQuit:
			return false
		case actionReset:
			a.uni.Reset(a.opts.Dots)
			a.tick = 0
			slog.Info("universe reset", "dots", a.opts.Dots)
		case actionFastForward:
			a.Step(a.opts.FastForwardDT)
		case actionPause:
			a.paused = !a.paused
		}

	case *tcell.EventMouse:
		pressed := ev.Buttons()&tcell.Button1 != 0
		if pressed && !a.mouseDown {
			col, row := ev.Position()
			a.Click(col, row)
		}
		a.mouseDown = pressed

	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
	}
	return true
}

// Click queues an impulse at the world position under a terminal cell.
// Clicks on the status line are ignored.
func (a *App) Click(col, row int) {
	if row >= a.rows || col >= a.cols || col < 0 || row < 0 {
		return
	}
	x, y := CellToWorld(col, row, a.cols, a.rows, float32(a.uni.Width()), float32(a.uni.Height()))
	if err := a.uni.AddEvent(x, y, a.opts.ClickRadius); err != nil {
		slog.Warn("click rejected", "error", err)
	}
}

// Compose downsamples the universe into one glyph per cell, row-major.
func (a *App) Compose(dst []Glyph) []Glyph {
	a.snapshot = a.uni.Snapshot(a.snapshot[:0])
	a.cells = renderer.Downsample(a.cells, a.snapshot, a.uni.Width(), a.uni.Height(), a.cols, a.rows)
	dst = dst[:0]
	for _, c := range a.cells {
		dst = append(dst, GlyphFor(c, a.palette))
	}
	return dst
}

// Draw renders the world and status line.
func (a *App) Draw() {
	a.screen.Clear()
	a.glyphs = a.Compose(a.glyphs)
	for i, g := range a.glyphs {
		a.screen.SetContent(i%a.cols, i/a.cols, g.Rune, nil, g.Style)
	}

	stats := a.uni.Stats()
	status := fmt.Sprintf(" tick %d  live %d  detonating %d  pending %d  ignited %d  [click] ignite [a] skip [r] reset [space] pause [q] quit",
		a.tick, stats.Live, stats.Detonating, stats.Pending, a.lastReport.Ignitions)
	if a.paused {
		status = " PAUSED " + status
	}
	style := tcell.StyleDefault.Reverse(true)
	for i, r := range []rune(status) {
		if i >= a.cols {
			break
		}
		a.screen.SetContent(i, a.rows, r, nil, style)
	}
	a.screen.Show()
}
