package terminal

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/renderer"
	"github.com/pthm-cable/sparks/universe"
)

func newApp(t *testing.T, cols, rows int) (*App, *universe.Universe) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows+1)

	uni, err := universe.New(100, 100, 0, rand.New(rand.NewPCG(1, 1)), universe.DefaultParams())
	require.NoError(t, err)
	return New(screen, uni, Options{ClickRadius: 10, FastForwardDT: 10}), uni
}

func TestGlyphFor(t *testing.T) {
	p := renderer.DefaultPalette()

	assert.Equal(t, ' ', GlyphFor(renderer.Cell{}, p).Rune)
	assert.Equal(t, '.', GlyphFor(renderer.Cell{Count: 1}, p).Rune)
	assert.Equal(t, '#', GlyphFor(renderer.Cell{Count: 50}, p).Rune)

	hot := GlyphFor(renderer.Cell{Count: 3, Detonating: 1, MaxFade: 1}, p)
	assert.Equal(t, '*', hot.Rune)
	fg, _, _ := hot.Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(int32(p.Hot.R), int32(p.Hot.G), int32(p.Hot.B)), fg)

	cold := GlyphFor(renderer.Cell{Count: 1, Detonating: 1, MaxFade: 0}, p)
	fg, _, _ = cold.Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(int32(p.Cold.R), int32(p.Cold.G), int32(p.Cold.B)), fg)
}

func TestCellToWorld(t *testing.T) {
	x, y := CellToWorld(0, 0, 10, 5, 100, 50)
	assert.Equal(t, float32(5), x)
	assert.Equal(t, float32(5), y)

	x, y = CellToWorld(9, 4, 10, 5, 100, 50)
	assert.Equal(t, float32(95), x)
	assert.Equal(t, float32(45), y)
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want action
	}{
		{tcell.KeyEscape, 0, actionQuit},
		{tcell.KeyCtrlC, 0, actionQuit},
		{tcell.KeyRune, 'q', actionQuit},
		{tcell.KeyRune, 'r', actionReset},
		{tcell.KeyRune, 'A', actionFastForward},
		{tcell.KeyRune, ' ', actionPause},
		{tcell.KeyRune, 'x', actionNone},
		{tcell.KeyEnter, 0, actionNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keyAction(tt.key, tt.r), "key %v rune %q", tt.key, tt.r)
	}
}

func TestClickQueuesImpulse(t *testing.T) {
	app, uni := newApp(t, 10, 10)

	app.Click(0, 0)
	assert.Equal(t, 1, uni.Stats().Pending)

	// Status line and out-of-range cells are ignored
	app.Click(0, 10)
	app.Click(10, 0)
	app.Click(-1, 3)
	assert.Equal(t, 1, uni.Stats().Pending)
}

func TestMouseClickIsEdgeTriggered(t *testing.T) {
	app, uni := newApp(t, 10, 10)

	assert.True(t, app.HandleEvent(tcell.NewEventMouse(5, 5, tcell.Button1, tcell.ModNone)))
	assert.True(t, app.HandleEvent(tcell.NewEventMouse(6, 5, tcell.Button1, tcell.ModNone)))
	assert.Equal(t, 1, uni.Stats().Pending, "held button fires once")

	app.HandleEvent(tcell.NewEventMouse(6, 5, tcell.ButtonNone, tcell.ModNone))
	app.HandleEvent(tcell.NewEventMouse(6, 5, tcell.Button1, tcell.ModNone))
	assert.Equal(t, 2, uni.Stats().Pending)
}

func TestClickIgnitesDotUnderCursor(t *testing.T) {
	app, uni := newApp(t, 10, 10)
	uni.Spawn(components.Dot{Pos: components.V(55, 55)})

	app.Click(5, 5)
	app.Step(0.1)

	assert.Equal(t, universe.Stats{Live: 1, Detonating: 1}, uni.Stats())
}

func TestCompose(t *testing.T) {
	app, uni := newApp(t, 10, 10)
	uni.Spawn(components.Dot{Pos: components.V(5, 5)})
	uni.Spawn(components.Dot{
		Pos:   components.V(95, 95),
		State: components.DotState{Phase: components.Detonating, Remaining: 2, Total: 2},
	})

	glyphs := app.Compose(nil)
	require.Len(t, glyphs, 100)
	assert.Equal(t, '.', glyphs[0].Rune)
	assert.Equal(t, '*', glyphs[99].Rune)
	assert.Equal(t, ' ', glyphs[50].Rune)

	// Draw must not panic on a live screen
	app.Draw()
}

func TestPollEventsStopsWhenDone(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)

	// Nobody reads events, so the forwarder can only leave through done.
	events := make(chan tcell.Event)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		pollEvents(screen, events, done)
		close(finished)
	}()

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	close(done)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("event forwarder still blocked after done was closed")
	}
}

func TestPollEventsStopsWhenScreenFinalised(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())

	finished := make(chan struct{})
	go func() {
		pollEvents(screen, make(chan tcell.Event, 1), make(chan struct{}))
		close(finished)
	}()

	screen.Fini()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("event forwarder still running after Fini")
	}
}
