package game

import (
	"fmt"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/telemetry"
	"github.com/pthm-cable/sparks/ui"
)

// hudPanel is the screen area owned by the HUD sliders, below the counters.
var hudPanel = rl.Rectangle{X: 10, Y: 130, Width: 300, Height: 140}

// Draw renders the game.
func (g *Game) Draw() {
	g.perfCollector.StartPhase(telemetry.PhaseRender)
	g.perfCollector.RecordFrame()

	g.snapshot = g.uni.Snapshot(g.snapshot[:0])
	g.canvas.Render(g.snapshot)
	g.layer.Upload(g.canvas.Pix)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.layer.Draw(g.viewport)

	if g.cfg.Render.ShowHUD {
		g.drawHUD()
	}

	rl.EndDrawing()
	g.perfCollector.EndTick()
}

// drawHUD renders counters and the tuning sliders.
func (g *Game) drawHUD() {
	stats := g.uni.Stats()
	g.hud.Draw(ui.HUDData{
		Tick:       g.tick,
		Live:       stats.Live,
		Initial:    g.dots,
		Detonating: stats.Detonating,
		Pending:    stats.Pending,
		Speed:      g.stepsPerUpdate,
		FPS:        rl.GetFPS(),
		Paused:     g.paused,
	})
	g.hud.DrawControls(int32(g.viewport.ScreenH), "click ignite  R reset  A skip  SPACE pause  </> speed  H hud  P perf")

	if g.showPerf {
		g.perfPanel.SetPosition(int32(g.viewport.ScreenW)-240, 10)
		g.perfPanel.Draw(g.perfCollector.Stats(), telemetry.PhaseNames())
	}

	rl.DrawRectangleRec(hudPanel, rl.Color{R: 0, G: 0, B: 0, A: 160})
	x, y := hudPanel.X+90, hudPanel.Y+10
	w := hudPanel.Width - 150

	g.clickRadius = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: w, Height: 20},
		"click", fmt.Sprintf("%.0f", g.clickRadius),
		g.clickRadius, 5, 250,
	)
	y += 30

	params := g.uni.Params()
	radius := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: w, Height: 20},
		"explosion", fmt.Sprintf("%.0f", params.ExplosionRadius),
		params.ExplosionRadius, 2, 60,
	)
	y += 30
	strength := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: w, Height: 20},
		"strength", fmt.Sprintf("%.0f", params.ImpulseStrength),
		params.ImpulseStrength, 5, 200,
	)
	y += 30

	if radius != params.ExplosionRadius || strength != params.ImpulseStrength {
		params.ExplosionRadius = radius
		params.ImpulseStrength = strength
		if err := g.uni.SetParams(params); err != nil {
			slog.Warn("slider rejected", "error", err)
		}
	}

	if gui.Button(rl.Rectangle{X: hudPanel.X + 10, Y: y, Width: 120, Height: 24}, "Defaults") {
		g.resetParams()
	}
}

// resetParams restores the configured engine parameters and click radius.
func (g *Game) resetParams() {
	params, err := g.cfg.EngineParams()
	if err == nil {
		err = g.uni.SetParams(params)
	}
	if err != nil {
		slog.Error("failed to restore params", "error", err)
		return
	}
	g.clickRadius = float32(g.cfg.Events.ClickRadius)
}
