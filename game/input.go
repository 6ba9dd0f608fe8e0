package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.Reset()
	}
	// One large step, even while paused
	if rl.IsKeyPressed(rl.KeyA) {
		g.fastForward = true
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyH) {
		g.cfg.Render.ShowHUD = !g.cfg.Render.ShowHUD
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		if g.cfg.Render.ShowHUD && rl.CheckCollisionPointRec(mouse, hudPanel) {
			return // sliders own this click
		}
		if wx, wy, ok := g.viewport.ScreenToWorld(mouse.X, mouse.Y); ok {
			g.click(wx, wy)
		}
	}
}

// handleResize checks for window resize and refits the viewport.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.viewport.ScreenW && h == g.viewport.ScreenH {
		return
	}
	g.viewport.Resize(w, h)
}
