package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Tick       int32
	Live       int
	Initial    int // population at the last reset
	Detonating int
	Pending    int
	Speed      int
	FPS        int32
	Paused     bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD anchored at (x, y).
func NewHUD(x, y, width int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Height is the vertical space Draw uses.
func (h *HUD) Height() int32 {
	return 6*h.renderer.Theme.LineHeight + 2*h.renderer.Theme.Padding
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	pad := r.Theme.Padding
	r.DrawPanel(h.x, h.y, h.width, h.Height())

	x, y := h.x+pad, h.y+pad
	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Tick %d  %s", data.Tick, status))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%dx  FPS %d", data.Speed, data.FPS))
	y = r.DrawLabelValue(x, y, "Pending", fmt.Sprintf("%d", data.Pending))

	alive, burning := float32(0), float32(0)
	if data.Initial > 0 {
		alive = float32(data.Live) / float32(data.Initial)
	}
	if data.Live > 0 {
		burning = float32(data.Detonating) / float32(data.Live)
	}
	y = r.DrawBar(x, y, fmt.Sprintf("Live %d", data.Live), alive, h.width-2*pad, r.Theme.BarFill)
	r.DrawBar(x, y, fmt.Sprintf("Burning %d", data.Detonating), burning, h.width-2*pad, r.Theme.BarFillHot)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel with phases in the given order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	r := p.renderer
	height := int32(len(phases)+2)*14 + 2*r.Theme.Padding + 6
	r.DrawPanel(p.x, p.y, 230, height)

	x, y := p.x+r.Theme.Padding, p.y+r.Theme.Padding
	y = r.DrawSectionHeader(x, y, "Frame Performance")

	rl.DrawText(fmt.Sprintf("Total: %s  (%.0f/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 12, rl.Yellow)
	y += 16

	for _, name := range phases {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(fmt.Sprintf("%-10s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct), x, y, 12, color)
		y += 14
	}
}
