// Package renderer rasterises dot snapshots. It is free of any windowing
// library so both front ends can share it.
package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/pthm-cable/sparks/components"
)

// ClearPolicy controls what Reset does to the previous frame.
type ClearPolicy uint8

const (
	ClearAlpha ClearPolicy = iota // zero only the alpha channel
	ClearFull                     // zero every channel
)

// ParseClearPolicy converts a config name to a ClearPolicy.
func ParseClearPolicy(s string) (ClearPolicy, error) {
	switch s {
	case "alpha", "":
		return ClearAlpha, nil
	case "full":
		return ClearFull, nil
	}
	return 0, fmt.Errorf("unknown clear policy %q", s)
}

// Palette maps dot state to pixel colour.
type Palette struct {
	Idle color.RGBA
	Hot  color.RGBA // just ignited (fade 1)
	Cold color.RGBA // about to die (fade 0)
}

// DefaultPalette returns white idle dots and detonations that cool from
// yellow to deep red.
func DefaultPalette() Palette {
	return Palette{
		Idle: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Hot:  color.RGBA{R: 255, G: 230, B: 90, A: 255},
		Cold: color.RGBA{R: 140, G: 10, B: 0, A: 255},
	}
}

// Color returns the pixel colour for a dot.
func (p Palette) Color(d components.Dot) color.RGBA {
	if !d.State.IsDetonating() {
		return p.Idle
	}
	f := d.Fade()
	return color.RGBA{
		R: lerp8(p.Cold.R, p.Hot.R, f),
		G: lerp8(p.Cold.G, p.Hot.G, f),
		B: lerp8(p.Cold.B, p.Hot.B, f),
		A: lerp8(p.Cold.A, p.Hot.A, f),
	}
}

func lerp8(a, b uint8, f float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*f + 0.5)
}

// Canvas is a width*height RGBA pixel buffer, one pixel per world unit.
type Canvas struct {
	Width   int
	Height  int
	Pix     []color.RGBA // row-major
	Clear   ClearPolicy
	Palette Palette
}

// NewCanvas allocates a cleared canvas.
func NewCanvas(width, height int, clear ClearPolicy) *Canvas {
	return &Canvas{
		Width:   width,
		Height:  height,
		Pix:     make([]color.RGBA, width*height),
		Clear:   clear,
		Palette: DefaultPalette(),
	}
}

// Reset clears the previous frame according to the clear policy.
func (c *Canvas) Reset() {
	if c.Clear == ClearFull {
		clear(c.Pix)
		return
	}
	for i := range c.Pix {
		c.Pix[i].A = 0
	}
}

// Paint sets one pixel per dot at (floor(x), floor(y)). Dots outside the
// canvas are skipped. Returns the number of pixels written.
func (c *Canvas) Paint(dots []components.Dot) int {
	painted := 0
	for _, d := range dots {
		if !(d.Pos.X >= 0 && d.Pos.Y >= 0) {
			continue
		}
		x, y := int(d.Pos.X), int(d.Pos.Y)
		if x >= c.Width || y >= c.Height {
			continue
		}
		c.Pix[y*c.Width+x] = c.Palette.Color(d)
		painted++
	}
	return painted
}

// Render clears the canvas and paints dots.
func (c *Canvas) Render(dots []components.Dot) int {
	c.Reset()
	return c.Paint(dots)
}

// ColorModel implements image.Image.
func (c *Canvas) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.Width, c.Height) }

// At implements image.Image.
func (c *Canvas) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return color.RGBA{}
	}
	return c.Pix[y*c.Width+x]
}
