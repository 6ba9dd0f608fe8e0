// Package terminal draws a universe into terminal cells with tcell.
package terminal

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/sparks/renderer"
)

// densityRamp maps idle dot counts to glyphs, sparsest first.
var densityRamp = []rune{' ', '.', ':', '+', '#'}

// Glyph is one terminal cell ready to draw.
type Glyph struct {
	Rune  rune
	Style tcell.Style
}

// GlyphFor picks a glyph for a downsampled cell. Cells with a detonating
// dot show a spark coloured by the hottest countdown; otherwise the glyph
// reflects how many idle dots the cell holds.
func GlyphFor(c renderer.Cell, p renderer.Palette) Glyph {
	if c.Detonating > 0 {
		col := p.Cold
		col.R = lerp8(p.Cold.R, p.Hot.R, c.MaxFade)
		col.G = lerp8(p.Cold.G, p.Hot.G, c.MaxFade)
		col.B = lerp8(p.Cold.B, p.Hot.B, c.MaxFade)
		return Glyph{Rune: '*', Style: tcell.StyleDefault.Foreground(rgb(col)).Bold(true)}
	}
	idx := min(c.Count, len(densityRamp)-1)
	return Glyph{Rune: densityRamp[idx], Style: tcell.StyleDefault.Foreground(rgb(p.Idle))}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func lerp8(a, b uint8, f float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*f + 0.5)
}

// CellToWorld returns the world position at the centre of terminal cell
// (col, row) for a cols x rows grid covering a worldW x worldH world.
func CellToWorld(col, row, cols, rows int, worldW, worldH float32) (x, y float32) {
	x = (float32(col) + 0.5) * worldW / float32(cols)
	y = (float32(row) + 0.5) * worldH / float32(rows)
	return x, y
}
