package renderer

import "github.com/pthm-cable/sparks/components"

// Cell summarises the dots that fall into one block of the world, for
// displays coarser than one pixel per world unit.
type Cell struct {
	Count      int
	Detonating int
	MaxFade    float32 // hottest detonating dot in the block
}

// Downsample bins dots into a cols x rows grid covering a worldW x worldH
// world. dst is reused when large enough.
func Downsample(dst []Cell, dots []components.Dot, worldW, worldH, cols, rows int) []Cell {
	n := cols * rows
	if cap(dst) < n {
		dst = make([]Cell, n)
	}
	dst = dst[:n]
	clear(dst)
	if n == 0 || worldW <= 0 || worldH <= 0 {
		return dst
	}

	sx := float32(cols) / float32(worldW)
	sy := float32(rows) / float32(worldH)
	for _, d := range dots {
		if !(d.Pos.X >= 0 && d.Pos.Y >= 0) {
			continue
		}
		col := min(int(d.Pos.X*sx), cols-1)
		row := min(int(d.Pos.Y*sy), rows-1)
		c := &dst[row*cols+col]
		c.Count++
		if d.State.IsDetonating() {
			c.Detonating++
			c.MaxFade = max(c.MaxFade, d.Fade())
		}
	}
	return dst
}
