// Package camera maps between window pixels and world coordinates.
package camera

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	X, Y, W, H float32
}

// Viewport fits the world into the window at the largest uniform scale
// that shows all of it, centring the result (letterboxing).
type Viewport struct {
	// Window dimensions
	ScreenW, ScreenH float32

	// World dimensions
	WorldW, WorldH float32

	// Scale is screen pixels per world unit.
	Scale float32

	// Offset of the world origin on screen
	OffsetX, OffsetY float32
}

// New creates a viewport for the given window and world sizes.
func New(screenW, screenH, worldW, worldH float32) *Viewport {
	v := &Viewport{WorldW: worldW, WorldH: worldH}
	v.Resize(screenW, screenH)
	return v
}

// Resize recomputes scale and letterbox offsets for a new window size.
func (v *Viewport) Resize(screenW, screenH float32) {
	v.ScreenW = screenW
	v.ScreenH = screenH
	if v.WorldW <= 0 || v.WorldH <= 0 || screenW <= 0 || screenH <= 0 {
		v.Scale = 1
		v.OffsetX, v.OffsetY = 0, 0
		return
	}
	v.Scale = min(screenW/v.WorldW, screenH/v.WorldH)
	v.OffsetX = (screenW - v.WorldW*v.Scale) / 2
	v.OffsetY = (screenH - v.WorldH*v.Scale) / 2
}

// ScreenToWorld converts a window position to world coordinates.
// ok is false when the position falls in the letterbox bars.
func (v *Viewport) ScreenToWorld(sx, sy float32) (wx, wy float32, ok bool) {
	wx = (sx - v.OffsetX) / v.Scale
	wy = (sy - v.OffsetY) / v.Scale
	ok = wx >= 0 && wy >= 0 && wx < v.WorldW && wy < v.WorldH
	return wx, wy, ok
}

// WorldToScreen converts world coordinates to a window position.
func (v *Viewport) WorldToScreen(wx, wy float32) (sx, sy float32) {
	return v.OffsetX + wx*v.Scale, v.OffsetY + wy*v.Scale
}

// WorldLength converts a world-space distance to pixels.
func (v *Viewport) WorldLength(d float32) float32 {
	return d * v.Scale
}

// Dest returns the screen rectangle the world is drawn into.
func (v *Viewport) Dest() Rect {
	return Rect{X: v.OffsetX, Y: v.OffsetY, W: v.WorldW * v.Scale, H: v.WorldH * v.Scale}
}
