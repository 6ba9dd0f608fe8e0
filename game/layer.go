package game

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/camera"
)

// dotLayer is the GPU texture the canvas is uploaded to each frame.
type dotLayer struct {
	texture rl.Texture2D
	width   int32
	height  int32
}

func newDotLayer(width, height int) *dotLayer {
	img := rl.GenImageColor(width, height, rl.Blank)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	return &dotLayer{texture: texture, width: int32(width), height: int32(height)}
}

// Upload replaces the texture contents. pix must hold width*height pixels.
func (l *dotLayer) Upload(pix []color.RGBA) {
	rl.UpdateTexture(l.texture, pix)
}

// Draw stretches the texture over the viewport's world rectangle.
func (l *dotLayer) Draw(v *camera.Viewport) {
	dest := v.Dest()
	rl.DrawTexturePro(
		l.texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(l.width), Height: float32(l.height)},
		rl.Rectangle{X: dest.X, Y: dest.Y, Width: dest.W, Height: dest.H},
		rl.Vector2{X: 0, Y: 0},
		0,
		rl.White,
	)
}

// Unload frees the texture.
func (l *dotLayer) Unload() {
	rl.UnloadTexture(l.texture)
}
