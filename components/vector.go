package components

import "math"

// Vec2 is a 2D float vector. All operations return new values.
type Vec2 struct {
	X, Y float32
}

// V is shorthand for constructing a Vec2.
func V(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(k float32) Vec2 {
	return Vec2{v.X * k, v.Y * k}
}

// Length returns the Euclidean norm.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// LengthSq avoids the square root when only comparisons are needed.
func (v Vec2) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalized divides by the length. The caller must ensure the vector is
// non-zero; a zero vector yields NaN components.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	return Vec2{v.X / l, v.Y / l}
}

// WithLength rescales v to magnitude l, keeping its direction.
// Same zero-length caveat as Normalized.
func (v Vec2) WithLength(l float32) Vec2 {
	return v.Normalized().Scale(l)
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
