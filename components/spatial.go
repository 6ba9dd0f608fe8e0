package components

// Position is a dot's location in world coordinates.
type Position Vec2

// Velocity is a dot's velocity in world units per time unit.
type Velocity Vec2

// Vec returns the position as a plain vector.
func (p Position) Vec() Vec2 { return Vec2(p) }

// Vec returns the velocity as a plain vector.
func (v Velocity) Vec() Vec2 { return Vec2(v) }

// Impulse is a radial push centred on a point. Created by external input or
// by a dot's death; never mutated once queued.
type Impulse struct {
	Center Vec2
	Radius float32
}
