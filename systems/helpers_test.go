package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sparks/components"
)

type points []components.Vec2

func (p points) Len() int                         { return len(p) }
func (p points) PositionAt(i int) components.Vec2 { return p[i] }

// fixedRand always returns the same value.
type fixedRand float32

func (f fixedRand) Float32() float32 { return float32(f) }

// liveFrom builds a LiveDots view backed by fresh component values.
func liveFrom(dots ...components.Dot) *LiveDots {
	l := &LiveDots{}
	for _, d := range dots {
		pos := components.Position(d.Pos)
		vel := components.Velocity(d.Vel)
		st := d.State
		l.Append(ecs.Entity{}, &pos, &vel, &st)
	}
	return l
}

func idleAt(x, y float32) components.Dot {
	return components.Dot{Pos: components.V(x, y)}
}
