package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sparks/components"
)

var canonicalFriction = Friction{Coeff: 0.35, Constant: 0.1}

func step(m Motion, d components.Dot, dt float32) components.Dot {
	pos := components.Position(d.Pos)
	vel := components.Velocity(d.Vel)
	st := d.State
	m.Step(&pos, &vel, &st, dt)
	return components.Dot{Pos: pos.Vec(), Vel: vel.Vec(), State: st}
}

func TestStepWrapsToroidally(t *testing.T) {
	m := Motion{Bounds: Bounds{Width: 100, Height: 100}, Friction: canonicalFriction}

	tests := []struct {
		name    string
		pos     components.Vec2
		vel     components.Vec2
		wantPos components.Vec2
	}{
		{"right edge", components.V(99.5, 50), components.V(10, 0), components.V(0.5, 50)},
		{"left edge", components.V(0.2, 50), components.V(-10, 0), components.V(99.2, 50)},
		{"bottom edge", components.V(50, 99.9), components.V(0, 2), components.V(50, 0.1)},
		{"top edge", components.V(50, 0), components.V(0, -5), components.V(50, 99.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := step(m, components.Dot{Pos: tt.pos, Vel: tt.vel}, 0.1)
			assert.InDelta(t, tt.wantPos.X, got.Pos.X, 1e-4)
			assert.InDelta(t, tt.wantPos.Y, got.Pos.Y, 1e-4)
		})
	}
}

func TestStepWrapClosure(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	modes := []struct {
		name   string
		motion Motion
		w, h   float32
	}{
		{"toroidal", Motion{Bounds: Bounds{Width: 100, Height: 60}, Friction: canonicalFriction}, 100, 60},
		{"border", Motion{Bounds: Bounds{Width: 100, Height: 60, ReserveBorder: true}, Friction: canonicalFriction}, 99, 59},
		{"reflect", Motion{Bounds: Bounds{Width: 100, Height: 60}, Friction: canonicalFriction, Wrap: WrapReflect}, 100, 60},
	}
	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			for i := 0; i < 2000; i++ {
				d := components.Dot{
					Pos: components.V(rng.Float32()*mode.w, rng.Float32()*mode.h),
					Vel: components.V((rng.Float32()*2-1)*5000, (rng.Float32()*2-1)*5000),
				}
				if i%10 == 0 {
					// Tiny velocities right at the edges.
					d.Pos = components.V(0, mode.h-1e-4)
					d.Vel = components.V(-1e-6, 1e-3)
				}
				got := step(mode.motion, d, rng.Float32())
				require.True(t, got.Pos.X >= 0 && got.Pos.X < mode.w, "x=%v from %+v", got.Pos.X, d)
				require.True(t, got.Pos.Y >= 0 && got.Pos.Y < mode.h, "y=%v from %+v", got.Pos.Y, d)
			}
		})
	}
}

func TestStepReflectFlipsAxis(t *testing.T) {
	m := Motion{Bounds: Bounds{Width: 100, Height: 100}, Wrap: WrapReflect}

	got := step(m, components.Dot{Pos: components.V(99.5, 50), Vel: components.V(10, 3)}, 0.1)
	assert.InDelta(t, 99.5, got.Pos.X, 1e-4)
	assert.InDelta(t, 50.3, got.Pos.Y, 1e-4)
	assert.InDelta(t, -10, got.Vel.X, 1e-4)
	assert.InDelta(t, 3, got.Vel.Y, 1e-4)

	got = step(m, components.Dot{Pos: components.V(0.5, 0.5), Vel: components.V(-10, -10)}, 0.1)
	assert.InDelta(t, 0.5, got.Pos.X, 1e-4)
	assert.InDelta(t, 0.5, got.Pos.Y, 1e-4)
	assert.Greater(t, got.Vel.X, float32(0))
	assert.Greater(t, got.Vel.Y, float32(0))
}

func TestStepFrictionMonotonic(t *testing.T) {
	m := Motion{Bounds: Bounds{Width: 500, Height: 500}, Friction: canonicalFriction}
	d := components.Dot{Pos: components.V(250, 250), Vel: components.V(30, -40)}

	prev := d.Vel.Length()
	stoppedAt := -1
	for i := 0; i < 2000; i++ {
		d = step(m, d, 0.1)
		speed := d.Vel.Length()
		require.LessOrEqual(t, speed, prev, "speed increased at step %d", i)
		require.GreaterOrEqual(t, speed, float32(0))
		if stoppedAt < 0 && speed == 0 {
			stoppedAt = i
		}
		if stoppedAt >= 0 {
			require.True(t, d.Vel.IsZero(), "dot moved again at step %d", i)
		}
		prev = speed
	}
	assert.GreaterOrEqual(t, stoppedAt, 0, "dot never stopped")
}

func TestFrictionStopsInsteadOfReversing(t *testing.T) {
	f := Friction{Coeff: 0.35, Constant: 0.1}
	v := components.V(0.003, 0.004) // speed 0.005
	got := f.Apply(v, v.Length(), 0.1)
	assert.Equal(t, components.Vec2{}, got)

	v = components.V(3, 4)
	got = f.Apply(v, 5, 0.1)
	// 5*(1-0.035) - 0.01
	assert.InDelta(t, 4.815, got.Length(), 1e-5)
	assert.InDelta(t, 0.6, got.Normalized().X, 1e-5)
}

func TestStepZeroVelocityOnlyCountsDown(t *testing.T) {
	m := Motion{Bounds: Bounds{Width: 100, Height: 100}, Friction: canonicalFriction}
	d := components.Dot{
		Pos:   components.V(10, 20),
		State: components.DotState{Phase: components.Detonating, Remaining: 1, Total: 2},
	}
	got := step(m, d, 0.25)
	assert.Equal(t, d.Pos, got.Pos)
	assert.True(t, got.Vel.IsZero())
	assert.Equal(t, float32(0.75), got.State.Remaining)
	assert.True(t, got.Pos.IsFinite())
}

func TestParseWrapMode(t *testing.T) {
	m, err := ParseWrapMode("reflect")
	require.NoError(t, err)
	assert.Equal(t, WrapReflect, m)
	assert.Equal(t, "reflect", m.String())

	m, err = ParseWrapMode("")
	require.NoError(t, err)
	assert.Equal(t, WrapToroidal, m)

	_, err = ParseWrapMode("mobius")
	assert.Error(t, err)
}
