package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sparks/components"
)

var canonicalDetonation = Detonation{MinTime: 3, MaxTime: 10, Strength: 50}

func newGridPropagator(live *LiveDots, maxEvents int, rng Rand) *Propagator {
	g := NewSpatialGrid(100, 100, 10)
	g.Rebuild(live)
	return NewPropagator(g, canonicalDetonation, maxEvents, rng)
}

func TestDrainZeroDistanceFallback(t *testing.T) {
	live := liveFrom(idleAt(50, 50))
	p := newGridPropagator(live, 10, fixedRand(0.5))
	q := NewImpulseQueue()
	q.Push(components.Impulse{Center: components.V(50, 50), Radius: 10})

	res := p.Drain(q, live)

	assert.Equal(t, DrainResult{Processed: 1, Ignited: 1, Pushed: 1}, res)
	assert.Equal(t, components.Velocity{X: 50, Y: 0}, *live.Vel[0])
	st := *live.State[0]
	assert.Equal(t, components.Detonating, st.Phase)
	assert.Equal(t, float32(6.5), st.Total)
	assert.Equal(t, st.Total, st.Remaining)
}

func TestDrainQuadraticFalloff(t *testing.T) {
	live := liveFrom(idleAt(50, 55))
	p := newGridPropagator(live, 10, fixedRand(0))
	q := NewImpulseQueue()
	q.Push(components.Impulse{Center: components.V(50, 50), Radius: 10})

	p.Drain(q, live)

	// (1 - 5/10)^2 * 50 along +y
	assert.InDelta(t, 0, live.Vel[0].X, 1e-5)
	assert.InDelta(t, 12.5, live.Vel[0].Y, 1e-4)
	assert.Equal(t, float32(3), live.State[0].Total)
}

func TestDrainIgnoresDotsOnOrOutsideRadius(t *testing.T) {
	live := liveFrom(
		idleAt(60, 50), // exactly on the radius
		idleAt(58, 58), // inside the square, outside the circle
		idleAt(90, 90), // far away
	)
	p := newGridPropagator(live, 10, fixedRand(0.5))
	q := NewImpulseQueue()
	q.Push(components.Impulse{Center: components.V(50, 50), Radius: 10})

	res := p.Drain(q, live)

	assert.Equal(t, 1, res.Processed)
	assert.Zero(t, res.Ignited)
	for i := 0; i < live.Len(); i++ {
		assert.Equal(t, components.Idle, live.State[i].Phase, "dot %d", i)
		assert.True(t, live.Vel[i].Vec().IsZero(), "dot %d", i)
	}
}

func TestDrainOnlyAffectsDotsInRange(t *testing.T) {
	live := liveFrom(idleAt(10, 10), idleAt(50, 50))
	p := newGridPropagator(live, 10, fixedRand(0.5))
	q := NewImpulseQueue()
	q.Push(components.Impulse{Center: components.V(10, 10), Radius: 5})

	p.Drain(q, live)

	assert.Equal(t, components.Detonating, live.State[0].Phase)
	assert.Equal(t, components.Idle, live.State[1].Phase)
	assert.True(t, live.Vel[1].Vec().IsZero())
}

func TestDrainKeepsTimerOfDetonatingDot(t *testing.T) {
	d := idleAt(50, 50)
	d.State = components.DotState{Phase: components.Detonating, Remaining: 1, Total: 4}
	d.Vel = components.V(0, 3)
	live := liveFrom(d)
	p := newGridPropagator(live, 10, fixedRand(0.9))
	q := NewImpulseQueue()
	q.Push(components.Impulse{Center: components.V(45, 50), Radius: 10})

	res := p.Drain(q, live)

	assert.Zero(t, res.Ignited)
	assert.Equal(t, 1, res.Pushed)
	assert.Equal(t, d.State, *live.State[0])
	// (1 - 5/10)^2 * 50 along +x, added to the existing velocity
	assert.InDelta(t, 12.5, live.Vel[0].X, 1e-4)
	assert.InDelta(t, 3, live.Vel[0].Y, 1e-6)
}

func TestDrainIsLastInFirstOut(t *testing.T) {
	live := liveFrom(idleAt(10, 10), idleAt(80, 80))
	p := newGridPropagator(live, 1, fixedRand(0.5))
	q := NewImpulseQueue()
	q.Push(components.Impulse{Center: components.V(10, 10), Radius: 5})
	q.Push(components.Impulse{Center: components.V(80, 80), Radius: 5})

	p.Drain(q, live)
	assert.Equal(t, components.Idle, live.State[0].Phase, "older impulse should wait")
	assert.Equal(t, components.Detonating, live.State[1].Phase)
	assert.Equal(t, 1, q.Len())

	p.Drain(q, live)
	assert.Equal(t, components.Detonating, live.State[0].Phase)
	assert.Zero(t, q.Len())
}

func TestDrainBound(t *testing.T) {
	live := liveFrom(idleAt(50, 50))
	p := newGridPropagator(live, 5, fixedRand(0.5))
	q := NewImpulseQueue()
	for i := 0; i < 20; i++ {
		q.Push(components.Impulse{Center: components.V(float32(i), 0), Radius: 1})
	}

	res := p.Drain(q, live)
	assert.Equal(t, 5, res.Processed)
	assert.Equal(t, 15, q.Len())

	// Remaining impulses come out newest first.
	top, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, components.V(14, 0), top.Center)
}

func TestDrainEmptyQueue(t *testing.T) {
	live := liveFrom()
	p := newGridPropagator(live, 5, fixedRand(0.5))
	assert.Equal(t, DrainResult{}, p.Drain(NewImpulseQueue(), live))
}

func TestGridMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	dots := make([]components.Dot, 400)
	for i := range dots {
		dots[i] = idleAt(rng.Float32()*100, rng.Float32()*100)
	}
	impulses := make([]components.Impulse, 30)
	for i := range impulses {
		impulses[i] = components.Impulse{
			Center: components.V(rng.Float32()*120-10, rng.Float32()*120-10),
			Radius: 2 + rng.Float32()*15,
		}
	}
	// Rectangles whose corners lie far outside the world must still clamp
	// to the last cell.
	impulses = append(impulses,
		components.Impulse{Center: components.V(40, 40), Radius: 1e25},
		components.Impulse{Center: components.V(1e30, 1e30), Radius: 2e30},
	)

	run := func(broad Broadphase) *LiveDots {
		live := liveFrom(dots...)
		broad.Rebuild(live)
		p := NewPropagator(broad, canonicalDetonation, len(impulses), fixedRand(0.5))
		q := NewImpulseQueue()
		for _, imp := range impulses {
			q.Push(imp)
		}
		p.Drain(q, live)
		return live
	}

	grid := run(NewSpatialGrid(100, 100, 10))
	linear := run(&LinearScan{})

	for i := range dots {
		assert.Equal(t, linear.State[i].Phase, grid.State[i].Phase, "dot %d", i)
		assert.InDelta(t, linear.Vel[i].X, grid.Vel[i].X, 1e-3, "dot %d", i)
		assert.InDelta(t, linear.Vel[i].Y, grid.Vel[i].Y, 1e-3, "dot %d", i)
	}
}

func TestImpulseQueueStack(t *testing.T) {
	q := NewImpulseQueue()
	_, ok := q.Pop()
	assert.False(t, ok)

	q.Push(components.Impulse{Radius: 1})
	q.Push(components.Impulse{Radius: 2})
	assert.Equal(t, 2, q.Len())

	imp, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, float32(2), imp.Radius)

	q.Clear()
	assert.Zero(t, q.Len())
}

func TestDetonationSystemReap(t *testing.T) {
	w := ecs.NewWorld()
	mapper := ecs.NewMap3[components.Position, components.Velocity, components.DotState](w)

	spawn := func(x, y float32, st components.DotState) {
		pos := components.Position{X: x, Y: y}
		vel := components.Velocity{}
		mapper.NewEntity(&pos, &vel, &st)
	}
	spawn(1, 1, components.DotState{})
	spawn(2, 2, components.DotState{Phase: components.Detonating, Remaining: 0, Total: 3})
	spawn(3, 3, components.DotState{Phase: components.Detonating, Remaining: 0.5, Total: 3})
	spawn(4, 4, components.DotState{Phase: components.Detonating, Remaining: -0.1, Total: 3})

	q := NewImpulseQueue()
	s := NewDetonationSystem(w, 15)
	removed := s.Reap(w, q)

	assert.Equal(t, 2, removed)
	require.Equal(t, 2, q.Len())
	centers := []components.Vec2{}
	for q.Len() > 0 {
		imp, _ := q.Pop()
		assert.Equal(t, float32(15), imp.Radius)
		centers = append(centers, imp.Center)
	}
	assert.ElementsMatch(t, []components.Vec2{components.V(2, 2), components.V(4, 4)}, centers)

	live := &LiveDots{}
	NewPhysicsSystem(w, Motion{Bounds: Bounds{Width: 10, Height: 10}}).Update(0.1, live)
	assert.Equal(t, 2, live.Len())
}
