// Package universe is the dot detonation engine. It owns the population, the
// spatial index and the impulse queue, and advances them one tick at a time.
package universe

import (
	"errors"
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/systems"
)

// Rand is the injected uniform [0,1) source. The universe never seeds it.
type Rand = systems.Rand

// Phase names reported to a PhaseTimer, in tick order.
const (
	PhasePartition = "partition"
	PhaseIntegrate = "integrate"
	PhaseGrid      = "grid"
	PhasePropagate = "propagate"
)

// PhaseTimer is notified at each phase boundary of a tick.
type PhaseTimer interface {
	StartPhase(name string)
}

// ErrInvalidImpulse is returned by AddEvent for non-finite input or a
// non-positive radius.
var ErrInvalidImpulse = errors.New("invalid impulse")

// TickReport summarises one call to Tick.
type TickReport struct {
	Deaths    int // dots removed at the start of the tick
	Ignitions int // idle dots that started detonating
	Pushed    int // velocity updates applied by impulses
	Processed int // impulses drained
	Pending   int // impulses left for later ticks
	External  int // impulses added by AddEvent since the previous tick
	Live      int // dots alive after the tick
}

// Stats is a cheap summary of the current state.
type Stats struct {
	Live       int
	Detonating int
	Pending    int
}

// Universe is the simulation. It is not safe for concurrent use.
type Universe struct {
	width  int
	height int
	params Params
	rng    Rand

	world      *ecs.World
	dotMapper  *ecs.Map3[components.Position, components.Velocity, components.DotState]
	dotFilter  ecs.Filter3[components.Position, components.Velocity, components.DotState]
	detonation *systems.DetonationSystem
	physics    *systems.PhysicsSystem
	broad      systems.Broadphase
	propagator *systems.Propagator
	queue      *systems.ImpulseQueue
	live       systems.LiveDots

	external int
	timer    PhaseTimer
}

// New creates a universe of the given extents and populates it with dotCount
// idle dots at uniform random positions.
func New(width, height, dotCount int, rng Rand, params Params) (*Universe, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: extents %dx%d must be positive", ErrInvalidParams, width, height)
	}
	if dotCount < 0 {
		return nil, fmt.Errorf("%w: dot count %d is negative", ErrInvalidParams, dotCount)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidParams)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	u := &Universe{
		width:     width,
		height:    height,
		rng:       rng,
		world:     world,
		dotMapper: ecs.NewMap3[components.Position, components.Velocity, components.DotState](world),
		dotFilter: *ecs.NewFilter3[components.Position, components.Velocity, components.DotState](world),
		queue:     systems.NewImpulseQueue(),
	}
	u.configure(params)
	u.populate(dotCount)
	return u, nil
}

// configure builds the systems that depend on params.
func (u *Universe) configure(params Params) {
	w, h := float32(u.width), float32(u.height)

	var broad systems.Broadphase
	switch params.Broadphase {
	case BroadphaseLinear:
		broad = &systems.LinearScan{}
	default:
		broad = systems.NewSpatialGrid(w, h, params.CellSize)
	}

	u.params = params
	u.detonation = systems.NewDetonationSystem(u.world, params.ExplosionRadius)
	u.physics = systems.NewPhysicsSystem(u.world, params.motion(w, h))
	u.broad = broad
	u.propagator = systems.NewPropagator(broad, params.detonation(), params.MaxEventsPerTick, u.rng)
}

// SetParams replaces the engine parameters between ticks. Dots and pending
// impulses are kept; the new values apply from the next Tick.
func (u *Universe) SetParams(params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	u.configure(params)
	return nil
}

// Width returns the horizontal extent.
func (u *Universe) Width() int { return u.width }

// Height returns the vertical extent.
func (u *Universe) Height() int { return u.height }

// Params returns the engine parameters.
func (u *Universe) Params() Params { return u.params }

// SetPhaseTimer installs a hook that is told when each tick phase starts.
// Pass nil to remove it.
func (u *Universe) SetPhaseTimer(t PhaseTimer) { u.timer = t }

func (u *Universe) phase(name string) {
	if u.timer != nil {
		u.timer.StartPhase(name)
	}
}

func (u *Universe) populate(n int) {
	w, h := float32(u.width), float32(u.height)
	for i := 0; i < n; i++ {
		pos := components.Position{X: u.rng.Float32() * w, Y: u.rng.Float32() * h}
		vel := components.Velocity(u.initialVelocity())
		state := components.DotState{}
		u.dotMapper.NewEntity(&pos, &vel, &state)
	}
}

func (u *Universe) initialVelocity() components.Vec2 {
	if u.params.InitialVelocity == VelocityZero || u.params.MaxInitialSpeed == 0 {
		return components.Vec2{}
	}
	angle := float64(u.rng.Float32()) * 2 * math.Pi
	speed := u.rng.Float32() * u.params.MaxInitialSpeed
	return components.V(float32(math.Cos(angle))*speed, float32(math.Sin(angle))*speed)
}

// Spawn adds a dot with the given state. Positions outside the world are
// accepted and wrap on the first move.
func (u *Universe) Spawn(d components.Dot) {
	pos := components.Position(d.Pos)
	vel := components.Velocity(d.Vel)
	state := d.State
	u.dotMapper.NewEntity(&pos, &vel, &state)
}

// Reset discards every dot and pending impulse and repopulates the world.
func (u *Universe) Reset(dotCount int) {
	var all []ecs.Entity
	query := u.dotFilter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		u.world.RemoveEntity(e)
	}
	u.queue.Clear()
	u.live.Reset()
	u.external = 0
	u.populate(max(dotCount, 0))
}

// AddEvent queues an impulse centred on (x, y). Centres outside the world
// are allowed; non-finite values and non-positive radii are rejected.
func (u *Universe) AddEvent(x, y, radius float32) error {
	c := components.V(x, y)
	if !c.IsFinite() {
		return fmt.Errorf("%w: centre (%v, %v) is not finite", ErrInvalidImpulse, x, y)
	}
	if !(radius > 0) || math.IsInf(float64(radius), 1) {
		return fmt.Errorf("%w: radius %v", ErrInvalidImpulse, radius)
	}
	u.queue.Push(components.Impulse{Center: c, Radius: radius})
	u.external++
	return nil
}

// Tick advances the simulation by dt:
//  1. dots whose countdown ran out are removed and each queues an impulse
//  2. the survivors are integrated
//  3. the broad phase is rebuilt
//  4. up to MaxEventsPerTick impulses are drained, newest first
func (u *Universe) Tick(dt float32) TickReport {
	report := TickReport{External: u.external}
	u.external = 0

	u.phase(PhasePartition)
	report.Deaths = u.detonation.Reap(u.world, u.queue)

	u.phase(PhaseIntegrate)
	u.physics.Update(dt, &u.live)

	u.phase(PhaseGrid)
	u.broad.Rebuild(&u.live)

	u.phase(PhasePropagate)
	drained := u.propagator.Drain(u.queue, &u.live)

	report.Ignitions = drained.Ignited
	report.Pushed = drained.Pushed
	report.Processed = drained.Processed
	report.Pending = u.queue.Len()
	report.Live = u.live.Len()
	return report
}

// Snapshot appends a copy of every live dot to dst and returns it.
func (u *Universe) Snapshot(dst []components.Dot) []components.Dot {
	query := u.dotFilter.Query()
	for query.Next() {
		pos, vel, state := query.Get()
		dst = append(dst, components.Dot{Pos: pos.Vec(), Vel: vel.Vec(), State: *state})
	}
	return dst
}

// Stats counts live and detonating dots and pending impulses.
func (u *Universe) Stats() Stats {
	s := Stats{Pending: u.queue.Len()}
	query := u.dotFilter.Query()
	for query.Next() {
		_, _, state := query.Get()
		s.Live++
		if state.IsDetonating() {
			s.Detonating++
		}
	}
	return s
}
