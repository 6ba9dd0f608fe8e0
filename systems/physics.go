package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sparks/components"
)

// WrapMode selects what happens when a dot crosses the world edge.
type WrapMode uint8

const (
	WrapToroidal WrapMode = iota // re-enter from the opposite edge
	WrapReflect                  // mirror back and flip that velocity component
)

func (m WrapMode) String() string {
	switch m {
	case WrapToroidal:
		return "toroidal"
	case WrapReflect:
		return "reflect"
	}
	return "unknown"
}

// ParseWrapMode converts a config name to a WrapMode.
func ParseWrapMode(s string) (WrapMode, error) {
	switch s {
	case "toroidal", "":
		return WrapToroidal, nil
	case "reflect":
		return WrapReflect, nil
	}
	return 0, fmt.Errorf("unknown wrap mode %q", s)
}

// Bounds represents the simulation bounds.
type Bounds struct {
	Width, Height float32
	// ReserveBorder wraps over width-1 and height-1, leaving the last
	// column and row unused.
	ReserveBorder bool
}

func (b Bounds) extents() (float32, float32) {
	if b.ReserveBorder && b.Width > 1 && b.Height > 1 {
		return b.Width - 1, b.Height - 1
	}
	return b.Width, b.Height
}

// Friction is the per-step speed decay: speed*(1-Coeff*dt) - Constant*dt.
type Friction struct {
	Coeff    float32
	Constant float32
}

// Apply returns the velocity after one step of friction. A decayed speed at
// or below zero stops the dot instead of reversing it.
func (f Friction) Apply(vel components.Vec2, speed, dt float32) components.Vec2 {
	desired := speed*(1-f.Coeff*dt) - f.Constant*dt
	if desired <= 0 {
		return components.Vec2{}
	}
	return vel.Scale(desired / speed)
}

// Motion integrates a single dot.
type Motion struct {
	Bounds   Bounds
	Friction Friction
	Wrap     WrapMode
}

// Step advances one dot by dt: countdown, move, wrap, friction.
// Zero-velocity dots only count down.
func (m Motion) Step(pos *components.Position, vel *components.Velocity, state *components.DotState, dt float32) {
	state.Countdown(dt)

	v := vel.Vec()
	if v.IsZero() {
		return
	}
	speed := v.Length()

	p := pos.Vec().Add(v.Scale(dt))
	w, h := m.Bounds.extents()
	switch m.Wrap {
	case WrapReflect:
		var flipX, flipY bool
		p.X, flipX = reflectAxis(p.X, w)
		p.Y, flipY = reflectAxis(p.Y, h)
		if flipX {
			v.X = -v.X
		}
		if flipY {
			v.Y = -v.Y
		}
	default:
		p.X = wrapAxis(p.X, w)
		p.Y = wrapAxis(p.Y, h)
	}

	*pos = components.Position(p)
	*vel = components.Velocity(m.Friction.Apply(v, speed, dt))
}

// LiveDots is the per-tick indexed view of the population. Index i names the
// same dot in every slice until the next structural change to the world; no
// index survives across ticks.
type LiveDots struct {
	Entities []ecs.Entity
	Pos      []*components.Position
	Vel      []*components.Velocity
	State    []*components.DotState
}

// Reset empties the view, keeping capacity.
func (l *LiveDots) Reset() {
	l.Entities = l.Entities[:0]
	l.Pos = l.Pos[:0]
	l.Vel = l.Vel[:0]
	l.State = l.State[:0]
}

// Append adds one dot to the view.
func (l *LiveDots) Append(e ecs.Entity, pos *components.Position, vel *components.Velocity, state *components.DotState) {
	l.Entities = append(l.Entities, e)
	l.Pos = append(l.Pos, pos)
	l.Vel = append(l.Vel, vel)
	l.State = append(l.State, state)
}

// Len returns the number of live dots.
func (l *LiveDots) Len() int { return len(l.Pos) }

// PositionAt returns the position of dot i.
func (l *LiveDots) PositionAt(i int) components.Vec2 { return l.Pos[i].Vec() }

// PhysicsSystem integrates every live dot and records them into a LiveDots view.
type PhysicsSystem struct {
	filter ecs.Filter3[components.Position, components.Velocity, components.DotState]
	motion Motion
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World, motion Motion) *PhysicsSystem {
	return &PhysicsSystem{
		filter: *ecs.NewFilter3[components.Position, components.Velocity, components.DotState](w),
		motion: motion,
	}
}

// Motion returns the integration parameters.
func (s *PhysicsSystem) Motion() Motion { return s.motion }

// Update steps every dot by dt and rebuilds live in query order.
func (s *PhysicsSystem) Update(dt float32, live *LiveDots) {
	live.Reset()
	query := s.filter.Query()
	for query.Next() {
		pos, vel, state := query.Get()
		s.motion.Step(pos, vel, state, dt)
		live.Append(query.Entity(), pos, vel, state)
	}
}
