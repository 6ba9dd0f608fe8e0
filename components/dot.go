// Package components defines the value types and ECS components for dots.
package components

// Phase is the detonation phase of a dot.
type Phase uint8

const (
	Idle       Phase = iota // No impulse in flight
	Detonating              // Countdown running
)

// String returns the display name for a Phase.
func (p Phase) String() string {
	names := PhaseNames()
	if int(p) < len(names) {
		return names[p]
	}
	return "Unknown"
}

// PhaseNames returns the display names for all phases in constant order.
func PhaseNames() []string {
	return []string{"Idle", "Detonating"}
}

// DotState is the detonation state machine of a dot.
// Remaining and Total are only meaningful while Phase is Detonating.
type DotState struct {
	Phase     Phase
	Remaining float32 // counts down to zero
	Total     float32 // countdown duration fixed at ignition
}

// IsDetonating reports whether the countdown is running.
func (s DotState) IsDetonating() bool {
	return s.Phase == Detonating
}

// Dead reports whether the countdown has run out. Dead dots are removed at
// the start of the next tick.
func (s DotState) Dead() bool {
	return s.Phase == Detonating && s.Remaining <= 0
}

// Fade returns remaining/total clamped to [0,1]. Idle dots report 1.
func (s DotState) Fade() float32 {
	if s.Phase != Detonating || s.Total <= 0 {
		return 1
	}
	f := s.Remaining / s.Total
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Ignite starts a countdown of length t. A dot that is already detonating
// keeps its timer. Returns true if the dot was ignited by this call.
func (s *DotState) Ignite(t float32) bool {
	if s.Phase == Detonating {
		return false
	}
	*s = DotState{Phase: Detonating, Remaining: t, Total: t}
	return true
}

// Countdown advances the timer by dt. No-op for idle dots.
func (s *DotState) Countdown(dt float32) {
	if s.Phase == Detonating {
		s.Remaining -= dt
	}
}

// Dot is a read-only snapshot of one live dot.
type Dot struct {
	Pos   Vec2
	Vel   Vec2
	State DotState
}

// Fade is shorthand for d.State.Fade().
func (d Dot) Fade() float32 {
	return d.State.Fade()
}
