package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sparks/components"
)

// DetonationSystem removes dots whose countdown has run out and turns each
// death into an impulse at the dot's last position.
type DetonationSystem struct {
	filter ecs.Filter2[components.Position, components.DotState]
	radius float32

	dead []ecs.Entity // reused across ticks
}

// NewDetonationSystem creates a system that emits death impulses of the given radius.
func NewDetonationSystem(w *ecs.World, radius float32) *DetonationSystem {
	return &DetonationSystem{
		filter: *ecs.NewFilter2[components.Position, components.DotState](w),
		radius: radius,
		dead:   make([]ecs.Entity, 0, 64),
	}
}

// Reap partitions the population against its pre-tick state, queues one
// impulse per dead dot, then removes the dead. Returns the number removed.
func (s *DetonationSystem) Reap(w *ecs.World, queue *ImpulseQueue) int {
	s.dead = s.dead[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, state := query.Get()
		if state.Dead() {
			s.dead = append(s.dead, query.Entity())
			queue.Push(components.Impulse{Center: pos.Vec(), Radius: s.radius})
		}
	}

	// Structural changes are not allowed while the query is open.
	for _, e := range s.dead {
		w.RemoveEntity(e)
	}
	return len(s.dead)
}
