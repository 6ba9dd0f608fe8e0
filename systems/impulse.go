package systems

import "github.com/pthm-cable/sparks/components"

// ImpulseQueue holds pending impulses. It is a stack: the most recently
// pushed impulse is processed first, so fresh deaths overtake older backlog.
type ImpulseQueue struct {
	items []components.Impulse
}

// NewImpulseQueue creates an empty queue.
func NewImpulseQueue() *ImpulseQueue {
	return &ImpulseQueue{items: make([]components.Impulse, 0, 64)}
}

// Push adds an impulse on top of the stack.
func (q *ImpulseQueue) Push(imp components.Impulse) {
	q.items = append(q.items, imp)
}

// Pop removes and returns the most recent impulse.
func (q *ImpulseQueue) Pop() (components.Impulse, bool) {
	n := len(q.items)
	if n == 0 {
		return components.Impulse{}, false
	}
	imp := q.items[n-1]
	q.items = q.items[:n-1]
	return imp, true
}

// Len returns the number of pending impulses.
func (q *ImpulseQueue) Len() int { return len(q.items) }

// Clear drops every pending impulse.
func (q *ImpulseQueue) Clear() { q.items = q.items[:0] }
