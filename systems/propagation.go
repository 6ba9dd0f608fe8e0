package systems

import "github.com/pthm-cable/sparks/components"

// Rand is a uniform [0,1) source. *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float32() float32
}

// Detonation configures how impulses ignite and push dots.
type Detonation struct {
	MinTime  float32 // shortest countdown
	MaxTime  float32 // longest countdown
	Strength float32 // push at the impulse centre
}

// fallbackDir is used when a dot sits exactly on an impulse centre.
var fallbackDir = components.V(1, 0)

// DrainResult summarises one Drain call.
type DrainResult struct {
	Processed int // impulses popped
	Ignited   int // idle dots that started detonating
	Pushed    int // dots whose velocity changed
}

// Propagator drains the impulse queue against the live population.
type Propagator struct {
	broad      Broadphase
	detonation Detonation
	maxEvents  int
	rng        Rand

	candidates []int // reused across impulses
}

// NewPropagator creates a propagator that processes at most maxEvents
// impulses per Drain.
func NewPropagator(broad Broadphase, detonation Detonation, maxEvents int, rng Rand) *Propagator {
	return &Propagator{
		broad:      broad,
		detonation: detonation,
		maxEvents:  maxEvents,
		rng:        rng,
		candidates: make([]int, 0, 256),
	}
}

// Broadphase returns the spatial index the propagator queries.
func (p *Propagator) Broadphase() Broadphase { return p.broad }

// MaxEvents returns the per-drain impulse budget.
func (p *Propagator) MaxEvents() int { return p.maxEvents }

// Drain pops up to maxEvents impulses, most recent first, and applies each to
// the dots inside its radius. Whatever is left stays queued for the next call.
// The broad phase must already reflect dots.
func (p *Propagator) Drain(queue *ImpulseQueue, dots *LiveDots) DrainResult {
	var res DrainResult
	for res.Processed < p.maxEvents {
		imp, ok := queue.Pop()
		if !ok {
			break
		}
		res.Processed++
		p.apply(imp, dots, &res)
	}
	return res
}

func (p *Propagator) apply(imp components.Impulse, dots *LiveDots, res *DrainResult) {
	r := imp.Radius
	c := imp.Center
	span := components.V(r, r)
	p.candidates = p.broad.IndicesInRect(p.candidates[:0], c.Sub(span), c.Add(span))

	for _, i := range p.candidates {
		delta := dots.Pos[i].Vec().Sub(c)
		if abs32(delta.X) > r || abs32(delta.Y) > r {
			continue
		}
		d := delta.Length()
		if d >= r {
			continue
		}

		if !dots.State[i].IsDetonating() {
			dots.State[i].Ignite(p.detonationTime())
			res.Ignited++
		}

		dir := fallbackDir
		if d > 0 {
			dir = delta.Scale(1 / d)
		}
		push := dir.Scale(Interpolate(0, p.detonation.Strength, Falloff(d, r)))
		*dots.Vel[i] = components.Velocity(dots.Vel[i].Vec().Add(push))
		res.Pushed++
	}
}

// detonationTime draws a countdown uniformly from [MinTime, MaxTime].
func (p *Propagator) detonationTime() float32 {
	return Interpolate(p.detonation.MinTime, p.detonation.MaxTime, p.rng.Float32())
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
