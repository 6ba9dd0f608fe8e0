package universe

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/sparks/systems"
)

// VelocityPolicy selects the initial velocity of freshly spawned dots.
type VelocityPolicy uint8

const (
	VelocityRandom VelocityPolicy = iota // uniform direction, magnitude below MaxInitialSpeed
	VelocityZero                         // dots start at rest
)

func (p VelocityPolicy) String() string {
	switch p {
	case VelocityRandom:
		return "random"
	case VelocityZero:
		return "zero"
	}
	return "unknown"
}

// ParseVelocityPolicy converts a config name to a VelocityPolicy.
func ParseVelocityPolicy(s string) (VelocityPolicy, error) {
	switch s {
	case "random", "":
		return VelocityRandom, nil
	case "zero":
		return VelocityZero, nil
	}
	return 0, fmt.Errorf("unknown initial velocity policy %q", s)
}

// BroadphaseKind selects how impulses find candidate dots.
type BroadphaseKind uint8

const (
	BroadphaseGrid   BroadphaseKind = iota // uniform spatial grid
	BroadphaseLinear                       // scan every dot
)

func (k BroadphaseKind) String() string {
	switch k {
	case BroadphaseGrid:
		return "grid"
	case BroadphaseLinear:
		return "linear"
	}
	return "unknown"
}

// ParseBroadphase converts a config name to a BroadphaseKind.
func ParseBroadphase(s string) (BroadphaseKind, error) {
	switch s {
	case "grid", "":
		return BroadphaseGrid, nil
	case "linear":
		return BroadphaseLinear, nil
	}
	return 0, fmt.Errorf("unknown broadphase %q", s)
}

// ErrInvalidParams is returned when engine parameters fail validation.
var ErrInvalidParams = errors.New("invalid universe parameters")

// Params holds every tunable constant of the engine.
type Params struct {
	FrictionCoeff    float32
	FrictionConstant float32
	ExplosionRadius  float32 // radius of impulses emitted by dying dots
	MinDetonateTime  float32
	MaxDetonateTime  float32
	ImpulseStrength  float32 // push at an impulse centre
	MaxEventsPerTick int
	CellSize         float32

	InitialVelocity VelocityPolicy
	MaxInitialSpeed float32

	Wrap          systems.WrapMode
	ReserveBorder bool
	Broadphase    BroadphaseKind
}

// DefaultParams returns the canonical constants.
func DefaultParams() Params {
	return Params{
		FrictionCoeff:    0.35,
		FrictionConstant: 0.1,
		ExplosionRadius:  15,
		MinDetonateTime:  3,
		MaxDetonateTime:  10,
		ImpulseStrength:  50,
		MaxEventsPerTick: 50,
		CellSize:         20,
		InitialVelocity:  VelocityRandom,
		MaxInitialSpeed:  10,
		Wrap:             systems.WrapToroidal,
		Broadphase:       BroadphaseGrid,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidParams.
func (p Params) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidParams, fmt.Sprintf(format, args...))
	}
	for _, f := range []struct {
		name string
		v    float32
	}{
		{"friction_coeff", p.FrictionCoeff},
		{"friction_constant", p.FrictionConstant},
		{"explosion_radius", p.ExplosionRadius},
		{"min_detonate_time", p.MinDetonateTime},
		{"max_detonate_time", p.MaxDetonateTime},
		{"impulse_strength", p.ImpulseStrength},
		{"cell_size", p.CellSize},
		{"max_initial_speed", p.MaxInitialSpeed},
	} {
		if math.IsNaN(float64(f.v)) || math.IsInf(float64(f.v), 0) {
			return fail("%s is not finite", f.name)
		}
	}
	switch {
	case p.FrictionCoeff < 0 || p.FrictionConstant < 0:
		return fail("friction terms must be non-negative")
	case p.ExplosionRadius <= 0:
		return fail("explosion radius %v must be positive", p.ExplosionRadius)
	case p.MinDetonateTime <= 0:
		return fail("min detonate time %v must be positive", p.MinDetonateTime)
	case p.MaxDetonateTime < p.MinDetonateTime:
		return fail("max detonate time %v below min %v", p.MaxDetonateTime, p.MinDetonateTime)
	case p.ImpulseStrength <= 0:
		return fail("impulse strength %v must be positive", p.ImpulseStrength)
	case p.MaxEventsPerTick < 1:
		return fail("max events per tick %d must be at least 1", p.MaxEventsPerTick)
	case p.CellSize <= 0:
		return fail("cell size %v must be positive", p.CellSize)
	case p.MaxInitialSpeed < 0:
		return fail("max initial speed %v must be non-negative", p.MaxInitialSpeed)
	case p.InitialVelocity > VelocityZero:
		return fail("unknown initial velocity policy %d", p.InitialVelocity)
	case p.Wrap > systems.WrapReflect:
		return fail("unknown wrap mode %d", p.Wrap)
	case p.Broadphase > BroadphaseLinear:
		return fail("unknown broadphase %d", p.Broadphase)
	}
	return nil
}

func (p Params) motion(width, height float32) systems.Motion {
	return systems.Motion{
		Bounds:   systems.Bounds{Width: width, Height: height, ReserveBorder: p.ReserveBorder},
		Friction: systems.Friction{Coeff: p.FrictionCoeff, Constant: p.FrictionConstant},
		Wrap:     p.Wrap,
	}
}

func (p Params) detonation() systems.Detonation {
	return systems.Detonation{
		MinTime:  p.MinDetonateTime,
		MaxTime:  p.MaxDetonateTime,
		Strength: p.ImpulseStrength,
	}
}
