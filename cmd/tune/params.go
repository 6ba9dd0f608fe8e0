package main

import (
	"github.com/pthm-cable/sparks/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // YAML key the value is written to
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// The detonation window is tuned as min time plus a non-negative span so
// every point in the box is a valid config; the span is stored as max_time.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "explosion_radius", Path: "detonation.explosion_radius", Min: 4, Max: 40, Default: 15},
			{Name: "impulse_strength", Path: "detonation.impulse_strength", Min: 10, Max: 150, Default: 50},
			{Name: "min_time", Path: "detonation.min_time", Min: 0.5, Max: 8, Default: 3},
			{Name: "time_span", Path: "detonation.max_time", Min: 0, Max: 12, Default: 7},
			{Name: "friction_coeff", Path: "physics.friction_coeff", Min: 0, Max: 1.5, Default: 0.35},
			{Name: "friction_constant", Path: "physics.friction_constant", Min: 0, Max: 1, Default: 0.1},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.Detonation.ExplosionRadius = c[0]
	cfg.Detonation.ImpulseStrength = c[1]
	cfg.Detonation.MinTime = c[2]
	cfg.Detonation.MaxTime = c[2] + c[3]
	cfg.Physics.FrictionCoeff = c[4]
	cfg.Physics.FrictionConstant = c[5]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Detonation.ExplosionRadius,
		cfg.Detonation.ImpulseStrength,
		cfg.Detonation.MinTime,
		cfg.Detonation.MaxTime - cfg.Detonation.MinTime,
		cfg.Physics.FrictionCoeff,
		cfg.Physics.FrictionConstant,
	}
}
