package main

import (
	"github.com/pthm-cable/flappy/neural"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
// Order matches neural.LinearPolicy.Params: one weight per sensor, then the bias.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the linear flap policy parameters.
// The default jumps whenever the bird is nearer the gap's lower edge than its upper edge.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "w_y", Min: -0.1, Max: 0.1, Default: 0},
			{Name: "w_dtop", Min: -0.1, Max: 0.1, Default: 0.02},
			{Name: "w_dbottom", Min: -0.1, Max: 0.1, Default: -0.02},
			{Name: "bias", Min: -10, Max: 10, Default: 0},
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

// Policy builds a linear policy from clamped raw values.
func (pv *ParamVector) Policy(values []float64) (*neural.LinearPolicy, error) {
	return neural.NewLinearPolicy(pv.Clamp(values))
}
