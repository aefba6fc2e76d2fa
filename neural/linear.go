package neural

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// LinearPolicy is a fixed single-layer controller: sigmoid(w·x + b).
// It has no topology to evolve, so it is what the parameter optimizer tunes.
type LinearPolicy struct {
	Weights []float64 `yaml:"weights"`
	Bias    float64   `yaml:"bias"`
}

// NewLinearPolicy builds a policy from a flat parameter vector laid out as
// SensorInputs weights followed by the bias.
func NewLinearPolicy(params []float64) (*LinearPolicy, error) {
	if len(params) != SensorInputs+1 {
		return nil, fmt.Errorf("expected %d params, got %d", SensorInputs+1, len(params))
	}
	w := make([]float64, SensorInputs)
	copy(w, params[:SensorInputs])
	return &LinearPolicy{Weights: w, Bias: params[SensorInputs]}, nil
}

// Params flattens the policy in the layout NewLinearPolicy accepts.
func (p *LinearPolicy) Params() []float64 {
	out := make([]float64, 0, SensorInputs+1)
	out = append(out, p.Weights...)
	return append(out, p.Bias)
}

// Evaluate returns the jump signal in (0, 1).
func (p *LinearPolicy) Evaluate(inputs []float64) ([]float64, error) {
	if len(inputs) != len(p.Weights) {
		return nil, fmt.Errorf("expected %d inputs, got %d", len(p.Weights), len(inputs))
	}
	sum := p.Bias
	for i, x := range inputs {
		sum += p.Weights[i] * x
	}
	return []float64{sigmoid(sum)}, nil
}

// WriteYAML saves the policy.
func (p *LinearPolicy) WriteYAML(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling policy: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing policy %s: %w", path, err)
	}
	return nil
}

// LoadLinearPolicy reads a policy written by WriteYAML.
func LoadLinearPolicy(path string) (*LinearPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy %s: %w", path, err)
	}
	var p LinearPolicy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing policy %s: %w", path, err)
	}
	if len(p.Weights) != SensorInputs {
		return nil, fmt.Errorf("policy %s has %d weights, want %d", path, len(p.Weights), SensorInputs)
	}
	return &p, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
