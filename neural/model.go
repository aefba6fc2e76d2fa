// Package neural provides the decision models that steer birds.
package neural

// SensorInputs is the number of sensor values a bird feeds its model:
// y, distance to the gap's upper edge, distance to the gap's lower edge.
const SensorInputs = 3

// ModelOutputs is the number of values a model returns. Output 0 is the jump signal.
const ModelOutputs = 1

// DecisionModel maps a bird's sensor inputs to its outputs.
type DecisionModel interface {
	Evaluate(inputs []float64) ([]float64, error)
}

// ModelFunc adapts an ordinary function to DecisionModel.
type ModelFunc func(inputs []float64) ([]float64, error)

// Evaluate calls f.
func (f ModelFunc) Evaluate(inputs []float64) ([]float64, error) {
	return f(inputs)
}

// Constant returns a model that ignores its inputs and always outputs v.
func Constant(v float64) DecisionModel {
	return ModelFunc(func([]float64) ([]float64, error) {
		return []float64{v}, nil
	})
}

// PlayerInput is a keyboard-driven model. A press is latched until the next
// evaluation consumes it, so a key event between ticks is never lost.
type PlayerInput struct {
	pending bool
}

// Press requests a jump on the next evaluation.
func (p *PlayerInput) Press() {
	p.pending = true
}

// Evaluate returns 1 if a press was latched since the last call, else 0.
func (p *PlayerInput) Evaluate([]float64) ([]float64, error) {
	out := 0.0
	if p.pending {
		out = 1
	}
	p.pending = false
	return []float64{out}, nil
}
