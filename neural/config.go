package neural

import (
	"fmt"

	"github.com/yaricom/goNEAT/v4/neat"
	neatmath "github.com/yaricom/goNEAT/v4/neat/math"
)

// DefaultNEATOptions returns NEAT options tuned for a small flappy population.
func DefaultNEATOptions() *neat.Options {
	return &neat.Options{
		// Trait mutation
		TraitParamMutProb:  0.5,
		TraitMutationPower: 1.0,

		// Weight mutation
		WeightMutPower: 2.5,

		// Structural mutation rates
		MutateAddNodeProb:      0.03,
		MutateAddLinkProb:      0.08,
		MutateToggleEnableProb: 0.01,
		MutateConnectSensors:   0.5,
		NewLinkTries:           20,

		// Weight mutation probability
		MutateLinkWeightsProb: 0.9,
		MutateOnlyProb:        0.25,
		MutateRandomTraitProb: 0.1,
		MutateLinkTraitProb:   0.1,
		MutateNodeTraitProb:   0.1,

		// Mating probabilities
		MateMultipointProb:    0.3,
		MateMultipointAvgProb: 0.3,
		MateSinglepointProb:   0.3,
		MateOnlyProb:          0.2,
		RecurOnlyProb:         0.0,
		InterspeciesMateRate:  0.001,

		// Speciation
		CompatThreshold: 3.0,
		DisjointCoeff:   1.0,
		ExcessCoeff:     1.0,
		MutdiffCoeff:    0.4,
		GenCompatMethod: neat.GenomeCompatibilityMethodFast,

		// Species management
		DropOffAge:      15,
		SurvivalThresh:  0.2,
		AgeSignificance: 1.0,
		BabiesStolen:    0,

		// New hidden nodes use the same squashing as the output
		NodeActivators:     []neatmath.NodeActivationType{neatmath.SigmoidSteepenedActivation},
		NodeActivatorsProb: []float64{1.0},

		PopSize:           50,
		NumGenerations:    50,
		EpochExecutorType: neat.EpochExecutorTypeSequential,
	}
}

// LoadNEATOptions reads goNEAT options from a .neat or .yml file.
// An empty path yields DefaultNEATOptions.
func LoadNEATOptions(path string) (*neat.Options, error) {
	if path == "" {
		return DefaultNEATOptions(), nil
	}
	opts, err := neat.ReadNeatOptionsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading NEAT options %s: %w", path, err)
	}
	return opts, nil
}
