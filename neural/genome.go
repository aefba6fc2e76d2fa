package neural

import (
	"math/rand"

	"github.com/yaricom/goNEAT/v4/neat"
	"github.com/yaricom/goNEAT/v4/neat/genetics"
	neatmath "github.com/yaricom/goNEAT/v4/neat/math"
	"github.com/yaricom/goNEAT/v4/neat/network"
)

// Seed genome node IDs. The bias comes first so it is loaded as sensor 0.
const (
	BiasNodeID   = 1
	FirstInputID = 2
	OutputNodeID = FirstInputID + SensorInputs
)

// traitParams is the parameter count goNEAT expects on every trait.
const traitParams = 8

// SeedGenome creates the genome every population starts from: a bias node,
// SensorInputs inputs and one output, with no hidden nodes.
// Each sensor connects to the output with probability connectionProb; at least
// one link is always created.
func SeedGenome(id int, rng *rand.Rand, connectionProb float64) *genetics.Genome {
	trait := &neat.Trait{Id: 1, Params: make([]float64, traitParams)}

	nodes := make([]*network.NNode, 0, SensorInputs+2)

	bias := network.NewNNode(BiasNodeID, network.BiasNeuron)
	bias.ActivationType = neatmath.LinearActivation
	nodes = append(nodes, bias)

	for i := 0; i < SensorInputs; i++ {
		node := network.NewNNode(FirstInputID+i, network.InputNeuron)
		node.ActivationType = neatmath.LinearActivation
		nodes = append(nodes, node)
	}

	output := network.NewNNode(OutputNodeID, network.OutputNeuron)
	output.ActivationType = neatmath.SigmoidSteepenedActivation
	nodes = append(nodes, output)

	genes := make([]*genetics.Gene, 0, SensorInputs+1)
	sensors := nodes[:SensorInputs+1]
	for i, in := range sensors {
		// Innovation numbers are fixed per sensor so every seed genome lines up
		innov := int64(i + 1)
		if rng.Float64() >= connectionProb {
			continue
		}
		genes = append(genes, genetics.NewGeneWithTrait(
			trait,
			rng.Float64()*2-1, // [-1, 1]
			in,
			output,
			false,
			innov,
			0,
		))
	}

	if len(genes) == 0 {
		genes = append(genes, genetics.NewGeneWithTrait(trait, rng.Float64()*2-1, bias, output, false, 1, 0))
	}

	return genetics.NewGenome(id, []*neat.Trait{trait}, nodes, genes)
}
