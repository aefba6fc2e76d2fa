package telemetry

import (
	"fmt"
	"os"
	"sort"

	"github.com/yaricom/goNEAT/v4/neat/genetics"
	"gopkg.in/yaml.v3"
)

// Champion is the best organism of one generation.
type Champion struct {
	Generation int     `yaml:"generation"`
	OrganismID int     `yaml:"organism_id"`
	Fitness    float64 `yaml:"fitness"`
	Score      int     `yaml:"score"`
	Nodes      int     `yaml:"nodes"`
	Links      int     `yaml:"links"`
	GenomeFile string  `yaml:"genome_file,omitempty"`

	Genome *genetics.Genome `yaml:"-"`
}

// HallOfFame keeps the highest-fitness champions across generations, sorted
// by fitness descending.
type HallOfFame struct {
	entries []Champion
	maxSize int
}

// NewHallOfFame creates a hall with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]Champion, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider adds a champion if it ranks within capacity.
// Returns true if it was added.
func (hof *HallOfFame) Consider(c Champion) bool {
	// Find insertion point (sorted descending by fitness, stable for ties)
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Fitness < c.Fitness
	})

	// If hall is full and entry would be last (lowest), skip it
	if len(hof.entries) >= hof.maxSize && idx >= hof.maxSize {
		return false
	}

	hof.entries = append(hof.entries, Champion{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = c

	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true
}

// Entries returns the champions, best first.
func (hof *HallOfFame) Entries() []Champion {
	return hof.entries
}

// Best returns the top champion, if any.
func (hof *HallOfFame) Best() (Champion, bool) {
	if len(hof.entries) == 0 {
		return Champion{}, false
	}
	return hof.entries[0], true
}

// WriteYAML saves the champion index (without genomes).
func (hof *HallOfFame) WriteYAML(path string) error {
	data, err := yaml.Marshal(hof.entries)
	if err != nil {
		return fmt.Errorf("marshaling hall of fame: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing hall of fame: %w", err)
	}
	return nil
}

// LoadHallOfFame reads a champion index written by WriteYAML.
// Genomes are not loaded; GenomeFile points at them.
func LoadHallOfFame(path string) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var entries []Champion
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame: %w", err)
	}

	hof := NewHallOfFame(len(entries))
	for _, c := range entries {
		hof.Consider(c)
	}
	return hof, nil
}
