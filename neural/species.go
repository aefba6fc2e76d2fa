package neural

import (
	"math"

	"github.com/yaricom/goNEAT/v4/neat/genetics"
)

// SpeciesColor represents an RGB color for species visualization.
type SpeciesColor struct {
	R, G, B uint8
}

// SpeciesPalette hands out stable, visually distinct colors per NEAT species id.
type SpeciesPalette struct {
	colors []SpeciesColor
}

// NewSpeciesPalette pre-generates n colors. Ids beyond n wrap around.
func NewSpeciesPalette(n int) *SpeciesPalette {
	if n < 1 {
		n = 1
	}
	return &SpeciesPalette{colors: generateDistinctColors(n)}
}

// Color returns the color for a species id. Id 0 (no species) is white.
func (p *SpeciesPalette) Color(speciesID int) SpeciesColor {
	if speciesID <= 0 {
		return SpeciesColor{R: 255, G: 255, B: 255}
	}
	return p.colors[(speciesID-1)%len(p.colors)]
}

// SpeciesID returns the id of the species an organism belongs to, or 0.
func SpeciesID(org *genetics.Organism) int {
	if org == nil || org.Species == nil {
		return 0
	}
	return org.Species.Id
}

// generateDistinctColors creates visually distinct colors using golden angle.
func generateDistinctColors(count int) []SpeciesColor {
	colors := make([]SpeciesColor, count)
	goldenAngle := 137.508 // Golden angle in degrees

	for i := 0; i < count; i++ {
		hue := math.Mod(float64(i)*goldenAngle, 360.0)

		// Saturation 0.7, value 0.9 keeps colors readable on the sky background
		r, g, b := hsvToRGB(hue, 0.7, 0.9)
		colors[i] = SpeciesColor{R: r, G: g, B: b}
	}
	return colors
}

// hsvToRGB converts HSV to RGB.
func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}
