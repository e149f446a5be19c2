package scene

import (
	"github.com/chewxy/math32"
	"github.com/furui/fastnoiselite-go"
)

// Vertex colors cycle through [0, MaxColor) per channel.
const (
	MaxColor  = 1.1
	ColorStep = 0.01
)

// noiseScale spreads the small mesh over enough noise features.
const noiseScale = 60

// ColorCycle holds one animated color per vertex.
type ColorCycle struct {
	colors [][4]float32
}

// NoiseColors assigns every position a color from coherent noise, offset
// per channel and by seed. Channels are in [0, MaxColor], alpha is 1.
func NoiseColors(positions [][3]float32, seed int) [][4]float32 {
	noise := fastnoiselite.NewNoise()
	noise.SetNoiseType(fastnoiselite.NoiseTypeOpenSimplex2)
	noise.FractalType = fastnoiselite.FractalTypeFBm

	colors := make([][4]float32, len(positions))
	for idx, p := range positions {
		for ch := range 3 {
			offset := float32(seed*3+ch) * 17.31

			n := float32(noise.GetNoise3D(
				fastnoiselite.FNLfloat((p[0]+offset)*noiseScale),
				fastnoiselite.FNLfloat((p[1]-offset)*noiseScale),
				fastnoiselite.FNLfloat((p[2]+offset)*noiseScale),
			))

			colors[idx][ch] = min(max((n+1)/2, 0), 1) * MaxColor
		}
		colors[idx][3] = 1
	}

	return colors
}

func NewColorCycle(colors [][4]float32) *ColorCycle {
	return &ColorCycle{colors: colors}
}

func (c *ColorCycle) Colors() [][4]float32 {
	return c.colors
}

// Advance moves every color channel one step, wrapping at MaxColor.
func (c *ColorCycle) Advance() {
	for idx := range c.colors {
		for ch := range 3 {
			c.colors[idx][ch] = math32.Mod(c.colors[idx][ch]+ColorStep, MaxColor)
		}
	}
}
