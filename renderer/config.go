package renderer

import (
	"fmt"

	"github.com/richinsley/gobloom/graphics"
)

// BlurBufferCount is the number of ping-pong buffers of a BlurPass. The
// injection draw always targets buffer 1, which is only correct for two
// buffers: with more, a buffer past index 1 would be read before it was
// written in the current run.
const BlurBufferCount = 2

// Config holds the tunables of the post-processing pipeline.
type Config struct {
	// DownscaleFactor divides the presentation size per axis to get the
	// size of the blur buffers.
	DownscaleFactor uint32

	// RadiusGrowthFactor is the radius increment per blur iteration.
	RadiusGrowthFactor float32

	// SeedRadius is the radius of the injection draw and the base radius
	// of every iteration.
	SeedRadius float32

	// BlurIterations is the number of passes over all blur buffers.
	BlurIterations int
}

func DefaultConfig() Config {
	return Config{
		DownscaleFactor:    4,
		RadiusGrowthFactor: 0.25,
		SeedRadius:         0.25,
		BlurIterations:     2,
	}
}

func (c Config) Validate() error {
	if c.DownscaleFactor == 0 {
		return fmt.Errorf("downscale factor must be at least 1")
	}

	if c.RadiusGrowthFactor < 0 {
		return fmt.Errorf("radius growth factor must not be negative, got %v", c.RadiusGrowthFactor)
	}

	if c.SeedRadius < 0 {
		return fmt.Errorf("seed radius must not be negative, got %v", c.SeedRadius)
	}

	if c.BlurIterations < 1 {
		return fmt.Errorf("blur needs at least one iteration, got %d", c.BlurIterations)
	}

	return nil
}

// BlurSize is the size of the blur buffers for a presentation of the given
// size: floor division per axis, never smaller than one pixel. Construction
// and resize both go through this function.
func BlurSize(size graphics.Size, factor uint32) graphics.Size {
	if factor == 0 {
		factor = 1
	}

	return graphics.Size{
		Width:  max(size.Width/factor, 1),
		Height: max(size.Height/factor, 1),
	}
}
