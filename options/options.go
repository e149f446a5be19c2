package options

import (
	"flag"
	"fmt"
	"math"

	"github.com/richinsley/gobloom/graphics"
	"github.com/richinsley/gobloom/renderer"
)

type Options struct {
	Width          *int
	Height         *int
	Downscale      *uint
	RadiusGrowth   *float64
	SeedRadius     *float64
	BlurIterations *int
	CPUProfile     *string // directory for the cpu profile, disabled when empty
	Verbose        *bool
	Help           *bool
}

// New registers the command line flags on fs. Defaults match renderer.DefaultConfig.
func New(fs *flag.FlagSet) *Options {
	defaults := renderer.DefaultConfig()

	return &Options{
		Width:          fs.Int("width", 1280, "Initial width of the window"),
		Height:         fs.Int("height", 720, "Initial height of the window"),
		Downscale:      fs.Uint("downscale", uint(defaults.DownscaleFactor), "Size divisor of the blur buffers per axis"),
		RadiusGrowth:   fs.Float64("radius-growth", float64(defaults.RadiusGrowthFactor), "Blur radius increment per iteration"),
		SeedRadius:     fs.Float64("seed-radius", float64(defaults.SeedRadius), "Blur radius of the first pass"),
		BlurIterations: fs.Int("blur-iterations", defaults.BlurIterations, "Number of passes over the blur buffers"),
		CPUProfile:     fs.String("cpuprofile", "", "Write a cpu profile to this directory"),
		Verbose:        fs.Bool("v", false, "Enable debug logging"),
		Help:           fs.Bool("help", false, "Show help message"),
	}
}

// Size returns the initial window size.
func (o *Options) Size() (graphics.Size, error) {
	if *o.Width <= 0 || *o.Height <= 0 {
		return graphics.Size{}, fmt.Errorf("window size %dx%d: %w", *o.Width, *o.Height, graphics.ErrInvalidSize)
	}

	return graphics.Size{Width: uint32(*o.Width), Height: uint32(*o.Height)}, nil
}

// RendererConfig converts the flags into a validated pipeline config.
func (o *Options) RendererConfig() (renderer.Config, error) {
	if *o.Downscale > math.MaxUint32 {
		return renderer.Config{}, fmt.Errorf("downscale %d exceeds %d", *o.Downscale, uint64(math.MaxUint32))
	}

	config := renderer.Config{
		DownscaleFactor:    uint32(*o.Downscale),
		RadiusGrowthFactor: float32(*o.RadiusGrowth),
		SeedRadius:         float32(*o.SeedRadius),
		BlurIterations:     *o.BlurIterations,
	}

	if err := config.Validate(); err != nil {
		return renderer.Config{}, err
	}

	return config, nil
}
