package renderer

import (
	"fmt"
	"log/slog"

	"github.com/richinsley/gobloom/graphics"
)

// SceneRenderer draws the geometry of a frame into the intermediate target.
// It has to write the scene color to attachment 0 and the parts that should
// bloom to attachment 1.
type SceneRenderer interface {
	Render(dev graphics.Device, target graphics.RenderTarget)
}

// Pipeline renders a frame in three steps: the scene into the intermediate
// target, the blur of its bright attachment and the composition of both into
// the back buffer.
type Pipeline struct {
	dev    graphics.Device
	config Config

	quad       *FullScreenQuad
	buffers    *SceneBuffers
	blur       *BlurPass
	compositor *Compositor
}

func New(dev graphics.Device, size graphics.Size, config Config) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}

	if size.Empty() {
		return nil, fmt.Errorf("pipeline of size %s: %w", size, graphics.ErrInvalidSize)
	}

	p := &Pipeline{dev: dev, config: config}

	if err := p.init(size); err != nil {
		p.Release()
		return nil, err
	}

	slog.Info("Created pipeline",
		slog.String("size", size.String()),
		slog.String("blurSize", p.blur.Size().String()),
		slog.Int("iterations", config.BlurIterations),
	)

	return p, nil
}

func (p *Pipeline) init(size graphics.Size) error {
	var err error

	p.quad, err = NewFullScreenQuad(p.dev)
	if err != nil {
		return err
	}

	p.buffers, err = NewSceneBuffers(p.dev, size)
	if err != nil {
		return err
	}

	p.blur, err = NewBlurPass(p.dev,
		BlurSize(size, p.config.DownscaleFactor),
		p.quad,
		p.config.RadiusGrowthFactor,
		WithSeedRadius(p.config.SeedRadius),
		WithIterations(p.config.BlurIterations),
	)
	if err != nil {
		return err
	}

	p.compositor, err = NewCompositor(p.dev, p.quad)
	if err != nil {
		return err
	}

	return nil
}

func (p *Pipeline) Size() graphics.Size {
	return p.buffers.Size()
}

func (p *Pipeline) BlurSize() graphics.Size {
	return p.blur.Size()
}

// Resize reallocates every size dependent target. Calls with the current
// size do nothing once both the scene and the blur buffers match it.
func (p *Pipeline) Resize(size graphics.Size) error {
	if size.Empty() {
		return fmt.Errorf("resize pipeline to %s: %w", size, graphics.ErrInvalidSize)
	}

	blurSize := BlurSize(size, p.config.DownscaleFactor)
	if size == p.buffers.Size() && blurSize == p.blur.Size() {
		return nil
	}

	if size != p.buffers.Size() {
		if err := p.buffers.Resize(p.dev, size); err != nil {
			return fmt.Errorf("resize scene buffers: %w", err)
		}
	}

	if err := p.blur.ResizeBuffers(p.dev, blurSize); err != nil {
		return fmt.Errorf("resize blur buffers: %w", err)
	}

	slog.Debug("Resized pipeline",
		slog.String("size", size.String()),
		slog.String("blurSize", p.blur.Size().String()),
	)

	return nil
}

// RenderFrame draws one complete frame into the back buffer.
func (p *Pipeline) RenderFrame(scene SceneRenderer) {
	scene.Render(p.dev, p.buffers.Intermediate())

	p.blur.Run(p.dev, p.buffers.Bright())

	p.compositor.Composite(p.dev, p.buffers.Back(), p.buffers.Main(), p.blur.Texture())
}

// Release frees every resource of the pipeline. It is safe to call on a
// partially constructed pipeline.
func (p *Pipeline) Release() {
	if p.compositor != nil {
		p.compositor.Release()
		p.compositor = nil
	}

	if p.blur != nil {
		p.blur.Release()
		p.blur = nil
	}

	if p.buffers != nil {
		p.buffers.Release()
		p.buffers = nil
	}

	if p.quad != nil {
		p.quad.Release()
		p.quad = nil
	}
}
