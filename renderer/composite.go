package renderer

import (
	"github.com/richinsley/gobloom/graphics"
	"github.com/richinsley/gobloom/shader"
)

// Compositor combines the scene with its blurred bright parts into the
// presentation target.
type Compositor struct {
	program graphics.Program
	quad    *FullScreenQuad
}

func NewCompositor(dev graphics.Device, quad *FullScreenQuad) (*Compositor, error) {
	program, err := NewProgram(dev, shader.Composite())
	if err != nil {
		return nil, err
	}

	return &Compositor{program: program, quad: quad}, nil
}

// Composite draws into present. Both textures are only sampled during this call.
func (c *Compositor) Composite(dev graphics.Device, present graphics.RenderTarget, main, blurred graphics.Texture) {
	dev.Draw(graphics.DrawCall{
		Target:   present,
		Program:  c.program,
		Geometry: c.quad.Geometry(),
	}, func(u graphics.Uniforms) {
		u.SetTexture(shader.UniformMainTexture, main)
		u.SetTexture(shader.UniformBrightTexture, blurred)
	})
}

func (c *Compositor) Release() {
	if c.program != nil {
		c.program.Release()
		c.program = nil
	}
}
