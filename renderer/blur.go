package renderer

import (
	"fmt"
	"log/slog"

	"github.com/richinsley/gobloom/graphics"
	"github.com/richinsley/gobloom/shader"
)

// ReadInput is the BlurStep.Read value of the injection draw, which samples
// the texture passed to Run instead of one of the buffers.
const ReadInput = -1

// Since we always read from buffer j+1 and j starts at 0, the initial data
// goes into buffer 1.
const injectionBuffer = 1

// blurFormat is the single HDR color format of the ping-pong buffers.
const blurFormat = graphics.FormatR11G11B10F

// BlurStep is a single blur draw: render into buffer Write sampling buffer
// Read (or the input texture) with the given radius.
type BlurStep struct {
	Write  int
	Read   int
	Radius float32
}

// BlurPass blurs a texture by repeatedly applying a small kernel at a
// growing radius, alternating between two buffers of equal size.
type BlurPass struct {
	program graphics.Program
	quad    *FullScreenQuad

	// always replaced together, see ResizeBuffers
	buffers [BlurBufferCount]graphics.RenderTarget
	size    graphics.Size

	radiusFactor float32
	seedRadius   float32
	iterations   int
}

type BlurOption func(b *BlurPass)

func WithSeedRadius(radius float32) BlurOption {
	return func(b *BlurPass) { b.seedRadius = radius }
}

func WithIterations(iterations int) BlurOption {
	return func(b *BlurPass) { b.iterations = iterations }
}

// NewBlurPass creates a blur pass with buffers of the given (already
// downscaled) size.
func NewBlurPass(dev graphics.Device, size graphics.Size, quad *FullScreenQuad, radiusFactor float32, opts ...BlurOption) (*BlurPass, error) {
	b := &BlurPass{
		quad:         quad,
		radiusFactor: radiusFactor,
		seedRadius:   0.25,
		iterations:   2,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.iterations < 1 {
		return nil, fmt.Errorf("blur needs at least one iteration, got %d", b.iterations)
	}

	program, err := NewProgram(dev, shader.Blur())
	if err != nil {
		return nil, err
	}

	buffers, err := allocateBlurBuffers(dev, size)
	if err != nil {
		program.Release()
		return nil, err
	}

	b.program = program
	b.buffers = buffers
	b.size = size

	return b, nil
}

// ResizeBuffers replaces both buffers with new ones of the given size. On
// error the old buffers stay in place.
func (b *BlurPass) ResizeBuffers(dev graphics.Device, size graphics.Size) error {
	buffers, err := allocateBlurBuffers(dev, size)
	if err != nil {
		return err
	}

	b.releaseBuffers()

	b.buffers = buffers
	b.size = size

	return nil
}

func allocateBlurBuffers(dev graphics.Device, size graphics.Size) ([BlurBufferCount]graphics.RenderTarget, error) {
	var buffers [BlurBufferCount]graphics.RenderTarget

	descs := make([]graphics.TargetDescriptor, BlurBufferCount)
	for idx := range descs {
		descs[idx] = graphics.TargetDescriptor{
			Label: fmt.Sprintf("BlurBuffer%d", idx),
			Size:  size,
			Color: []graphics.PixelFormat{blurFormat},
		}
	}

	targets, err := allocateTargets(dev, descs)
	if err != nil {
		return buffers, err
	}

	slog.Debug("Allocated blur buffers", slog.String("size", size.String()))

	copy(buffers[:], targets)
	return buffers, nil
}

// Schedule returns the draws of a single Run in order: the injection draw
// into buffer 1 followed by one draw per buffer and iteration, each reading
// the buffer after the one it writes.
func (b *BlurPass) Schedule() []BlurStep {
	const count = BlurBufferCount

	steps := make([]BlurStep, 0, 1+b.iterations*count)
	steps = append(steps, BlurStep{Write: injectionBuffer, Read: ReadInput, Radius: b.seedRadius})

	for i := 0; i < b.iterations; i++ {
		radius := float32(count*i)*b.radiusFactor + b.seedRadius

		// blur through all the buffers, ending on the last one
		for j := 0; j < count; j++ {
			steps = append(steps, BlurStep{Write: j, Read: (j + 1) % count, Radius: radius})
		}
	}

	return steps
}

// Run blurs input into the buffers of the pass. The input texture is only
// borrowed for the duration of the call.
func (b *BlurPass) Run(dev graphics.Device, input graphics.Texture) {
	for _, step := range b.Schedule() {
		source := input
		if step.Read != ReadInput {
			source = b.buffers[step.Read].Color(0)
		}

		dev.Draw(graphics.DrawCall{
			Target:   b.buffers[step.Write],
			Program:  b.program,
			Geometry: b.quad.Geometry(),
		}, func(u graphics.Uniforms) {
			u.SetTexture(shader.UniformBlurTexture, source)
			u.SetFloat(shader.UniformRadius, step.Radius)
		})
	}
}

// Texture returns the result of the last Run. The blur always ends by
// writing the last buffer. The texture must not be used after the next call
// to Run or ResizeBuffers.
func (b *BlurPass) Texture() graphics.Texture {
	return b.buffers[BlurBufferCount-1].Color(0)
}

func (b *BlurPass) Size() graphics.Size {
	return b.size
}

func (b *BlurPass) releaseBuffers() {
	releaseTargets(b.buffers[:])
	b.buffers = [BlurBufferCount]graphics.RenderTarget{}
}

func (b *BlurPass) Release() {
	b.releaseBuffers()

	if b.program != nil {
		b.program.Release()
		b.program = nil
	}
}
