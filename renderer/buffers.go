package renderer

import (
	"log/slog"

	"github.com/richinsley/gobloom/graphics"
)

// Attachment indices of the intermediate target.
const (
	MainAttachment   = 0
	BrightAttachment = 1
)

// intermediateFormat keeps values above 1 for the bright extraction.
const intermediateFormat = graphics.FormatR11G11B10F

// allocateTargets allocates every descriptor or nothing. On failure the
// targets allocated so far are released again.
func allocateTargets(dev graphics.Device, descs []graphics.TargetDescriptor) ([]graphics.RenderTarget, error) {
	targets := make([]graphics.RenderTarget, 0, len(descs))

	for _, desc := range descs {
		target, err := dev.NewRenderTarget(desc)
		if err != nil {
			releaseTargets(targets)
			return nil, &ResourceAllocationError{Resource: desc.Label, Size: desc.Size, Err: err}
		}

		targets = append(targets, target)
	}

	return targets, nil
}

func releaseTargets(targets []graphics.RenderTarget) {
	for _, target := range targets {
		if target != nil {
			target.Release()
		}
	}
}

// SceneBuffers owns the targets sized to the presentation surface: the back
// buffer and the intermediate HDR target the geometry is drawn into.
type SceneBuffers struct {
	back         graphics.RenderTarget
	intermediate graphics.RenderTarget
	size         graphics.Size
}

func NewSceneBuffers(dev graphics.Device, size graphics.Size) (*SceneBuffers, error) {
	b := &SceneBuffers{}
	if err := b.Resize(dev, size); err != nil {
		return nil, err
	}

	return b, nil
}

func intermediateDescriptor(size graphics.Size) graphics.TargetDescriptor {
	return graphics.TargetDescriptor{
		Label: "Intermediate",
		Size:  size,
		Color: []graphics.PixelFormat{intermediateFormat, intermediateFormat},
		Depth: graphics.FormatDepth32F,
	}
}

// Resize replaces the intermediate target and the back buffer. On error the
// old buffers stay in place.
func (b *SceneBuffers) Resize(dev graphics.Device, size graphics.Size) error {
	targets, err := allocateTargets(dev, []graphics.TargetDescriptor{intermediateDescriptor(size)})
	if err != nil {
		return err
	}

	b.release()

	b.intermediate = targets[0]
	b.back = dev.BackBuffer(size)
	b.size = size

	slog.Debug("Allocated scene buffers", slog.String("size", size.String()))

	return nil
}

func (b *SceneBuffers) Size() graphics.Size {
	return b.size
}

func (b *SceneBuffers) Back() graphics.RenderTarget {
	return b.back
}

func (b *SceneBuffers) Intermediate() graphics.RenderTarget {
	return b.intermediate
}

// Main is the unprocessed scene color.
func (b *SceneBuffers) Main() graphics.Texture {
	return b.intermediate.Color(MainAttachment)
}

// Bright holds only the parts of the scene that should bloom.
func (b *SceneBuffers) Bright() graphics.Texture {
	return b.intermediate.Color(BrightAttachment)
}

func (b *SceneBuffers) release() {
	releaseTargets([]graphics.RenderTarget{b.intermediate, b.back})
	b.intermediate = nil
	b.back = nil
}

func (b *SceneBuffers) Release() {
	b.release()
}
