package gldevice

import (
	"fmt"
	"runtime"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gopxl/mainthread/v2"
	"github.com/richinsley/gobloom/graphics"
)

type texture struct {
	id     uint32
	size   graphics.Size
	format graphics.PixelFormat
}

func (t *texture) Size() graphics.Size          { return t.size }
func (t *texture) Format() graphics.PixelFormat { return t.format }

type renderTarget struct {
	label string
	fbo   uint32
	size  graphics.Size
	color []*texture
	depth *texture
	back  bool

	cleanup runtime.Cleanup
}

// targetNames are the GL objects of a render target.
type targetNames struct {
	fbo      uint32
	textures []uint32
}

func (n targetNames) delete() {
	if len(n.textures) > 0 {
		gl.DeleteTextures(int32(len(n.textures)), &n.textures[0])
	}
	gl.DeleteFramebuffers(1, &n.fbo)
}

// deleteTarget runs for targets that were dropped without Release.
func deleteTarget(n targetNames) {
	mainthread.CallNonBlock(n.delete)
}

func (rt *renderTarget) Label() string       { return rt.label }
func (rt *renderTarget) Size() graphics.Size { return rt.size }
func (rt *renderTarget) ColorCount() int     { return len(rt.color) }

func (rt *renderTarget) Color(idx int) graphics.Texture {
	return rt.color[idx]
}

func (rt *renderTarget) Depth() graphics.Texture {
	if rt.depth == nil {
		return nil
	}
	return rt.depth
}

func (rt *renderTarget) Release() {
	// the default framebuffer belongs to the window
	if rt.back || rt.fbo == 0 {
		return
	}

	rt.cleanup.Stop()
	rt.names().delete()
	rt.fbo = 0
}

func (rt *renderTarget) names() targetNames {
	n := targetNames{fbo: rt.fbo}
	for _, tex := range rt.color {
		n.textures = append(n.textures, tex.id)
	}
	if rt.depth != nil {
		n.textures = append(n.textures, rt.depth.id)
	}
	return n
}

// textureFormat returns internal format, pixel format and pixel type of format.
func textureFormat(format graphics.PixelFormat) (int32, uint32, uint32, error) {
	switch format {
	case graphics.FormatRGBA8:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, nil
	case graphics.FormatR11G11B10F:
		return gl.R11F_G11F_B10F, gl.RGB, gl.FLOAT, nil
	case graphics.FormatRGB32F:
		return gl.RGB32F, gl.RGB, gl.FLOAT, nil
	case graphics.FormatRGBA32F:
		return gl.RGBA32F, gl.RGBA, gl.FLOAT, nil
	case graphics.FormatDepth32F:
		return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT, nil
	default:
		return 0, 0, 0, fmt.Errorf("%s: %w", format, graphics.ErrUnsupportedFormat)
	}
}

func newTexture(size graphics.Size, format graphics.PixelFormat) (*texture, error) {
	internalFormat, pixelFormat, pixelType, err := textureFormat(format)
	if err != nil {
		return nil, err
	}

	tex := &texture{size: size, format: format}

	gl.GenTextures(1, &tex.id)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(size.Width), int32(size.Height), 0, pixelFormat, pixelType, nil)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex.id)
		return nil, fmt.Errorf("texture %s of size %s: gl error 0x%x", format, size, code)
	}

	return tex, nil
}

func (d *Device) NewRenderTarget(desc graphics.TargetDescriptor) (graphics.RenderTarget, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	rt := &renderTarget{label: desc.Label, size: desc.Size}

	gl.GenFramebuffers(1, &rt.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.fbo)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	drawBuffers := make([]uint32, 0, len(desc.Color))
	for idx, format := range desc.Color {
		tex, err := newTexture(desc.Size, format)
		if err != nil {
			rt.Release()
			return nil, fmt.Errorf("target %q color attachment %d: %w", desc.Label, idx, err)
		}

		attachment := gl.COLOR_ATTACHMENT0 + uint32(idx)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, tex.id, 0)

		rt.color = append(rt.color, tex)
		drawBuffers = append(drawBuffers, attachment)
	}

	if desc.Depth != graphics.FormatNone {
		tex, err := newTexture(desc.Size, desc.Depth)
		if err != nil {
			rt.Release()
			return nil, fmt.Errorf("target %q depth attachment: %w", desc.Label, err)
		}

		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, tex.id, 0)
		rt.depth = tex
	}

	if len(drawBuffers) > 0 {
		gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])
	} else {
		gl.DrawBuffer(gl.NONE)
	}

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		rt.Release()
		return nil, fmt.Errorf("target %q status 0x%x: %w", desc.Label, status, graphics.ErrIncompleteFramebuffer)
	}

	rt.cleanup = runtime.AddCleanup(rt, deleteTarget, rt.names())

	return rt, nil
}

func (d *Device) BackBuffer(size graphics.Size) graphics.RenderTarget {
	return &renderTarget{
		label: "BackBuffer",
		size:  size,
		color: []*texture{{size: size, format: graphics.FormatRGBA8}},
		back:  true,
	}
}
