// Package gldevice implements graphics.Device on OpenGL 4.1 core.
//
// Every method must be called on the thread that owns the current context.
package gldevice

import (
	"fmt"
	"log/slog"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/richinsley/gobloom/graphics"
)

var glInitOnce sync.Once

// uniform locations of all live programs
const locationCacheSize = 256

type locationKey struct {
	program uint32
	name    string
}

type Device struct {
	dialect   graphics.Dialect
	locations *lru.Cache[locationKey, int32]
}

var _ graphics.Device = (*Device)(nil)

// New makes ctx current and loads the OpenGL functions.
func New(ctx graphics.Context) (*Device, error) {
	ctx.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	locations, err := lru.New[locationKey, int32](locationCacheSize)
	if err != nil {
		return nil, err
	}

	d := &Device{
		dialect:   graphics.DialectGLSL410,
		locations: locations,
	}

	if ctx.IsGLES() {
		d.dialect = graphics.DialectESSL300
	}

	slog.Info("OpenGL device",
		slog.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		slog.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	return d, nil
}

func (d *Device) Dialect() graphics.Dialect {
	return d.dialect
}

func (d *Device) uniformLocation(p *program, name string) int32 {
	key := locationKey{program: p.id, name: name}
	if loc, ok := d.locations.Get(key); ok {
		return loc
	}

	loc := gl.GetUniformLocation(p.id, gl.Str(p.mappedName(name)+"\x00"))
	if loc < 0 {
		slog.Debug("Uniform not active", slog.String("program", p.label), slog.String("uniform", name))
	}

	d.locations.Add(key, loc)
	return loc
}

// forgetLocations drops the cached locations of a deleted program, its id
// may be handed out again.
func (d *Device) forgetLocations(id uint32) {
	for _, key := range d.locations.Keys() {
		if key.program == id {
			d.locations.Remove(key)
		}
	}
}

func applyState(state graphics.RenderState) {
	switch state.Cull {
	case graphics.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	case graphics.CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	default:
		gl.Disable(gl.CULL_FACE)
	}
	gl.FrontFace(gl.CCW)

	if state.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (d *Device) Draw(call graphics.DrawCall, bind func(u graphics.Uniforms)) {
	target := call.Target.(*renderTarget)
	p := call.Program.(*program)
	g := call.Geometry.(*geometry)

	gl.BindFramebuffer(gl.FRAMEBUFFER, target.fbo)
	gl.Viewport(0, 0, int32(target.size.Width), int32(target.size.Height))

	applyState(call.State)

	c := call.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.ClearDepth(1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(p.id)

	u := &uniforms{dev: d, program: p}
	if bind != nil {
		bind(u)
	}

	gl.BindVertexArray(g.vao)
	if g.indexed {
		gl.DrawElements(gl.TRIANGLES, int32(g.vertexCount), gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(g.vertexCount))
	}
	gl.BindVertexArray(0)

	u.unbind()
	gl.UseProgram(0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// uniforms binds values for a single draw. Textures get consecutive units.
type uniforms struct {
	dev     *Device
	program *program
	units   uint32
}

func (u *uniforms) SetTexture(name string, tex graphics.Texture) {
	loc := u.dev.uniformLocation(u.program, name)
	if loc < 0 {
		return
	}

	gl.ActiveTexture(gl.TEXTURE0 + u.units)
	gl.BindTexture(gl.TEXTURE_2D, tex.(*texture).id)
	gl.Uniform1i(loc, int32(u.units))
	u.units++
}

func (u *uniforms) SetFloat(name string, value float32) {
	if loc := u.dev.uniformLocation(u.program, name); loc >= 0 {
		gl.Uniform1f(loc, value)
	}
}

func (u *uniforms) SetMat4(name string, value [16]float32) {
	if loc := u.dev.uniformLocation(u.program, name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &value[0])
	}
}

func (u *uniforms) unbind() {
	for unit := range u.units {
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}
