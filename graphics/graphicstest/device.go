// Package graphicstest provides an in-memory graphics.Device that records
// every allocation and draw, for testing code that renders without a GPU.
//
// Texture contents are modelled as hashes: a draw replaces the content of
// every color attachment of its target with a hash over the program, the
// geometry and all uniform values, including the content of every bound
// texture. Equal inputs therefore produce equal contents.
package graphicstest

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"slices"

	"github.com/richinsley/gobloom/graphics"
)

type Texture struct {
	ID     int
	Target *RenderTarget
	Index  int

	size   graphics.Size
	format graphics.PixelFormat

	// Content is a hash of the last draw into this texture, zero if never drawn.
	Content uint64
}

func (t *Texture) Size() graphics.Size          { return t.size }
func (t *Texture) Format() graphics.PixelFormat { return t.format }

type RenderTarget struct {
	ID       int
	Desc     graphics.TargetDescriptor
	Released bool
	Back     bool

	color []*Texture
	depth *Texture
}

func (r *RenderTarget) Label() string       { return r.Desc.Label }
func (r *RenderTarget) Size() graphics.Size { return r.Desc.Size }
func (r *RenderTarget) ColorCount() int     { return len(r.color) }

func (r *RenderTarget) Color(idx int) graphics.Texture {
	return r.color[idx]
}

func (r *RenderTarget) Depth() graphics.Texture {
	if r.depth == nil {
		return nil
	}
	return r.depth
}

func (r *RenderTarget) Release() {
	if r.Back {
		return
	}

	if r.Released {
		panic(fmt.Sprintf("render target %d %q released twice", r.ID, r.Desc.Label))
	}

	r.Released = true
}

type Program struct {
	Source   graphics.ProgramSource
	Released bool
}

func (p *Program) Label() string { return p.Source.Label }
func (p *Program) Release()      { p.Released = true }

type Geometry struct {
	Desc     graphics.GeometryDescriptor
	Released bool
	Writes   int
}

func (g *Geometry) Label() string { return g.Desc.Label }

func (g *Geometry) VertexCount() int {
	if len(g.Desc.Indices) > 0 {
		return len(g.Desc.Indices)
	}

	if len(g.Desc.Vertices) > 0 {
		return len(g.Desc.Vertices)
	}

	return g.Desc.VertexCount
}

func (g *Geometry) WriteVertices(vertices []graphics.Vertex) error {
	if !g.Desc.Dynamic {
		return fmt.Errorf("geometry %q is not dynamic", g.Desc.Label)
	}

	if len(vertices) != len(g.Desc.Vertices) {
		return fmt.Errorf("geometry %q: got %d vertices, want %d", g.Desc.Label, len(vertices), len(g.Desc.Vertices))
	}

	g.Desc.Vertices = slices.Clone(vertices)
	g.Writes++
	return nil
}

func (g *Geometry) Release() { g.Released = true }

// Draw is a recorded draw call with the uniform values that were bound.
type Draw struct {
	Target     *RenderTarget
	Program    *Program
	Geometry   *Geometry
	State      graphics.RenderState
	ClearColor [4]float32

	Textures map[string]*Texture
	Floats   map[string]float32
	Mat4s    map[string][16]float32

	// Sampled holds the content of every bound texture at the time of the draw.
	Sampled map[string]uint64
}

type Device struct {
	Targets    []*RenderTarget
	Programs   []*Program
	Geometries []*Geometry
	Draws      []Draw

	// Warnings are returned by NewProgram, keyed by program label.
	Warnings map[string][]string

	// FailTarget and FailProgram are consulted before every allocation;
	// a non nil result is returned as the allocation error.
	FailTarget  func(desc graphics.TargetDescriptor) error
	FailProgram func(src graphics.ProgramSource) error

	dialect graphics.Dialect
	nextID  int
}

func NewDevice() *Device {
	return &Device{Warnings: map[string][]string{}}
}

// NewGLESDevice returns a device that reports the OpenGL ES dialect.
func NewGLESDevice() *Device {
	d := NewDevice()
	d.dialect = graphics.DialectESSL300
	return d
}

func (d *Device) Dialect() graphics.Dialect {
	return d.dialect
}

func (d *Device) id() int {
	d.nextID++
	return d.nextID
}

func (d *Device) NewRenderTarget(desc graphics.TargetDescriptor) (graphics.RenderTarget, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	if d.FailTarget != nil {
		if err := d.FailTarget(desc); err != nil {
			return nil, err
		}
	}

	desc.Color = slices.Clone(desc.Color)
	return d.newTarget(desc, false), nil
}

func (d *Device) newTarget(desc graphics.TargetDescriptor, back bool) *RenderTarget {
	rt := &RenderTarget{ID: d.id(), Desc: desc, Back: back}

	for idx, format := range desc.Color {
		rt.color = append(rt.color, &Texture{
			ID:     d.id(),
			Target: rt,
			Index:  idx,
			size:   desc.Size,
			format: format,
		})
	}

	if desc.Depth != graphics.FormatNone {
		rt.depth = &Texture{ID: d.id(), Target: rt, Index: -1, size: desc.Size, format: desc.Depth}
	}

	d.Targets = append(d.Targets, rt)
	return rt
}

func (d *Device) BackBuffer(size graphics.Size) graphics.RenderTarget {
	return d.newTarget(graphics.TargetDescriptor{
		Label: "BackBuffer",
		Size:  size,
		Color: []graphics.PixelFormat{graphics.FormatRGBA8},
	}, true)
}

func (d *Device) NewProgram(src graphics.ProgramSource) (graphics.Program, []string, error) {
	if d.FailProgram != nil {
		if err := d.FailProgram(src); err != nil {
			return nil, nil, err
		}
	}

	p := &Program{Source: src}
	d.Programs = append(d.Programs, p)
	return p, d.Warnings[src.Label], nil
}

func (d *Device) NewGeometry(desc graphics.GeometryDescriptor) (graphics.Geometry, error) {
	if len(desc.Vertices) == 0 && desc.VertexCount <= 0 {
		return nil, fmt.Errorf("geometry %q has no vertices", desc.Label)
	}

	for _, idx := range desc.Indices {
		if int(idx) >= len(desc.Vertices) {
			return nil, fmt.Errorf("geometry %q: index %d out of range", desc.Label, idx)
		}
	}

	desc.Vertices = slices.Clone(desc.Vertices)
	desc.Indices = slices.Clone(desc.Indices)

	g := &Geometry{Desc: desc}
	d.Geometries = append(d.Geometries, g)
	return g, nil
}

// Draw records the call and updates the content of the target. It panics on
// use after release and when a texture of the target itself is sampled.
func (d *Device) Draw(call graphics.DrawCall, bind func(u graphics.Uniforms)) {
	target, ok := call.Target.(*RenderTarget)
	if !ok {
		panic(fmt.Sprintf("foreign render target %T", call.Target))
	}

	if target.Released {
		panic(fmt.Sprintf("draw into released target %d %q", target.ID, target.Desc.Label))
	}

	program := call.Program.(*Program)
	if program.Released {
		panic(fmt.Sprintf("draw with released program %q", program.Source.Label))
	}

	geometry := call.Geometry.(*Geometry)
	if geometry.Released {
		panic(fmt.Sprintf("draw with released geometry %q", geometry.Desc.Label))
	}

	draw := Draw{
		Target:     target,
		Program:    program,
		Geometry:   geometry,
		State:      call.State,
		ClearColor: call.ClearColor,
		Textures:   map[string]*Texture{},
		Floats:     map[string]float32{},
		Mat4s:      map[string][16]float32{},
		Sampled:    map[string]uint64{},
	}

	if bind != nil {
		bind(&uniforms{draw: &draw})
	}

	for name, tex := range draw.Textures {
		if tex.Target.Released {
			panic(fmt.Sprintf("sampling %q from released target %d %q", name, tex.Target.ID, tex.Target.Desc.Label))
		}

		if tex.Target == target {
			panic(fmt.Sprintf("sampling %q from the target %q being drawn", name, target.Desc.Label))
		}

		draw.Sampled[name] = tex.Content
	}

	content := draw.hash()
	for idx, tex := range target.color {
		tex.Content = content + uint64(idx)
	}

	d.Draws = append(d.Draws, draw)
}

// Live returns all allocated render targets that are not released yet,
// excluding back buffers.
func (d *Device) Live() []*RenderTarget {
	var live []*RenderTarget
	for _, rt := range d.Targets {
		if !rt.Released && !rt.Back {
			live = append(live, rt)
		}
	}
	return live
}

// DrawsWith returns the recorded draws that used the program with the given label.
func (d *Device) DrawsWith(label string) []Draw {
	var draws []Draw
	for _, draw := range d.Draws {
		if draw.Program.Source.Label == label {
			draws = append(draws, draw)
		}
	}
	return draws
}

func (draw *Draw) hash() uint64 {
	h := fnv.New64a()

	writeString := func(value string) {
		_, _ = h.Write([]byte(value))
		_, _ = h.Write([]byte{0})
	}

	writeUint := func(value uint64) {
		_, _ = h.Write(binary.LittleEndian.AppendUint64(nil, value))
	}

	writeFloat := func(value float32) {
		writeUint(uint64(math.Float32bits(value)))
	}

	writeString(draw.Program.Source.Label)
	writeString(draw.Geometry.Desc.Label)

	for _, v := range draw.Geometry.Desc.Vertices {
		for _, c := range v.Position {
			writeFloat(c)
		}
		for _, c := range v.Color {
			writeFloat(c)
		}
	}

	for _, c := range draw.ClearColor {
		writeFloat(c)
	}

	for _, name := range sortedKeys(draw.Sampled) {
		writeString(name)
		writeUint(draw.Sampled[name])
	}

	for _, name := range sortedKeys(draw.Floats) {
		writeString(name)
		writeFloat(draw.Floats[name])
	}

	for _, name := range sortedKeys(draw.Mat4s) {
		writeString(name)
		for _, c := range draw.Mat4s[name] {
			writeFloat(c)
		}
	}

	return h.Sum64()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

type uniforms struct {
	draw *Draw
}

func (u *uniforms) SetTexture(name string, tex graphics.Texture) {
	t, ok := tex.(*Texture)
	if !ok {
		panic(fmt.Sprintf("foreign texture %T bound to %q", tex, name))
	}

	u.draw.Textures[name] = t
}

func (u *uniforms) SetFloat(name string, value float32) {
	u.draw.Floats[name] = value
}

func (u *uniforms) SetMat4(name string, value [16]float32) {
	u.draw.Mat4s[name] = value
}
