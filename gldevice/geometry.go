package gldevice

import (
	"fmt"
	"runtime"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gopxl/mainthread/v2"
	"github.com/richinsley/gobloom/graphics"
)

const vertexStride = int32(unsafe.Sizeof(graphics.Vertex{}))

// Attribute locations of the geometry program.
const (
	positionLocation = 0
	colorLocation    = 1
)

type geometry struct {
	label string
	vao   uint32
	vbo   uint32
	ebo   uint32

	vertices    int
	vertexCount int
	indexed     bool
	dynamic     bool

	cleanup runtime.Cleanup
}

type geometryNames struct {
	vao, vbo, ebo uint32
}

func (n geometryNames) delete() {
	if n.vbo != 0 {
		gl.DeleteBuffers(1, &n.vbo)
	}
	if n.ebo != 0 {
		gl.DeleteBuffers(1, &n.ebo)
	}
	if n.vao != 0 {
		gl.DeleteVertexArrays(1, &n.vao)
	}
}

func deleteGeometry(n geometryNames) {
	mainthread.CallNonBlock(n.delete)
}

func (g *geometry) Label() string    { return g.label }
func (g *geometry) VertexCount() int { return g.vertexCount }

func (g *geometry) WriteVertices(vertices []graphics.Vertex) error {
	if !g.dynamic {
		return fmt.Errorf("geometry %q is not dynamic", g.label)
	}

	if len(vertices) != g.vertices {
		return fmt.Errorf("geometry %q: got %d vertices, want %d", g.label, len(vertices), g.vertices)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*int(vertexStride), gl.Ptr(&vertices[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return nil
}

func (g *geometry) Release() {
	g.cleanup.Stop()

	geometryNames{vao: g.vao, vbo: g.vbo, ebo: g.ebo}.delete()
	g.vao, g.vbo, g.ebo = 0, 0, 0
}

func (d *Device) NewGeometry(desc graphics.GeometryDescriptor) (graphics.Geometry, error) {
	g := &geometry{
		label:       desc.Label,
		vertices:    len(desc.Vertices),
		vertexCount: desc.VertexCount,
		dynamic:     desc.Dynamic,
	}

	// core profile needs a bound vertex array even without attributes
	gl.GenVertexArrays(1, &g.vao)

	if len(desc.Vertices) == 0 {
		if desc.VertexCount <= 0 {
			g.Release()
			return nil, fmt.Errorf("geometry %q has no vertices", desc.Label)
		}

		g.cleanup = runtime.AddCleanup(g, deleteGeometry, geometryNames{vao: g.vao})
		return g, nil
	}

	gl.BindVertexArray(g.vao)
	defer gl.BindVertexArray(0)

	usage := uint32(gl.STATIC_DRAW)
	if desc.Dynamic {
		usage = gl.DYNAMIC_DRAW
	}

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(desc.Vertices)*int(vertexStride), gl.Ptr(&desc.Vertices[0]), usage)

	var v graphics.Vertex
	gl.EnableVertexAttribArray(positionLocation)
	gl.VertexAttribPointerWithOffset(positionLocation, 3, gl.FLOAT, false, vertexStride, unsafe.Offsetof(v.Position))
	gl.EnableVertexAttribArray(colorLocation)
	gl.VertexAttribPointerWithOffset(colorLocation, 4, gl.FLOAT, false, vertexStride, unsafe.Offsetof(v.Color))

	g.vertexCount = len(desc.Vertices)

	if len(desc.Indices) > 0 {
		for _, idx := range desc.Indices {
			if int(idx) >= len(desc.Vertices) {
				g.Release()
				return nil, fmt.Errorf("geometry %q: index %d out of range", desc.Label, idx)
			}
		}

		gl.GenBuffers(1, &g.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(desc.Indices)*4, gl.Ptr(&desc.Indices[0]), gl.STATIC_DRAW)

		g.indexed = true
		g.vertexCount = len(desc.Indices)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	g.cleanup = runtime.AddCleanup(g, deleteGeometry, geometryNames{vao: g.vao, vbo: g.vbo, ebo: g.ebo})

	return g, nil
}
