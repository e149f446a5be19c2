// Package scene draws an animated sphere cluster into the intermediate
// target of the renderer.
package scene

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gobloom/graphics"
	"github.com/richinsley/gobloom/renderer"
	"github.com/richinsley/gobloom/shader"
)

// GeometryCopies is the number of vertex buffers the scene cycles through.
// Frame f draws copy f%3 while copy (f+2)%3 receives the next colors.
const GeometryCopies = 3

// Seeds of the initial vertex colors and of the animated colors.
const (
	vertexColorSeed = 0
	cycleColorSeed  = 1
)

// clear color of the intermediate target
var clearColor = [4]float32{0, 0, 0, 0}

var _ renderer.SceneRenderer = (*Scene)(nil)

type Scene struct {
	program  graphics.Program
	geometry [GeometryCopies]graphics.Geometry

	vertices []graphics.Vertex
	colors   *ColorCycle

	transform mgl32.Mat4
	frame     int
}

// New uploads GeometryCopies copies of mesh and compiles the geometry program.
func New(dev graphics.Device, mesh Mesh) (*Scene, error) {
	if len(mesh.Positions) == 0 || len(mesh.Indices)%3 != 0 {
		return nil, fmt.Errorf("mesh with %d vertices and %d indices is not a triangle list", len(mesh.Positions), len(mesh.Indices))
	}

	s := &Scene{
		vertices:  make([]graphics.Vertex, len(mesh.Positions)),
		colors:    NewColorCycle(NoiseColors(mesh.Positions, cycleColorSeed)),
		transform: mgl32.Ident4(),
	}

	initial := NoiseColors(mesh.Positions, vertexColorSeed)
	for idx, p := range mesh.Positions {
		s.vertices[idx] = graphics.Vertex{Position: p, Color: initial[idx]}
	}

	program, err := renderer.NewProgram(dev, shader.Geometry(dev.Dialect()))
	if err != nil {
		return nil, err
	}
	s.program = program

	for idx := range s.geometry {
		s.geometry[idx], err = dev.NewGeometry(graphics.GeometryDescriptor{
			Label:    fmt.Sprintf("SphereCluster%d", idx),
			Vertices: s.vertices,
			Indices:  mesh.Indices,
			Dynamic:  true,
		})
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("geometry copy %d: %w", idx, err)
		}
	}

	slog.Info("Created scene",
		slog.Int("vertices", len(mesh.Positions)),
		slog.Int("triangles", mesh.TriangleCount()),
	)

	return s, nil
}

func (s *Scene) Frame() int {
	return s.frame
}

func (s *Scene) SetTransform(transform mgl32.Mat4) {
	s.transform = transform
}

// Current returns the geometry copy drawn this frame.
func (s *Scene) Current() graphics.Geometry {
	return s.geometry[s.frame%GeometryCopies]
}

// Render draws the current geometry copy into target.
func (s *Scene) Render(dev graphics.Device, target graphics.RenderTarget) {
	dev.Draw(graphics.DrawCall{
		Target:     target,
		ClearColor: clearColor,
		Program:    s.program,
		Geometry:   s.Current(),
		State:      graphics.RenderState{Cull: graphics.CullFront, DepthTest: true},
	}, func(u graphics.Uniforms) {
		u.SetMat4(shader.UniformTransform, s.transform)
	})
}

// Advance writes the next colors into the copy that is drawn two frames
// from now, steps the color cycle and moves to the next frame.
func (s *Scene) Advance() error {
	next := s.geometry[(s.frame+GeometryCopies-1)%GeometryCopies]

	for idx, color := range s.colors.Colors() {
		s.vertices[idx].Color = color
	}

	if err := next.WriteVertices(s.vertices); err != nil {
		return fmt.Errorf("update %s: %w", next.Label(), err)
	}

	s.colors.Advance()
	s.frame++

	return nil
}

func (s *Scene) Release() {
	for idx, g := range s.geometry {
		if g != nil {
			g.Release()
			s.geometry[idx] = nil
		}
	}

	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
}
