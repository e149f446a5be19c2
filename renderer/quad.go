package renderer

import (
	"fmt"

	"github.com/richinsley/gobloom/graphics"
)

// FullScreenQuad is the geometry of every post-process pass: two triangles
// covering the target. The vertex stage generates the positions from the
// vertex index, the geometry carries no vertex data.
type FullScreenQuad struct {
	geometry graphics.Geometry
}

func NewFullScreenQuad(dev graphics.Device) (*FullScreenQuad, error) {
	geometry, err := dev.NewGeometry(graphics.GeometryDescriptor{
		Label:       "FullScreenQuad",
		VertexCount: 6,
	})
	if err != nil {
		return nil, fmt.Errorf("create full screen quad: %w", err)
	}

	return &FullScreenQuad{geometry: geometry}, nil
}

func (q *FullScreenQuad) Geometry() graphics.Geometry {
	return q.geometry
}

func (q *FullScreenQuad) Release() {
	if q.geometry != nil {
		q.geometry.Release()
		q.geometry = nil
	}
}
