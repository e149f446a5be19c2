package scene

import (
	"github.com/chewxy/math32"
)

// dedupScale is the quantization of positions when merging vertices.
const dedupScale = 4096

// Mesh is an indexed triangle list.
type Mesh struct {
	Positions [][3]float32
	Indices   []uint32
}

func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

type quantized [3]int32

func quantize(p [3]float32) quantized {
	// conversion truncates toward zero
	return quantized{
		int32(p[0] * dedupScale),
		int32(p[1] * dedupScale),
		int32(p[2] * dedupScale),
	}
}

// Dedup builds an indexed mesh from a triangle soup. Positions that are
// equal after quantization share a vertex, the first one seen wins.
func Dedup(soup [][3]float32) Mesh {
	var mesh Mesh
	seen := make(map[quantized]uint32, len(soup)/2)

	for _, p := range soup {
		key := quantize(p)

		idx, ok := seen[key]
		if !ok {
			idx = uint32(len(mesh.Positions))
			seen[key] = idx
			mesh.Positions = append(mesh.Positions, p)
		}

		mesh.Indices = append(mesh.Indices, idx)
	}

	return mesh
}

// ClusterOptions controls the procedural sphere cluster.
type ClusterOptions struct {
	// Spheres is the number of spheres on the ring around the center sphere.
	Spheres      int
	Subdivisions int
	Radius       float32
	// Spread is the distance of the ring spheres from the center.
	Spread float32
}

func DefaultClusterOptions() ClusterOptions {
	return ClusterOptions{
		Spheres:      8,
		Subdivisions: 2,
		Radius:       0.5,
		Spread:       1.5,
	}
}

// SphereCluster builds one sphere at the origin and a ring of spheres around
// it, alternating in height.
func SphereCluster(opts ClusterOptions) Mesh {
	unit := icosphere(opts.Subdivisions)

	soup := make([][3]float32, 0, len(unit)*(opts.Spheres+1))
	emit := func(center [3]float32, radius float32) {
		for _, p := range unit {
			soup = append(soup, [3]float32{
				center[0] + p[0]*radius,
				center[1] + p[1]*radius,
				center[2] + p[2]*radius,
			})
		}
	}

	emit([3]float32{}, opts.Radius)

	for k := range opts.Spheres {
		angle := 2 * math32.Pi * float32(k) / float32(opts.Spheres)
		sin, cos := math32.Sincos(angle)

		z := opts.Radius
		if k%2 == 1 {
			z = -z
		}

		emit([3]float32{cos * opts.Spread, sin * opts.Spread, z}, opts.Radius*0.6)
	}

	return Dedup(soup)
}

// icosphere returns the triangle soup of a unit sphere, wound counter
// clockwise seen from outside.
func icosphere(subdivisions int) [][3]float32 {
	t := (1 + math32.Sqrt(5)) / 2

	vertices := [][3]float32{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}

	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	triangles := make([][3][3]float32, 0, len(faces))
	for _, f := range faces {
		triangles = append(triangles, [3][3]float32{
			normalize(vertices[f[0]]),
			normalize(vertices[f[1]]),
			normalize(vertices[f[2]]),
		})
	}

	for range subdivisions {
		next := make([][3][3]float32, 0, len(triangles)*4)
		for _, tri := range triangles {
			a := normalize(midpoint(tri[0], tri[1]))
			b := normalize(midpoint(tri[1], tri[2]))
			c := normalize(midpoint(tri[2], tri[0]))

			next = append(next,
				[3][3]float32{tri[0], a, c},
				[3][3]float32{tri[1], b, a},
				[3][3]float32{tri[2], c, b},
				[3][3]float32{a, b, c},
			)
		}
		triangles = next
	}

	soup := make([][3]float32, 0, len(triangles)*3)
	for _, tri := range triangles {
		soup = append(soup, tri[0], tri[1], tri[2])
	}

	return soup
}

func midpoint(a, b [3]float32) [3]float32 {
	return [3]float32{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2}
}

func normalize(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
