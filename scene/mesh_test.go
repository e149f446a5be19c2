package scene

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestDedup(t *testing.T) {
	tests := []struct {
		name      string
		soup      [][3]float32
		positions int
		indices   []uint32
	}{
		{
			name:      "shared edge",
			soup:      [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			positions: 4,
			indices:   []uint32{0, 1, 2, 1, 3, 2},
		},
		{
			name:      "below quantization",
			soup:      [][3]float32{{0.5, 0, 0}, {0.5 + 1.0/16384, 0, 0}, {0.5 + 1.0/2048, 0, 0}},
			positions: 2,
			indices:   []uint32{0, 0, 1},
		},
		{
			name:      "truncates toward zero",
			soup:      [][3]float32{{-0.5 / 4096, 0, 0}, {0.5 / 4096, 0, 0}, {0, 0, 0}},
			positions: 1,
			indices:   []uint32{0, 0, 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mesh := Dedup(tc.soup)

			if len(mesh.Positions) != tc.positions {
				t.Errorf("got %d positions, want %d", len(mesh.Positions), tc.positions)
			}

			if len(mesh.Indices) != len(tc.indices) {
				t.Fatalf("got %d indices, want %d", len(mesh.Indices), len(tc.indices))
			}

			for idx := range tc.indices {
				if mesh.Indices[idx] != tc.indices[idx] {
					t.Errorf("Indices = %v, want %v", mesh.Indices, tc.indices)
					break
				}
			}
		})
	}
}

func TestIcosphere(t *testing.T) {
	for subdivisions := range 4 {
		mesh := Dedup(icosphere(subdivisions))

		pow := 1 << (2 * subdivisions)
		if want := 10*pow + 2; len(mesh.Positions) != want {
			t.Errorf("subdivisions %d: %d vertices, want %d", subdivisions, len(mesh.Positions), want)
		}

		if want := 20 * pow; mesh.TriangleCount() != want {
			t.Errorf("subdivisions %d: %d triangles, want %d", subdivisions, mesh.TriangleCount(), want)
		}

		for _, p := range mesh.Positions {
			if l := math32.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2]); math32.Abs(l-1) > 1e-5 {
				t.Fatalf("vertex %v not on the unit sphere", p)
			}
		}
	}
}

func TestIcosphereWinding(t *testing.T) {
	soup := icosphere(1)

	for idx := 0; idx < len(soup); idx += 3 {
		a, b, c := soup[idx], soup[idx+1], soup[idx+2]

		ab := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		ac := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		normal := [3]float32{
			ab[1]*ac[2] - ab[2]*ac[1],
			ab[2]*ac[0] - ab[0]*ac[2],
			ab[0]*ac[1] - ab[1]*ac[0],
		}

		// counter clockwise seen from outside means the normal points away from the center
		if dot := normal[0]*a[0] + normal[1]*a[1] + normal[2]*a[2]; dot <= 0 {
			t.Fatalf("triangle %d is wound clockwise", idx/3)
		}
	}
}

func TestSphereCluster(t *testing.T) {
	opts := DefaultClusterOptions()
	mesh := SphereCluster(opts)

	spheres := opts.Spheres + 1
	if want := 162 * spheres; len(mesh.Positions) != want {
		t.Errorf("%d vertices, want %d", len(mesh.Positions), want)
	}

	if want := 320 * spheres; mesh.TriangleCount() != want {
		t.Errorf("%d triangles, want %d", mesh.TriangleCount(), want)
	}

	for _, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Positions) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}
